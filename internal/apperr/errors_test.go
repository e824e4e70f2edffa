package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := NotFound("Produto", 7)
	wrapped := fmt.Errorf("handler: %w", base)

	require.Equal(t, KindNotFound, KindOf(wrapped))
	require.True(t, Is(wrapped, KindNotFound))
	require.False(t, Is(wrapped, KindValidation))
}

func TestKindOf_PlainError(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
	require.False(t, Is(nil, KindInternal))
}

func TestConnection_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Connection(cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "dial tcp: refused")
}

func TestMissingFields(t *testing.T) {
	err := MissingFields("nome", "preco")

	require.Equal(t, KindValidation, err.Kind)
	require.Equal(t, []string{"nome", "preco"}, err.Fields)
	require.Equal(t, "Campos obrigatórios ausentes: nome, preco", err.Error())
}
