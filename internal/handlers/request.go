package handlers

import (
	"errors"
	"io"
	"strconv"

	"catalog-api/internal/apperr"

	"github.com/gin-gonic/gin"
)

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id inválido: " + c.Param("id"))
	}
	return id, nil
}

// bindFields decodes the JSON body into dst. An empty body leaves dst zero,
// so the repository reports every required field as missing.
func bindFields(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &apperr.Error{Kind: apperr.KindValidation, Message: "Corpo da requisição inválido", Err: err}
	}
	return nil
}
