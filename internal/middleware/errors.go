package middleware

import (
	"errors"
	"net/http"

	"catalog-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Error   any    `json:"error"`
}

// errorDetail is the raw failure shown outside production.
type errorDetail struct {
	Kind   apperr.Kind `json:"kind"`
	Detail string      `json:"detail"`
	Fields []string    `json:"fields,omitempty"`
}

// Translate maps a handler failure to its status code and body. Detail is
// suppressed when production is set.
func Translate(err error, production bool) (int, ErrorBody) {
	status := http.StatusInternalServerError
	message := "Erro interno do servidor"
	var fields []string

	var ae *apperr.Error
	if errors.As(err, &ae) {
		message = ae.Message
		fields = ae.Fields
		switch ae.Kind {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindNotFound:
			status = http.StatusNotFound
		}
	}

	body := ErrorBody{Message: message, Error: struct{}{}}
	if !production {
		body.Error = errorDetail{Kind: apperr.KindOf(err), Detail: err.Error(), Fields: fields}
	}
	return status, body
}

// ErrorHandler renders the last error attached with c.Error, unless the
// handler already wrote a response.
func ErrorHandler(production bool, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := Translate(err, production)

		ev := logger.Warn()
		if status >= http.StatusInternalServerError {
			ev = logger.Error()
		}
		ev.Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("kind", string(apperr.KindOf(err))).
			Msg("request failed")

		c.AbortWithStatusJSON(status, body)
	}
}

// NoRoute answers unmatched paths with 404.
func NoRoute(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := ErrorBody{Message: "Rota não encontrada", Error: struct{}{}}
		if !production {
			body.Error = errorDetail{Kind: "route_not_found", Detail: c.Request.Method + " " + c.Request.URL.Path}
		}
		c.JSON(http.StatusNotFound, body)
	}
}

// NoMethod answers known paths requested with an unsupported verb.
func NoMethod(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := ErrorBody{Message: "Método não permitido", Error: struct{}{}}
		if !production {
			body.Error = errorDetail{Kind: "method_not_allowed", Detail: c.Request.Method + " " + c.Request.URL.Path}
		}
		c.JSON(http.StatusMethodNotAllowed, body)
	}
}
