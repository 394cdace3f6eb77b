package middleware

import (
	"net/http"
	"time"

	"casaceja/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CodigoErrorInterno is the code of every 500 envelope.
const CodigoErrorInterno = "error_interno"

func errorInterno() *apierror.APIError {
	return apierror.WithCode(CodigoErrorInterno, "Error interno del servidor")
}

// ErrorHandler answers the errors handlers attach with c.Error and did not
// translate themselves. The cause is logged with the request id; the client
// only sees the generic envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		ev := log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Err(c.Errors.Last().Err)
		if len(c.Errors) > 1 {
			ev = ev.Strs("errores", c.Errors.Errors())
		}
		ev.Msg("error no traducido")

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorInterno())
	}
}

// Recovery turns a panic into the generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("panic recuperado")
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorInterno())
			}
		}()
		c.Next()
	}
}

// Logger writes one line per request. 5xx are logged at error level and 4xx
// at warn, so a rejected sale shows up without turning on debug.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zerolog.WarnLevel
		}
		log.WithLevel(level).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
