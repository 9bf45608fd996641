package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authUC "github.com/melevanoronha/admin-console/internal/application/usecase/auth"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

const LoginRoute = "/console/login"

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			body := appErr.ToJSON()
			if appErr.Kind == apperror.KindUnauthorized {
				body["redirect"] = LoginRoute
			}
			c.JSON(apperror.ToHTTPStatus(err), body)
			return
		}

		log.Error("Unhandled error", err, zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal server error"})
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request served",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// RequireSession rejects console calls without a session and refreshes the
// access token shortly before it expires.
func RequireSession(session *authUC.Session, refresh *authUC.RefreshUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    string(apperror.KindUnauthorized),
				"message":  "sign in to continue",
				"redirect": LoginRoute,
			})
			return
		}
		if refresh != nil {
			refresh.EnsureFresh(c.Request.Context())
		}
		c.Next()
	}
}
