// Package respond holds the helpers every API package uses to read the
// caller identity and to turn domain errors into JSON replies.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"web3builder/internal/domain/access"
	"web3builder/internal/domain/website"
)

// UserID returns the authenticated user id set by the auth middleware, or
// replies 401.
func UserID(c *gin.Context) (string, bool) {
	uid := c.GetString("user_id")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return uid, true
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, website.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, website.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, website.ErrSubdomainTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, access.ErrUpgradeRequired):
		return http.StatusForbidden
	case errors.Is(err, website.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error logs err and replies with msg and the status mapped from err. Client
// errors carry the error text as details.
func Error(c *gin.Context, err error, msg string) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, "error", err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": msg})
		return
	}
	slog.Debug(msg, "error", err, "path", c.FullPath())
	c.JSON(status, gin.H{"error": msg, "details": err.Error()})
}
