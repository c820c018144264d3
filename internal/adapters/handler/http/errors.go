package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

// PersistenceWarningHeader is set when a mutation was applied in memory but
// could not be written to the snapshot.
const PersistenceWarningHeader = "X-Persistence-Warning"

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// softFail reports whether err is only a failed snapshot write, in which case
// the warning header is set and the caller should answer as if it succeeded.
func softFail(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, domain.ErrPersistence) {
		c.Header(PersistenceWarningHeader, "changes were applied but could not be saved")
		return true
	}
	return false
}
