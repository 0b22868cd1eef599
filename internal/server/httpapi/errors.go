package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/gin-gonic/gin"
)

// writeServiceError maps service sentinels to status codes. Anything
// unrecognised is logged and reported as a bare 500.
func (s *Server) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Username already exists"})
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrInvalidVote):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid credentials"})
	case errors.Is(err, common.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
	case errors.Is(err, common.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Audiobook not found"})
	default:
		s.logger.Error(c.Request.Context(), "request failed",
			"request_id", c.GetString(ctxRequestID),
			"path", c.Request.URL.Path,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
	}
}
