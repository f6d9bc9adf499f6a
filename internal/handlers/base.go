package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gupranay/recruitment-v11-sub000/internal/middleware"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"
	"github.com/gupranay/recruitment-v11-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// requireUser returns the logged-in user or writes a 401. Handlers behind
// AuthRequired still call this to get the concrete user.
func requireUser(c *gin.Context) (*models.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	return user, true
}

// respondServiceError maps the service error taxonomy to HTTP. Anything
// outside the taxonomy is a 500 with a generic body and a server-side log.
func respondServiceError(c *gin.Context, err error) {
	var delErr *services.RoundDeleteError
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrSessionLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "session is locked"})
	case errors.Is(err, services.ErrInvalidVoteValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vote value"})
	case errors.Is(err, services.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
	case errors.Is(err, services.ErrRoundMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "applicant round does not belong to this session's round"})
	case errors.As(err, &delErr):
		c.JSON(http.StatusConflict, gin.H{"error": "round has applicants", "code": delErr.Code})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
