package handlers

import (
	"errors"
	"net/http"

	"ecoharvest-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Every response carries the {success, message?, data?} envelope.

func ok(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// handleError maps store errors onto the HTTP taxonomy. Anything unexpected
// is logged and surfaced as a generic 500 so internals never leak.
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		fail(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, store.ErrForbidden):
		fail(c, http.StatusForbidden, "You do not have permission to access this resource")
	default:
		logger.Error("internal error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// callerID reads the user id stored by the auth middleware.
func callerID(c *gin.Context) string {
	id, _ := c.Get("userID")
	s, _ := id.(string)
	return s
}

func callerIsAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "admin"
}
