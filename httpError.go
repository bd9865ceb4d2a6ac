package main

import (
	"errors"
	"net/http"

	"bitbucket.org/akitdaekm/membership_backend/models"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/gin-gonic/gin"
)

// respondError maps workflow errors to HTTP statuses. Anything unrecognized is
// a 500 with a generic body; the real error goes to the log, not the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrUnauthenticated), errors.Is(err, utils.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrDuplicateMember):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrInsufficientApprovals), utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondBindError turns a request-binding failure into a 400, surfacing
// per-field messages when the validator produced them.
func respondBindError(c *gin.Context, err error, fallback string) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fallback, "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": fallback})
}

// adminIdFromSession returns the authenticated admin id or fails the request.
func adminIdFromSession(c *gin.Context) (string, bool) {
	id, ok := utils.GetAdminIdFromContext(c.Request.Context())
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return id, true
}

func memberIdFromSession(c *gin.Context) (string, bool) {
	id, ok := utils.GetMemberIdFromContext(c.Request.Context())
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return id, true
}

// requireRole additionally pins the session to specific roles. SUPER_ADMIN
// passes every check.
func requireRole(c *gin.Context, roles ...models.AdminRole) bool {
	if _, ok := adminIdFromSession(c); !ok {
		return false
	}
	roleStr, _ := utils.GetAdminRoleFromContext(c.Request.Context())
	role := models.AdminRole(roleStr)
	if role == models.AdminRoleSuperAdmin {
		return true
	}
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	return false
}
