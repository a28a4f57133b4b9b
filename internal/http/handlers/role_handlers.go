package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Roniclay/agrovet-api/domain"
	"github.com/Roniclay/agrovet-api/internal/http/middleware"
)

// RoleHandlers handles tenant role administration requests
type RoleHandlers struct {
	roleSvc domain.RoleService
}

// NewRoleHandlers creates new role handlers
func NewRoleHandlers(roleSvc domain.RoleService) *RoleHandlers {
	return &RoleHandlers{roleSvc: roleSvc}
}

// CreateRoleRequest represents role creation input
type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permissionIds"`
}

// UpdateRoleRequest represents role update input. Omitted fields keep the
// current value; an empty permissionIds list clears the links.
type UpdateRoleRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	PermissionIDs []string `json:"permissionIds"`
}

// List returns the tenant's roles plus visible system roles
func (h *RoleHandlers) List(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	roles, err := h.roleSvc.ListForTenant(c.Request.Context(), claims.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": roles})
}

// Create creates a tenant role
func (h *RoleHandlers) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := middleware.ClaimsFromContext(c)
	role, err := h.roleSvc.Create(c.Request.Context(), claims.TenantID, req.Name, req.Description, req.PermissionIDs)
	if err != nil {
		status, message := roleErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": role})
}

// Update modifies a tenant role
func (h *RoleHandlers) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := middleware.ClaimsFromContext(c)
	role, err := h.roleSvc.Update(c.Request.Context(), claims.TenantID, c.Param("id"), req.Name, req.Description, req.PermissionIDs)
	if err != nil {
		status, message := roleErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": role})
}

// Delete removes a tenant role
func (h *RoleHandlers) Delete(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if err := h.roleSvc.Delete(c.Request.Context(), claims.TenantID, c.Param("id")); err != nil {
		status, message := roleErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

func roleErrorResponse(err error) (int, string) {
	switch err {
	case domain.ErrRoleNotFound:
		return http.StatusNotFound, "Role not found"
	case domain.ErrRoleNameTaken:
		return http.StatusBadRequest, "A role with this name already exists for this tenant or as a system role"
	case domain.ErrSystemRoleImmutable:
		return http.StatusForbidden, "System roles cannot be modified"
	case domain.ErrRoleWrongTenant:
		return http.StatusForbidden, "Role does not belong to this tenant"
	case domain.ErrPermissionNotFound:
		return http.StatusBadRequest, "One or more permissions are invalid"
	default:
		return http.StatusInternalServerError, "Role operation failed"
	}
}
