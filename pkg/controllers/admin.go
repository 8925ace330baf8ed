package controllers

import (
	"net/http"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/helpers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminService services.AdminService
}

func InitAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// GetDashboardStats handles GET /v1/admin/dashboard/stats
func (ac *AdminController) GetDashboardStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		stats, err := ac.adminService.GetDashboardStats(ctx)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", stats)
	}
}

// GetUsers handles GET /v1/admin/users
func (ac *AdminController) GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		pagination := helpers.GetPaginationArgs(c)
		users, count, err := ac.adminService.GetUsers(ctx, pagination)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, users, count, pagination, "success")
	}
}

// CreateUser handles POST /v1/admin/users
func (ac *AdminController) CreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.AdminUserRequest
		if !BindJSON(c, &req) {
			return
		}

		user, err := ac.adminService.CreateUser(ctx, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "User created successfully", user)
	}
}

// UpdateUser handles PUT /v1/admin/users/:id
func (ac *AdminController) UpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req models.AdminUserUpdateRequest
		if !BindJSON(c, &req) {
			return
		}

		user, err := ac.adminService.UpdateUser(ctx, id, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "User updated successfully", user)
	}
}

// DeleteUser handles DELETE /v1/admin/users/:id
func (ac *AdminController) DeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := ac.adminService.DeleteUser(ctx, id); err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "User deleted successfully", nil)
	}
}

// ResetPassword handles POST /v1/admin/users/:id/reset-password
func (ac *AdminController) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req models.PasswordResetRequest
		if !BindJSON(c, &req) {
			return
		}

		if err := ac.adminService.ResetPassword(ctx, id, req); err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Password reset successfully", nil)
	}
}
