package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleSuperAdmin    UserRole = "super_admin"
	RoleAdmin         UserRole = "admin"
	RoleContentEditor UserRole = "content_editor"
	RoleVendor        UserRole = "vendor"
	RoleUser          UserRole = "user"
)

// StaffRoles are the roles listed and counted as admin users.
var StaffRoles = []UserRole{RoleSuperAdmin, RoleAdmin, RoleContentEditor}

// Assignable reports whether the role can be given through user management.
// Super admins are only created by seeding.
func (r UserRole) Assignable() bool {
	return r == RoleAdmin || r == RoleContentEditor
}

type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      UserRole           `bson:"role" json:"role"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminUserRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     UserRole `json:"role" validate:"required"`
}

// AdminUserUpdateRequest is a partial update. Nil fields are left alone.
type AdminUserUpdateRequest struct {
	Name     *string   `json:"name"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Role     *UserRole `json:"role"`
	IsActive *bool     `json:"isActive"`
}

type PasswordResetRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type DashboardStats struct {
	TotalProducts    int64     `json:"totalProducts"`
	TotalAdmins      int64     `json:"totalAdmins"`
	TotalVendors     int64     `json:"totalVendors"`
	PendingInquiries int64     `json:"pendingInquiries"`
	RecentProducts   []Product `json:"recentProducts"`
}
