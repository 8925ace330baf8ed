package services

import (
	"context"
	"strings"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	recentProductsLimit = 5

	msgUserEmailExists = "User with this email already exists"
	msgInvalidRole     = "Role must be admin or content_editor"
)

type adminService struct {
	users     UserRepository
	products  ProductRepository
	vendors   VendorRepository
	inquiries InquiryRepository
}

func NewAdminService(users UserRepository, products ProductRepository, vendors VendorRepository, inquiries InquiryRepository) AdminService {
	return &adminService{users: users, products: products, vendors: vendors, inquiries: inquiries}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	recent, totalProducts, err := s.products.Find(ctx, models.ProductFilter{}, util.PaginationArgs{
		Sort:  "created_desc",
		Limit: recentProductsLimit,
	})
	if err != nil {
		return nil, InfrastructureError(err, "load product stats")
	}
	admins, err := s.users.CountByRoles(ctx, models.StaffRoles)
	if err != nil {
		return nil, InfrastructureError(err, "count admin users")
	}
	vendors, err := s.vendors.Count(ctx)
	if err != nil {
		return nil, InfrastructureError(err, "count vendors")
	}
	pending, err := s.inquiries.Count(ctx, models.InquiryFilter{Status: models.InquiryPending})
	if err != nil {
		return nil, InfrastructureError(err, "count inquiries")
	}

	return &models.DashboardStats{
		TotalProducts:    totalProducts,
		TotalAdmins:      admins,
		TotalVendors:     vendors,
		PendingInquiries: pending,
		RecentProducts:   recent,
	}, nil
}

func (s *adminService) GetUsers(ctx context.Context, pagination util.PaginationArgs) ([]models.User, int64, error) {
	users, count, err := s.users.FindByRoles(ctx, models.StaffRoles, pagination)
	if err != nil {
		return nil, 0, InfrastructureError(err, "list admin users")
	}
	return users, count, nil
}

func (s *adminService) CreateUser(ctx context.Context, req models.AdminUserRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ValidationError("Name is required")
	}
	if !req.Role.Assignable() {
		return nil, ValidationError(msgInvalidRole)
	}

	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, primitive.NilObjectID); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      req.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, storeError(err, "create user", msgUserEmailExists)
	}

	util.LogInfo("admin user created", zap.String("userId", user.ID.Hex()), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id primitive.ObjectID, req models.AdminUserUpdateRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	existing, err := s.mutableUser(ctx, id, "Cannot modify a super admin")
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ValidationError("Name cannot be empty")
		}
		set["name"] = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != existing.Email {
			if err := s.ensureEmailFree(ctx, email, id); err != nil {
				return nil, err
			}
			set["email"] = email
		}
	}
	if req.Role != nil {
		if !req.Role.Assignable() {
			return nil, ValidationError(msgInvalidRole)
		}
		set["role"] = *req.Role
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if len(set) == 0 {
		return existing, nil
	}

	updated, err := s.users.Update(ctx, id, set)
	if err != nil {
		if store.IsDuplicateKey(err) {
			return nil, ConflictError(msgUserEmailExists)
		}
		return nil, userLookupError(err)
	}
	return updated, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.mutableUser(ctx, id, "Cannot delete a super admin"); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return userLookupError(err)
	}
	util.LogInfo("admin user deleted", zap.String("userId", id.Hex()))
	return nil
}

func (s *adminService) ResetPassword(ctx context.Context, id primitive.ObjectID, req models.PasswordResetRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	if _, err := s.mutableUser(ctx, id, "Cannot reset the password of a super admin"); err != nil {
		return err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, id, bson.M{"password": hash}); err != nil {
		return userLookupError(err)
	}
	return nil
}

// mutableUser loads the user with id, refusing super admins with forbidden.
func (s *adminService) mutableUser(ctx context.Context, id primitive.ObjectID, forbidden string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	if user.Role == models.RoleSuperAdmin {
		return nil, ForbiddenError("%s", forbidden)
	}
	return user, nil
}

func (s *adminService) ensureEmailFree(ctx context.Context, email string, self primitive.ObjectID) error {
	other, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return InfrastructureError(err, "look up user")
	case other.ID != self:
		return ConflictError(msgUserEmailExists)
	}
	return nil
}
