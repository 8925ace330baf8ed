package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errDuplicate = mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}

// applySet mimics a top-level $set by round-tripping doc through bson.
func applySet[T any](doc *T, set bson.M) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range set {
		m[k] = v
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		return err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return err
	}
	*doc = out
	return nil
}

type fakeCategoryRepo struct {
	mu    sync.Mutex
	items []*models.Category
	err   error
}

func (r *fakeCategoryRepo) add(c models.Category) *models.Category {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Slug == "" {
		c.Slug = util.Slugify(c.Name)
	}
	r.items = append(r.items, &c)
	return &c
}

func (r *fakeCategoryRepo) Insert(ctx context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, c := range r.items {
		if c.Slug == category.Slug || c.Name == category.Name {
			return errDuplicate
		}
	}
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	stored := *category
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeCategoryRepo) find(match func(*models.Category) bool) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.items {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return r.find(func(c *models.Category) bool { return c.ID == id })
}

func (r *fakeCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.find(func(c *models.Category) bool { return c.Slug == slug })
}

func (r *fakeCategoryRepo) FindActiveByNameOrSlug(ctx context.Context, name, slug string) (*models.Category, error) {
	return r.find(func(c *models.Category) bool {
		return c.IsActive && (c.Name == name || (slug != "" && c.Slug == slug))
	})
}

func (r *fakeCategoryRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Category
	for _, c := range r.items {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, *c)
			}
		}
	}
	return out, r.err
}

func (r *fakeCategoryRepo) Find(ctx context.Context, filter models.CategoryFilter, pagination util.PaginationArgs) ([]models.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.items {
		if !filter.IncludeInactive && !c.IsActive {
			continue
		}
		if filter.ParentID != nil && (c.ParentCategory == nil || *c.ParentCategory != *filter.ParentID) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), r.err
}

func (r *fakeCategoryRepo) FindAll(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Category
	for _, c := range r.items {
		if includeInactive || c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, r.err
}

func (r *fakeCategoryRepo) Search(ctx context.Context, term string, limit int) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Category{}
	for _, c := range r.items {
		if c.IsActive && strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) {
			out = append(out, *c)
		}
	}
	return out, r.err
}

func (r *fakeCategoryRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.items {
		if c.ID == id {
			if err := applySet(c, set); err != nil {
				return nil, err
			}
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeCategoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakeProductRepo struct {
	mu    sync.Mutex
	items []*models.Product
	err   error
	// failOnInsert makes the n-th Insert call (1-based) return err.
	failOnInsert int
	inserts      int
}

func (r *fakeProductRepo) Insert(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.err != nil && (r.failOnInsert == 0 || r.failOnInsert == r.inserts) {
		return r.err
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	stored := *product
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID == id && (!activeOnly || p.IsActive) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeProductRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.items {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Find(ctx context.Context, filter models.ProductFilter, pagination util.PaginationArgs) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Product{}
	for _, p := range r.items {
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M, entry *models.PriceEntry) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID != id {
			continue
		}
		if err := applySet(p, set); err != nil {
			return nil, err
		}
		if entry != nil {
			p.PriceHistory = append(p.PriceHistory, *entry)
		}
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (r *fakeProductRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakeVendorRepo struct {
	mu    sync.Mutex
	items []*models.Vendor
	err   error
}

func (r *fakeVendorRepo) Insert(ctx context.Context, vendor *models.Vendor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, v := range r.items {
		if v.VendorCode == vendor.VendorCode || v.Email == vendor.Email {
			return errDuplicate
		}
	}
	if vendor.ID.IsZero() {
		vendor.ID = primitive.NewObjectID()
	}
	stored := *vendor
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeVendorRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.items {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeVendorRepo) FindByField(ctx context.Context, field, value string, exclude primitive.ObjectID) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, v := range r.items {
		if v.ID == exclude {
			continue
		}
		if (field == "vendorCode" && v.VendorCode == value) || (field == "email" && v.Email == value) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeVendorRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), r.err
}

func (r *fakeVendorRepo) Find(ctx context.Context, filter models.VendorFilter, pagination util.PaginationArgs) ([]models.Vendor, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Vendor{}
	for _, v := range r.items {
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVendorRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.items {
		if v.ID == id {
			if err := applySet(v, set); err != nil {
				return nil, err
			}
			cp := *v
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeVendorRepo) AppendCertificationFile(ctx context.Context, id primitive.ObjectID, index int, url string) (*models.Vendor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.items {
		if v.ID == id && index < len(v.InitialProducts) {
			v.InitialProducts[index].CertificationFiles = append(v.InitialProducts[index].CertificationFiles, url)
			cp := *v
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeVendorRepo) Stats(ctx context.Context) (*models.VendorStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.VendorStats{TotalVendors: int64(len(r.items))}
	for _, v := range r.items {
		if v.Status == models.VendorStatusActive {
			stats.ActiveVendors++
		}
	}
	return stats, nil
}

type fakeUserRepo struct {
	users []*models.User
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeUserRepo) Insert(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return errDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, user)
	return nil
}

func hasRole(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (r *fakeUserRepo) FindByRoles(ctx context.Context, roles []models.UserRole, pagination util.PaginationArgs) ([]models.User, int64, error) {
	out := []models.User{}
	for _, u := range r.users {
		if hasRole(roles, u.Role) {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountByRoles(ctx context.Context, roles []models.UserRole) (int64, error) {
	var n int64
	for _, u := range r.users {
		if hasRole(roles, u.Role) {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			if err := applySet(u, set); err != nil {
				return nil, err
			}
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeInquiryRepo struct {
	items []*models.Inquiry
	err   error
}

func (r *fakeInquiryRepo) Insert(ctx context.Context, inquiry *models.Inquiry) error {
	if r.err != nil {
		return r.err
	}
	if inquiry.ID.IsZero() {
		inquiry.ID = primitive.NewObjectID()
	}
	stored := *inquiry
	r.items = append(r.items, &stored)
	return nil
}

func (r *fakeInquiryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	for _, q := range r.items {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeInquiryRepo) matching(filter models.InquiryFilter) []models.Inquiry {
	out := []models.Inquiry{}
	for _, q := range r.items {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.ProductID != nil && q.ProductID != *filter.ProductID {
			continue
		}
		out = append(out, *q)
	}
	return out
}

func (r *fakeInquiryRepo) Find(ctx context.Context, filter models.InquiryFilter, pagination util.PaginationArgs) ([]models.Inquiry, int64, error) {
	if r.err != nil {
		return nil, 0, r.err
	}
	out := r.matching(filter)
	return out, int64(len(out)), nil
}

func (r *fakeInquiryRepo) Count(ctx context.Context, filter models.InquiryFilter) (int64, error) {
	return int64(len(r.matching(filter))), r.err
}

func (r *fakeInquiryRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Inquiry, error) {
	for _, q := range r.items {
		if q.ID == id {
			if err := applySet(q, set); err != nil {
				return nil, err
			}
			cp := *q
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *fakeInquiryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, q := range r.items {
		if q.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeTreeCache struct {
	tree        []*models.Category
	invalidated int
	// liveInvalidations counts Invalidate calls made with a usable context.
	liveInvalidations int
}

func (c *fakeTreeCache) Get(ctx context.Context) ([]*models.Category, bool) {
	return c.tree, c.tree != nil
}

func (c *fakeTreeCache) Set(ctx context.Context, tree []*models.Category) {
	c.tree = tree
}

func (c *fakeTreeCache) Invalidate(ctx context.Context) {
	c.tree = nil
	c.invalidated++
	if ctx.Err() == nil {
		c.liveInvalidations++
	}
}

type fakeUploader struct {
	uploads []string
}

func (u *fakeUploader) Upload(ctx context.Context, file any, subfolder string) (string, error) {
	url := "https://res.cloudinary.test/" + subfolder + "/file.pdf"
	u.uploads = append(u.uploads, url)
	return url, nil
}
