package store

import (
	"context"
	"regexp"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{coll: db.Collection(CategoryCollection)}
}

func (s *CategoryStore) Insert(ctx context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, category)
	return err
}

func (s *CategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

// FindActiveByNameOrSlug matches an active category whose name equals name
// exactly or whose slug equals slug.
func (s *CategoryStore) FindActiveByNameOrSlug(ctx context.Context, name, slug string) (*models.Category, error) {
	or := bson.A{bson.M{"name": name}}
	if slug != "" {
		or = append(or, bson.M{"slug": slug})
	}
	return s.findOne(ctx, bson.M{"isActive": true, "$or": or})
}

func (s *CategoryStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) Find(ctx context.Context, filter models.CategoryFilter, pagination util.PaginationArgs) ([]models.Category, int64, error) {
	query := bson.M{}
	if !filter.IncludeInactive {
		query["isActive"] = true
	}
	if filter.ParentID != nil {
		query["parentCategory"] = *filter.ParentID
	}

	count, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(util.GetSortBson(pagination.Sort, categorySortFields, "name")).
		SetSkip(int64(pagination.Skip)).
		SetLimit(int64(pagination.Limit))
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

// FindAll returns every category sorted by name, for tree building.
func (s *CategoryStore) FindAll(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	query := bson.M{}
	if !includeInactive {
		query["isActive"] = true
	}
	cursor, err := s.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var categories []*models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Search matches names case-insensitively. The query is matched literally.
func (s *CategoryStore) Search(ctx context.Context, term string, limit int) ([]models.Category, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	cursor, err := s.coll.Find(ctx,
		bson.M{"isActive": true, "name": bson.M{"$regex": pattern}},
		options.Find().SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update applies set to the category and returns the stored result.
func (s *CategoryStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	set["updatedAt"] = time.Now()
	update := bson.M{"$set": set}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var category models.Category
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&category)
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *CategoryStore) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	var category models.Category
	if err := s.coll.FindOne(ctx, filter).Decode(&category); err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

var categorySortFields = map[string]string{
	"name":    "name",
	"created": "createdAt",
	"updated": "updatedAt",
}
