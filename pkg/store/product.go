package store

import (
	"context"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(ProductCollection)}
}

func (s *ProductStore) Insert(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, product)
	return err
}

// FindByID returns the product regardless of isActive when activeOnly is false.
func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*models.Product, error) {
	filter := bson.M{"_id": id}
	if activeOnly {
		filter["isActive"] = true
	}

	var product models.Product
	if err := s.coll.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (s *ProductStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1})
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) Find(ctx context.Context, filter models.ProductFilter, pagination util.PaginationArgs) ([]models.Product, int64, error) {
	query := bson.M{}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	if filter.CategoryID != nil {
		query["category"] = *filter.CategoryID
	}
	if filter.Search != "" {
		query["$text"] = bson.M{"$search": filter.Search}
	}

	count, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(util.GetSortBson(pagination.Sort, productSortFields, "createdAt")).
		SetSkip(int64(pagination.Skip)).
		SetLimit(int64(pagination.Limit))
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// Update sets fields and, when entry is non-nil, appends it to priceHistory in
// the same write.
func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M, entry *models.PriceEntry) (*models.Product, error) {
	set["updatedAt"] = time.Now()
	update := bson.M{"$set": set}
	if entry != nil {
		update["$push"] = bson.M{"priceHistory": entry}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&product)
	if err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

var productSortFields = map[string]string{
	"name":    "name",
	"created": "createdAt",
	"price":   "currentPrice",
}
