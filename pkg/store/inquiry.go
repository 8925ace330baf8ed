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

type InquiryStore struct {
	coll *mongo.Collection
}

func NewInquiryStore(db *mongo.Database) *InquiryStore {
	return &InquiryStore{coll: db.Collection(InquiryCollection)}
}

func (s *InquiryStore) Insert(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry.ID.IsZero() {
		inquiry.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, inquiry)
	return err
}

func (s *InquiryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inquiry); err != nil {
		return nil, notFound(err)
	}
	return &inquiry, nil
}

func inquiryQuery(filter models.InquiryFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ProductID != nil {
		query["product"] = *filter.ProductID
	}
	return query
}

// Find lists inquiries newest first unless pagination names another sort.
func (s *InquiryStore) Find(ctx context.Context, filter models.InquiryFilter, pagination util.PaginationArgs) ([]models.Inquiry, int64, error) {
	query := inquiryQuery(filter)

	count, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(util.GetSortBson(pagination.Sort, inquirySortFields, "createdAt")).
		SetSkip(int64(pagination.Skip)).
		SetLimit(int64(pagination.Limit))
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, 0, err
	}
	return inquiries, count, nil
}

func (s *InquiryStore) Count(ctx context.Context, filter models.InquiryFilter) (int64, error) {
	return s.coll.CountDocuments(ctx, inquiryQuery(filter))
}

func (s *InquiryStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Inquiry, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inquiry models.Inquiry
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&inquiry)
	if err != nil {
		return nil, notFound(err)
	}
	return &inquiry, nil
}

func (s *InquiryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleted(s.coll.DeleteOne(ctx, bson.M{"_id": id}))
}

var inquirySortFields = map[string]string{
	"created": "createdAt",
	"status":  "status",
	"name":    "name",
}
