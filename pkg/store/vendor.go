package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VendorStore struct {
	coll *mongo.Collection
}

func NewVendorStore(db *mongo.Database) *VendorStore {
	return &VendorStore{coll: db.Collection(VendorCollection)}
}

func (s *VendorStore) Insert(ctx context.Context, vendor *models.Vendor) error {
	if vendor.ID.IsZero() {
		vendor.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, vendor)
	return err
}

func (s *VendorStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&vendor); err != nil {
		return nil, notFound(err)
	}
	return &vendor, nil
}

// FindByField looks a vendor up by a unique field, ignoring the vendor with id
// exclude (pass primitive.NilObjectID to ignore none).
func (s *VendorStore) FindByField(ctx context.Context, field, value string, exclude primitive.ObjectID) (*models.Vendor, error) {
	filter := bson.M{field: value}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}

	var vendor models.Vendor
	if err := s.coll.FindOne(ctx, filter).Decode(&vendor); err != nil {
		return nil, notFound(err)
	}
	return &vendor, nil
}

func (s *VendorStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *VendorStore) Find(ctx context.Context, filter models.VendorFilter, pagination util.PaginationArgs) ([]models.Vendor, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": pattern}},
			bson.M{"companyName": bson.M{"$regex": pattern}},
			bson.M{"vendorCode": bson.M{"$regex": pattern}},
			bson.M{"email": bson.M{"$regex": pattern}},
			bson.M{"industry": bson.M{"$regex": pattern}},
		}
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.BusinessType != "" {
		query["businessType"] = filter.BusinessType
	}
	if filter.Industry != "" {
		query["industry"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Industry), Options: "i"}}
	}
	if filter.Country != "" {
		query["address.country"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Country), Options: "i"}}
	}
	if filter.Verified != nil {
		query["verified"] = *filter.Verified
	}

	count, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(util.GetSortBson(pagination.Sort, vendorSortFields, "createdAt")).
		SetSkip(int64(pagination.Skip)).
		SetLimit(int64(pagination.Limit))
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	vendors := []models.Vendor{}
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, 0, err
	}
	return vendors, count, nil
}

func (s *VendorStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Vendor, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var vendor models.Vendor
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&vendor)
	if err != nil {
		return nil, notFound(err)
	}
	return &vendor, nil
}

// AppendCertificationFile pushes url onto the certification files of the
// draft at index.
func (s *VendorStore) AppendCertificationFile(ctx context.Context, id primitive.ObjectID, index int, url string) (*models.Vendor, error) {
	field := fmt.Sprintf("initialProducts.%d.certificationFiles", index)
	filter := bson.M{"_id": id, fmt.Sprintf("initialProducts.%d", index): bson.M{"$exists": true}}
	update := bson.M{
		"$push": bson.M{field: url},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var vendor models.Vendor
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&vendor); err != nil {
		return nil, notFound(err)
	}
	return &vendor, nil
}

// Stats aggregates status and verification counts over all vendors.
func (s *VendorStore) Stats(ctx context.Context) (*models.VendorStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"totalVendors":    bson.M{"$sum": 1},
			"activeVendors":   bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", "active"}}, 1, 0}}},
			"pendingVendors":  bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", "pending"}}, 1, 0}}},
			"verifiedVendors": bson.M{"$sum": bson.M{"$cond": bson.A{"$verified", 1, 0}}},
			"avgRating":       bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var stats []models.VendorStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return &models.VendorStats{}, nil
	}
	return &stats[0], nil
}

var vendorSortFields = map[string]string{
	"name":    "name",
	"code":    "vendorCode",
	"rating":  "rating",
	"created": "createdAt",
}
