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

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(UserCollection)}
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, user)
	return err
}

// FindByRoles lists users holding any of roles. Password hashes are not read.
func (s *UserStore) FindByRoles(ctx context.Context, roles []models.UserRole, pagination util.PaginationArgs) ([]models.User, int64, error) {
	query := bson.M{"role": bson.M{"$in": roles}}

	count, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(util.GetSortBson(pagination.Sort, userSortFields, "createdAt")).
		SetSkip(int64(pagination.Skip)).
		SetLimit(int64(pagination.Limit))
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, count, nil
}

func (s *UserStore) CountByRoles(ctx context.Context, roles []models.UserRole) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"role": bson.M{"$in": roles}})
}

func (s *UserStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	set["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleted(s.coll.DeleteOne(ctx, bson.M{"_id": id}))
}

var userSortFields = map[string]string{
	"name":    "name",
	"email":   "email",
	"role":    "role",
	"created": "createdAt",
}
