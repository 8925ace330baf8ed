package indexer

import (
	"context"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewCatalogManager returns a manager loaded with the catalog indexes.
func NewCatalogManager(db *mongo.Database, opts ...*Options) *Manager {
	return NewManager(db, opts...).LoadFromDefinitions(CatalogIndexes())
}

// CatalogIndexes backs the uniqueness rules the services rely on and the
// list filters the API exposes.
func CatalogIndexes() []IndexDefinition {
	m := NewManager(nil)

	m.AddUniqueIndex(store.CategoryCollection, "slug").
		AddUniqueIndex(store.CategoryCollection, "name").
		AddCompoundIndex(store.CategoryCollection, []string{"parentCategory", "isActive"},
			options.Index().SetName("categories_parent_active"))

	m.AddCompoundIndex(store.ProductCollection, []string{"category", "isActive"},
		options.Index().SetName("products_category_active")).
		AddIndex(store.ProductCollection, mongo.IndexModel{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "shortDescription", Value: "text"},
			},
			Options: options.Index().SetName(store.ProductCollection + "_text_search"),
		})

	m.AddUniqueIndex(store.VendorCollection, "vendorCode").
		AddUniqueIndex(store.VendorCollection, "email").
		AddCompoundIndex(store.VendorCollection, []string{"status"}, options.Index().SetName("vendors_status")).
		AddCompoundIndex(store.VendorCollection, []string{"businessType"}, options.Index().SetName("vendors_business_type")).
		AddCompoundIndex(store.VendorCollection, []string{"industry"}, options.Index().SetName("vendors_industry")).
		AddCompoundIndex(store.VendorCollection, []string{"address.country"}, options.Index().SetName("vendors_country"))

	m.AddUniqueIndex(store.UserCollection, "email").
		AddCompoundIndex(store.UserCollection, []string{"role"}, options.Index().SetName("users_role"))

	m.AddIndex(store.InquiryCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "product", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("inquiries_product_created"),
	}).
		AddIndex(store.InquiryCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("inquiries_status_created"),
		}).
		AddCompoundIndex(store.InquiryCollection, []string{"email"}, options.Index().SetName("inquiries_email"))

	return m.Definitions()
}

// CatalogMigrations replace indexes whose shape changed after data existed.
func CatalogMigrations() []Migration {
	return []Migration{
		{
			Version:     "20240601_001",
			Description: "index product price history by date for the price history view",
			Up: func(ctx context.Context, db *mongo.Database) error {
				_, err := db.Collection(store.ProductCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
					Keys:    bson.D{{Key: "_id", Value: 1}, {Key: "priceHistory.date", Value: -1}},
					Options: options.Index().SetName("products_price_history_date"),
				})
				return err
			},
			Down: func(ctx context.Context, db *mongo.Database) error {
				_, err := db.Collection(store.ProductCollection).Indexes().DropOne(ctx, "products_price_history_date")
				return err
			},
		},
	}
}
