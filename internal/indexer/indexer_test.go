package indexer

import (
	"context"
	"testing"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCatalogIndexes(t *testing.T) {
	defs := CatalogIndexes()

	names := map[string]IndexDefinition{}
	for _, d := range defs {
		if d.Name() == "" {
			t.Errorf("index on %s has no name", d.Collection)
		}
		if _, dup := names[d.Name()]; dup {
			t.Errorf("duplicate index name %s", d.Name())
		}
		names[d.Name()] = d
	}

	for _, name := range []string{
		"categories_slug_unique",
		"categories_name_unique",
		"vendors_vendorCode_unique",
		"vendors_email_unique",
		"users_email_unique",
	} {
		d, ok := names[name]
		if !ok {
			t.Errorf("missing index %s", name)
			continue
		}
		if d.Index.Options.Unique == nil || !*d.Index.Options.Unique {
			t.Errorf("index %s is not unique", name)
		}
	}

	if d, ok := names["products_category_active"]; !ok || d.Collection != store.ProductCollection {
		t.Errorf("products_category_active = %+v", d)
	}
	for _, name := range []string{"inquiries_product_created", "inquiries_status_created", "inquiries_email"} {
		if d, ok := names[name]; !ok || d.Collection != store.InquiryCollection {
			t.Errorf("%s = %+v", name, d)
		}
	}
}

func TestCreateCountsSuccessAndFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("continue on error", func(mt *mtest.T) {
		m := NewManager(mt.DB, &Options{Timeout: DefaultOptions().Timeout, ContinueOnError: true})
		m.AddUniqueIndex("categories", "slug").AddUniqueIndex("categories", "name")

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "E11000 duplicate key error"}),
		)

		result, err := m.Create(context.Background())
		if err == nil {
			t.Fatal("Create() error = nil, want failure count error")
		}
		if result.SuccessCount != 1 || result.FailedCount != 1 || result.Failures[0].IndexName != "categories_name_unique" {
			t.Errorf("result = %+v", result)
		}
	})

	mt.Run("skip existing", func(mt *mtest.T) {
		m := NewManager(mt.DB, DefaultOptions())
		m.AddUniqueIndex("vendors", "email")

		ns := mt.DB.Name() + ".vendors"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "name", Value: "_id_"}},
			bson.D{{Key: "name", Value: "vendors_email_unique"}},
		))

		result, err := m.Create(context.Background())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if result.SkippedCount != 1 || result.SuccessCount != 0 {
			t.Errorf("result = %+v", result)
		}
	})
}
