package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/rowsource"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeUpload(t *testing.T, name, content string) Upload {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return Upload{Path: path, Filename: name, MimeType: "text/csv"}
}

func newBulk(categories *fakeCategoryRepo, products *fakeProductRepo) (BulkService, *fakeTreeCache) {
	cache := &fakeTreeCache{}
	return NewBulkService(categories, products, cache), cache
}

const categoryCSV = `name,description,parentCategory
Spices,Aromatic spices,
Whole Spices,Unground,Spices
Ground Spices,Powders,spices
`

func TestImportCategoriesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	categories := &fakeCategoryRepo{}
	bulk, cache := newBulk(categories, &fakeProductRepo{})
	actor := primitive.NewObjectID()

	first, err := bulk.ImportCategories(ctx, writeUpload(t, "categories.csv", categoryCSV), actor)
	if err != nil {
		t.Fatalf("first import error = %v", err)
	}
	if first.Summary != (models.BatchSummary{Total: 3, Success: 3, Errors: 0}) {
		t.Fatalf("first summary = %+v", first.Summary)
	}
	if first.Message != "Bulk import completed" {
		t.Errorf("Message = %q", first.Message)
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.invalidated)
	}

	second, err := bulk.ImportCategories(ctx, writeUpload(t, "categories.csv", categoryCSV), actor)
	if err != nil {
		t.Fatalf("second import error = %v", err)
	}
	if second.Summary != (models.BatchSummary{Total: 3, Success: 0, Errors: 3}) {
		t.Fatalf("second summary = %+v", second.Summary)
	}
	for _, rowErr := range second.Errors {
		if !strings.Contains(rowErr.Error, "already exists") {
			t.Errorf("row %d error = %q", rowErr.Line, rowErr.Error)
		}
	}
	if categories.count() != 3 {
		t.Errorf("stored %d categories, want 3", categories.count())
	}
	if cache.invalidated != 1 {
		t.Error("a batch without successes invalidated the cache")
	}
}

func TestImportCategoriesParentOrder(t *testing.T) {
	ctx := context.Background()
	bulk, _ := newBulk(&fakeCategoryRepo{}, &fakeProductRepo{})

	csv := "name,parentCategory\nChild,Later\nLater,\n"
	res, err := bulk.ImportCategories(ctx, writeUpload(t, "c.csv", csv), primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Success != 1 || res.Summary.Errors != 1 {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if res.Errors[0].Kind != string(KindReference) || res.Errors[0].Line != 2 {
		t.Errorf("error = %+v", res.Errors[0])
	}
}

func seededCategories() *fakeCategoryRepo {
	repo := &fakeCategoryRepo{}
	repo.add(models.Category{Name: "Spices", IsActive: true})
	repo.add(models.Category{Name: "Textiles", IsActive: true})
	return repo
}

func TestImportProductsPartialFailure(t *testing.T) {
	ctx := context.Background()
	products := &fakeProductRepo{}
	bulk, _ := newBulk(seededCategories(), products)

	csv := `name,description,category,specifications
Saffron,Kashmiri saffron,Spices,"{""Grade"":""A""}"
Pepper,Black pepper,spices,
Shawl,Pashmina shawl,Textiles,"{""Grade"": ""A"""
Cardamom,Green cardamom,Spices,
Rug,Hand knotted rug,textiles,"{}"
`
	res, err := bulk.ImportProducts(ctx, writeUpload(t, "products.csv", csv), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ImportProducts() error = %v", err)
	}
	if res.Summary != (models.BatchSummary{Total: 5, Success: 4, Errors: 1}) {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if res.Errors[0].Row["name"] != "Shawl" || res.Errors[0].Kind != string(KindFormat) {
		t.Errorf("error = %+v", res.Errors[0])
	}
	if products.count() != 4 {
		t.Errorf("stored %d products, want 4", products.count())
	}

	created, ok := res.Results[0].(*models.Product)
	if !ok {
		t.Fatalf("result type %T", res.Results[0])
	}
	if created.Category == nil || created.Category.Name != "Spices" {
		t.Errorf("created product category = %+v", created.Category)
	}
	if created.Origin != "India" || !created.IsActive || len(created.Images) != 0 {
		t.Errorf("created product = %+v", created)
	}
}

func TestImportProductsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	categories := seededCategories()
	products := &fakeProductRepo{}
	bulk, _ := newBulk(categories, products)

	csv := "name,description,category\nSaffron,Saffron,Spices\nGreen Tea,Tea leaves,Tea\n"
	res, err := bulk.ImportProducts(ctx, writeUpload(t, "p.csv", csv), primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Success != 1 || res.Summary.Errors != 1 {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if res.Errors[0].Kind != string(KindReference) {
		t.Errorf("error kind = %q, want reference", res.Errors[0].Kind)
	}
	if categories.count() != 2 {
		t.Error("product import created a category")
	}
	if products.count() != 1 {
		t.Errorf("stored %d products, want 1", products.count())
	}
}

func TestImportProductsDuplicateNamesBothSucceed(t *testing.T) {
	bulk, _ := newBulk(seededCategories(), &fakeProductRepo{})
	csv := "name,description,category\nSaffron,a,Spices\nSaffron,b,Spices\n"
	res, err := bulk.ImportProducts(context.Background(), writeUpload(t, "p.csv", csv), primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Success != 2 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestImportAbortsOnStorageOutage(t *testing.T) {
	products := &fakeProductRepo{err: errors.Wrap(context.DeadlineExceeded, "insert"), failOnInsert: 2}
	bulk, _ := newBulk(seededCategories(), products)

	csv := "name,description,category\nA,a,Spices\nB,b,Spices\nC,c,Spices\n"
	res, err := bulk.ImportProducts(context.Background(), writeUpload(t, "p.csv", csv), primitive.NewObjectID())
	if err == nil {
		t.Fatalf("ImportProducts() = %+v, want abort", res)
	}
	if !IsKind(err, KindInfrastructure) {
		t.Errorf("error kind = %s", KindOf(err))
	}
	if products.count() != 1 {
		t.Errorf("stored %d products, want 1 before the outage", products.count())
	}
}

func TestImportUnreadableFile(t *testing.T) {
	bulk, _ := newBulk(&fakeCategoryRepo{}, &fakeProductRepo{})
	ctx := context.Background()

	_, err := bulk.ImportCategories(ctx, Upload{Path: filepath.Join(t.TempDir(), "gone.csv"), MimeType: "text/csv"}, primitive.NewObjectID())
	if !IsKind(err, KindInfrastructure) {
		t.Errorf("missing file error = %v, want infrastructure", err)
	}

	_, err = bulk.ImportCategories(ctx, Upload{Path: "notes.txt", MimeType: "text/plain"}, primitive.NewObjectID())
	if !IsKind(err, KindValidation) {
		t.Errorf("unsupported file error = %v, want validation", err)
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	ctx := context.Background()
	categories := &fakeCategoryRepo{}
	bulk, _ := newBulk(categories, &fakeProductRepo{})

	catTmpl, err := bulk.CategoryTemplate()
	if err != nil {
		t.Fatal(err)
	}
	if catTmpl.Filename != "categories_template.csv" || catTmpl.ContentType != "text/csv" {
		t.Errorf("category template = %s %s", catTmpl.Filename, catTmpl.ContentType)
	}
	res, err := bulk.ImportCategories(ctx, writeUpload(t, catTmpl.Filename, string(catTmpl.Body)), primitive.NewObjectID())
	if err != nil || res.Summary.Success != 3 {
		t.Fatalf("category template import = %+v, %v", res, err)
	}

	prodTmpl, err := bulk.ProductTemplate()
	if err != nil {
		t.Fatal(err)
	}
	records, err := rowsource.ReadCSV(strings.NewReader(string(prodTmpl.Body)))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("product template rows = %d", len(records))
	}
	row, err := DecodeProductRow(records[0].Fields)
	if err != nil {
		t.Fatalf("DecodeProductRow(template) error = %v", err)
	}
	if row.Specifications["Packaging Size"] != "1g, 5g, 10g" || len(row.Certifications) != 3 {
		t.Errorf("template row = %+v", row)
	}

	res, err = bulk.ImportProducts(ctx, writeUpload(t, prodTmpl.Filename, string(prodTmpl.Body)), primitive.NewObjectID())
	if err != nil || res.Summary.Success != 2 {
		t.Fatalf("product template import = %+v, %v", res, err)
	}
}

// contextBoundCategoryRepo fails every call made after its context is done,
// the way the Mongo driver does, and cancels the caller after cancelAfter
// inserts.
type contextBoundCategoryRepo struct {
	*fakeCategoryRepo
	cancel      context.CancelFunc
	cancelAfter int
	inserts     int
}

func (r *contextBoundCategoryRepo) Insert(ctx context.Context, category *models.Category) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "insert category")
	}
	err := r.fakeCategoryRepo.Insert(ctx, category)
	r.inserts++
	if r.inserts == r.cancelAfter {
		r.cancel()
	}
	return err
}

func (r *contextBoundCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "find category")
	}
	return r.fakeCategoryRepo.FindBySlug(ctx, slug)
}

func (r *contextBoundCategoryRepo) FindActiveByNameOrSlug(ctx context.Context, name, slug string) (*models.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "find category")
	}
	return r.fakeCategoryRepo.FindActiveByNameOrSlug(ctx, name, slug)
}

func TestImportCategoriesIgnoresCancellationMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	categories := &contextBoundCategoryRepo{fakeCategoryRepo: &fakeCategoryRepo{}, cancel: cancel, cancelAfter: 2}
	cache := &fakeTreeCache{}
	bulk := NewBulkService(categories, &fakeProductRepo{}, cache)

	csv := "name\nSaffron\nCumin\nClove\nNutmeg\nMace\n"
	res, err := bulk.ImportCategories(ctx, writeUpload(t, "categories.csv", csv), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ImportCategories() error = %v, want a completed batch", err)
	}
	if res.Summary != (models.BatchSummary{Total: 5, Success: 5, Errors: 0}) {
		t.Errorf("summary = %+v", res.Summary)
	}
	if categories.count() != 5 {
		t.Errorf("stored %d categories, want 5", categories.count())
	}
	if ctx.Err() == nil {
		t.Fatal("caller context was never cancelled")
	}
	if cache.invalidated != 1 || cache.liveInvalidations != 1 {
		t.Errorf("invalidations = %d (live %d), want 1 live", cache.invalidated, cache.liveInvalidations)
	}
}
