package services

import (
	"context"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/rowsource"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgBulkCompleted = "Bulk import completed"

type bulkService struct {
	resolver   *CategoryResolver
	reconciler *ProductReconciler
	cache      CategoryTreeCache
}

func NewBulkService(categories CategoryRepository, products ProductRepository, cache CategoryTreeCache) BulkService {
	return &bulkService{
		resolver:   NewCategoryResolver(categories),
		reconciler: NewProductReconciler(products),
		cache:      cache,
	}
}

// ImportCategories creates one category per row, in file order. Rows are
// independent: a failed row is recorded and the next one is processed.
// Cancelling ctx does not stop a batch that has started.
func (s *bulkService) ImportCategories(ctx context.Context, upload Upload, actor primitive.ObjectID) (*models.BatchResult, error) {
	ctx = context.WithoutCancel(ctx)
	records, err := readUpload(upload)
	if err != nil {
		return nil, err
	}

	run := s.start("categories", upload, actor, len(records))
	defer func() {
		if run.batch.Summary().Success > 0 {
			s.cache.Invalidate(ctx)
		}
	}()

	for _, rec := range records {
		category, err := s.importCategory(ctx, rec, actor)
		if err != nil {
			if IsFatal(err) {
				return nil, run.abort(rec, err)
			}
			run.fail(rec, err)
			continue
		}
		run.batch.Succeed(category)
	}
	return run.finish(), nil
}

// ImportProducts creates one product per row. Categories are looked up, never
// created.
func (s *bulkService) ImportProducts(ctx context.Context, upload Upload, actor primitive.ObjectID) (*models.BatchResult, error) {
	ctx = context.WithoutCancel(ctx)
	records, err := readUpload(upload)
	if err != nil {
		return nil, err
	}

	run := s.start("products", upload, actor, len(records))
	for _, rec := range records {
		product, err := s.importProduct(ctx, rec)
		if err != nil {
			if IsFatal(err) {
				return nil, run.abort(rec, err)
			}
			run.fail(rec, err)
			continue
		}
		run.batch.Succeed(product)
	}
	return run.finish(), nil
}

func (s *bulkService) importCategory(ctx context.Context, rec rowsource.Record, actor primitive.ObjectID) (*models.Category, error) {
	row, err := DecodeCategoryRow(rec.Fields)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveForImport(ctx, row, actor)
}

func (s *bulkService) importProduct(ctx context.Context, rec rowsource.Record) (*models.Product, error) {
	row, err := DecodeProductRow(rec.Fields)
	if err != nil {
		return nil, err
	}
	if util.Slugify(row.Name) == "" {
		return nil, ValidationError(msgEmptySlug)
	}

	category, err := s.resolver.ResolveForProduct(ctx, row.Category)
	if err != nil {
		return nil, err
	}
	return s.reconciler.Create(ctx, row, category)
}

func readUpload(upload Upload) ([]rowsource.Record, error) {
	records, err := rowsource.Read(upload.Path, upload.MimeType)
	switch {
	case err == nil:
		return records, nil
	case errors.Is(err, rowsource.ErrUnsupportedFormat):
		return nil, ValidationError("Only CSV and XLSX files are supported")
	default:
		return nil, InfrastructureError(err, "read import file")
	}
}

// batchRun carries the logging context of one import.
type batchRun struct {
	kind    string
	file    string
	actor   string
	started time.Time
	batch   *Batch
}

func (s *bulkService) start(kind string, upload Upload, actor primitive.ObjectID, rows int) *batchRun {
	run := &batchRun{
		kind:    kind,
		file:    upload.Filename,
		actor:   actor.Hex(),
		started: time.Now(),
		batch:   NewBatch(),
	}
	util.LogInfo("bulk import started",
		zap.String("kind", kind),
		zap.String("file", run.file),
		zap.String("actor", run.actor),
		zap.Int("rows", rows),
	)
	return run
}

func (r *batchRun) fail(rec rowsource.Record, err error) {
	r.batch.Fail(rec, err)
	util.Logger().Debug("bulk import row failed",
		zap.String("kind", r.kind),
		zap.Int("line", rec.Line),
		zap.String("errorKind", string(KindOf(err))),
		zap.Error(err),
	)
}

func (r *batchRun) abort(rec rowsource.Record, err error) error {
	summary := r.batch.Summary()
	util.LogError("bulk import aborted", err,
		zap.String("kind", r.kind),
		zap.String("file", r.file),
		zap.Int("line", rec.Line),
		zap.Int("processed", summary.Total),
		zap.Int("success", summary.Success),
	)
	return errors.Wrapf(err, "import %s aborted at line %d", r.kind, rec.Line)
}

func (r *batchRun) finish() *models.BatchResult {
	summary := r.batch.Summary()
	util.LogInfo("bulk import finished",
		zap.String("kind", r.kind),
		zap.String("file", r.file),
		zap.String("actor", r.actor),
		zap.Int("total", summary.Total),
		zap.Int("success", summary.Success),
		zap.Int("errors", summary.Errors),
		zap.Duration("duration", time.Since(r.started)),
	)
	return r.batch.Result(msgBulkCompleted)
}
