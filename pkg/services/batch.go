package services

import (
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/rowsource"

	"github.com/pkg/errors"
)

// Batch folds per-row outcomes into a BatchResult. Each row is recorded as
// exactly one success or one failure.
type Batch struct {
	summary models.BatchSummary
	results []any
	errors  []models.RowError
}

func NewBatch() *Batch {
	return &Batch{results: []any{}, errors: []models.RowError{}}
}

func (b *Batch) Succeed(record any) {
	b.summary.Total++
	b.summary.Success++
	b.results = append(b.results, record)
}

func (b *Batch) Fail(rec rowsource.Record, err error) {
	b.summary.Total++
	b.summary.Errors++

	row := make(map[string]string, len(rec.Fields))
	for k, v := range rec.Fields {
		row[k] = v
	}
	b.errors = append(b.errors, models.RowError{
		Line:  rec.Line,
		Row:   row,
		Error: rowMessage(err),
		Kind:  string(KindOf(err)),
	})
}

func (b *Batch) Summary() models.BatchSummary {
	return b.summary
}

func (b *Batch) Result(message string) *models.BatchResult {
	return &models.BatchResult{
		Message: message,
		Summary: b.summary,
		Results: b.results,
		Errors:  b.errors,
	}
}

// rowMessage hides storage details from row errors returned to callers.
func rowMessage(err error) string {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
