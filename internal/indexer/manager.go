package indexer

import (
	"context"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, m.options.Timeout)
}

// Create builds every registered index. With ContinueOnError a failed index
// is recorded and the rest are still attempted.
func (m *Manager) Create(ctx context.Context) (*Result, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	result := &Result{Failures: []FailureDetail{}}

	for _, def := range m.indexes {
		name := def.Name()
		if m.options.SkipIfExists && name != "" {
			exists, err := m.indexExists(ctx, def.Collection, name)
			if err == nil && exists {
				util.Logger().Debug("index exists, skipping", zap.String("collection", def.Collection), zap.String("index", name))
				result.SkippedCount++
				continue
			}
		}

		created, err := m.db.Collection(def.Collection).Indexes().CreateOne(ctx, def.Index)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				util.LogWarning("cannot create unique index over duplicate data",
					zap.String("collection", def.Collection), zap.String("index", name))
			} else {
				util.LogError("failed to create index", err, zap.String("collection", def.Collection), zap.String("index", name))
			}

			result.FailedCount++
			result.Failures = append(result.Failures, FailureDetail{
				Collection: def.Collection,
				IndexName:  name,
				Error:      err,
			})

			if !m.options.ContinueOnError {
				result.Duration = time.Since(start)
				return result, errors.Wrapf(err, "create index %s on %s", name, def.Collection)
			}
			continue
		}

		util.LogInfo("created index", zap.String("collection", def.Collection), zap.String("index", created))
		result.SuccessCount++
	}

	result.Duration = time.Since(start)
	if result.FailedCount > 0 {
		return result, errors.Errorf("%d indexes failed to create", result.FailedCount)
	}
	return result, nil
}

// Drop removes all non-_id indexes from collections, or from every collection
// with a registered index when none are given.
func (m *Manager) Drop(ctx context.Context, collections ...string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if len(collections) == 0 {
		collections = m.collections()
	}

	for _, name := range collections {
		if _, err := m.db.Collection(name).Indexes().DropAll(ctx); err != nil {
			if !m.options.ContinueOnError {
				return errors.Wrapf(err, "drop indexes for %s", name)
			}
			util.LogError("failed to drop indexes", err, zap.String("collection", name))
			continue
		}
		util.LogInfo("dropped indexes", zap.String("collection", name))
	}
	return nil
}

func (m *Manager) List(ctx context.Context, collection string) ([]bson.M, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	cursor, err := m.db.Collection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var indexes []bson.M
	if err = cursor.All(ctx, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

func (m *Manager) indexExists(ctx context.Context, collection, indexName string) (bool, error) {
	indexes, err := m.List(ctx, collection)
	if err != nil {
		return false, err
	}

	for _, idx := range indexes {
		if name, ok := idx["name"].(string); ok && name == indexName {
			return true, nil
		}
	}
	return false, nil
}

func (m *Manager) collections() []string {
	seen := map[string]bool{}
	var out []string
	for _, def := range m.indexes {
		if !seen[def.Collection] {
			seen[def.Collection] = true
			out = append(out, def.Collection)
		}
	}
	return out
}
