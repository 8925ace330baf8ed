package indexer

import (
	"context"
	"sort"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const migrationCollection = "_index_migrations"

type MigrationManager struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrationManager(db *mongo.Database) *MigrationManager {
	return &MigrationManager{db: db, migrations: []Migration{}}
}

func (mm *MigrationManager) AddMigration(migrations ...Migration) *MigrationManager {
	mm.migrations = append(mm.migrations, migrations...)
	return mm
}

// Run applies pending migrations in version order and records each outcome.
// It stops at the first failure.
func (mm *MigrationManager) Run(ctx context.Context) error {
	sort.Slice(mm.migrations, func(i, j int) bool {
		return mm.migrations[i].Version < mm.migrations[j].Version
	})

	coll := mm.db.Collection(migrationCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "create migration index")
	}

	for _, migration := range mm.migrations {
		applied, err := mm.isApplied(ctx, migration.Version)
		if err != nil {
			return errors.Wrapf(err, "check migration %s", migration.Version)
		}
		if applied {
			util.Logger().Debug("migration already applied", zap.String("version", migration.Version))
			continue
		}

		util.LogInfo("running migration", zap.String("version", migration.Version), zap.String("description", migration.Description))
		start := time.Now()
		err = migration.Up(ctx, mm.db)

		status := MigrationStatus{
			Version:   migration.Version,
			AppliedAt: time.Now(),
			Success:   err == nil,
		}
		filter := bson.M{"version": migration.Version}
		upsert := options.Replace().SetUpsert(true)

		if err != nil {
			util.LogError("migration failed", err, zap.String("version", migration.Version), zap.Duration("after", time.Since(start)))
			if _, saveErr := coll.ReplaceOne(ctx, filter, status, upsert); saveErr != nil {
				util.LogError("failed to save migration status", saveErr)
			}
			return errors.Wrapf(err, "migration %s", migration.Version)
		}

		if _, err = coll.ReplaceOne(ctx, filter, status, upsert); err != nil {
			return errors.Wrap(err, "save migration status")
		}
		util.LogInfo("migration completed", zap.String("version", migration.Version), zap.Duration("took", time.Since(start)))
	}

	return nil
}

// Rollback reverts applied migrations newer than targetVersion, newest first.
func (mm *MigrationManager) Rollback(ctx context.Context, targetVersion string) error {
	sort.Slice(mm.migrations, func(i, j int) bool {
		return mm.migrations[i].Version > mm.migrations[j].Version
	})

	coll := mm.db.Collection(migrationCollection)
	for _, migration := range mm.migrations {
		if migration.Version <= targetVersion {
			break
		}

		applied, err := mm.isApplied(ctx, migration.Version)
		if err != nil {
			return errors.Wrapf(err, "check migration %s", migration.Version)
		}
		if !applied {
			continue
		}
		if migration.Down == nil {
			return errors.Errorf("migration %s does not support rollback", migration.Version)
		}

		util.LogInfo("rolling back migration", zap.String("version", migration.Version))
		if err := migration.Down(ctx, mm.db); err != nil {
			return errors.Wrapf(err, "rollback of migration %s", migration.Version)
		}
		if _, err := coll.DeleteOne(ctx, bson.M{"version": migration.Version}); err != nil {
			return errors.Wrap(err, "remove migration status")
		}
	}

	return nil
}

func (mm *MigrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	cursor, err := mm.db.Collection(migrationCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "version", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "query migration status")
	}
	defer cursor.Close(ctx)

	var statuses []MigrationStatus
	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, errors.Wrap(err, "decode migration statuses")
	}
	return statuses, nil
}

func (mm *MigrationManager) isApplied(ctx context.Context, version string) (bool, error) {
	count, err := mm.db.Collection(migrationCollection).CountDocuments(ctx, bson.M{"version": version, "success": true})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
