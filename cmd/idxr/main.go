package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/indexer"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"go.uber.org/zap"
)

func main() {
	var (
		action      = flag.String("action", "create", "Action: create, drop, list, stats, migrate, rollback, status")
		uri         = flag.String("uri", "", "MongoDB URI (defaults to env DATABASE_URL)")
		dbName      = flag.String("db", "", "Database name (defaults to env DB_NAME)")
		collection  = flag.String("collection", "", "Collection name (for list/stats)")
		target      = flag.String("target", "", "Migration version to roll back to (rollback)")
		timeout     = flag.Duration("timeout", 60*time.Second, "Operation timeout")
		continueErr = flag.Bool("continue-on-error", true, "Continue on error")
		skipExists  = flag.Bool("skip-if-exists", true, "Skip existing indexes")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format")
	)
	flag.Parse()

	cfg := util.LoadConfig()
	cfg.Logger.Encoding = "console"
	logger, err := util.InitLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	mongoURI := *uri
	if mongoURI == "" {
		mongoURI = cfg.DatabaseURL
	}
	database := *dbName
	if database == "" {
		database = cfg.DBName
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := util.ConnectDB(connectCtx, mongoURI)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect", zap.Error(err))
		}
	}()

	db := client.Database(database)
	manager := indexer.NewCatalogManager(db, &indexer.Options{
		Timeout:         *timeout,
		ContinueOnError: *continueErr,
		SkipIfExists:    *skipExists,
	})
	migrations := indexer.NewMigrationManager(db).AddMigration(indexer.CatalogMigrations()...)

	ctx := context.Background()

	switch *action {
	case "create":
		if !*jsonOutput {
			fmt.Printf("Creating indexes in database: %s\n", database)
		}

		result, err := manager.Create(ctx)
		if *jsonOutput {
			outputJSON(map[string]any{
				"success": err == nil,
				"result":  result,
				"error":   errorString(err),
			})
			return
		}
		if err != nil {
			logger.Warn("index creation completed with errors", zap.Error(err))
		}
		fmt.Printf("\nResults:\n")
		fmt.Printf("  Success: %d\n", result.SuccessCount)
		fmt.Printf("  Skipped: %d\n", result.SkippedCount)
		fmt.Printf("  Failed: %d\n", result.FailedCount)
		fmt.Printf("  Duration: %v\n", result.Duration)
		if len(result.Failures) > 0 {
			fmt.Printf("\nFailures:\n")
			for _, f := range result.Failures {
				fmt.Printf("  - %s.%s: %v\n", f.Collection, f.IndexName, f.Error)
			}
		}

	case "drop":
		collections := flag.Args()
		err := manager.Drop(ctx, collections...)
		if *jsonOutput {
			outputJSON(map[string]any{"success": err == nil, "error": errorString(err)})
			return
		}
		if err != nil {
			logger.Fatal("failed to drop indexes", zap.Error(err))
		}
		fmt.Println("Indexes dropped successfully")

	case "list":
		if *collection == "" {
			logger.Fatal("collection name required for list action (-collection flag)")
		}
		indexes, err := manager.List(ctx, *collection)
		if err != nil {
			logger.Fatal("failed to list indexes", zap.Error(err))
		}
		if *jsonOutput {
			outputJSON(indexes)
			return
		}
		fmt.Printf("Indexes for collection %s:\n", *collection)
		for _, idx := range indexes {
			name, ok := idx["name"].(string)
			if !ok {
				continue
			}
			fmt.Printf("  - %s\n", name)
			if key, ok := idx["key"]; ok {
				fmt.Printf("    Keys: %v\n", key)
			}
			if unique, ok := idx["unique"].(bool); ok && unique {
				fmt.Printf("    Unique: true\n")
			}
		}

	case "stats":
		stats := map[string][]indexer.IndexStats{}
		if *collection == "" {
			stats, err = manager.StatsAll(ctx)
		} else {
			stats[*collection], err = manager.Stats(ctx, *collection)
		}
		if err != nil {
			logger.Fatal("failed to get stats", zap.Error(err))
		}
		if *jsonOutput {
			outputJSON(stats)
			return
		}
		for coll, collStats := range stats {
			fmt.Printf("\n=== %s ===\n", coll)
			for _, stat := range collStats {
				fmt.Printf("  %s:\n", stat.Name)
				fmt.Printf("    Accesses: %d\n", stat.Accesses)
				fmt.Printf("    Since: %v\n", stat.Since)
				if stat.Building {
					fmt.Printf("    Status: BUILDING\n")
				}
			}
		}

	case "migrate":
		if err := migrations.Run(ctx); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		fmt.Println("Migrations applied")

	case "rollback":
		if err := migrations.Rollback(ctx, *target); err != nil {
			logger.Fatal("rollback failed", zap.Error(err))
		}
		fmt.Println("Rollback complete")

	case "status":
		status, err := migrations.Status(ctx)
		if err != nil {
			logger.Fatal("failed to read migration status", zap.Error(err))
		}
		if *jsonOutput {
			outputJSON(status)
			return
		}
		for _, s := range status {
			fmt.Printf("  %s applied=%v at %s\n", s.Version, s.Success, s.AppliedAt.Format(time.RFC3339))
		}

	default:
		fmt.Printf("Unknown action: %s\n", *action)
		fmt.Println("Available actions: create, drop, list, stats, migrate, rollback, status")
		os.Exit(1)
	}
}

func outputJSON(data any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		zap.L().Fatal("failed to encode JSON", zap.Error(err))
	}
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
