package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/exgroup/staffstore/internal/assets"
	"github.com/exgroup/staffstore/internal/backup"
	"github.com/exgroup/staffstore/internal/schema"
	"github.com/exgroup/staffstore/internal/staff/repository"
	"github.com/exgroup/staffstore/internal/staff/service"
	"github.com/exgroup/staffstore/pkg/config"
	"github.com/exgroup/staffstore/pkg/database"
	"github.com/exgroup/staffstore/pkg/logger"
)

func main() {
	showInfo := flag.Bool("info", false, "print store path, schema version and record count")
	backupDir := flag.String("backup", "", "create a backup artifact in the given directory")
	exportPath := flag.String("export", "", "export all records as CSV to the given file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load("staffstore")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("staffstore", cfg.Environment)

	// Open the store
	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer db.Close()

	ctx := context.Background()

	// Migration must complete before any repository or backup operation
	schemaMgr := schema.NewManager(db, log)
	if err := schemaMgr.EnsureCurrent(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate store")
	}

	employeeRepo := repository.NewEmployeeRepository(db)
	assetStore := assets.NewStore(cfg.DataDir, log)
	staffService := service.NewStaffService(employeeRepo, assetStore, schemaMgr, db, log)
	backupService := backup.NewService(db, employeeRepo, cfg.Backup.RetentionCount, log)

	switch {
	case *backupDir != "":
		artifact, err := backupService.Backup(ctx, *backupDir)
		if err != nil {
			log.Fatal().Err(err).Msg("backup failed")
		}
		fmt.Println(artifact)

	case *exportPath != "":
		path, err := backupService.ExportCSV(ctx, *exportPath)
		if err != nil {
			log.Fatal().Err(err).Msg("export failed")
		}
		fmt.Println(path)

	case *showInfo:
		fallthrough
	default:
		info, err := staffService.StoreInfo(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read store info")
		}
		fmt.Printf("path: %s\nschema version: %d\nrecords: %d\n",
			info.Path, info.SchemaVersion, info.RecordCount)
	}
}
