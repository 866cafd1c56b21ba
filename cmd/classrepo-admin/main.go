// Command classrepo-admin runs operator tasks against the ClassRepo database
// and blob store.
//
//	classrepo-admin seed-admin --email admin@eastdelta.edu.bd --password ...
//	classrepo-admin sweep-orphans --grace 2h --dry-run
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/service"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/blobstore"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/database"
	applogger "github.com/sakib-101-git/EDU-ClassRepo/pkg/logger"
)

const usage = `usage: classrepo-admin <command> [flags]

commands:
  seed-admin      create or refresh an allow-listed admin account
  sweep-orphans   delete stored files that have no metadata row
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "seed-admin":
		err = runSeedAdmin(os.Args[2:])
	case "sweep-orphans":
		err = runSweepOrphans(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "classrepo-admin %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func runSeedAdmin(args []string) error {
	fs := pflag.NewFlagSet("seed-admin", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to config file")
	email := fs.String("email", "", "admin email (must be on auth.admin_emails)")
	password := fs.String("password", os.Getenv("CLASSREPO_SEED_PASSWORD"), "admin password (default $CLASSREPO_SEED_PASSWORD)")
	name := fs.String("name", "", "display name")
	studentID := fs.String("student-id", "", "student id column value")
	department := fs.String("department", "", "department")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withMaintenance(*configPath, func(ctx context.Context, m service.MaintenanceService, cfg *config.Config) error {
		created, err := m.SeedAdmin(ctx, &service.SeedAdminInput{
			Email:      *email,
			Password:   *password,
			Name:       *name,
			StudentID:  *studentID,
			Department: *department,
		})
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("admin %s created\n", *email)
		} else {
			fmt.Printf("admin %s refreshed\n", *email)
		}
		return nil
	})
}

func runSweepOrphans(args []string) error {
	fs := pflag.NewFlagSet("sweep-orphans", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to config file")
	grace := fs.Duration("grace", 0, "minimum age of an orphan (default storage.orphan_grace)")
	dryRun := fs.Bool("dry-run", false, "list orphans without deleting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withMaintenance(*configPath, func(ctx context.Context, m service.MaintenanceService, cfg *config.Config) error {
		window := *grace
		if window <= 0 {
			window = cfg.Storage.OrphanGrace
		}
		report, err := m.SweepOrphans(ctx, window, *dryRun)
		if err != nil {
			return err
		}
		for _, key := range report.Orphans {
			fmt.Println(key)
		}
		fmt.Printf("scanned=%d orphans=%d removed=%d dry_run=%t\n",
			report.Scanned, len(report.Orphans), report.Removed, *dryRun)
		return nil
	})
}

// withMaintenance opens config, database and blob store, then runs fn.
func withMaintenance(configPath string, fn func(context.Context, service.MaintenanceService, *config.Config) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	blobs, err := blobstore.Open(ctx, &cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open blob storage: %w", err)
	}

	repo := repository.NewRepository(db)
	admins := service.NewAdminList(cfg.Auth.AdminEmails)
	m := service.NewMaintenanceService(&cfg.Auth, repo, blobs, admins, logger)

	return fn(ctx, m, cfg)
}
