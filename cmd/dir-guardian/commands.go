package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli"

	"github.com/raoulx24/dir-guardian/internal/artifact"
	"github.com/raoulx24/dir-guardian/internal/backup"
	"github.com/raoulx24/dir-guardian/internal/config"
	gfs "github.com/raoulx24/dir-guardian/internal/fs"
	"github.com/raoulx24/dir-guardian/internal/logging"
)

func loadValid(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(configPath(c))
	if err != nil {
		return nil, cli.NewExitError(err.Error(), 1)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.NewExitError(err.Error(), 1)
	}
	return cfg, nil
}

func check(c *cli.Context) error {
	cfg, err := loadValid(c)
	if err != nil {
		return err
	}
	fmt.Printf("configuration ok: watching %s (mode %s, recursive %t), backups in %s, retention %d days\n",
		cfg.MonitoredFolder, cfg.Watch.Mode, cfg.Watch.Recursive, cfg.BackupFolder, cfg.CleanupRetentionDays)
	return nil
}

func sweep(c *cli.Context) error {
	cfg, err := loadValid(c)
	if err != nil {
		return err
	}
	engine := backup.New(backup.Options{BackupFolder: cfg.BackupFolder}, logging.StdLogger{})
	res, err := engine.CleanupOldBackups(cfg.CleanupRetentionDays)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("scanned %d, deleted %d, failed %d\n", res.Scanned, res.Deleted, res.Failed)
	if res.Failed > 0 {
		return cli.NewExitError("some backups could not be deleted", 2)
	}
	return nil
}

func list(c *cli.Context) error {
	cfg, err := loadValid(c)
	if err != nil {
		return err
	}
	entries, err := gfs.New().ReadDir(cfg.BackupFolder)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	type row struct {
		a    artifact.Artifact
		size int64
	}
	var rows []row
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		a, ok := artifact.Parse(filepath.Base(e.Path))
		if !ok {
			continue
		}
		rows = append(rows, row{a: a, size: e.Size})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].a.Taken.Equal(rows[j].a.Taken) {
			return rows[i].a.Taken.Before(rows[j].a.Taken)
		}
		return rows[i].a.Seq < rows[j].a.Seq
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAKEN\tORIGINAL\tSIZE\tARTIFACT")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.a.Taken.Format(time.RFC3339), r.a.Original, r.size, r.a.Name)
	}
	return w.Flush()
}
