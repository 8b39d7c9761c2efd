// exportcsv writes a catalog snapshot to CSV, optionally brotli-compressed,
// and can deliver it to the configured SFTP drop directory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"academy-catalog/internal/aggregate"
	"academy-catalog/internal/config"
	"academy-catalog/internal/domain"
	"academy-catalog/internal/export"
	"academy-catalog/internal/sftpclient"
)

func main() {
	var (
		outPath    = flag.String("out", "catalog.csv", "output csv path")
		source     = flag.String("source", "all", "provider selector: all, youtube or cloudflare")
		compress   = flag.Bool("br", false, "brotli-compress the output (.br appended when missing)")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated file via SFTP")
		timeout    = flag.Duration("timeout", 10*time.Minute, "overall deadline")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	rootCtx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := config.Load()
	sys := aggregate.FromConfig(cfg, logger)

	courses, err := sys.Facade.ListCourses(rootCtx, aggregate.Selector(*source))
	if err != nil {
		log.Fatal(err)
	}

	path := *outPath
	if *compress && filepath.Ext(path) != ".br" {
		path += ".br"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	if err := writeSnapshot(path, courses, *compress); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d courses to %s (source=%s)", len(courses), path, *source)

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:      cfg.SFTPHost,
			Port:      cfg.SFTPPort,
			User:      cfg.SFTPUser,
			Pass:      cfg.SFTPPass,
			RemoteDir: cfg.SFTPRemoteDir,
		}

		upCtx, upCancel := context.WithTimeout(rootCtx, 5*time.Minute)
		defer upCancel()

		remoteName := filepath.Base(path)
		if err := sftpclient.UploadFile(upCtx, upCfg, path, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}

func writeSnapshot(path string, courses []domain.Course, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if compress {
		return export.WriteCatalogCSVBrotli(f, courses)
	}
	return export.WriteCatalogCSV(f, courses)
}
