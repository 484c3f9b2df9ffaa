package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-registry/config"
	"github.com/oksasatya/go-ddd-user-registry/internal/container"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-export", cfg.Env)

	if cfg.GCSBucket == "" {
		log.Fatal("GCS_BUCKET not configured")
	}
	// reads only; skip the write-side integrations
	cfg.EventsEnabled = false
	cfg.SearchEnabled = false
	cfg.CacheEnabled = false
	cfg.RateLimitReadPerMin, cfg.RateLimitWritePerMin = 0, 0

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer c.Close()

	gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		log.Fatalf("failed to init GCS client: %v", err)
	}
	defer func() { _ = gcs.Close() }()

	objectPath := path.Join(cfg.ExportPrefix, fmt.Sprintf("users-%s.ndjson", time.Now().UTC().Format("20060102T150405Z")))

	pr, pw := io.Pipe()
	counted := make(chan int, 1)
	go func() {
		n, err := c.Users.Export.Execute(ctx, pw)
		counted <- n
		_ = pw.CloseWithError(err)
	}()

	url, err := helpers.UploadObject(ctx, gcs, cfg.GCSBucket, objectPath, "application/x-ndjson", pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		<-counted
		log.Fatalf("export failed: %v", err)
	}
	logger.WithFields(logrus.Fields{"users": <-counted, "object": url}).Info("export complete")
}
