package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	cfgpkg "newsreader/internal/config"
	"newsreader/internal/paths"
	"newsreader/internal/storage"
)

const (
	mp3ContentType  = "audio/mpeg"
	textContentType = "text/markdown; charset=utf-8"
	jsonContentType = "application/json"
	cacheArchive    = "public, max-age=86400"
	cacheLatest     = "public, max-age=300"
)

type uploader interface {
	PutFile(ctx context.Context, key, localPath string, meta storage.Meta) error
	CopyToLatest(ctx context.Context, srcKey, filename string, meta storage.Meta) error
	KeyForDate(t time.Time, filename string) string
}

type upload struct {
	path        string
	contentType string
}

var newUploader = func(ctx context.Context, bucket, prefix, region string) (uploader, error) {
	return storage.New(ctx, bucket, prefix, region)
}

// newsreader publish
func cmdPublish(args []string) error {
	var cf commonFlags
	var date string
	var bucket, prefix, region, outDir stringFlag
	var includeScript bool
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.StringVar(&date, "date", "", "Date in YYYY-MM-DD (UTC); default: today")
	fs.Var(&bucket, "bucket", "S3 bucket name")
	fs.Var(&prefix, "prefix", "S3 key prefix")
	fs.Var(&region, "region", "AWS region (defaults from env)")
	fs.Var(&outDir, "out-dir", "Base directory holding generated briefings")
	fs.BoolVar(&includeScript, "include-script", false, "Also upload briefing.md and meta.json")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	day, err := paths.ParseDate(date, time.Now())
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cf, cfgpkg.Overrides{
		S3Bucket: bucket.ptr(),
		S3Prefix: prefix.ptr(),
		Region:   region.ptr(),
		OutDir:   outDir.ptr(),
	})
	if err != nil {
		return err
	}
	if err := cfgpkg.ValidateForPublish(cfg); err != nil {
		return err
	}

	ctx := context.Background()
	up, err := newUploader(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.Region)
	if err != nil {
		return err
	}

	builder := paths.New(cfg.OutDir)
	files := []upload{{builder.BriefingAudio(day), mp3ContentType}}
	if includeScript {
		files = append(files,
			upload{builder.BriefingScript(day), textContentType},
			upload{builder.BriefingMeta(day), jsonContentType},
		)
	}
	for _, f := range files {
		if err := uploadAndCopy(ctx, up, day, f.path, f.contentType); err != nil {
			return err
		}
	}

	slog.Info("publish completed", "date", day.Format(time.DateOnly), "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix, "region", cfg.Region, "includeScript", includeScript)
	return nil
}

func uploadAndCopy(ctx context.Context, up uploader, day time.Time, localPath, contentType string) error {
	if _, err := os.Stat(localPath); err != nil {
		return fmt.Errorf("missing local file %s: %w", localPath, err)
	}
	filename := filepath.Base(localPath)
	key := up.KeyForDate(day, filename)
	if err := up.PutFile(ctx, key, localPath, storage.Meta{ContentType: contentType, CacheControl: cacheArchive}); err != nil {
		return err
	}
	return up.CopyToLatest(ctx, key, filename, storage.Meta{ContentType: contentType, CacheControl: cacheLatest})
}
