package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/fwojciec/mhracrawl"
	"github.com/fwojciec/mhracrawl/crawl"
)

// Run executes the crawl command: full traversal, artifact generation,
// run-history recording, and optional upload.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := c.buildConfig()
	if err != nil {
		return err
	}

	versionLabel := c.VersionLabel
	if versionLabel == "" {
		versionLabel = mhracrawl.DefaultVersionLabel(deps.now())
	}
	basePath := c.BasePath
	if basePath == "" {
		if abs, err := filepath.Abs(c.OutputDir); err == nil {
			basePath = abs
		} else {
			basePath = c.OutputDir
		}
	}

	page, err := deps.NewPage(cfg, c.Static)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or pass --static")
		return fmt.Errorf("failed to start automation engine: %w", err)
	}
	defer page.Close()

	crawler := &crawl.Crawler{
		Page:    page,
		Nav:     crawl.NewController(page, cfg.MaxRetries, deps.Logger),
		Limiter: crawl.NewLimiter(cfg.RequestDelay()),
		Logger:  deps.Logger,
		Config:  cfg,
		Clock:   deps.Clock,
	}

	results, stats, err := crawler.Run(deps.Ctx)
	if err != nil {
		var nf *mhracrawl.NavigationFailure
		if errors.As(err, &nf) {
			fmt.Fprintf(deps.Stderr, "Navigation failure: %s\n", err)
		}
		return err
	}

	artifacts := &mhracrawl.Artifacts{
		Hierarchy:   results.Hierarchical(),
		PDFLinks:    results.FlatLinks(),
		Structure:   results.Structure(basePath),
		Certificate: mhracrawl.BuildCertificate(stats, versionLabel, results.GeneratedAtUTC),
	}

	store := deps.NewStore(c.OutputDir)
	versionDir, err := store.WriteArtifacts(deps.Ctx, artifacts)
	if err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	if deps.Runs != nil {
		run := &mhracrawl.Run{
			VersionLabel:    versionLabel,
			Source:          cfg.BaseURL,
			StartedAt:       results.GeneratedAtUTC,
			TotalLetters:    stats.TotalLetters,
			TotalSubstances: stats.TotalSubstances,
			TotalProducts:   stats.TotalProducts,
			TotalDocuments:  stats.TotalDocuments,
			ArtifactDir:     versionDir,
			CertificateHash: certificateHash(artifacts.Certificate),
		}
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			// Artifacts are already on disk; a history failure should
			// not discard the run.
			fmt.Fprintf(deps.Stderr, "warning: failed to record run: %s\n", err)
		}
	}

	if c.Upload {
		if err := c.uploadArtifacts(deps, versionLabel); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, "Artifacts uploaded to remote storage.")
	}

	fmt.Fprintln(deps.Stdout, "Extraction complete.")
	fmt.Fprintf(deps.Stdout, "Letters: %d  Substances: %d  Products: %d  Documents: %d\n",
		stats.TotalLetters, stats.TotalSubstances, stats.TotalProducts, stats.TotalDocuments)
	fmt.Fprintf(deps.Stdout, "Latest dataset updated at: %s\n", c.OutputDir)
	fmt.Fprintf(deps.Stdout, "Version snapshot stored at: %s\n", versionDir)

	return nil
}

// buildConfig layers defaults, the optional config file, flag overrides
// and test mode into the effective crawl configuration.
func (c *CrawlCmd) buildConfig() (mhracrawl.Config, error) {
	cfg := mhracrawl.DefaultConfig()
	if c.Config != "" {
		if err := loadConfigFile(c.Config, &cfg); err != nil {
			return cfg, err
		}
	}

	if len(c.Letters) > 0 {
		cfg.Letters = c.Letters
	}
	if c.RequestDelay >= 0 {
		cfg.RequestDelayMS = c.RequestDelay
	}
	if c.MaxSubstances >= 0 {
		cfg.MaxSubstances = c.MaxSubstances
	}
	if c.MaxProducts >= 0 {
		cfg.MaxProducts = c.MaxProducts
	}
	if c.MaxDocuments >= 0 {
		cfg.MaxDocuments = c.MaxDocuments
	}
	if c.NoHeadless {
		cfg.Headless = false
	}
	if c.Test {
		cfg.Letters = []string{"A"}
		cfg.MaxSubstances = 2
		cfg.MaxProducts = 10
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *CrawlCmd) uploadArtifacts(deps *Dependencies, versionLabel string) error {
	bucket := c.Bucket
	if bucket == "" {
		bucket = os.Getenv("SUPABASE_BUCKET")
	}
	if bucket == "" {
		return mhracrawl.Errorf(mhracrawl.EINVALID, "upload requires a bucket: set --bucket or SUPABASE_BUCKET")
	}
	uploader, err := deps.NewUploader(bucket, c.StoragePrefix)
	if err != nil {
		return fmt.Errorf("initialize uploader: %w", err)
	}
	if err := uploader.UploadArtifacts(deps.Ctx, c.OutputDir, versionLabel); err != nil {
		return fmt.Errorf("upload artifacts: %w", err)
	}
	return nil
}

// certificateHash fingerprints the certificate payload for the run
// history row.
func certificateHash(cert *mhracrawl.UpdateCertificate) string {
	data, err := json.Marshal(cert)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", xxhash.Sum64(data))
}
