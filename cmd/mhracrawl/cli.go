package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/mhracrawl"
	"github.com/fwojciec/mhracrawl/sqlite"
)

// Dependencies holds all services and configuration for command execution.
// Factories are used where the concrete implementation depends on flags,
// so tests can substitute fakes.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB   *sqlite.DB
	Runs mhracrawl.RunService

	// NewPage builds the automation engine for a crawl: a headless
	// browser, or the static HTTP engine when static is true.
	NewPage func(cfg mhracrawl.Config, static bool) (mhracrawl.Page, error)

	// NewStore builds the artifact store rooted at the output directory.
	NewStore func(outputDir string) mhracrawl.ArtifactStore

	// NewUploader builds the remote uploader for a bucket and prefix.
	NewUploader func(bucket, prefix string) (mhracrawl.ArtifactUploader, error)

	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl CrawlCmd `cmd:"" help:"Run a full extraction crawl and write the JSON artifacts"`
	Runs  RunsCmd  `cmd:"" help:"List recorded crawl runs"`
}

// CrawlCmd is the "crawl" subcommand. Numeric flags default to -1 so an
// explicit 0 ("unlimited") can be told apart from "not set".
type CrawlCmd struct {
	Config        string   `short:"c" help:"Path to a YAML config file"`
	Letters       []string `short:"l" help:"Restrict the crawl to these letter/digit symbols"`
	RequestDelay  int      `default:"-1" help:"Politeness delay between page requests in milliseconds"`
	VersionLabel  string   `help:"Version label stored in the update certificate. Defaults to 4.0.<DD.MM.YYYY>"`
	BasePath      string   `help:"Base path recorded in the structure mapping metadata. Defaults to the output directory"`
	OutputDir     string   `short:"o" default:"public" help:"Directory for generated JSON artifacts"`
	MaxSubstances int      `default:"-1" help:"Cap substances per letter (0 = unlimited)"`
	MaxProducts   int      `default:"-1" help:"Cap products per substance (0 = unlimited)"`
	MaxDocuments  int      `default:"-1" help:"Cap documents per product (0 = unlimited)"`
	NoHeadless    bool     `help:"Disable headless mode to watch the browser"`
	Static        bool     `help:"Use the plain HTTP engine instead of a browser"`
	Test          bool     `help:"Test run: letter A only, 2 substances, 10 products per substance"`
	Upload        bool     `help:"Upload generated artifacts to Supabase Storage"`
	Bucket        string   `help:"Supabase Storage bucket name. Overrides SUPABASE_BUCKET"`
	StoragePrefix string   `default:"mhra" help:"Storage key prefix for uploads"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `default:"20" help:"Maximum number of runs to list"`
}
