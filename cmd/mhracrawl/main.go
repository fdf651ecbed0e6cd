package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/fwojciec/mhracrawl"
	"github.com/fwojciec/mhracrawl/fs"
	mhragoquery "github.com/fwojciec/mhracrawl/goquery"
	mhrarod "github.com/fwojciec/mhracrawl/rod"
	mhraslog "github.com/fwojciec/mhracrawl/slog"
	"github.com/fwojciec/mhracrawl/sqlite"
	"github.com/fwojciec/mhracrawl/supabase"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path for the run history. Set before calling Run().
	DBPath string

	// SQLite database used by the run-history service.
	DB *sqlite.DB

	// RunService for end-to-end testing.
	RunService mhracrawl.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mhracrawl"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'mhracrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open the run-history database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set MHRACRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.RunService = sqlite.NewRunService(m.DB)
	deps.DB = m.DB
	deps.Runs = m.RunService

	deps.NewPage = func(cfg mhracrawl.Config, static bool) (mhracrawl.Page, error) {
		if static {
			return mhragoquery.NewPage(http.DefaultClient, cfg.NavigationTimeout()), nil
		}
		page, err := mhrarod.NewPage(cfg.Headless, cfg.NavigationTimeout())
		if err != nil {
			return nil, err
		}
		return mhraslog.NewLoggingPage(page, logger), nil
	}
	deps.NewStore = func(outputDir string) mhracrawl.ArtifactStore {
		return fs.NewWriter(outputDir)
	}
	deps.NewUploader = func(bucket, prefix string) (mhracrawl.ArtifactUploader, error) {
		projectURL := os.Getenv("SUPABASE_URL")
		apiKey := os.Getenv("SUPABASE_SERVICE_KEY")
		if projectURL == "" || apiKey == "" {
			return nil, mhracrawl.Errorf(mhracrawl.EINVALID,
				"upload requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
		return supabase.NewUploader(projectURL, apiKey, bucket, prefix)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("MHRACRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mhracrawl.db"
	}
	dir := filepath.Join(home, ".mhracrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "mhracrawl.db")
}
