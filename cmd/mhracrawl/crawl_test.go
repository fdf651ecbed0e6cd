package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/mhracrawl"
	"github.com/fwojciec/mhracrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emptySitePage scripts a page where every navigation succeeds but no
// letter has substances; the crawl completes with an empty tree.
func emptySitePage() *mock.Page {
	return &mock.Page{
		NavigateFn: func(_ context.Context, url string) (int, error) {
			return 200, nil
		},
		WaitVisibleFn: func(_ context.Context, selector string, _ time.Duration) bool {
			return false
		},
		ElementsFn: func(_ context.Context, selector string) ([]mhracrawl.Element, error) {
			return nil, nil
		},
	}
}

func testDeps(t *testing.T, stdout, stderr *bytes.Buffer) *Dependencies {
	t.Helper()
	return &Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
		NewPage: func(cfg mhracrawl.Config, static bool) (mhracrawl.Page, error) {
			return emptySitePage(), nil
		},
		Clock: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes artifacts, records the run and prints a summary", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(t, &stdout, &stderr)

		var written *mhracrawl.Artifacts
		deps.NewStore = func(outputDir string) mhracrawl.ArtifactStore {
			assert.Equal(t, "out", outputDir)
			return &mock.ArtifactStore{
				WriteArtifactsFn: func(_ context.Context, artifacts *mhracrawl.Artifacts) (string, error) {
					written = artifacts
					return "out/Version 1", nil
				},
			}
		}
		var recorded *mhracrawl.Run
		deps.Runs = &mock.RunService{
			CreateRunFn: func(_ context.Context, run *mhracrawl.Run) error {
				recorded = run
				return nil
			},
		}

		cmd := &CrawlCmd{Letters: []string{"A"}, RequestDelay: 0, OutputDir: "out",
			MaxSubstances: -1, MaxProducts: -1, MaxDocuments: -1}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, written)
		assert.NotNil(t, written.Hierarchy)
		assert.NotNil(t, written.PDFLinks)
		assert.NotNil(t, written.Structure)
		assert.NotNil(t, written.Certificate)
		assert.Equal(t, "4.0.01.06.2025", written.Certificate.UpdateVersion,
			"version label defaults to the run date")

		require.NotNil(t, recorded)
		assert.Equal(t, "4.0.01.06.2025", recorded.VersionLabel)
		assert.Equal(t, "out/Version 1", recorded.ArtifactDir)
		assert.NotEmpty(t, recorded.CertificateHash)

		assert.Contains(t, stdout.String(), "Extraction complete.")
		assert.Contains(t, stdout.String(), "Version snapshot stored at: out/Version 1")
	})

	t.Run("a run-history failure does not fail the command", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(t, &stdout, &stderr)
		deps.NewStore = func(string) mhracrawl.ArtifactStore {
			return &mock.ArtifactStore{
				WriteArtifactsFn: func(context.Context, *mhracrawl.Artifacts) (string, error) {
					return "out/Version 1", nil
				},
			}
		}
		deps.Runs = &mock.RunService{
			CreateRunFn: func(context.Context, *mhracrawl.Run) error {
				return mhracrawl.Errorf(mhracrawl.EINTERNAL, "disk full")
			},
		}

		cmd := &CrawlCmd{Letters: []string{"A"}, RequestDelay: 0, OutputDir: "out",
			MaxSubstances: -1, MaxProducts: -1, MaxDocuments: -1}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stderr.String(), "failed to record run")
	})

	t.Run("uploads when requested", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		deps := testDeps(t, &stdout, &stderr)
		deps.NewStore = func(string) mhracrawl.ArtifactStore {
			return &mock.ArtifactStore{
				WriteArtifactsFn: func(context.Context, *mhracrawl.Artifacts) (string, error) {
					return "out/Version 1", nil
				},
			}
		}

		var uploadedDir, uploadedLabel string
		deps.NewUploader = func(bucket, prefix string) (mhracrawl.ArtifactUploader, error) {
			assert.Equal(t, "datasets", bucket)
			assert.Equal(t, "mhra", prefix)
			return &mock.ArtifactUploader{
				UploadArtifactsFn: func(_ context.Context, localDir, versionLabel string) error {
					uploadedDir = localDir
					uploadedLabel = versionLabel
					return nil
				},
			}, nil
		}

		cmd := &CrawlCmd{Letters: []string{"A"}, RequestDelay: 0, OutputDir: "out",
			MaxSubstances: -1, MaxProducts: -1, MaxDocuments: -1,
			Upload: true, Bucket: "datasets", StoragePrefix: "mhra",
			VersionLabel: "4.0.02.06.2025"}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "out", uploadedDir)
		assert.Equal(t, "4.0.02.06.2025", uploadedLabel)
		assert.Contains(t, stdout.String(), "Artifacts uploaded to remote storage.")
	})

}

func TestCrawlCmd_UploadWithoutBucket(t *testing.T) {
	t.Setenv("SUPABASE_BUCKET", "")

	var stdout, stderr bytes.Buffer
	deps := testDeps(t, &stdout, &stderr)
	deps.NewStore = func(string) mhracrawl.ArtifactStore {
		return &mock.ArtifactStore{
			WriteArtifactsFn: func(context.Context, *mhracrawl.Artifacts) (string, error) {
				return "out/Version 1", nil
			},
		}
	}

	cmd := &CrawlCmd{Letters: []string{"A"}, RequestDelay: 0, OutputDir: "out",
		MaxSubstances: -1, MaxProducts: -1, MaxDocuments: -1, Upload: true}
	err := cmd.Run(deps)
	require.Error(t, err)
	assert.Equal(t, mhracrawl.EINVALID, mhracrawl.ErrorCode(err))
}

func TestCrawlCmd_BuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("test mode restricts letters and caps", func(t *testing.T) {
		t.Parallel()

		cmd := &CrawlCmd{RequestDelay: -1, MaxSubstances: -1, MaxProducts: -1, MaxDocuments: -1, Test: true}
		cfg, err := cmd.buildConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"A"}, cfg.Letters)
		assert.Equal(t, 2, cfg.MaxSubstances)
		assert.Equal(t, 10, cfg.MaxProducts)
	})

	t.Run("unset numeric flags keep defaults", func(t *testing.T) {
		t.Parallel()

		cmd := &CrawlCmd{RequestDelay: -1, MaxSubstances: -1, MaxProducts: -1, MaxDocuments: -1}
		cfg, err := cmd.buildConfig()
		require.NoError(t, err)
		assert.Equal(t, mhracrawl.DefaultRequestDelayMS, cfg.RequestDelayMS)
		assert.Zero(t, cfg.MaxSubstances)
	})

	t.Run("explicit zero delay disables pacing", func(t *testing.T) {
		t.Parallel()

		cmd := &CrawlCmd{RequestDelay: 0, MaxSubstances: -1, MaxProducts: -1, MaxDocuments: -1}
		cfg, err := cmd.buildConfig()
		require.NoError(t, err)
		assert.Zero(t, cfg.RequestDelayMS)
	})
}
