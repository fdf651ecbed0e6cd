// Package supabase uploads generated artifacts to Supabase Storage.
package supabase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	storage "github.com/supabase-community/storage-go"
	supabase "github.com/supabase-community/supabase-go"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/mhracrawl"
)

// DefaultPrefix is the storage key prefix used when none is configured.
const DefaultPrefix = "mhra"

// Ensure Uploader implements mhracrawl.ArtifactUploader at compile time.
var _ mhracrawl.ArtifactUploader = (*Uploader)(nil)

// Uploader pushes the generated JSON artifacts to a Supabase Storage
// bucket: overwriting copies under <prefix>/latest/ and an immutable set
// under <prefix>/<version>/.
type Uploader struct {
	storage *storage.Client
	bucket  string
	prefix  string
}

// NewUploader creates an Uploader for a Supabase project. The API key
// must be a service-role key with write access to the bucket.
func NewUploader(projectURL, apiKey, bucket, prefix string) (*Uploader, error) {
	client, err := supabase.NewClient(projectURL, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize supabase client: %w", err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Uploader{storage: client.Storage, bucket: bucket, prefix: prefix}, nil
}

// UploadArtifacts uploads every generated file found in localDir. Files
// missing locally are skipped. Uploads run concurrently per file; the
// crawl itself is already finished by the time this runs.
func (u *Uploader) UploadArtifacts(ctx context.Context, localDir string, versionLabel string) error {
	versionFolder := strings.ReplaceAll(versionLabel, "/", "_")

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range mhracrawl.GeneratedFileNames() {
		name := name
		g.Go(func() error {
			local := filepath.Join(localDir, name)
			if _, err := os.Stat(local); err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			remotePaths := []string{
				u.prefix + "/latest/" + name,
				u.prefix + "/" + versionFolder + "/" + name,
			}
			for _, remote := range remotePaths {
				if err := u.upload(ctx, local, remote); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (u *Uploader) upload(ctx context.Context, localPath, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer file.Close()

	contentType := "application/json"
	upsert := true
	if _, err := u.storage.UploadFile(u.bucket, remotePath, file, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}); err != nil {
		return fmt.Errorf("upload %s: %w", remotePath, err)
	}
	return nil
}
