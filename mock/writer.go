package mock

import (
	"context"

	"github.com/fwojciec/mhracrawl"
)

var _ mhracrawl.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of mhracrawl.ArtifactStore.
type ArtifactStore struct {
	WriteArtifactsFn func(ctx context.Context, artifacts *mhracrawl.Artifacts) (string, error)
}

func (s *ArtifactStore) WriteArtifacts(ctx context.Context, artifacts *mhracrawl.Artifacts) (string, error) {
	return s.WriteArtifactsFn(ctx, artifacts)
}

var _ mhracrawl.ArtifactUploader = (*ArtifactUploader)(nil)

// ArtifactUploader is a mock implementation of mhracrawl.ArtifactUploader.
type ArtifactUploader struct {
	UploadArtifactsFn func(ctx context.Context, localDir string, versionLabel string) error
}

func (u *ArtifactUploader) UploadArtifacts(ctx context.Context, localDir string, versionLabel string) error {
	return u.UploadArtifactsFn(ctx, localDir, versionLabel)
}
