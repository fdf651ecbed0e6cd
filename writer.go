package mhracrawl

import "context"

// Artifacts bundles the four generated views of one run.
type Artifacts struct {
	Hierarchy   *HierarchicalView
	PDFLinks    *PDFLinkIndex
	Structure   *StructureMapping
	Certificate *UpdateCertificate
}

// ArtifactStore persists the generated artifacts. Implementations write
// a "latest" copy that is overwritten every run plus an immutable
// versioned snapshot, and return the snapshot location.
type ArtifactStore interface {
	WriteArtifacts(ctx context.Context, artifacts *Artifacts) (versionDir string, err error)
}

// ArtifactUploader pushes already-written artifact files to remote
// storage, under both a latest prefix and a per-version prefix.
type ArtifactUploader interface {
	UploadArtifacts(ctx context.Context, localDir string, versionLabel string) error
}
