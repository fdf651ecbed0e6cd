// Package fs provides file-based persistence for generated artifacts.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/mhracrawl"
)

// VersionPrefix names the immutable snapshot directories: "Version 1",
// "Version 2", and so on.
const VersionPrefix = "Version "

// Ensure Writer implements mhracrawl.ArtifactStore at compile time.
var _ mhracrawl.ArtifactStore = (*Writer)(nil)

// Writer writes the four generated JSON artifacts into a public
// directory. The latest copies are overwritten in the directory root;
// each run also gets a fresh "Version N" snapshot directory.
type Writer struct {
	publicDir string
}

// NewWriter creates a Writer rooted at the given public directory.
func NewWriter(publicDir string) *Writer {
	return &Writer{publicDir: publicDir}
}

// WriteArtifacts writes all four artifacts and returns the snapshot
// directory for this run.
func (w *Writer) WriteArtifacts(ctx context.Context, artifacts *mhracrawl.Artifacts) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.publicDir, 0755); err != nil {
		return "", fmt.Errorf("create public dir: %w", err)
	}

	versionDir, err := w.nextVersionDir()
	if err != nil {
		return "", err
	}

	files := []struct {
		name    string
		payload any
	}{
		{mhracrawl.UltraFileName, artifacts.Hierarchy},
		{mhracrawl.PDFLinksFileName, artifacts.PDFLinks},
		{mhracrawl.StructureFileName, artifacts.Structure},
		{mhracrawl.CertificateFileName, artifacts.Certificate},
	}
	for _, f := range files {
		if err := WriteJSON(filepath.Join(w.publicDir, f.name), f.payload); err != nil {
			return "", err
		}
		if err := WriteJSON(filepath.Join(versionDir, f.name), f.payload); err != nil {
			return "", err
		}
	}

	return versionDir, nil
}

// nextVersionDir creates and returns the snapshot directory with the
// lowest unused version number (max existing + 1).
func (w *Writer) nextVersionDir() (string, error) {
	entries, err := os.ReadDir(w.publicDir)
	if err != nil {
		return "", fmt.Errorf("read public dir: %w", err)
	}

	maxVersion := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), VersionPrefix) {
			continue
		}
		suffix := strings.TrimSpace(strings.TrimPrefix(entry.Name(), VersionPrefix))
		if n, err := strconv.Atoi(suffix); err == nil && n > maxVersion {
			maxVersion = n
		}
	}

	dir := filepath.Join(w.publicDir, fmt.Sprintf("%s%d", VersionPrefix, maxVersion+1))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create version dir: %w", err)
	}
	return dir, nil
}

// WriteJSON writes a payload as UTF-8 JSON with two-space indentation,
// unescaped HTML, and a trailing newline.
func WriteJSON(path string, payload any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
