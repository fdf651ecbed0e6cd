package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/mhracrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMain returns a Main with a temp-dir run-history database.
func newTestMain(t *testing.T) *Main {
	t.Helper()
	return &Main{DBPath: filepath.Join(t.TempDir(), "mhracrawl.db")}
}

func TestMain_Help(t *testing.T) {
	t.Run("help lists the commands", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := newTestMain(t).Run(context.Background(), []string{"--help"}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "crawl")
		assert.Contains(t, stdout.String(), "runs")
	})

	t.Run("no arguments prints help and errors", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := newTestMain(t).Run(context.Background(), nil, &stdout, &stderr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "crawl")
	})

	t.Run("unknown command errors", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := newTestMain(t).Run(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
		assert.Error(t, err)
	})
}

// newFixtureSite serves a minimal one-letter site: one substance, one
// product, two documents.
func newFixtureSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/substance-index/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><nav><ul>
			<li class="substance-name"><a href="/substance/ASPIRIN">ASPIRIN</a></li>
		</ul></nav></body></html>`)
	})
	mux.HandleFunc("/substance/ASPIRIN", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><nav><ul>
			<li class="product-name"><a href="/product/aspirin-75">Aspirin 75mg Tablets</a></li>
		</ul></nav></body></html>`)
	})
	mux.HandleFunc("/product/aspirin-75", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><section class="column results">
			<div class="search-result"><dl>
				<dt class="left"><p class="icon">SPC</p></dt>
				<dd class="right">
					<a href="/files/spc-123.pdf"><p class="title">SPC Document</p></a>
					<p class="metadata">File size: 900 KB</p>
				</dd>
			</dl></div>
			<div class="search-result"><dl>
				<dt class="left"><p class="icon">PIL</p></dt>
				<dd class="right">
					<a href="/files/pil-456.pdf"><p class="title">Leaflet</p></a>
				</dd>
			</dl></div>
		</section></body></html>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCrawlCommand(t *testing.T) {
	srv := newFixtureSite(t)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfgYAML := fmt.Sprintf("base_url: %s\nletters: [A]\nrequest_delay_ms: 0\n", srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0644))

	outputDir := filepath.Join(t.TempDir(), "public")
	m := newTestMain(t)

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{
		"crawl", "--static",
		"-c", cfgPath,
		"-o", outputDir,
		"--version-label", "4.0.01.06.2025",
	}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	assert.Contains(t, stdout.String(), "Extraction complete.")
	assert.Contains(t, stdout.String(), "Letters: 1  Substances: 1  Products: 1  Documents: 2")

	for _, name := range mhracrawl.GeneratedFileNames() {
		assert.FileExists(t, filepath.Join(outputDir, name))
		assert.FileExists(t, filepath.Join(outputDir, "Version 1", name))
	}

	data, err := os.ReadFile(filepath.Join(outputDir, mhracrawl.CertificateFileName))
	require.NoError(t, err)
	var cert mhracrawl.UpdateCertificate
	require.NoError(t, json.Unmarshal(data, &cert))
	assert.Equal(t, "4.0.01.06.2025", cert.UpdateVersion)
	assert.Equal(t, 2, cert.Statistics.TotalPDFs)

	data, err = os.ReadFile(filepath.Join(outputDir, mhracrawl.PDFLinksFileName))
	require.NoError(t, err)
	var index mhracrawl.PDFLinkIndex
	require.NoError(t, json.Unmarshal(data, &index))
	require.Equal(t, 2, index.TotalPDFLinks)
	assert.Equal(t, srv.URL+"/files/spc-123.pdf", index.PDFLinks[0].PDFURL)
	require.NotNil(t, index.PDFLinks[0].FileSizeKB)
	assert.Equal(t, 900, *index.PDFLinks[0].FileSizeKB)

	// The run was recorded; the runs command lists it.
	stdout.Reset()
	stderr.Reset()
	require.NoError(t, m.Run(context.Background(), []string{"runs"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "4.0.01.06.2025")
	assert.Contains(t, stdout.String(), "letters=1 substances=1 products=1 documents=2")
}

func TestRunsCommand_Empty(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := newTestMain(t).Run(context.Background(), []string{"runs"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No runs recorded.")
}

func TestCrawlCommand_TestMode(t *testing.T) {
	srv := newFixtureSite(t)

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfgYAML := fmt.Sprintf("base_url: %s\nrequest_delay_ms: 0\n", srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0644))

	outputDir := filepath.Join(t.TempDir(), "public")
	var stdout, stderr bytes.Buffer
	err := newTestMain(t).Run(context.Background(), []string{
		"crawl", "--static", "--test",
		"-c", cfgPath,
		"-o", outputDir,
	}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	// Test mode restricts the run to the letter A.
	assert.Contains(t, stdout.String(), "Letters: 1 ")
	assert.FileExists(t, filepath.Join(outputDir, mhracrawl.UltraFileName))
}
