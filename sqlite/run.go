package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/mhracrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ mhracrawl.RunService = (*RunService)(nil)

// RunService implements mhracrawl.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a completed crawl run.
func (s *RunService) CreateRun(ctx context.Context, run *mhracrawl.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, version_label, source, started_at, total_letters,
			total_substances, total_products, total_documents, artifact_dir,
			certificate_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.VersionLabel, run.Source, run.StartedAt.UTC().Format(time.RFC3339),
		run.TotalLetters, run.TotalSubstances, run.TotalProducts, run.TotalDocuments,
		run.ArtifactDir, run.CertificateHash, run.CreatedAt.Format(time.RFC3339))

	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*mhracrawl.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, version_label, source, started_at, total_letters,
			total_substances, total_products, total_documents, artifact_dir,
			certificate_hash, created_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, mhracrawl.Errorf(mhracrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter mhracrawl.RunFilter) ([]*mhracrawl.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, version_label, source, started_at, total_letters,
		total_substances, total_products, total_documents, artifact_dir,
		certificate_hash, created_at FROM runs WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.VersionLabel != nil {
		query.WriteString(" AND version_label = ?")
		args = append(args, *filter.VersionLabel)
	}

	query.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*mhracrawl.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// scanRun reads one run row from either *sql.Row or *sql.Rows.
func scanRun(scan func(dest ...any) error) (*mhracrawl.Run, error) {
	var run mhracrawl.Run
	var startedAt, createdAt string

	if err := scan(&run.ID, &run.VersionLabel, &run.Source, &startedAt,
		&run.TotalLetters, &run.TotalSubstances, &run.TotalProducts, &run.TotalDocuments,
		&run.ArtifactDir, &run.CertificateHash, &createdAt); err != nil {
		return nil, err
	}

	var parseErr error
	run.StartedAt, parseErr = time.Parse(time.RFC3339, startedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", parseErr)
	}
	run.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", parseErr)
	}

	return &run, nil
}
