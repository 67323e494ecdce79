// Package store persists sync pairs, their jobs and the files each job copied.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/filemanager/filemanager/internal/db"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrPairNotFound = errors.New("store: sync pair not found")
	ErrJobNotFound  = errors.New("store: sync job not found")
)

const DefaultJobsLimit = 50

type dbPair struct {
	ID          int64  `db:"id"`
	Source      string `db:"source"`
	Destination string `db:"destination"`
	CreatedAt   string `db:"created_at"`
}

type dbJob struct {
	ID          int64          `db:"id"`
	PairID      int64          `db:"pair_id"`
	RunID       string         `db:"run_id"`
	Status      string         `db:"status"`
	FilesCopied int            `db:"files_copied"`
	Error       string         `db:"error"`
	StartedAt   string         `db:"started_at"`
	CompletedAt sql.NullString `db:"completed_at"`
}

// File is the last known state of a file under a pair's source.
type File struct {
	ID         int64  `db:"id"`
	PairID     int64  `db:"pair_id"`
	Path       string `db:"path"`
	Hash       string `db:"hash"`
	Size       int64  `db:"size"`
	ModifiedAt string `db:"modified_at"`
}

// Store is the SQLite backed sync state.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the store at path. Use db.MemoryPath for tests.
func Open(path string) (*Store, error) {
	conn, err := db.NewSqliteDB(
		db.WithPath(path),
		db.WithMaxOpenConns(1),
		db.WithSchema(schema),
	)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: conn}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		slog.Error("close store", "error", err)
		return err
	}
	return nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetPair returns the pair linking source to destination, or ErrPairNotFound.
func (s *Store) GetPair(ctx context.Context, source, destination string) (*fsapi.SyncPair, error) {
	var row dbPair
	err := s.db.GetContext(ctx, &row,
		"SELECT id, source, destination, created_at FROM sync_pairs WHERE source = ? AND destination = ?",
		source, destination)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPairNotFound
		}
		return nil, fmt.Errorf("get pair: %w", err)
	}
	return row.toPair(), nil
}

func (s *Store) GetPairByID(ctx context.Context, id int64) (*fsapi.SyncPair, error) {
	var row dbPair
	err := s.db.GetContext(ctx, &row,
		"SELECT id, source, destination, created_at FROM sync_pairs WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPairNotFound
		}
		return nil, fmt.Errorf("get pair %d: %w", id, err)
	}
	return row.toPair(), nil
}

// CreatePair links source to destination. Creating an existing pair returns it unchanged.
func (s *Store) CreatePair(ctx context.Context, source, destination string) (*fsapi.SyncPair, error) {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sync_pairs (source, destination, created_at)
		VALUES (:source, :destination, :created_at)
		ON CONFLICT (source, destination) DO NOTHING`,
		dbPair{Source: source, Destination: destination, CreatedAt: formatTime(time.Now())})
	if err != nil {
		return nil, fmt.Errorf("create pair: %w", err)
	}
	return s.GetPair(ctx, source, destination)
}

func (s *Store) ListPairs(ctx context.Context) ([]fsapi.SyncPair, error) {
	var rows []dbPair
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT id, source, destination, created_at FROM sync_pairs ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}

	pairs := make([]fsapi.SyncPair, 0, len(rows))
	for _, r := range rows {
		pairs = append(pairs, *r.toPair())
	}
	return pairs, nil
}

// CreateJob starts a running job for the pair with a fresh run id.
func (s *Store) CreateJob(ctx context.Context, pairID int64) (*fsapi.SyncJob, error) {
	row := dbJob{
		PairID:    pairID,
		RunID:     uuid.NewString(),
		Status:    string(fsapi.JobRunning),
		StartedAt: formatTime(time.Now()),
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sync_jobs (pair_id, run_id, status, started_at)
		VALUES (:pair_id, :run_id, :status, :started_at)`, row)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return s.GetJob(ctx, id)
}

// FinishJob moves a job to a terminal status.
func (s *Store) FinishJob(ctx context.Context, jobID int64, status fsapi.JobStatus, filesCopied int, jobErr error) (*fsapi.SyncJob, error) {
	msg := ""
	if jobErr != nil {
		msg = jobErr.Error()
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE sync_jobs SET status = ?, files_copied = ?, error = ?, completed_at = ? WHERE id = ?",
		string(status), filesCopied, msg, formatTime(time.Now()), jobID)
	if err != nil {
		return nil, fmt.Errorf("finish job %d: %w", jobID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrJobNotFound
	}
	return s.GetJob(ctx, jobID)
}

func (s *Store) GetJob(ctx context.Context, jobID int64) (*fsapi.SyncJob, error) {
	var row dbJob
	err := s.db.GetContext(ctx, &row, "SELECT * FROM sync_jobs WHERE id = ?", jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job %d: %w", jobID, err)
	}
	return row.toJob(), nil
}

// ListJobs returns up to limit jobs of a pair, newest first.
func (s *Store) ListJobs(ctx context.Context, pairID int64, limit int) ([]fsapi.SyncJob, error) {
	if _, err := s.GetPairByID(ctx, pairID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultJobsLimit
	}

	var rows []dbJob
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM sync_jobs WHERE pair_id = ? ORDER BY id DESC LIMIT ?", pairID, limit); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	jobs := make([]fsapi.SyncJob, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, *r.toJob())
	}
	return jobs, nil
}

// GetFileByPath returns the recorded file, or nil if the path was never synced.
func (s *Store) GetFileByPath(ctx context.Context, pairID int64, path string) (*File, error) {
	var f File
	err := s.db.GetContext(ctx, &f, "SELECT * FROM files WHERE pair_id = ? AND path = ?", pairID, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get file %s: %w", path, err)
	}
	return &f, nil
}

// UpsertFile records the current hash of a file and returns its id.
func (s *Store) UpsertFile(ctx context.Context, pairID int64, path, hash string, size int64) (int64, error) {
	return upsertFile(ctx, s.db, pairID, path, hash, size)
}

// AddSyncedFile links a file to the job that copied it.
func (s *Store) AddSyncedFile(ctx context.Context, jobID, fileID int64, hash string) error {
	return addSyncedFile(ctx, s.db, jobID, fileID, hash)
}

// SyncedFiles lists the paths a job copied.
func (s *Store) SyncedFiles(ctx context.Context, jobID int64) ([]string, error) {
	var paths []string
	err := s.db.SelectContext(ctx, &paths, `
		SELECT f.path FROM synced_files sf
		JOIN files f ON f.id = sf.file_id
		WHERE sf.job_id = ? ORDER BY sf.id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("synced files: %w", err)
	}
	return paths, nil
}

func upsertFile(ctx context.Context, q sqlx.QueryerContext, pairID int64, path, hash string, size int64) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, q, &id, `
		INSERT INTO files (pair_id, path, hash, size, modified_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (pair_id, path) DO UPDATE SET
			hash = excluded.hash,
			size = excluded.size,
			modified_at = excluded.modified_at
		RETURNING id`,
		pairID, path, hash, size, formatTime(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("upsert file %s: %w", path, err)
	}
	return id, nil
}

func addSyncedFile(ctx context.Context, e sqlx.ExecerContext, jobID, fileID int64, hash string) error {
	if _, err := e.ExecContext(ctx,
		"INSERT INTO synced_files (job_id, file_id, hash) VALUES (?, ?, ?)", jobID, fileID, hash); err != nil {
		return fmt.Errorf("add synced file: %w", err)
	}
	return nil
}

func (r dbPair) toPair() *fsapi.SyncPair {
	return &fsapi.SyncPair{
		ID:          r.ID,
		Source:      r.Source,
		Destination: r.Destination,
		CreatedAt:   parseTime(r.CreatedAt),
	}
}

func (r dbJob) toJob() *fsapi.SyncJob {
	job := &fsapi.SyncJob{
		ID:          r.ID,
		PairID:      r.PairID,
		RunID:       r.RunID,
		Status:      fsapi.JobStatus(r.Status),
		FilesCopied: r.FilesCopied,
		Error:       r.Error,
		StartedAt:   parseTime(r.StartedAt),
	}
	if r.CompletedAt.Valid {
		t := parseTime(r.CompletedAt.String)
		job.CompletedAt = &t
	}
	return job
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		slog.Warn("store bad timestamp", "value", s, "error", err)
	}
	return t
}
