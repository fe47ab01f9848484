package services

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"conversions/models"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrNotFound is returned when no row matches both the id and the owner.
var ErrNotFound = errors.New("record not found")

const jobColumns = `id, user_id, source_format, target_format, category, status,
	input_file_name, input_file_url, output_file_name, output_file_url,
	settings_json, error_message, input_size_bytes, output_size_bytes,
	created_at, completed_at`

const presetColumns = `id, user_id, name, source_format, target_format, category,
	settings_json, created_at`

type DatabaseService struct {
	db *sql.DB
}

func NewDatabaseService(databaseURL string, maxOpen, maxIdle int) (*DatabaseService, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseService{db: db}, nil
}

// NewDatabaseServiceFromDB wraps an already opened handle.
func NewDatabaseServiceFromDB(db *sql.DB) *DatabaseService {
	return &DatabaseService{db: db}
}

// Migrate applies the embedded goose migrations.
func (d *DatabaseService) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, d.db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (d *DatabaseService) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseService) Close() error {
	return d.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.ConversionJob, error) {
	var job models.ConversionJob
	err := row.Scan(
		&job.ID, &job.UserID, &job.SourceFormat, &job.TargetFormat, &job.Category, &job.Status,
		&job.InputFileName, &job.InputFileURL, &job.OutputFileName, &job.OutputFileURL,
		&job.SettingsJSON, &job.ErrorMessage, &job.InputSizeBytes, &job.OutputSizeBytes,
		&job.CreatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func scanPreset(row rowScanner) (*models.ConversionPreset, error) {
	var preset models.ConversionPreset
	err := row.Scan(
		&preset.ID, &preset.UserID, &preset.Name, &preset.SourceFormat, &preset.TargetFormat,
		&preset.Category, &preset.SettingsJSON, &preset.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

// setClause accumulates "column = $n" assignments for partial updates.
type setClause struct {
	sets []string
	args []interface{}
}

func (s *setClause) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.sets = append(s.sets, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

// where appends the id/owner predicate and returns the full statement tail.
func (s *setClause) where(id, userID string) string {
	s.args = append(s.args, id, userID)
	n := len(s.args)
	return fmt.Sprintf("SET %s WHERE id = $%d AND user_id = $%d", strings.Join(s.sets, ", "), n-1, n)
}

func (d *DatabaseService) InsertJob(ctx context.Context, job *models.ConversionJob) (*models.ConversionJob, error) {
	query := `INSERT INTO conversion_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + jobColumns

	row := d.db.QueryRowContext(ctx, query,
		job.ID, job.UserID, job.SourceFormat, job.TargetFormat, job.Category, job.Status,
		job.InputFileName, job.InputFileURL, job.OutputFileName, job.OutputFileURL,
		job.SettingsJSON, job.ErrorMessage, job.InputSizeBytes, job.OutputSizeBytes,
		job.CreatedAt, job.CompletedAt,
	)
	created, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert conversion job: %w", err)
	}
	return created, nil
}

// UpdateJob writes the non-nil patch fields of a job owned by userID in one statement.
func (d *DatabaseService) UpdateJob(ctx context.Context, id, userID string, patch models.JobPatch) (*models.ConversionJob, error) {
	if patch.Empty() {
		return nil, errors.New("empty job patch")
	}

	var set setClause
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}
	if patch.OutputFileName != nil {
		set.add("output_file_name", *patch.OutputFileName)
	}
	if patch.OutputFileURL != nil {
		set.add("output_file_url", *patch.OutputFileURL)
	}
	if patch.SettingsJSON != nil {
		set.add("settings_json", *patch.SettingsJSON)
	}
	if patch.ErrorMessage != nil {
		set.add("error_message", *patch.ErrorMessage)
	}
	if patch.InputSizeBytes != nil {
		set.add("input_size_bytes", *patch.InputSizeBytes)
	}
	if patch.OutputSizeBytes != nil {
		set.add("output_size_bytes", *patch.OutputSizeBytes)
	}
	if patch.CompletedAt != nil {
		set.add("completed_at", *patch.CompletedAt)
	}

	query := `UPDATE conversion_jobs ` + set.where(id, userID) + ` RETURNING ` + jobColumns
	job, err := scanJob(d.db.QueryRowContext(ctx, query, set.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update conversion job %s: %w", id, err)
	}
	return job, nil
}

func (d *DatabaseService) FindJob(ctx context.Context, id, userID string) (*models.ConversionJob, error) {
	query := `SELECT ` + jobColumns + ` FROM conversion_jobs WHERE id = $1 AND user_id = $2`
	job, err := scanJob(d.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversion job %s: %w", id, err)
	}
	return job, nil
}

func (d *DatabaseService) ListJobs(ctx context.Context, userID string) ([]models.ConversionJob, error) {
	query := `SELECT ` + jobColumns + ` FROM conversion_jobs WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.ConversionJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list conversion jobs: %w", err)
	}
	return jobs, nil
}

func (d *DatabaseService) InsertPreset(ctx context.Context, preset *models.ConversionPreset) (*models.ConversionPreset, error) {
	query := `INSERT INTO conversion_presets (` + presetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + presetColumns

	row := d.db.QueryRowContext(ctx, query,
		preset.ID, preset.UserID, preset.Name, preset.SourceFormat, preset.TargetFormat,
		preset.Category, preset.SettingsJSON, preset.CreatedAt,
	)
	created, err := scanPreset(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert preset: %w", err)
	}
	return created, nil
}

// UpdatePreset matches on id and owner inside the UPDATE itself, so a foreign
// or concurrently deleted preset yields ErrNotFound without a prior lookup.
func (d *DatabaseService) UpdatePreset(ctx context.Context, id, userID string, patch models.PresetPatch) (*models.ConversionPreset, error) {
	if patch.Empty() {
		return nil, errors.New("empty preset patch")
	}

	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.SourceFormat != nil {
		set.add("source_format", *patch.SourceFormat)
	}
	if patch.TargetFormat != nil {
		set.add("target_format", *patch.TargetFormat)
	}
	if patch.Category != nil {
		set.add("category", *patch.Category)
	}
	if patch.SettingsJSON != nil {
		set.add("settings_json", *patch.SettingsJSON)
	}

	query := `UPDATE conversion_presets ` + set.where(id, userID) + ` RETURNING ` + presetColumns
	preset, err := scanPreset(d.db.QueryRowContext(ctx, query, set.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update preset %s: %w", id, err)
	}
	return preset, nil
}

func (d *DatabaseService) DeletePreset(ctx context.Context, id, userID string) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM conversion_presets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete preset %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPreset resolves a preset only when it belongs to userID.
func (d *DatabaseService) FindPreset(ctx context.Context, id, userID string) (*models.ConversionPreset, error) {
	query := `SELECT ` + presetColumns + ` FROM conversion_presets WHERE id = $1 AND user_id = $2`
	preset, err := scanPreset(d.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preset %s: %w", id, err)
	}
	return preset, nil
}

func (d *DatabaseService) ListPresets(ctx context.Context, userID string) ([]models.ConversionPreset, error) {
	query := `SELECT ` + presetColumns + ` FROM conversion_presets WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	presets := make([]models.ConversionPreset, 0)
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, *preset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	return presets, nil
}
