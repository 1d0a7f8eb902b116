package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/skybi/session-report/internal/archive"
	"github.com/skybi/session-report/internal/report"
)

// rowBatchSize limits the amount of report rows inserted by a single statement
const rowBatchSize = 500

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// RunRepository implements the archive.Repository interface using PostgreSQL
type RunRepository struct {
	db *pgxpool.Pool
}

var _ archive.Repository = (*RunRepository)(nil)

// Create archives a new run together with its rows
func (repo *RunRepository) Create(ctx context.Context, run *archive.Run) error {
	// Begin a new transaction
	tx, err := repo.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Create the run row itself
	sql, values, err := buildInsertRun(run)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, values...); err != nil {
		return err
	}

	// Create the report rows in batches
	for start := 0; start < len(run.Rows); start += rowBatchSize {
		sql, values, err := buildInsertRows(run.ID, start, run.Rows[start:min(start+rowBatchSize, len(run.Rows))])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, values...); err != nil {
			return err
		}
	}

	// Commit the changes
	return tx.Commit(ctx)
}

// GetByID retrieves a run by its ID
func (repo *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*archive.Run, error) {
	sql, values, err := selectRuns().Where(squirrel.Eq{"run_id": id.String()}).ToSql()
	if err != nil {
		return nil, err
	}
	return repo.getOne(ctx, sql, values)
}

// GetLatest retrieves the most recently started run
func (repo *RunRepository) GetLatest(ctx context.Context) (*archive.Run, error) {
	sql, values, err := selectRuns().OrderBy("started_at DESC").Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	return repo.getOne(ctx, sql, values)
}

func (repo *RunRepository) getOne(ctx context.Context, sql string, values []interface{}) (*archive.Run, error) {
	run, err := rowToRun(repo.db.QueryRow(ctx, sql, values...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := repo.getRows(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Rows = rows
	return run, nil
}

func (repo *RunRepository) getRows(ctx context.Context, runID uuid.UUID) ([]report.Row, error) {
	sql, values, err := psql.Select(
		"user_id",
		"name",
		"email",
		"tenant_id",
		"last_session_created_at",
	).From("report_rows").Where(squirrel.Eq{"run_id": runID.String()}).OrderBy("position").ToSql()
	if err != nil {
		return nil, err
	}

	result, err := repo.db.Query(ctx, sql, values...)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	rows := []report.Row{}
	for result.Next() {
		var row report.Row
		if err := result.Scan(&row.UserID, &row.Name, &row.Email, &row.TenantID, &row.LastSessionCreatedAt); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, result.Err()
}

func selectRuns() squirrel.SelectBuilder {
	return psql.Select(
		"run_id",
		"started_at",
		"finished_at",
		"base_url",
		"complete",
		"user_count",
	).From("report_runs")
}

func buildInsertRun(run *archive.Run) (string, []interface{}, error) {
	return psql.Insert("report_runs").
		Columns("run_id", "started_at", "finished_at", "base_url", "complete", "user_count").
		Values(run.ID.String(), run.StartedAt, run.FinishedAt, run.BaseURL, run.Complete, run.UserCount).
		ToSql()
}

func buildInsertRows(runID uuid.UUID, offset int, rows []report.Row) (string, []interface{}, error) {
	query := psql.Insert("report_rows").
		Columns("run_id", "position", "user_id", "name", "email", "tenant_id", "last_session_created_at")
	for i, row := range rows {
		query = query.Values(runID.String(), offset+i, row.UserID, row.Name, row.Email, row.TenantID, row.LastSessionCreatedAt)
	}
	return query.ToSql()
}

func rowToRun(row pgx.Row) (*archive.Run, error) {
	var (
		obj = new(archive.Run)
		id  string
	)
	if err := row.Scan(&id, &obj.StartedAt, &obj.FinishedAt, &obj.BaseURL, &obj.Complete, &obj.UserCount); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	obj.ID = parsed
	return obj, nil
}
