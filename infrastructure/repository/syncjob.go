package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vendalytics/sales-sync-api/infrastructure/database/postgres"
	"github.com/vendalytics/sales-sync-api/internal/domain"
	"github.com/vendalytics/sales-sync-api/pkg/utils"
)

const syncJobsTable = "sync_jobs"

type SyncJobRepository interface {
	Enqueue(job *domain.SyncJob) error
	DuePending(limit int) ([]*domain.SyncJob, error)
	MarkRunning(jobID string) error
	MarkDone(jobID string) error
	MarkFailed(jobID string) error
}

type syncJobRepository struct {
	conn *postgres.Connection
}

func NewSyncJobRepository(conn *postgres.Connection) SyncJobRepository {
	return &syncJobRepository{
		conn: conn,
	}
}

// Enqueue insere um job de continuação carregando o checkpoint explícito.
// Substitui a antiga re-invocação fire-and-forget por HTTP.
func (r *syncJobRepository) Enqueue(job *domain.SyncJob) error {
	if job.ID == "" {
		job.ID = utils.GenerateID()
	}
	now := time.Now()
	if job.RunAfter.IsZero() {
		job.RunAfter = now
	}
	job.Status = domain.SyncJobPending
	job.CreatedAt = now
	job.UpdatedAt = now

	insertSQL, args, err := squirrel.
		Insert(syncJobsTable).
		Columns(
			"id", "account_id", "user_id", "platform", "full_sync", "quick_mode",
			"resume_before", "status", "attempts", "run_after", "created_at", "updated_at",
		).
		Values(
			job.ID, job.AccountID, job.UserID, job.Platform, job.FullSync, job.QuickMode,
			job.ResumeBefore, job.Status, job.Attempts, job.RunAfter, job.CreatedAt, job.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(insertSQL, args...)
	return err
}

// DuePending lista os jobs pendentes já vencidos, mais antigos primeiro.
func (r *syncJobRepository) DuePending(limit int) ([]*domain.SyncJob, error) {
	querySQL, args, err := squirrel.
		Select("id, account_id, user_id, platform, full_sync, quick_mode, resume_before, status, attempts, run_after, created_at, updated_at").
		From(syncJobsTable).
		Where(squirrel.Eq{"status": domain.SyncJobPending}).
		Where(squirrel.LtOrEq{"run_after": time.Now()}).
		OrderBy("run_after ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(querySQL, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.SyncJob, 0)
	for rows.Next() {
		job := &domain.SyncJob{}
		if err := rows.Scan(
			&job.ID,
			&job.AccountID,
			&job.UserID,
			&job.Platform,
			&job.FullSync,
			&job.QuickMode,
			&job.ResumeBefore,
			&job.Status,
			&job.Attempts,
			&job.RunAfter,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (r *syncJobRepository) MarkRunning(jobID string) error {
	return r.setStatus(jobID, domain.SyncJobRunning, true)
}

func (r *syncJobRepository) MarkDone(jobID string) error {
	return r.setStatus(jobID, domain.SyncJobDone, false)
}

func (r *syncJobRepository) MarkFailed(jobID string) error {
	return r.setStatus(jobID, domain.SyncJobFailed, false)
}

func (r *syncJobRepository) setStatus(jobID string, status domain.SyncJobStatus, incrementAttempts bool) error {
	builder := squirrel.
		Update(syncJobsTable).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": jobID}).
		PlaceholderFormat(squirrel.Dollar)

	if incrementAttempts {
		builder = builder.Set("attempts", squirrel.Expr("attempts + 1"))
	}

	updateSQL, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(updateSQL, args...)
	return err
}
