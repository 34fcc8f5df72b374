package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store"
)

type provisioningTasksRepo struct {
	db dbtx
}

const taskColumns = `id, email_fingerprint, status, account_id, reason, created_at, updated_at`

func (r *provisioningTasksRepo) CreateTask(ctx context.Context, t domain.ProvisioningTask) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO provisioning_tasks (`+taskColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.EmailFingerprint,
		string(t.Status),
		mapStringNull(t.AccountID),
		mapStringNull(t.Reason),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *provisioningTasksRepo) GetTask(ctx context.Context, id string) (domain.ProvisioningTask, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM provisioning_tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		return domain.ProvisioningTask{}, mapNotFound(err)
	}
	return t, nil
}

func (r *provisioningTasksRepo) UpdateTaskStatus(
	ctx context.Context,
	id string,
	status domain.ProvisioningStatus,
	accountID, reason string,
) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE provisioning_tasks
SET status = ?,
    account_id = COALESCE(?, account_id),
    reason = COALESCE(?, reason),
    updated_at = ?
WHERE id = ?`,
		string(status),
		mapStringNull(accountID),
		mapStringNull(reason),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *provisioningTasksRepo) ListTasksByFingerprint(
	ctx context.Context,
	fingerprint string,
) ([]domain.ProvisioningTask, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+taskColumns+`
FROM provisioning_tasks
WHERE email_fingerprint = ?
ORDER BY id DESC`, fingerprint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ProvisioningTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *provisioningTasksRepo) DeleteFinishedTasksBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM provisioning_tasks
WHERE status IN ('completed', 'skipped', 'failed')
  AND updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (domain.ProvisioningTask, error) {
	var (
		t         domain.ProvisioningTask
		status    string
		accountID sql.NullString
		reason    sql.NullString
	)

	if err := s.Scan(
		&t.ID,
		&t.EmailFingerprint,
		&status,
		&accountID,
		&reason,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return domain.ProvisioningTask{}, err
	}

	t.Status = domain.ProvisioningStatus(status)
	t.AccountID = mapNullString(accountID)
	t.Reason = mapNullString(reason)
	return t, nil
}
