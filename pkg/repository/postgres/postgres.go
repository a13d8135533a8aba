package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/repository"
	"github.com/devstudio-sec/devscan/pkg/utils/safe"
)

const uniqueViolation = "23505"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id             TEXT PRIMARY KEY,
		repository_url TEXT NOT NULL,
		credential_ref TEXT NOT NULL,
		notification   TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_credential_ref_created_at_idx
		ON notifications (credential_ref, created_at DESC)`,
}

// Repository stores notifications in PostgreSQL.
type Repository struct {
	db *sql.DB
}

var _ interfaces.NotificationRepository = (*Repository)(nil)

// New opens dsn, verifies the connection and applies the schema.
func New(ctx context.Context, dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres")
	}

	if err := db.PingContext(ctx); err != nil {
		safe.Close(db)
		return nil, goerr.Wrap(err, "failed to connect to postgres")
	}

	x := &Repository{db: db}
	if err := x.migrate(ctx); err != nil {
		safe.Close(db)
		return nil, err
	}

	return x, nil
}

func (x *Repository) migrate(ctx context.Context) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin migration")
	}
	defer safe.Rollback(tx)

	for _, stmt := range migrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply migration", goerr.V("stmt", stmt))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit migration")
	}
	return nil
}

func (x *Repository) Close() error {
	return x.db.Close()
}

func (x *Repository) InsertNotification(ctx context.Context, n *model.Notification) error {
	if n == nil || n.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "notification ID is empty")
	}

	_, err := x.db.ExecContext(ctx,
		`INSERT INTO notifications (id, repository_url, credential_ref, notification, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		n.ID.String(), n.RepositoryURL, n.CredentialRef.String(), n.Text, n.CreatedAt.UTC(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return goerr.Wrap(repository.ErrAlreadyExists, "notification already exists", goerr.V("id", n.ID))
		}
		return goerr.Wrap(err, "failed to insert notification", goerr.V("id", n.ID))
	}

	return nil
}

func (x *Repository) GetNotification(ctx context.Context, id types.NotificationID) (*model.Notification, error) {
	row := x.db.QueryRowContext(ctx,
		`SELECT id, repository_url, credential_ref, notification, created_at
		 FROM notifications WHERE id = $1`,
		id.String(),
	)

	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(repository.ErrNotFound, "notification not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get notification", goerr.V("id", id))
	}

	return n, nil
}

func (x *Repository) ListNotifications(ctx context.Context, ref types.CredentialRef) ([]*model.Notification, error) {
	rows, err := x.db.QueryContext(ctx,
		`SELECT id, repository_url, credential_ref, notification, created_at
		 FROM notifications WHERE credential_ref = $1
		 ORDER BY created_at DESC`,
		ref.String(),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications")
	}
	defer safe.Close(rows)

	result := []*model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan notification row")
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate notifications")
	}

	return result, nil
}

func (x *Repository) DeleteNotification(ctx context.Context, id types.NotificationID) error {
	res, err := x.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id.String())
	if err != nil {
		return goerr.Wrap(err, "failed to delete notification", goerr.V("id", id))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to get affected rows", goerr.V("id", id))
	}
	if n == 0 {
		return goerr.Wrap(repository.ErrNotFound, "notification not found", goerr.V("id", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*model.Notification, error) {
	var (
		n   model.Notification
		id  string
		ref string
	)
	if err := row.Scan(&id, &n.RepositoryURL, &ref, &n.Text, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.ID = types.NotificationID(id)
	n.CredentialRef = types.CredentialRef(ref)
	return &n, nil
}
