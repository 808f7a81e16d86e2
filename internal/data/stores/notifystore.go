package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/cardwallet/internal/core/notify"
	"github.com/colonyops/cardwallet/internal/data/db"
)

// notificationLimit caps stored history; older rows are pruned on save.
const notificationLimit = 500

const (
	insertNotification  = "INSERT INTO notifications (level, message, card_id, source, created_at) VALUES (?, ?, ?, ?, ?)"
	pruneNotifications  = "DELETE FROM notifications WHERE id <= ?"
	selectNotifications = "SELECT id, level, message, card_id, source, created_at FROM notifications ORDER BY created_at DESC, id DESC"
)

// NotifyStore keeps notification history in the notifications table.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

// Save inserts n and trims history to notificationLimit rows in the same
// transaction. A zero CreatedAt is stamped with the current time.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	var id int64
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertNotification,
			string(n.Level), n.Message, n.CardID, n.Source, n.CreatedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		if id > notificationLimit {
			if _, err := tx.ExecContext(ctx, pruneNotifications, id-notificationLimit); err != nil {
				return fmt.Errorf("prune notifications: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns the history newest first. It never returns a nil slice.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Conn().QueryContext(ctx, selectNotifications)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []notify.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *NotifyStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, `DELETE FROM notifications`); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}

func scanNotification(row scanner) (notify.Notification, error) {
	var (
		n       notify.Notification
		level   string
		created int64
	)
	if err := row.Scan(&n.ID, &level, &n.Message, &n.CardID, &n.Source, &created); err != nil {
		return notify.Notification{}, fmt.Errorf("scan notification: %w", err)
	}
	n.Level = notify.ParseLevel(level)
	n.CreatedAt = time.Unix(0, created)
	return n, nil
}
