package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/data/db"
)

const cardColumns = "id, type, position, title, content, data, created_at, updated_at"

// CardStore persists cards in SQLite. Archived cards stay in the table with
// archived_at set and are never returned by LoadCards.
type CardStore struct {
	db  *db.DB
	now func() time.Time
}

// NewCardStore creates a new SQLite-backed card store.
func NewCardStore(db *db.DB) *CardStore {
	return &CardStore{db: db, now: time.Now}
}

// LoadCards returns the owner's active cards ordered by position, then by
// insertion.
func (s *CardStore) LoadCards(ctx context.Context, owner string) ([]card.Card, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT "+cardColumns+" FROM cards WHERE owner = ? AND archived_at IS NULL ORDER BY position, created_at, rowid",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	return cards, nil
}

// Get returns an active card by ID. Returns card.ErrNotFound if it does not
// exist or is archived.
func (s *CardStore) Get(ctx context.Context, owner, id string) (card.Card, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		"SELECT "+cardColumns+" FROM cards WHERE owner = ? AND id = ? AND archived_at IS NULL",
		owner, id,
	)
	c, err := scanCard(row)
	if IsNotFoundError(err) {
		return card.Card{}, card.ErrNotFound
	}
	return c, err
}

// Count returns the number of active cards.
func (s *CardStore) Count(ctx context.Context, owner string) (int, error) {
	var n int
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cards WHERE owner = ? AND archived_at IS NULL", owner,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// NextPosition returns a position after every active card.
func (s *CardStore) NextPosition(ctx context.Context, owner string) (int, error) {
	var pos sql.NullInt64
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT MAX(position) FROM cards WHERE owner = ? AND archived_at IS NULL", owner,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}
	if !pos.Valid {
		return 0, nil
	}
	return int(pos.Int64) + 1, nil
}

// SaveCard creates or updates a card.
func (s *CardStore) SaveCard(ctx context.Context, owner string, c card.Card) error {
	data, err := marshalData(c.Data)
	if err != nil {
		return err
	}

	now := s.now()
	created := c.CreatedAt
	if created.IsZero() {
		created = now
	}

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO cards (id, owner, type, position, title, content, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			position = excluded.position,
			title = excluded.title,
			content = excluded.content,
			data = excluded.data,
			updated_at = excluded.updated_at
		WHERE cards.owner = excluded.owner`,
		c.ID, owner, string(c.Type), c.Position, c.Title, c.Content, data,
		created.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save card %s: %w", c.ID, err)
	}
	return nil
}

// SaveOrder writes each card's position in one transaction. Cards that are
// archived or unknown are skipped. A write that loses a lock race with
// another wallet process is retried a few times.
func (s *CardStore) SaveOrder(ctx context.Context, owner string, cards []card.Card) error {
	var err error
	for attempt := range saveOrderAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
			}
		}
		err = s.saveOrder(ctx, owner, cards)
		if !IsBusyError(err) {
			return err
		}
	}
	return err
}

const saveOrderAttempts = 3

func (s *CardStore) saveOrder(ctx context.Context, owner string, cards []card.Card) error {
	now := s.now().UnixNano()
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"UPDATE cards SET position = ?, updated_at = ? WHERE owner = ? AND id = ? AND archived_at IS NULL",
		)
		if err != nil {
			return fmt.Errorf("prepare order update: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range cards {
			if _, err := stmt.ExecContext(ctx, c.Position, now, owner, c.ID); err != nil {
				return fmt.Errorf("update position of %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// ArchiveCard hides a card from the deck. Archiving an archived card is a
// no-op; an unknown id returns card.ErrNotFound.
func (s *CardStore) ArchiveCard(ctx context.Context, owner, id string) error {
	res, err := s.db.Conn().ExecContext(ctx,
		"UPDATE cards SET archived_at = ?, updated_at = ? WHERE owner = ? AND id = ? AND archived_at IS NULL",
		s.now().UnixNano(), s.now().UnixNano(), owner, id,
	)
	if err != nil {
		return fmt.Errorf("archive card %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive card %s: %w", id, err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = s.db.Conn().QueryRowContext(ctx,
		"SELECT 1 FROM cards WHERE owner = ? AND id = ?", owner, id,
	).Scan(&exists)
	if IsNotFoundError(err) {
		return card.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("archive card %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (card.Card, error) {
	var (
		c                card.Card
		typ              string
		data             sql.NullString
		created, updated int64
	)
	if err := row.Scan(&c.ID, &typ, &c.Position, &c.Title, &c.Content, &data, &created, &updated); err != nil {
		if IsNotFoundError(err) {
			return card.Card{}, err
		}
		return card.Card{}, fmt.Errorf("scan card: %w", err)
	}

	c.Type = card.ParseType(typ)
	c.CreatedAt = time.Unix(0, created)
	c.UpdatedAt = time.Unix(0, updated)

	if data.Valid && data.String != "" {
		if err := json.Unmarshal([]byte(data.String), &c.Data); err != nil {
			return card.Card{}, fmt.Errorf("unmarshal data of %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func marshalData(data map[string]string) (sql.NullString, error) {
	if len(data) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal card data: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
