package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/cardwallet/internal/core/card"
)

func seedCards(t *testing.T, s *CardStore, owner string, cards ...card.Card) {
	t.Helper()
	for _, c := range cards {
		require.NoError(t, s.SaveCard(context.Background(), owner, c))
	}
}

func TestCardStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewCardStore(openTestDB(t))

	seedCards(t, s, "ada",
		card.Card{ID: "b", Type: card.TypeLoyalty, Position: 2, Title: "Coffee", Data: map[string]string{"points": "12"}},
		card.Card{ID: "a", Type: card.TypeProfile, Position: 1, Title: "Ada", Content: "# Hi"},
	)
	seedCards(t, s, "bob", card.Card{ID: "z", Type: card.TypeSettings})

	cards, err := s.LoadCards(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "a", cards[0].ID)
	assert.Equal(t, card.TypeProfile, cards[0].Type)
	assert.Equal(t, "# Hi", cards[0].Content)
	assert.Nil(t, cards[0].Data)
	assert.False(t, cards[0].CreatedAt.IsZero())

	assert.Equal(t, "b", cards[1].ID)
	assert.Equal(t, "12", cards[1].Get("points"))
}

func TestCardStore_EqualPositionsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewCardStore(openTestDB(t))

	base := time.Unix(1_700_000_000, 0)
	seedCards(t, s, "ada",
		card.Card{ID: "first", Type: card.TypeProfile, CreatedAt: base},
		card.Card{ID: "second", Type: card.TypeProfile, CreatedAt: base.Add(time.Second)},
		card.Card{ID: "third", Type: card.TypeProfile, CreatedAt: base.Add(2 * time.Second)},
	)

	cards, err := s.LoadCards(ctx, "ada")
	require.NoError(t, err)
	ids := []string{cards[0].ID, cards[1].ID, cards[2].ID}
	assert.Equal(t, []string{"first", "second", "third"}, ids)
}

func TestCardStore_SaveCardUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewCardStore(openTestDB(t))

	c := card.Card{ID: "s", Type: card.TypeSettings, Data: map[string]string{"dark_mode": "off"}}
	seedCards(t, s, "ada", c)
	seedCards(t, s, "ada", c.With("dark_mode", "on"))

	got, err := s.Get(ctx, "ada", "s")
	require.NoError(t, err)
	assert.Equal(t, "on", got.Get("dark_mode"))

	n, err := s.Count(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCardStore_SaveOrder(t *testing.T) {
	ctx := context.Background()
	s := NewCardStore(openTestDB(t))

	seedCards(t, s, "ada",
		card.Card{ID: "a", Type: card.TypeProfile, Position: 0},
		card.Card{ID: "b", Type: card.TypeBusinessID, Position: 1},
		card.Card{ID: "c", Type: card.TypeLoyalty, Position: 2},
	)

	err := s.SaveOrder(ctx, "ada", []card.Card{
		{ID: "c", Position: 0},
		{ID: "a", Position: 1},
		{ID: "b", Position: 2},
		{ID: "missing", Position: 3},
	})
	require.NoError(t, err)

	cards, err := s.LoadCards(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "c", cards[0].ID)
	assert.Equal(t, "a", cards[1].ID)
	assert.Equal(t, "b", cards[2].ID)

	next, err := s.NextPosition(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestCardStore_ArchiveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewCardStore(openTestDB(t))

	seedCards(t, s, "ada",
		card.Card{ID: "a", Type: card.TypeProfile, Position: 0},
		card.Card{ID: "b", Type: card.TypeLoyalty, Position: 1},
	)

	require.NoError(t, s.ArchiveCard(ctx, "ada", "b"))
	require.NoError(t, s.ArchiveCard(ctx, "ada", "b"), "second archive is a no-op")

	cards, err := s.LoadCards(ctx, "ada")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "a", cards[0].ID)

	_, err = s.Get(ctx, "ada", "b")
	assert.ErrorIs(t, err, card.ErrNotFound)

	assert.ErrorIs(t, s.ArchiveCard(ctx, "ada", "nope"), card.ErrNotFound)
	assert.ErrorIs(t, s.ArchiveCard(ctx, "bob", "a"), card.ErrNotFound, "cards are scoped by owner")
}

func TestCardStore_EmptyDeck(t *testing.T) {
	ctx := context.Background()
	s := NewCardStore(openTestDB(t))

	cards, err := s.LoadCards(ctx, "ada")
	require.NoError(t, err)
	assert.Empty(t, cards)

	next, err := s.NextPosition(ctx, "ada")
	require.NoError(t, err)
	assert.Zero(t, next)
}
