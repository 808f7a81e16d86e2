// Package wallet loads the deck, binds per-type actions and persists what
// the actions change.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/config"
	"github.com/colonyops/cardwallet/internal/core/deck"
)

// CardStore persists cards. Implemented by stores.CardStore.
type CardStore interface {
	LoadCards(ctx context.Context, owner string) ([]card.Card, error)
	Get(ctx context.Context, owner, id string) (card.Card, error)
	Count(ctx context.Context, owner string) (int, error)
	NextPosition(ctx context.Context, owner string) (int, error)
	SaveCard(ctx context.Context, owner string, c card.Card) error
	SaveOrder(ctx context.Context, owner string, cards []card.Card) error
	ArchiveCard(ctx context.Context, owner, id string) error
}

// NewCard describes a card to add.
type NewCard struct {
	Type    card.Type         `json:"type"`
	Title   string            `json:"title"`
	Content string            `json:"content,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}

// Service owns the deck's persistence for one user.
type Service struct {
	store    CardStore
	owner    string
	registry *Registry
	log      zerolog.Logger
	now      func() time.Time

	// SaveOrderAsync hands snapshots to a single writer goroutine. Only
	// the newest unsaved snapshot is kept.
	orderMu      sync.Mutex
	orderPending []card.Card
	orderQueued  bool
	orderWriting bool
	wg           sync.WaitGroup
}

// NewService creates a Service for cfg.User.
func NewService(store CardStore, cfg *config.Config, log zerolog.Logger) *Service {
	registry := NewRegistry()
	registry.SetOverrides(cfg.Cards.Overrides)
	return &Service{
		store:    store,
		owner:    cfg.User,
		registry: registry,
		log:      log,
		now:      time.Now,
	}
}

// Owner returns the user whose deck the service manages.
func (s *Service) Owner() string {
	return s.owner
}

// Registry returns the action registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Load returns the deck in position order with actions bound.
func (s *Service) Load(ctx context.Context) ([]card.Card, error) {
	cards, err := s.store.LoadCards(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	for i := range cards {
		cards[i] = s.Bind(cards[i])
	}
	s.log.Debug().Int("count", len(cards)).Msg("deck loaded")
	return cards, nil
}

// Bind sets c's actions from the registry.
func (s *Service) Bind(c card.Card) card.Card {
	return s.registry.Bind(s, c)
}

// Get returns an active card with actions bound.
func (s *Service) Get(ctx context.Context, id string) (card.Card, error) {
	c, err := s.store.Get(ctx, s.owner, id)
	if err != nil {
		return card.Card{}, err
	}
	return s.Bind(c), nil
}

// SaveCard persists c.
func (s *Service) SaveCard(ctx context.Context, c card.Card) error {
	if err := s.store.SaveCard(ctx, s.owner, c); err != nil {
		return err
	}
	s.log.Debug().Str("card", c.ID).Msg("card saved")
	return nil
}

// Add creates a card at the end of the deck.
func (s *Service) Add(ctx context.Context, nc NewCard) (card.Card, error) {
	if nc.Type == "" {
		return card.Card{}, errors.New("card type is required")
	}

	pos, err := s.store.NextPosition(ctx, s.owner)
	if err != nil {
		return card.Card{}, err
	}

	now := s.now()
	c := card.Card{
		ID:        uuid.NewString(),
		Type:      nc.Type,
		Position:  pos,
		Title:     strings.TrimSpace(nc.Title),
		Content:   nc.Content,
		Data:      nc.Data,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveCard(ctx, s.owner, c); err != nil {
		return card.Card{}, err
	}

	s.log.Info().Str("card", c.ID).Str("type", string(c.Type)).Msg("card added")
	return s.Bind(c), nil
}

// Archive hides a card. Archiving an already archived card succeeds.
func (s *Service) Archive(ctx context.Context, id string) error {
	if err := s.store.ArchiveCard(ctx, s.owner, id); err != nil {
		return err
	}
	s.log.Info().Str("card", id).Msg("card archived")
	return nil
}

// Reorder persists a new deck order. ids must be a permutation of the active
// cards.
func (s *Service) Reorder(ctx context.Context, ids []string) ([]card.Card, error) {
	cards, err := s.store.LoadCards(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}

	nav := deck.New(deck.Config{})
	nav.Load(cards)
	if err := nav.Reorder(ids); err != nil {
		return nil, err
	}

	ordered := nav.Cards()
	if err := s.store.SaveOrder(ctx, s.owner, ordered); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return ordered, nil
}

// SaveOrderAsync persists positions in the background. Saves run one at a
// time in call order; a snapshot superseded before its turn is skipped, so
// the last call always wins. Failures are logged and the in-memory order
// stays authoritative until the next load.
func (s *Service) SaveOrderAsync(cards []card.Card) {
	snapshot := make([]card.Card, len(cards))
	copy(snapshot, cards)

	s.orderMu.Lock()
	defer s.orderMu.Unlock()
	s.orderPending = snapshot
	s.orderQueued = true
	if s.orderWriting {
		return
	}
	s.orderWriting = true
	s.wg.Add(1)
	go s.writeOrders()
}

func (s *Service) writeOrders() {
	defer s.wg.Done()
	for {
		s.orderMu.Lock()
		if !s.orderQueued {
			s.orderWriting = false
			s.orderMu.Unlock()
			return
		}
		snapshot := s.orderPending
		s.orderPending, s.orderQueued = nil, false
		s.orderMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s.store.SaveOrder(ctx, s.owner, snapshot); err != nil {
			s.log.Error().Err(err).Int("count", len(snapshot)).Msg("failed to save deck order")
		}
		cancel()
	}
}

// Wait blocks until background writes finish.
func (s *Service) Wait() {
	s.wg.Wait()
}
