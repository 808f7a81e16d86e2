package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/colonyops/cardwallet/internal/core/card"
	"github.com/colonyops/cardwallet/internal/core/gesture"
)

// Data keys the built-in actions read and write.
const (
	KeyRefreshedAt   = "refreshed_at"
	KeyIDNumber      = "id_number"
	KeyVerified      = "verified"
	KeyDarkMode      = "dark_mode"
	KeyNotifications = "notifications"
	KeyConversations = "conversations"
	KeyPoints        = "points"
	KeyRewardCost    = "reward_cost"
)

const defaultRewardCost = 10

var (
	ErrNoIDNumber      = errors.New("card has no ID number")
	ErrNotEnoughPoints = errors.New("not enough points")
)

// Transform computes a card's next state. It must be pure: it runs once to
// update the deck optimistically and again inside the handler.
type Transform func(c card.Card, now time.Time) (card.Card, error)

func popupAction(dir gesture.Direction, label string) card.Action {
	return card.Action{Direction: dir, Label: label, Kind: card.KindPopup}
}

// updateAction applies t to the deck at once and persists the result. A
// failed save puts the previous card back.
func updateAction(s *Service, dir gesture.Direction, label string, t Transform) card.Action {
	return card.Action{
		Direction: dir,
		Label:     label,
		Kind:      card.KindTask,
		Handler: func(ctx context.Context, c card.Card) error {
			next, err := t(c, s.now())
			if err != nil {
				return err
			}
			return s.SaveCard(ctx, next)
		},
		Tentative: &card.Tentative{
			Apply: func(m card.Mutator, c card.Card) {
				if next, err := t(c, s.now()); err == nil {
					m.Replace(next)
				}
			},
			Revert: func(m card.Mutator, before card.Card, _ int) {
				m.Replace(before)
			},
		},
	}
}

// archiveAction removes the card from the deck at once and archives it in
// the store. A failed archive restores the card where it was.
func archiveAction(s *Service, dir gesture.Direction) card.Action {
	return card.Action{
		Direction: dir,
		Label:     "Archive",
		Kind:      card.KindTask,
		Handler: func(ctx context.Context, c card.Card) error {
			return s.Archive(ctx, c.ID)
		},
		Tentative: &card.Tentative{
			Apply: func(m card.Mutator, c card.Card) {
				m.Remove(c.ID)
			},
			Revert: func(m card.Mutator, before card.Card, index int) {
				if m.Restore(before, index) {
					m.SelectID(before.ID)
				}
			},
		},
	}
}

func profileActions(s *Service) []card.Action {
	return []card.Action{
		popupAction(gesture.Up, "Profile"),
		updateAction(s, gesture.Down, "Refresh", refresh),
		popupAction(gesture.Right, "Share"),
	}
}

func businessIDActions(s *Service) []card.Action {
	return []card.Action{
		popupAction(gesture.Up, "Details"),
		updateAction(s, gesture.Down, "Verify", verify),
		archiveAction(s, gesture.Left),
	}
}

func settingsActions(s *Service) []card.Action {
	return []card.Action{
		popupAction(gesture.Up, "All settings"),
		updateAction(s, gesture.Down, "Dark mode", toggle(KeyDarkMode)),
		updateAction(s, gesture.Right, "Notifications", toggle(KeyNotifications)),
	}
}

func assistantActions(s *Service) []card.Action {
	return []card.Action{
		popupAction(gesture.Up, "Ask"),
		updateAction(s, gesture.Down, "New chat", newChat),
		popupAction(gesture.Right, "History"),
		archiveAction(s, gesture.Left),
	}
}

func loyaltyActions(s *Service) []card.Action {
	return []card.Action{
		popupAction(gesture.Up, "Rewards"),
		updateAction(s, gesture.Down, "Redeem", redeem),
		updateAction(s, gesture.Right, "Check in", checkIn),
		archiveAction(s, gesture.Left),
	}
}

func refresh(c card.Card, now time.Time) (card.Card, error) {
	return c.With(KeyRefreshedAt, now.UTC().Format(time.RFC3339)), nil
}

func verify(c card.Card, _ time.Time) (card.Card, error) {
	if c.Get(KeyIDNumber) == "" {
		return c, ErrNoIDNumber
	}
	return c.With(KeyVerified, "yes"), nil
}

func toggle(key string) Transform {
	return func(c card.Card, _ time.Time) (card.Card, error) {
		next := "on"
		if c.Get(key) == "on" {
			next = "off"
		}
		return c.With(key, next), nil
	}
}

func newChat(c card.Card, _ time.Time) (card.Card, error) {
	n, err := intValue(c, KeyConversations, 0)
	if err != nil {
		return c, err
	}
	return c.With(KeyConversations, strconv.Itoa(n+1)), nil
}

func checkIn(c card.Card, _ time.Time) (card.Card, error) {
	points, err := intValue(c, KeyPoints, 0)
	if err != nil {
		return c, err
	}
	return c.With(KeyPoints, strconv.Itoa(points+1)), nil
}

func redeem(c card.Card, _ time.Time) (card.Card, error) {
	points, err := intValue(c, KeyPoints, 0)
	if err != nil {
		return c, err
	}
	cost, err := intValue(c, KeyRewardCost, defaultRewardCost)
	if err != nil {
		return c, err
	}
	if points < cost {
		return c, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPoints, points, cost)
	}
	return c.With(KeyPoints, strconv.Itoa(points-cost)), nil
}

func intValue(c card.Card, key string, fallback int) (int, error) {
	raw := c.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s is not a number: %q", key, raw)
	}
	return n, nil
}
