// Package card defines the card and action domain types shared by the deck,
// the resolver and the presentation layer.
package card

import (
	"errors"
	"maps"
	"strings"
	"time"
)

// ErrNotFound is returned when a card id does not resolve to a card.
var ErrNotFound = errors.New("card not found")

// Type tags a card with the category used to pick its rendering and its
// default action set. The set is open: unknown types render generically and
// carry no actions unless configured.
type Type string

const (
	TypeProfile     Type = "profile"
	TypeBusinessID  Type = "business_id"
	TypeSettings    Type = "settings"
	TypeAIAssistant Type = "ai_assistant"
	TypeLoyalty     Type = "loyalty"
)

// KnownTypes lists the built-in card types in their default deck order.
var KnownTypes = []Type{TypeProfile, TypeBusinessID, TypeSettings, TypeAIAssistant, TypeLoyalty}

// ParseType normalizes s into a Type.
func ParseType(s string) Type {
	return Type(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether t is one of the built-in types.
func (t Type) Known() bool {
	for _, k := range KnownTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Card is a unit of the deck.
//
// Cards are values: the navigator hands out copies and takes replacements
// through its mutation methods. Data must be cloned before it is changed.
type Card struct {
	ID       string            `json:"id"`
	Type     Type              `json:"type"`
	Position int               `json:"position"`
	Title    string            `json:"title"`
	Content  string            `json:"content,omitempty"` // markdown, rendered by the presentation layer
	Data     map[string]string `json:"data,omitempty"`
	// Actions are bound by the registry when the card is loaded and are not
	// persisted.
	Actions   Actions   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy of c that does not share its Data map.
func (c Card) Clone() Card {
	out := c
	out.Data = maps.Clone(c.Data)
	return out
}

// Get returns the data value stored under key.
func (c Card) Get(key string) string {
	return c.Data[key]
}

// With returns a clone of c with key set to value.
func (c Card) With(key, value string) Card {
	out := c.Clone()
	if out.Data == nil {
		out.Data = make(map[string]string, 1)
	}
	out.Data[key] = value
	return out
}

// DisplayTitle returns the title, falling back to the type name.
func (c Card) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return strings.ReplaceAll(string(c.Type), "_", " ")
}
