// Package deck owns the ordered card collection, the selection and the
// looping scroll offset that lets the deck scroll forever in both
// directions.
//
// The loop is modelled as three logical copies of the deck laid out along
// one axis. Virtual index v sits at offset v*stride and shows the card at
// RealIndex(v, count). The offset is kept inside the middle copy: whenever
// the nearest virtual index leaves it, the offset is shifted by a whole
// copy, which changes nothing on screen. No copy is ever materialized;
// Window renders only the cards around the selection.
package deck

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/colonyops/cardwallet/internal/core/card"
)

// ErrInvalidOrder is returned by Reorder when the ids are not a permutation
// of the deck.
var ErrInvalidOrder = errors.New("invalid card order")

// Config sizes the scroll axis.
type Config struct {
	// Extent is the size of one card along the scroll axis.
	Extent float64
	// Gap is the space between two cards.
	Gap float64
}

// Stride is the distance between two neighbouring cards.
func (c Config) Stride() float64 {
	s := c.Extent + c.Gap
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

// RealIndex maps virtual index v onto [0, count). It returns 0 for an empty
// deck.
func RealIndex(v, count int) int {
	if count <= 0 {
		return 0
	}
	return ((v % count) + count) % count
}

// ScrollUpdate describes the result of a scroll operation.
type ScrollUpdate struct {
	Offset       float64
	VirtualIndex int
	Selected     int
	// Changed is true when the selected card changed.
	Changed bool
	// Wrapped is true when the offset was shifted by a whole copy. The
	// renderer must draw this frame without a transition.
	Wrapped bool
}

// Slot is one visible position of the window.
type Slot struct {
	Virtual  int
	Index    int
	Card     card.Card
	Offset   float64 // relative to the current scroll offset
	Selected bool
}

// Navigator owns the deck. It is the only writer of the card order and the
// selection; everything else reads snapshots. Not safe for concurrent use.
type Navigator struct {
	cfg      Config
	cards    []card.Card
	selected int
	offset   float64
	locks    int
}

// New returns an empty navigator.
func New(cfg Config) *Navigator {
	return &Navigator{cfg: cfg}
}

// Config returns the scroll axis configuration.
func (n *Navigator) Config() Config {
	return n.cfg
}

// SetConfig resizes the scroll axis, keeping the current fractional
// position.
func (n *Navigator) SetConfig(cfg Config) {
	pos := n.offset / n.cfg.Stride()
	n.cfg = cfg
	n.offset = pos * n.cfg.Stride()
}

// Load replaces the deck with cards sorted by position. Equal positions keep
// their input order. The first card is selected.
func (n *Navigator) Load(cards []card.Card) {
	n.cards = make([]card.Card, 0, len(cards))
	for _, c := range cards {
		n.cards = append(n.cards, c.Clone())
	}
	slices.SortStableFunc(n.cards, func(a, b card.Card) int {
		return a.Position - b.Position
	})
	n.selected = 0
	n.home()
}

// Len returns the number of cards.
func (n *Navigator) Len() int {
	return len(n.cards)
}

// Cards returns a snapshot of the deck in order.
func (n *Navigator) Cards() []card.Card {
	out := make([]card.Card, len(n.cards))
	for i, c := range n.cards {
		out[i] = c.Clone()
	}
	return out
}

// Card returns the card at index i.
func (n *Navigator) Card(i int) (card.Card, bool) {
	if i < 0 || i >= len(n.cards) {
		return card.Card{}, false
	}
	return n.cards[i].Clone(), true
}

// Index returns the index of id, or -1.
func (n *Navigator) Index(id string) int {
	return slices.IndexFunc(n.cards, func(c card.Card) bool { return c.ID == id })
}

// Selected returns the selected card. The boolean is false for an empty
// deck.
func (n *Navigator) Selected() (card.Card, bool) {
	if len(n.cards) == 0 {
		return card.Card{}, false
	}
	return n.cards[n.SelectedIndex()].Clone(), true
}

// SelectedIndex returns the selected index, always inside [0, Len()) for a
// non-empty deck and 0 otherwise.
func (n *Navigator) SelectedIndex() int {
	return n.clamp(n.selected)
}

// Select selects index i. Out of range indices are clamped.
func (n *Navigator) Select(i int) ScrollUpdate {
	if len(n.cards) == 0 {
		return ScrollUpdate{}
	}
	prev := n.SelectedIndex()
	n.selected = n.clamp(i)
	n.home()
	u := n.update(false)
	u.Changed = prev != n.selected
	return u
}

// SelectID selects the card with id and reports whether it exists.
func (n *Navigator) SelectID(id string) bool {
	i := n.Index(id)
	if i < 0 {
		return false
	}
	n.Select(i)
	return true
}

// Offset returns the scroll offset.
func (n *Navigator) Offset() float64 {
	return n.offset
}

// VirtualIndex returns the virtual index nearest to the offset.
func (n *Navigator) VirtualIndex() int {
	if len(n.cards) == 0 {
		return 0
	}
	return int(math.Round(n.offset / n.cfg.Stride()))
}

// Lock suspends scrolling until the matching Unlock. Locks nest.
func (n *Navigator) Lock() {
	n.locks++
}

// Unlock releases one Lock. Extra calls are ignored.
func (n *Navigator) Unlock() {
	if n.locks > 0 {
		n.locks--
	}
}

// Locked reports whether scrolling is suspended.
func (n *Navigator) Locked() bool {
	return n.locks > 0
}

// Static reports whether the deck cannot scroll: it is empty or holds a
// single card.
func (n *Navigator) Static() bool {
	return len(n.cards) <= 1
}

// ScrollBy moves the offset by delta and selects the nearest card.
func (n *Navigator) ScrollBy(delta float64) ScrollUpdate {
	if n.Static() || n.Locked() || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return n.update(false)
	}
	return n.moveTo(n.offset + delta)
}

// Snap aligns the offset with the nearest card.
func (n *Navigator) Snap() ScrollUpdate {
	if n.Static() || n.Locked() {
		return n.update(false)
	}
	return n.moveTo(float64(n.VirtualIndex()) * n.cfg.Stride())
}

// Next selects the following card, looping past the end.
func (n *Navigator) Next() ScrollUpdate {
	return n.step(1)
}

// Prev selects the preceding card, looping past the start.
func (n *Navigator) Prev() ScrollUpdate {
	return n.step(-1)
}

func (n *Navigator) step(by int) ScrollUpdate {
	if n.Static() || n.Locked() {
		return n.update(false)
	}
	return n.moveTo(float64(n.VirtualIndex()+by) * n.cfg.Stride())
}

func (n *Navigator) moveTo(offset float64) ScrollUpdate {
	prev := n.SelectedIndex()
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return n.update(false)
	}

	count := len(n.cards)
	stride := n.cfg.Stride()
	span := float64(count) * stride

	// Offsets in [lo, lo+span) round to a virtual index in [count, 2*count).
	// Anything else is shifted by whole copies, in float space so extreme
	// offsets cannot overflow the int conversion.
	lo := span - stride/2
	wrapped := offset < lo || offset >= lo+span
	if wrapped {
		rel := math.Mod(offset-lo, span)
		if rel < 0 {
			rel += span
		}
		offset = lo + rel
		if offset >= lo+span {
			offset -= span
		}
	}
	n.offset = offset

	n.selected = RealIndex(n.VirtualIndex(), count)
	u := n.update(wrapped)
	u.Changed = prev != n.selected
	return u
}

// Reorder sets the deck order to ids, which must be a permutation of the
// current ids. Positions are renumbered 0..n-1 and the selected card stays
// selected wherever it moved.
func (n *Navigator) Reorder(ids []string) error {
	if len(ids) != len(n.cards) {
		return fmt.Errorf("%w: got %d ids for %d cards", ErrInvalidOrder, len(ids), len(n.cards))
	}

	byID := make(map[string]card.Card, len(n.cards))
	for _, c := range n.cards {
		byID[c.ID] = c
	}

	next := make([]card.Card, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or repeated id %q", ErrInvalidOrder, id)
		}
		delete(byID, id)
		next = append(next, c)
	}

	var selectedID string
	if c, ok := n.Selected(); ok {
		selectedID = c.ID
	}

	for i := range next {
		next[i].Position = i
	}
	n.cards = next

	n.selected = max(n.Index(selectedID), 0)
	n.home()
	return nil
}

// Move shifts card id by delta places without looping and returns the new
// order.
func (n *Navigator) Move(id string, delta int) ([]string, error) {
	from := n.Index(id)
	if from < 0 {
		return nil, fmt.Errorf("move %q: %w", id, card.ErrNotFound)
	}

	ids := n.IDs()
	to := min(max(from+delta, 0), len(ids)-1)
	if to == from {
		return ids, nil
	}

	ids = slices.Delete(ids, from, from+1)
	ids = slices.Insert(ids, to, id)
	if err := n.Reorder(ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// IDs returns the card ids in order.
func (n *Navigator) IDs() []string {
	ids := make([]string, len(n.cards))
	for i, c := range n.cards {
		ids[i] = c.ID
	}
	return ids
}

// Remove drops card id. Removing a missing card is a no-op that reports
// false. When the selected card is removed its successor takes its place.
func (n *Navigator) Remove(id string) bool {
	i := n.Index(id)
	if i < 0 {
		return false
	}

	n.cards = slices.Delete(n.cards, i, i+1)
	if i < n.selected {
		n.selected--
	}
	n.selected = n.clamp(n.selected)
	n.home()
	return true
}

// Restore inserts c at index, clamped to the deck bounds. It reports false
// when a card with the same id is already present. The selected card does
// not change unless the deck was empty.
func (n *Navigator) Restore(c card.Card, index int) bool {
	if n.Index(c.ID) >= 0 {
		return false
	}

	wasEmpty := len(n.cards) == 0
	index = min(max(index, 0), len(n.cards))
	n.cards = slices.Insert(n.cards, index, c.Clone())

	if !wasEmpty && index <= n.selected {
		n.selected++
	}
	n.selected = n.clamp(n.selected)
	n.home()
	return true
}

// Replace swaps in a new version of a card with the same id, keeping its
// place in the deck.
func (n *Navigator) Replace(c card.Card) bool {
	i := n.Index(c.ID)
	if i < 0 {
		return false
	}
	c = c.Clone()
	c.Position = n.cards[i].Position
	n.cards[i] = c
	return true
}

// Window returns the slots within radius of the selection, nearest virtual
// index first in scroll order. A single card yields one slot and an empty
// deck none.
func (n *Navigator) Window(radius int) []Slot {
	count := len(n.cards)
	switch {
	case count == 0:
		return nil
	case count == 1:
		return []Slot{{Index: 0, Card: n.cards[0].Clone(), Selected: true, Offset: -n.offset}}
	}

	radius = max(radius, 0)
	center := n.VirtualIndex()
	stride := n.cfg.Stride()

	out := make([]Slot, 0, 2*radius+1)
	for v := center - radius; v <= center+radius; v++ {
		i := RealIndex(v, count)
		out = append(out, Slot{
			Virtual:  v,
			Index:    i,
			Card:     n.cards[i].Clone(),
			Offset:   float64(v)*stride - n.offset,
			Selected: v == center,
		})
	}
	return out
}

// home puts the offset on the selected card inside the middle copy.
func (n *Navigator) home() {
	count := len(n.cards)
	switch count {
	case 0:
		n.offset = 0
	case 1:
		n.offset = 0
	default:
		n.offset = float64(count+n.selected) * n.cfg.Stride()
	}
}

func (n *Navigator) clamp(i int) int {
	if len(n.cards) == 0 {
		return 0
	}
	return min(max(i, 0), len(n.cards)-1)
}

func (n *Navigator) update(wrapped bool) ScrollUpdate {
	return ScrollUpdate{
		Offset:       n.offset,
		VirtualIndex: n.VirtualIndex(),
		Selected:     n.SelectedIndex(),
		Wrapped:      wrapped,
	}
}
