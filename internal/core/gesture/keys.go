package gesture

import (
	"slices"
	"strings"
)

// KeyBridge maps key names to directions so keyboard input speaks the same
// vocabulary as drags. Key names use the form produced by bubbletea's
// Key.String ("up", "left", "k", ...).
type KeyBridge struct {
	keys map[string]Direction
}

// NewKeyBridge returns a bridge with the four arrow keys mapped.
func NewKeyBridge() *KeyBridge {
	return &KeyBridge{
		keys: map[string]Direction{
			"up":    Up,
			"down":  Down,
			"left":  Left,
			"right": Right,
		},
	}
}

// Bind adds extra key names for dir. Binding None removes the keys.
func (b *KeyBridge) Bind(dir Direction, keys ...string) {
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if dir == None {
			delete(b.keys, k)
			continue
		}
		b.keys[k] = dir
	}
}

// Map returns the direction bound to key. The boolean doubles as the
// "handled" signal: callers must swallow the key (no default scrolling)
// when it is true and leave it untouched otherwise.
func (b *KeyBridge) Map(key string) (Direction, bool) {
	dir, ok := b.keys[key]
	return dir, ok
}

// Keys returns the key names bound to dir.
func (b *KeyBridge) Keys(dir Direction) []string {
	var out []string
	for k, d := range b.keys {
		if d == dir {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
