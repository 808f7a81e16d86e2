package validate

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid title", "Corner Coffee", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Title(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Title(%q) error = %v", tt.input, err)
		})
	}
}

func TestDataKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "points", false},
		{"underscore", "reward_cost", false},
		{"empty", "", true},
		{"equals", "a=b", true},
		{"space", "two words", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DataKey(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "DataKey(%q) error = %v", tt.input, err)
		})
	}
}

func TestCardInput(t *testing.T) {
	require.NoError(t, CardInput("loyalty", "Corner Coffee", map[string]string{"points": "0"}))

	err := CardInput(" ", "", map[string]string{"bad key": "1"})

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 3)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"type", "title", "data.bad key"}, fields)
}
