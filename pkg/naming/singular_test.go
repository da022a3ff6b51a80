package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingular(t *testing.T) {
	tests := []struct {
		plural   string
		singular string
	}{
		{"pets", "pet"},
		{"orders", "order"},
		{"stories", "story"},
		{"boxes", "box"},
		{"classes", "class"},
		{"dishes", "dish"},
		{"matches", "match"},
		{"houses", "house"},
		{"people", "person"},
		{"children", "child"},
		{"mice", "mouse"},
		{"Items", "Item"},
		{"pet", "pet"},       // already singular
		{"address", "address"}, // trailing ss is kept
	}

	for _, tt := range tests {
		t.Run(tt.plural, func(t *testing.T) {
			assert.Equal(t, tt.singular, Singular(tt.plural))
		})
	}
}

// Singular inverts Plural over the rule-table domain.
func TestSingularRoundTrip(t *testing.T) {
	words := []string{"pet", "order", "story", "box", "class", "dish", "match", "person", "child", "mouse"}
	for _, w := range words {
		assert.Equal(t, w, Singular(Plural(w)), "round trip of %q", w)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		singular string
		plural   string
	}{
		{"pet", "pets"},
		{"story", "stories"},
		{"box", "boxes"},
		{"class", "classes"},
		{"day", "days"}, // vowel before y
		{"person", "people"},
	}

	for _, tt := range tests {
		t.Run(tt.singular, func(t *testing.T) {
			assert.Equal(t, tt.plural, Plural(tt.singular))
		})
	}
}
