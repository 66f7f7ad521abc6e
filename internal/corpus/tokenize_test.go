package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"spaces only", "   ", nil},
		{"single word", "funny", []string{"funny"}},
		{"basic", "funny pet and nasty rat", []string{"funny", "pet", "and", "nasty", "rat"}},
		{"leading/trailing/runs", "  funny   pet  ", []string{"funny", "pet"}},
		{"tabs are not spaces", "funny\tpet", []string{"funny\tpet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestTokenizeSharesBackingArray(t *testing.T) {
	text := "funny pet and nasty rat"
	words := Tokenize(text)
	assert.NotEmpty(t, words)

	// A token taken from text must be a true substring (same bytes), which
	// in Go implies it shares text's backing array rather than copying it.
	idx := indexOf(text, words[2])
	assert.GreaterOrEqual(t, idx, 0, "token %q not found as substring of %q", words[2], text)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func TestIsValidWord(t *testing.T) {
	assert.True(t, IsValidWord("funny"))
	assert.False(t, IsValidWord("fun\x01ny"), "expected control byte to be invalid")
	assert.True(t, IsValidWord(""), "empty string has no invalid bytes, should be valid at this layer")
}
