// Package corpus owns the text backing the index: stop words and indexed
// document bodies. It provides the only tokenizer in the system.
package corpus

// Tokenize splits text on runs of ASCII space (0x20) and returns the
// resulting words as substrings of text.
//
// Go string slicing never copies, so the returned tokens already are the
// zero-copy "borrowed view" the original C++ source built a separate
// string_view layer to get: as long as a caller holds one of these tokens,
// the backing array of text stays alive.
func Tokenize(text string) []string {
	var words []string
	pos := 0
	n := len(text)
	for pos < n {
		for pos < n && text[pos] == ' ' {
			pos++
		}
		if pos >= n {
			break
		}
		start := pos
		for pos < n && text[pos] != ' ' {
			pos++
		}
		words = append(words, text[start:pos])
	}
	return words
}

// IsValidWord reports whether every byte of word is >= 0x20, i.e. word
// contains no ASCII control characters.
func IsValidWord(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 0x20 {
			return false
		}
	}
	return true
}
