package markov

import (
	"fmt"
	"unicode/utf8"
)

const (
	// Start is the reserved symbol used to pad contexts shorter than the
	// chain order. It never appears in generated output.
	Start rune = '\x02'
	// End is the reserved symbol that follows the last character of every
	// trained word and terminates generation.
	End rune = '\x00'
	// StartKey is the table key of the first-character distribution.
	StartKey = string(Start)
)

// ContextKey returns the context of length order that ends at seq[index].
// When fewer than order symbols are available, the key is left-padded with
// Start.
func ContextKey(seq []rune, index, order int) (string, error) {
	if order < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	if index < 0 || index >= len(seq) {
		return "", fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, len(seq))
	}
	return contextKey(seq, index, order), nil
}

// contextKey is ContextKey without argument checks.
func contextKey(seq []rune, index, order int) string {
	key := make([]rune, 0, order)
	start := index - order + 1
	for ; start < 0; start++ {
		key = append(key, Start)
	}
	key = append(key, seq[start:index+1]...)
	return string(key)
}

// prepareWord validates a training word and returns it as runes.
func prepareWord(word string) ([]rune, error) {
	if word == "" {
		return nil, ErrEmptyWord
	}
	if !utf8.ValidString(word) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, word)
	}
	runes := []rune(word)
	for _, r := range runes {
		if isReserved(r) {
			return nil, fmt.Errorf("%w: %q", ErrReservedSymbol, word)
		}
	}
	return runes, nil
}

func isReserved(r rune) bool {
	return r == Start || r == End
}
