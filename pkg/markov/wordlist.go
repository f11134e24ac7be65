package markov

import (
	"bufio"
	"io"
	"strings"
)

// ReadWords reads one training word per line from r. Surrounding whitespace
// is trimmed and blank lines are skipped.
func ReadWords(r io.Reader) ([]string, error) {
	// maxLineLength prevents a single huge line from failing the scan.
	const maxLineLength = 1 << 20

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var words []string
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
