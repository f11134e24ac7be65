package markov

import "errors"

var (
	// ErrInvalidOrder is returned when a chain order is not a positive integer.
	ErrInvalidOrder = errors.New("markov: order must be positive")
	// ErrIndexOutOfRange is returned by ContextKey for an index outside the sequence.
	ErrIndexOutOfRange = errors.New("markov: index out of range")
	// ErrInvalidWeight is returned when a non-positive weight is added to a Sampler.
	ErrInvalidWeight = errors.New("markov: weight must be positive")
	// ErrDrawOutOfRange is returned when a draw is outside [0, Total()).
	ErrDrawOutOfRange = errors.New("markov: draw out of range")
	// ErrEmptySampler is returned when sampling from a Sampler with no elements.
	ErrEmptySampler = errors.New("markov: sampler is empty")
	// ErrEmptyWord is returned when training on an empty string.
	ErrEmptyWord = errors.New("markov: empty word")
	// ErrReservedSymbol is returned when input contains the Start or End sentinel.
	ErrReservedSymbol = errors.New("markov: word contains a reserved symbol")
	// ErrInvalidEncoding is returned when input is not valid UTF-8.
	ErrInvalidEncoding = errors.New("markov: word is not valid UTF-8")
	// ErrMalformedModel is returned when generation reaches a context the chain
	// was never trained on. A chain built only through training never does this.
	ErrMalformedModel = errors.New("markov: malformed model")
	// ErrMaxLength is returned when a generated word exceeds WithMaxLength.
	ErrMaxLength = errors.New("markov: generated word exceeds maximum length")
	// ErrExhausted is returned by GenerateNovel when no novel word was found
	// within the allowed number of attempts.
	ErrExhausted = errors.New("markov: no novel output available")
	// ErrUnsupportedVersion is returned when importing a snapshot with an unknown schema version.
	ErrUnsupportedVersion = errors.New("markov: unsupported snapshot version")
	// ErrInvalidSnapshot is returned when a snapshot fails validation.
	ErrInvalidSnapshot = errors.New("markov: invalid snapshot")
)
