/*
Package markov provides a character-level Markov chain for generating new
words that resemble a training vocabulary.

A Chain maps every observed context (the last `order` characters, padded with
the Start sentinel near the beginning of a word) to a weighted distribution
over the character that followed it, or the End marker. Generation is a
weighted random walk seeded from the Start context. A Generator wraps a Chain
together with its training words and can filter out generated words that
merely reproduce the training data.

Trained models can be exported to, and imported from, a versioned JSON
snapshot. The store package persists the same snapshots in SQLite.
*/
package markov
