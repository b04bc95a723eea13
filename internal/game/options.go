package game

import "github.com/vovakirdan/guess-the-met/internal/artwork"

// Shuffle permutes s in place with the Fisher–Yates algorithm.
// intn must return a uniform value in [0, n).
func Shuffle[T any](s []T, intn func(n int) int) {
	for i := len(s) - 1; i > 0; i-- {
		j := intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// indexOf returns the position of the artwork with the given ID, or -1.
func indexOf(options []artwork.Artwork, id string) int {
	for i, a := range options {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// hasDuplicateIDs reports whether two options share an ID.
func hasDuplicateIDs(options []artwork.Artwork) bool {
	seen := make(map[string]struct{}, len(options))
	for _, a := range options {
		if _, ok := seen[a.ID]; ok {
			return true
		}
		seen[a.ID] = struct{}{}
	}
	return false
}
