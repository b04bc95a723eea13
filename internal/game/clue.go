package game

import (
	"strconv"
	"strings"

	"github.com/vovakirdan/guess-the-met/internal/artwork"
)

// clueKinds are the informative clue kinds drawn for easy and medium rounds.
var clueKinds = [...]Clue{ClueLocation, ClueTimePeriod}

// ClueText renders the hint for a clue kind, or "" when the artwork
// has nothing to say about it.
func ClueText(a artwork.Artwork, c Clue) string {
	switch c {
	case ClueArtist:
		return a.ArtistOrUnknown()
	case ClueYear:
		if a.Date != "" {
			return a.Date
		}
		if a.BeginYear != 0 || a.EndYear != 0 {
			return yearSpan(a.BeginYear, a.EndYear)
		}
	case ClueTitle:
		return a.Title
	case ClueLocation:
		return firstNonEmpty(joinNonEmpty(", ", a.Culture, a.Country), a.Department)
	case ClueTimePeriod:
		return firstNonEmpty(a.Period, a.Date, yearSpanIfKnown(a.BeginYear, a.EndYear))
	}
	return ""
}

// ClueLabel is the heading shown before a clue's text.
func ClueLabel(c Clue) string {
	switch c {
	case ClueArtist:
		return "Artist"
	case ClueYear:
		return "Year"
	case ClueTitle:
		return "Title"
	case ClueLocation:
		return "Origin"
	case ClueTimePeriod:
		return "Period"
	}
	return ""
}

func yearSpanIfKnown(begin, end int) string {
	if begin == 0 && end == 0 {
		return ""
	}
	return yearSpan(begin, end)
}

func yearSpan(begin, end int) string {
	if begin == end || end == 0 {
		return formatYear(begin)
	}
	return formatYear(begin) + "–" + formatYear(end)
}

func formatYear(y int) string {
	if y < 0 {
		return strconv.Itoa(-y) + " BCE"
	}
	return strconv.Itoa(y)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
