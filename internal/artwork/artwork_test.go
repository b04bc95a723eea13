package artwork

import "testing"

func intPtr(v int) *int { return &v }

func TestFilterKey(t *testing.T) {
	a := Filter{Medium: "Paintings", Country: "France", YearStart: intPtr(1800), YearEnd: intPtr(1900)}
	b := Filter{Medium: "paintings", Country: "FRANCE", YearStart: intPtr(1800), YearEnd: intPtr(1900), Difficulty: "hard"}
	if a.Key() != b.Key() {
		t.Errorf("Key() should ignore case and difficulty: %q != %q", a.Key(), b.Key())
	}

	c := Filter{Medium: "Paintings", Country: "France", YearStart: intPtr(1800)}
	if a.Key() == c.Key() {
		t.Error("Key() should differ when the year range differs")
	}
}

func TestHasImage(t *testing.T) {
	tests := []struct {
		name string
		art  Artwork
		want bool
	}{
		{"none", Artwork{ID: "1"}, false},
		{"blank", Artwork{ID: "1", ImageURL: "  "}, false},
		{"full", Artwork{ID: "1", ImageURL: "https://example.org/a.jpg"}, true},
		{"thumb only", Artwork{ID: "1", ThumbnailURL: "https://example.org/a_s.jpg"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.art.HasImage(); got != tt.want {
				t.Errorf("HasImage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreferredImage(t *testing.T) {
	a := Artwork{ImageURL: "full.jpg", ThumbnailURL: "small.jpg"}
	if a.PreferredImage() != "small.jpg" {
		t.Errorf("PreferredImage() = %q, want small.jpg", a.PreferredImage())
	}
	a.ThumbnailURL = ""
	if a.PreferredImage() != "full.jpg" {
		t.Errorf("PreferredImage() = %q, want full.jpg", a.PreferredImage())
	}
}
