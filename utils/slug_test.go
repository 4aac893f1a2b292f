package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Smith", "smith"},
		{"spaces", "St Edward Parish", "st-edward-parish"},
		{"punctuation", "St. Edward's Parish", "st-edward-s-parish"},
		{"mixed case and digits", "Group 12B", "group-12b"},
		{"collapses runs", "a  --  b", "a-b"},
		{"leading and trailing junk", "  ~Smith!  ", "smith"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleFromSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"st-edward", "St Edward"},
		{"smith", "Smith"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TitleFromSlug(tt.in); got != tt.want {
			t.Errorf("TitleFromSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
