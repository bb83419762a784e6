package textutil

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Arrival", "arrival"},
		{"spaces", "The Dark Knight", "the-dark-knight"},
		{"punctuation stripped", "Spider-Man: No Way Home!", "spider-man-no-way-home"},
		{"apostrophe joins", "Schindler's List", "schindlers-list"},
		{"collapses separators", "  Foo __ -- Bar  ", "foo-bar"},
		{"underscore becomes hyphen", "snake_case_title", "snake-case-title"},
		{"trims hyphens", "--Edge--", "edge"},
		{"unicode letters kept", "Amélie", "amélie"},
		{"digits kept", "2001: A Space Odyssey", "2001-a-space-odyssey"},
		{"symbols only", "!!!", ""},
		{"empty", "", ""},
		{"tabs and newlines", "Line\tOne\nTwo", "line-one-two"},
		{"punctuation between words vanishes", "Mr.Robot", "mrrobot"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.input); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSlugifyIsStableAndCaseInsensitive(t *testing.T) {
	variants := []string{"Inception", "INCEPTION", "inception!", "  Inception  "}
	first := Slugify(variants[0])
	for _, v := range variants {
		for i := 0; i < 3; i++ {
			if got := Slugify(v); got != first {
				t.Fatalf("Slugify(%q) = %q, want %q", v, got, first)
			}
		}
	}
}
