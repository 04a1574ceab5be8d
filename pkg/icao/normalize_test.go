package icao

import "testing"

func TestNormalizeFlightLevel(t *testing.T) {
	result := Normalize("Flight level one zero zero")
	if result.NormalizedText != "FL100" {
		t.Errorf("got %q, want %q", result.NormalizedText, "FL100")
	}
}

func TestNormalizeNATORun(t *testing.T) {
	result := Normalize("alpha bravo kilo")
	if result.NormalizedText != "ABK" {
		t.Errorf("got %q, want %q", result.NormalizedText, "ABK")
	}
}

func TestNormalizeICAONumbers(t *testing.T) {
	result := Normalize("tree fife niner")
	if result.NormalizedText != "3 5 9" {
		t.Errorf("got %q, want %q", result.NormalizedText, "3 5 9")
	}
}

func TestNormalizeEmbeddedFlightLevel(t *testing.T) {
	result := Normalize("climb to flight level one zero zero")
	if result.NormalizedText != "climb to FL100" {
		t.Errorf("got %q, want %q", result.NormalizedText, "climb to FL100")
	}
}

func TestNormalizeEmptySlicesNotNil(t *testing.T) {
	result := Normalize("")
	if result.Tokens == nil {
		t.Error("Tokens must be an empty slice, not nil, so it marshals as [] not null")
	}
	if result.ConfidenceHints == nil {
		t.Error("ConfidenceHints must be an empty slice, not nil, so it marshals as [] not null")
	}
}

func TestNormalizeFuzzyNATO(t *testing.T) {
	// "brovo" is one substitution away from "bravo": Ratcliff/Obershelp
	// ratio is exactly 0.8, the accept threshold.
	result := Normalize("runway brovo")
	if len(result.ConfidenceHints) == 0 {
		t.Fatal("expected a fuzzy-match hint for a misspelled NATO word")
	}
	if result.NormalizedText != "runway B" {
		t.Errorf("got %q, want %q", result.NormalizedText, "runway B")
	}
}

func TestNormalizeContextualFor(t *testing.T) {
	// "for" is a ContextNumbers homophone only: next to a number-ish
	// token it normalizes to "4", elsewhere it stays a plain word.
	cases := []struct {
		text string
		want string
	}{
		{"cleared for two six", "cleared 4 2 6"},
		{"report for landing", "report for landing"},
	}
	for _, c := range cases {
		got := Normalize(c.text).NormalizedText
		if got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
