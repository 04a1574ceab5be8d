package icao

import "testing"

func tok(raw, normalized string, kind TokenKind) Token {
	return Token{Raw: raw, Normalized: normalized, Kind: kind, Confidence: 1.0}
}

func TestParseCallsignDirect(t *testing.T) {
	tokens := []Token{tok("oe-abc", "OE-ABC", KindWord)}
	slot := parseCallsign(tokens)
	if slot == nil || slot.Value != "OE-ABC" {
		t.Fatalf("got %+v, want callsign OE-ABC", slot)
	}
}

func TestParseCallsignFromNATORun(t *testing.T) {
	tokens := []Token{
		tok("oscar", "O", KindNATO),
		tok("echo", "E", KindNATO),
		tok("alpha", "A", KindNATO),
		tok("bravo", "B", KindNATO),
		tok("charlie", "C", KindNATO),
	}
	slot := parseCallsign(tokens)
	if slot == nil {
		t.Fatal("expected a callsign parsed from a NATO letter run")
	}
	if slot.Value != "O-EABC" && slot.Value != "OE-ABC" {
		t.Errorf("got %q, want a valid hyphenated callsign split of OEABC", slot.Value)
	}
}

func TestParseRunwayWithSuffix(t *testing.T) {
	tokens := []Token{
		tok("runway", "runway", KindWord),
		tok("two", "2", KindNumber),
		tok("six", "6", KindNumber),
		tok("left", "left", KindWord),
	}
	slot := parseRunway(tokens)
	if slot == nil || slot.Value != "26L" {
		t.Fatalf("got %+v, want runway 26L", slot)
	}
}

func TestParseRunwayZeroPads(t *testing.T) {
	tokens := []Token{
		tok("runway", "runway", KindWord),
		tok("four", "4", KindNumber),
	}
	slot := parseRunway(tokens)
	if slot == nil || slot.Value != "04" {
		t.Fatalf("got %+v, want runway 04", slot)
	}
}

func TestParseQNH(t *testing.T) {
	tokens := []Token{
		tok("qnh", "qnh", KindWord),
		tok("one", "1", KindNumber),
		tok("zero", "0", KindNumber),
		tok("one", "1", KindNumber),
		tok("three", "3", KindNumber),
	}
	slot := parseQNH(tokens)
	if slot == nil || slot.Value != "1013" {
		t.Fatalf("got %+v, want qnh 1013", slot)
	}
}

func TestParseWindDirectionAndSpeed(t *testing.T) {
	tokens := []Token{
		tok("wind", "wind", KindWord),
		tok("270", "270", KindDigits),
		tok("10", "10", KindDigits),
	}
	slot := parseWind(tokens)
	if slot == nil || slot.Value != "270/10" {
		t.Fatalf("got %+v, want wind 270/10", slot)
	}
}

func TestParseWindDirectionOnly(t *testing.T) {
	tokens := []Token{
		tok("wind", "wind", KindWord),
		tok("270", "270", KindDigits),
	}
	slot := parseWind(tokens)
	if slot == nil || slot.Value != "270" {
		t.Fatalf("got %+v, want bare wind direction 270", slot)
	}
}

func TestParseSector(t *testing.T) {
	tokens := []Token{
		tok("sector", "sector", KindWord),
		tok("echo", "E", KindNATO),
	}
	slot := parseSector(tokens)
	if slot == nil || slot.Value != "E" {
		t.Fatalf("got %+v, want sector E", slot)
	}
}

func TestParseHoldingPointStop(t *testing.T) {
	tokens := []Token{
		tok("stop", "stop", KindWord),
		tok("bravo", "B", KindNATO),
	}
	slot := parseHoldingPoint(tokens)
	if slot == nil || slot.Value != "B" {
		t.Fatalf("got %+v, want holding_point B", slot)
	}
}

func TestParseAllMergesBySlotName(t *testing.T) {
	normalization := Normalize("runway two six left qnh one zero one three")
	slots := ParseAll(normalization)
	if slots["runway"].Value != "26L" {
		t.Errorf("runway = %+v", slots["runway"])
	}
	if slots["qnh"].Value != "1013" {
		t.Errorf("qnh = %+v", slots["qnh"])
	}
}

func TestConsumeNumberSequenceStopsAtNonNumber(t *testing.T) {
	tokens := []Token{
		tok("one", "1", KindNumber),
		tok("two", "2", KindNumber),
		tok("left", "left", KindWord),
	}
	digits, raw, conf := consumeNumberSequence(tokens)
	if digits != "12" || len(raw) != 2 || conf != 1.0 {
		t.Errorf("got digits=%q raw=%v conf=%v", digits, raw, conf)
	}
}
