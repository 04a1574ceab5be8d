package icao

import "testing"

func newTestPipeline() *Pipeline {
	return NewPipeline(nil, 0)
}

func TestProcessRejectsEmptyText(t *testing.T) {
	p := newTestPipeline()
	if _, err := p.Process(Request{Text: "   ", State: "initial_call"}); err == nil {
		t.Fatal("expected an error for whitespace-only text")
	}
}

func TestProcessDefaultsScenario(t *testing.T) {
	p := newTestPipeline()
	resp, err := p.Process(Request{Text: "oscar echo alpha bravo charlie", State: "initial_call"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Slots["callsign"].Value == "" {
		t.Errorf("expected a callsign parsed from a spoken NATO letter run, got slots %+v", resp.Slots)
	}
	if resp.NextState != "taxi_request" {
		t.Errorf("got next_state %q, want taxi_request after a valid initial call", resp.NextState)
	}
	if resp.RequestID == "" {
		t.Error("expected a non-empty request id")
	}
}

func TestProcessCarriesCurrentSlotsForward(t *testing.T) {
	p := newTestPipeline()
	resp, err := p.Process(Request{
		Text:         "runway two six left qnh one zero one three",
		State:        "taxi_clearance",
		Scenario:     "graz_vfr_sector_e",
		CurrentSlots: map[string]string{"callsign": "OE-ABC"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Validation.OK {
		t.Errorf("expected validation to pass once callsign carries forward, got missing=%v wrong=%v",
			resp.Validation.Missing, resp.Validation.Wrong)
	}
	if resp.NextState != "intermediate_hold" {
		t.Errorf("got next_state %q, want intermediate_hold", resp.NextState)
	}
}

func TestProcessParsedSlotsOverrideCurrentSlots(t *testing.T) {
	p := newTestPipeline()
	resp, err := p.Process(Request{
		Text:         "runway two six left",
		State:        "lineup_wait",
		Scenario:     "graz_vfr_sector_e",
		CurrentSlots: map[string]string{"callsign": "OE-ABC", "runway": "08R", "expected_runway": "26L"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Slots["runway"].Value != "26L" {
		t.Errorf("got parsed runway %+v, want this turn's parse to win", resp.Slots["runway"])
	}
	if !resp.Validation.OK {
		t.Errorf("expected the parsed runway 26L, not the carried 08R, to be validated; got wrong=%v reasons=%v",
			resp.Validation.Wrong, resp.Validation.Reasons)
	}
}

func TestProcessCacheReturnsSameNormalization(t *testing.T) {
	p := NewPipeline(nil, 32)
	first, err := p.Process(Request{Text: "tree fife niner", State: "initial_call"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Process(Request{Text: "tree fife niner", State: "initial_call"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Normalized != second.Normalized {
		t.Errorf("got normalized %q then %q, want the same normalization both times", first.Normalized, second.Normalized)
	}
	if p.Cache.Len() != 1 {
		t.Errorf("got cache len %d, want 1 (second call should hit the cache)", p.Cache.Len())
	}
}
