package icao

import "testing"

func TestAdvanceOnValidMovesToNextState(t *testing.T) {
	next := Advance("graz_vfr_sector_e", "initial_call", Validation{OK: true})
	if next != "taxi_request" {
		t.Errorf("got %q, want taxi_request", next)
	}
}

func TestAdvanceStaysOnFailedValidation(t *testing.T) {
	next := Advance("graz_vfr_sector_e", "initial_call", Validation{OK: false, Missing: []string{"callsign"}})
	if next != "initial_call" {
		t.Errorf("got %q, want to stay at initial_call", next)
	}
}

func TestAdvanceAtEndStateStays(t *testing.T) {
	next := Advance("graz_vfr_sector_e", "end", Validation{OK: true})
	if next != "end" {
		t.Errorf("got %q, want to stay at end (no next states)", next)
	}
}

func TestAdvanceUnknownStateStays(t *testing.T) {
	next := Advance("graz_vfr_sector_e", "not_a_real_state", Validation{OK: true})
	if next != "not_a_real_state" {
		t.Errorf("got %q, want the unknown state echoed back unchanged", next)
	}
}
