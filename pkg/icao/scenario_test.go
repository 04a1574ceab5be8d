package icao

import "testing"

func TestGetStateKnownScenario(t *testing.T) {
	state, ok := GetState("graz_vfr_sector_e", "initial_call")
	if !ok {
		t.Fatal("expected initial_call to exist in graz_vfr_sector_e")
	}
	if len(state.RequiredSlots) != 1 || state.RequiredSlots[0] != "callsign" {
		t.Errorf("got required slots %v, want [callsign]", state.RequiredSlots)
	}
}

func TestGetStateUnknownScenario(t *testing.T) {
	if _, ok := GetState("nonexistent", "initial_call"); ok {
		t.Error("expected ok=false for an unregistered scenario")
	}
}

func TestGetStateUnknownState(t *testing.T) {
	if _, ok := GetState("graz_vfr_sector_e", "nonexistent_state"); ok {
		t.Error("expected ok=false for an unregistered state within a known scenario")
	}
}

func TestRegisterScenarioOverrides(t *testing.T) {
	RegisterScenario("test_scenario_register", Scenario{
		"start": {Name: "start", RequiredSlots: []string{"callsign"}, NextStates: []string{"end"}, ATCTemplates: []string{"hi"}},
	})
	state, ok := GetState("test_scenario_register", "start")
	if !ok || state.Name != "start" {
		t.Fatalf("expected registered scenario to be retrievable, got %+v ok=%v", state, ok)
	}
}

func TestEndStateHasNoRequirements(t *testing.T) {
	state, ok := GetState("graz_vfr_sector_e", "end")
	if !ok {
		t.Fatal("expected end state to exist")
	}
	if len(state.RequiredSlots) != 0 || len(state.NextStates) != 0 {
		t.Errorf("end state should have no required slots or next states, got %+v", state)
	}
}
