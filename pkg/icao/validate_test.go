package icao

import "testing"

func TestValidateLegacyClearanceAllPresent(t *testing.T) {
	slots := map[string]string{
		"callsign":    "OE-ABC",
		"destination": "LOWG",
		"runway":      "26L",
		"qnh":         "1013",
	}
	v := Validate("unknown_scenario", "clearance", slots, "")
	if !v.OK {
		t.Errorf("expected OK, got missing=%v wrong=%v", v.Missing, v.Wrong)
	}
	if v.Score != 1.0 {
		t.Errorf("got score %v, want 1.0", v.Score)
	}
}

func TestValidateLegacyClearanceMissingSlot(t *testing.T) {
	slots := map[string]string{
		"callsign": "OE-ABC",
		"runway":   "26L",
		"qnh":      "1013",
	}
	v := Validate("unknown_scenario", "clearance", slots, "")
	if v.OK {
		t.Fatal("expected validation to fail on a missing slot")
	}
	if len(v.Missing) != 1 || v.Missing[0] != "destination" {
		t.Errorf("got missing=%v, want [destination]", v.Missing)
	}
	if v.Score != 0.75 {
		t.Errorf("got score %v, want 0.75", v.Score)
	}
}

func TestValidateQNHOutOfRange(t *testing.T) {
	slots := map[string]string{"callsign": "OE-ABC", "runway": "26L"}
	v := Validate("unknown_scenario", "clearance", map[string]string{
		"callsign": "OE-ABC", "destination": "LOWG", "runway": "26L", "qnh": "50",
	}, "")
	_ = slots
	if v.OK {
		t.Fatal("expected invalid qnh to fail validation")
	}
	found := false
	for _, w := range v.Wrong {
		if w == "qnh" {
			found = true
		}
	}
	if !found {
		t.Errorf("got wrong=%v, want qnh listed", v.Wrong)
	}
}

func TestValidateRunwayMatchesByDigitsOnly(t *testing.T) {
	if !runwayMatches("26 left", "26l") {
		t.Error("runway digits should match regardless of spacing/case")
	}
	if runwayMatches("26L", "08R") {
		t.Error("different runway numbers must not match")
	}
}

func TestValidateReadbackMismatch(t *testing.T) {
	Init()
	slots := map[string]string{
		"callsign":        "OE-ABC",
		"runway":          "08R",
		"qnh":             "1013",
		"holding_point":   "B",
		"expected_runway": "26L",
	}
	v := Validate("graz_vfr_sector_e", "taxi_clearance", slots, "")
	if v.OK {
		t.Fatal("expected readback mismatch to fail validation")
	}
}

func TestValidateReadbackMatch(t *testing.T) {
	Init()
	slots := map[string]string{
		"callsign":        "OE-ABC",
		"runway":          "26L",
		"qnh":             "1013",
		"holding_point":   "B",
		"expected_runway": "26L",
		"expected_qnh":    "1013",
		"expected_holding_point": "B",
	}
	v := Validate("graz_vfr_sector_e", "taxi_clearance", slots, "")
	if !v.OK {
		t.Errorf("expected OK when readback matches, got missing=%v wrong=%v", v.Missing, v.Wrong)
	}
}

func TestValidateWindFormats(t *testing.T) {
	cases := []struct {
		v    string
		want bool
	}{
		{"270/10", true},
		{"270", true},
		{"fastball", false},
		{"27/1000", true},
	}
	for _, c := range cases {
		if got := windValid(c.v); got != c.want {
			t.Errorf("windValid(%q) = %v, want %v", c.v, got, c.want)
		}
	}
}
