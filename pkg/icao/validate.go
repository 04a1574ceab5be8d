package icao

import (
	"strconv"
	"strings"
)

// slotRule names one slot a state expects and a human-readable
// description; expectedRules returns them for scenario states and for
// the legacy fallback table below.
type slotRule struct {
	name        string
	description string
}

// legacyStateExpectations covers the three flat, non-scenario states
// (clearance, taxi, takeoff) that predate the graz_vfr_sector_e
// scenario graph. It intentionally does not also mirror every
// graz_vfr_sector_e state: expectedRules always tries the scenario
// registry first, so any such duplicate entries here would never be
// reached.
var legacyStateExpectations = map[string][]slotRule{
	"clearance": {
		{"callsign", "Aircraft callsign"},
		{"destination", "Destination airport"},
		{"runway", "Assigned runway"},
		{"qnh", "Altimeter setting (QNH)"},
	},
	"taxi": {
		{"callsign", "Aircraft callsign"},
		{"runway", "Assigned runway"},
	},
	"takeoff": {
		{"callsign", "Aircraft callsign"},
		{"runway", "Assigned runway"},
	},
}

func expectedRules(scenario, state string) []slotRule {
	if s, ok := GetState(scenario, state); ok {
		rules := make([]slotRule, len(s.RequiredSlots))
		for i, name := range s.RequiredSlots {
			rules[i] = slotRule{name, "Required slot: " + name}
		}
		return rules
	}
	return legacyStateExpectations[state]
}

func readbackExpectations(scenario, state string) []string {
	s, ok := GetState(scenario, state)
	if !ok || !s.ReadbackRequired {
		return nil
	}
	return s.ReadbackSlots
}

func normalizeText(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeRunway(v string) string {
	raw := normalizeText(v)
	if raw == "" {
		return ""
	}
	var digits, suffix strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'a' && r <= 'z':
			suffix.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return raw
	}
	return digits.String() + suffix.String()
}

func runwayMatches(expected, actual string) bool {
	expectedNorm, actualNorm := normalizeRunway(expected), normalizeRunway(actual)
	if expectedNorm == "" || actualNorm == "" {
		return false
	}
	expectedDigits := digitsOf(expectedNorm)
	actualDigits := digitsOf(actualNorm)
	if expectedDigits == "" || actualDigits == "" {
		return expectedNorm == actualNorm
	}
	return expectedDigits == actualDigits
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func qnhValid(v string) bool {
	text := normalizeText(v)
	if text == "" || !isDigitsOnly(text) {
		return false
	}
	n, err := strconv.Atoi(text)
	return err == nil && n >= 900 && n <= 1100
}

func windValid(v string) bool {
	text := normalizeText(v)
	if text == "" {
		return false
	}
	if strings.Contains(text, "/") {
		parts := strings.SplitN(text, "/", 2)
		direction, speed := parts[0], parts[1]
		if !isDigitsOnly(direction) || !isDigitsOnly(speed) {
			return false
		}
		return len(direction) == 2 || len(direction) == 3
	}
	return isDigitsOnly(text)
}

func timeValid(v string) bool {
	text := normalizeText(v)
	if text == "" || !isDigitsOnly(text) {
		return false
	}
	n, err := strconv.Atoi(text)
	return err == nil && n >= 0 && n <= 59
}

func sectorValid(v string) bool {
	text := normalizeText(v)
	return text != "" && isAlnum(text)
}

// Validate checks slots (parsed values already merged over any known
// current_slots) against the expectations for state within scenario,
// including readback cross-checks against expected_<slot> entries in
// slots. It never mutates slots and never returns an error: an unknown
// state or scenario simply yields no expectations and a perfect score,
// noted in Reasons.
func Validate(scenario, state string, slots map[string]string, normalizedText string) Validation {
	rules := expectedRules(scenario, state)
	readback := readbackExpectations(scenario, state)

	missing := []string{}
	wrong := []string{}
	reasons := []string{}

	for _, rule := range rules {
		value, present := slots[rule.name]
		if !present || normalizeText(value) == "" {
			missing = append(missing, rule.name)
			reasons = append(reasons, "missing: "+rule.name)
			continue
		}

		switch rule.name {
		case "runway":
			expected := value
			if v, ok := slots["expected_runway"]; ok {
				expected = v
			}
			if !runwayMatches(expected, value) {
				wrong = append(wrong, rule.name)
				reasons = append(reasons, "runway mismatch: expected "+expected+", got "+value)
			}
		case "qnh":
			if !qnhValid(value) {
				wrong = append(wrong, rule.name)
				reasons = append(reasons, "invalid qnh: "+value)
			}
		case "wind":
			if !windValid(value) {
				wrong = append(wrong, rule.name)
				reasons = append(reasons, "invalid wind: "+value)
			}
		case "time":
			if !timeValid(value) {
				wrong = append(wrong, rule.name)
				reasons = append(reasons, "invalid time: "+value)
			}
		case "sector":
			if !sectorValid(value) {
				wrong = append(wrong, rule.name)
				reasons = append(reasons, "invalid sector: "+value)
			}
		}
	}

	for _, slotName := range readback {
		expectedValue, ok := slots["expected_"+slotName]
		if !ok {
			continue
		}
		actualValue, present := slots[slotName]
		if !present || normalizeText(actualValue) == "" {
			missing = append(missing, slotName)
			reasons = append(reasons, "readback missing: "+slotName)
			continue
		}
		if normalizeText(expectedValue) != normalizeText(actualValue) {
			wrong = append(wrong, slotName)
			reasons = append(reasons, "readback mismatch: expected "+expectedValue+", got "+actualValue)
		}
	}

	if len(rules) == 0 {
		reasons = append(reasons, "no expectations configured for state")
	}

	total := len(rules)
	correct := total - len(missing) - len(wrong)
	if correct < 0 {
		correct = 0
	}
	score := 1.0
	if total > 0 {
		score = roundTo2(float64(correct) / float64(total))
	}

	if normalizedText != "" {
		reasons = append(reasons, "checked text: "+normalizedText)
	}

	return Validation{
		OK:      len(missing) == 0 && len(wrong) == 0,
		Missing: missing,
		Wrong:   wrong,
		Score:   score,
		Reasons: reasons,
	}
}

func roundTo2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
