package icao

// Advance moves to the next dialog state given a validation outcome:
// if validation passed and the current state has a next state, it
// advances to the first one; otherwise it stays put. Advancement never
// consults an LLM or any signal besides Validation.OK.
func Advance(scenario, state string, validation Validation) string {
	s, ok := GetState(scenario, state)
	if !ok {
		return state
	}
	if validation.OK && len(s.NextStates) > 0 {
		return s.NextStates[0]
	}
	return state
}
