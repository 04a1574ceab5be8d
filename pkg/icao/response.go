package icao

import (
	"regexp"
	"strings"
)

// missingPrompts gives a natural ATC phrase to ask for the first
// missing slot; anything not listed falls back to "report <slot>".
var missingPrompts = map[string]string{
	"callsign":      "say again callsign",
	"position":      "report position",
	"runway":        "confirm runway",
	"qnh":           "confirm QNH",
	"holding_point": "report holding point",
	"sector":        "report sector",
	"altitude":      "report altitude",
	"wind":          "report wind",
	"time":          "report time",
}

var templatePlaceholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// renderTemplate substitutes {slot} placeholders from slots. Matching
// Python's str.format(**slots).except KeyError behavior: if any
// placeholder has no value in slots, the template is returned
// unrendered rather than partially filled in.
func renderTemplate(template string, slots map[string]string) string {
	missingKey := false
	rendered := templatePlaceholderRe.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := slots[name]
		if !ok {
			missingKey = true
			return m
		}
		return v
	})
	if missingKey {
		return template
	}
	return rendered
}

// BuildResponse renders the ATC reply for state: a prompt for the
// first missing slot, a confirm-request for the first wrong slot, the
// state's first template rendered against slots, or "roger" if the
// state carries no template. If renderer is non-nil it is given the
// chance to replace the deterministic text with a surface-form
// rewrite; renderer failures are swallowed and the deterministic text
// is kept (see renderer.go).
func BuildResponse(scenario, state string, slots map[string]string, validation Validation, renderer Renderer) ATCResponse {
	stateDef, _ := GetState(scenario, state)

	if len(validation.Missing) > 0 {
		slot := validation.Missing[0]
		prompt, ok := missingPrompts[slot]
		if !ok {
			prompt = "report " + slot
		}
		return ATCResponse{Text: prompt, Reason: "missing_slot", Renderer: "deterministic"}
	}

	if len(validation.Wrong) > 0 {
		return ATCResponse{Text: "confirm " + validation.Wrong[0], Reason: "wrong_slot", Renderer: "deterministic"}
	}

	var response ATCResponse
	if len(stateDef.ATCTemplates) > 0 {
		response = ATCResponse{Text: renderTemplate(stateDef.ATCTemplates[0], slots), Reason: "template", Renderer: "deterministic"}
	} else {
		response = ATCResponse{Text: "roger", Reason: "default", Renderer: "deterministic"}
	}

	if renderer != nil {
		if text, ok := renderer.Render(RenderRequest{
			State: state, Scenario: scenario, Slots: slots, Validation: validation, Fallback: response.Text,
		}); ok && strings.TrimSpace(text) != "" {
			return ATCResponse{Text: text, Reason: response.Reason, Renderer: "llm"}
		}
	}
	return response
}
