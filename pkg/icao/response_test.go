package icao

import "testing"

func TestBuildResponseMissingSlotPrompt(t *testing.T) {
	v := Validation{OK: false, Missing: []string{"callsign"}}
	resp := BuildResponse("graz_vfr_sector_e", "initial_call", map[string]string{}, v, nil)
	if resp.Reason != "missing_slot" || resp.Text != "say again callsign" {
		t.Errorf("got %+v", resp)
	}
}

func TestBuildResponseUnknownMissingSlotFallsBackToGenericPrompt(t *testing.T) {
	v := Validation{OK: false, Missing: []string{"squawk"}}
	resp := BuildResponse("graz_vfr_sector_e", "initial_call", map[string]string{}, v, nil)
	if resp.Text != "report squawk" {
		t.Errorf("got %q, want generic 'report squawk' fallback", resp.Text)
	}
}

func TestBuildResponseWrongSlot(t *testing.T) {
	v := Validation{OK: false, Wrong: []string{"runway"}}
	resp := BuildResponse("graz_vfr_sector_e", "taxi_clearance", map[string]string{}, v, nil)
	if resp.Reason != "wrong_slot" || resp.Text != "confirm runway" {
		t.Errorf("got %+v", resp)
	}
}

func TestBuildResponseTemplate(t *testing.T) {
	slots := map[string]string{"callsign": "OE-ABC"}
	v := Validation{OK: true}
	resp := BuildResponse("graz_vfr_sector_e", "initial_call", slots, v, nil)
	if resp.Reason != "template" || resp.Text != "OE-ABC, Graz Tower" {
		t.Errorf("got %+v", resp)
	}
}

func TestBuildResponseTemplateMissingPlaceholderFallsBackUnrendered(t *testing.T) {
	v := Validation{OK: true}
	resp := BuildResponse("graz_vfr_sector_e", "initial_call", map[string]string{}, v, nil)
	if resp.Text != "{callsign}, Graz Tower" {
		t.Errorf("got %q, want the unrendered template when a placeholder slot is absent", resp.Text)
	}
}

type stubRenderer struct {
	text string
	ok   bool
}

func (s stubRenderer) Render(req RenderRequest) (string, bool) { return s.text, s.ok }

func TestBuildResponseRendererOverridesOnSuccess(t *testing.T) {
	v := Validation{OK: true}
	slots := map[string]string{"callsign": "OE-ABC"}
	resp := BuildResponse("graz_vfr_sector_e", "initial_call", slots, v, stubRenderer{text: "Roger that, Echo Alpha Bravo Charlie", ok: true})
	if resp.Renderer != "llm" || resp.Text != "Roger that, Echo Alpha Bravo Charlie" {
		t.Errorf("got %+v", resp)
	}
}

func TestBuildResponseRendererFailureKeepsDeterministicText(t *testing.T) {
	v := Validation{OK: true}
	slots := map[string]string{"callsign": "OE-ABC"}
	resp := BuildResponse("graz_vfr_sector_e", "initial_call", slots, v, stubRenderer{ok: false})
	if resp.Renderer != "deterministic" || resp.Text != "OE-ABC, Graz Tower" {
		t.Errorf("expected fallback to the deterministic template on renderer failure, got %+v", resp)
	}
}

func TestRenderTemplateAllOrNothing(t *testing.T) {
	if got := renderTemplate("{a} and {b}", map[string]string{"a": "1"}); got != "{a} and {b}" {
		t.Errorf("got %q, want template unrendered when any placeholder is missing", got)
	}
	if got := renderTemplate("{a} and {b}", map[string]string{"a": "1", "b": "2"}); got != "1 and 2" {
		t.Errorf("got %q, want fully rendered template", got)
	}
}
