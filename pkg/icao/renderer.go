package icao

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	icaolog "github.com/grazvfr/icaovfr/pkg/log"
)

// RenderRequest is everything a Renderer needs to produce a surface
// form for an already-decided ATC response: it can reword Fallback,
// never decide whether the underlying slots were correct.
type RenderRequest struct {
	State      string
	Scenario   string
	Slots      map[string]string
	Validation Validation
	Fallback   string
}

// Renderer optionally rewrites a deterministic ATC response's surface
// form. Render returns ok=false whenever it cannot produce a
// confident replacement; the caller always has Fallback to fall back
// on, so a Renderer must never block BuildResponse from completing.
type Renderer interface {
	Render(req RenderRequest) (text string, ok bool)
}

// HTTPRenderer posts RenderRequest to an external text-rendering
// endpoint and returns whatever "text" field it responds with. It is
// strictly optional, is enabled only via LLM_RENDERER, and swallows
// every failure (missing endpoint, timeout, bad JSON, non-2xx) by
// returning ok=false rather than an error: a response generation path
// must never fail because the optional renderer is unreachable.
type HTTPRenderer struct {
	Endpoint string
	Client   *http.Client
	Log      *icaolog.Logger
}

// NewHTTPRendererFromEnv builds a Renderer if LLM_RENDERER is a truthy
// value and LLM_ENDPOINT names a URL; otherwise it returns nil, which
// BuildResponse treats as "no renderer configured."
func NewHTTPRendererFromEnv(lg *icaolog.Logger) Renderer {
	enabled := map[string]bool{"1": true, "true": true, "yes": true}
	if !enabled[strings.ToLower(os.Getenv("LLM_RENDERER"))] {
		return nil
	}
	endpoint := os.Getenv("LLM_ENDPOINT")
	if endpoint == "" {
		return nil
	}
	return &HTTPRenderer{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Log:      lg,
	}
}

type renderPayload struct {
	State        string            `json:"state"`
	Scenario     string            `json:"scenario"`
	Slots        map[string]string `json:"slots"`
	Validation   Validation        `json:"validation"`
	Fallback     string            `json:"fallback"`
	Instructions string            `json:"instructions"`
}

type renderResponse struct {
	Text string `json:"text"`
}

func (r *HTTPRenderer) Render(req RenderRequest) (string, bool) {
	payload := renderPayload{
		State:      req.State,
		Scenario:   req.Scenario,
		Slots:      req.Slots,
		Validation: req.Validation,
		Fallback:   req.Fallback,
		Instructions: "Return an ATC response in ICAO English. " +
			"Wrap the final output in <ATC>...</ATC> and do not invent slots.",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		r.Log.Warnf("renderer: marshal payload: %v", err)
		return "", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.Client.Timeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		r.Log.Warnf("renderer: build request: %v", err)
		return "", false
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(httpReq)
	if err != nil {
		r.Log.Warnf("renderer: request failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.Log.Warnf("renderer: unexpected status %d", resp.StatusCode)
		return "", false
	}

	var parsed renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		r.Log.Warnf("renderer: decode response: %v", err)
		return "", false
	}
	if parsed.Text == "" {
		return "", false
	}
	return parsed.Text, true
}
