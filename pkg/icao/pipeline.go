package icao

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	icaolog "github.com/grazvfr/icaovfr/pkg/log"
)

// Request is the input to Process: a raw transcript, the dialog state
// it should be validated against, the scenario it belongs to, and any
// slots already known from earlier in the conversation (including
// expected_<slot> readback targets).
type Request struct {
	Text         string
	State        string
	Scenario     string
	CurrentSlots map[string]string
}

// Response is the full pipeline output for one Request, matching the
// external JSON contract: the raw text and state echoed back, the
// normalized text and token trace, the slots this turn parsed, the
// validation outcome, the state to move to next, and the ATC reply.
type Response struct {
	RequestID  string                 `json:"request_id"`
	Text       string                 `json:"text"`
	State      string                 `json:"state"`
	Normalized string                 `json:"normalized"`
	Tokens     []Token                `json:"tokens"`
	Slots      map[string]ParsedSlot  `json:"slots"`
	Validation Validation             `json:"validation"`
	NextState  string                 `json:"next_state"`
	ATCResponse ATCResponse           `json:"atc_response"`
}

// Pipeline composes the five deterministic stages plus the optional
// renderer, cache, and replay log. The zero value works (no cache, no
// renderer, no replay log); use NewPipeline to wire real ones.
type Pipeline struct {
	Log      *icaolog.Logger
	Renderer Renderer
	Cache    *NormalizationCache
	Replay   *ReplayLog
}

// NewPipeline builds a Pipeline wired to lg, optionally with a
// renderer read from the environment (see NewHTTPRendererFromEnv) and
// a bounded normalization cache.
func NewPipeline(lg *icaolog.Logger, cacheSize int) *Pipeline {
	p := &Pipeline{Log: lg, Renderer: NewHTTPRendererFromEnv(lg)}
	if cacheSize > 0 {
		if c, err := NewNormalizationCache(cacheSize); err == nil {
			p.Cache = c
		} else {
			lg.Warnf("normalization cache disabled: %v", err)
		}
	}
	Init()
	return p
}

// Process runs the full normalize -> parse -> validate -> advance ->
// respond pipeline for req. It returns an error only for caller
// mistakes (empty text); every internal stage is pure and total.
func (p *Pipeline) Process(req Request) (Response, error) {
	start := time.Now()
	if strings.TrimSpace(req.Text) == "" {
		return Response{}, fmt.Errorf("text must not be empty")
	}
	scenario := req.Scenario
	if scenario == "" {
		scenario = "graz_vfr_sector_e"
	}

	normalization := p.normalize(req.Text)
	parsedSlots := ParseAll(normalization)

	merged := map[string]string{}
	for k, v := range req.CurrentSlots {
		merged[k] = v
	}
	for name, slot := range parsedSlots {
		merged[name] = slot.Value
	}

	validation := Validate(scenario, req.State, merged, normalization.NormalizedText)
	nextState := Advance(scenario, req.State, validation)
	atcResponse := BuildResponse(scenario, req.State, merged, validation, p.Renderer)

	reqID := uuid.NewString()
	resp := Response{
		RequestID:   reqID,
		Text:        req.Text,
		State:       req.State,
		Normalized:  normalization.NormalizedText,
		Tokens:      normalization.Tokens,
		Slots:       parsedSlots,
		Validation:  validation,
		NextState:   nextState,
		ATCResponse: atcResponse,
	}

	elapsed := time.Since(start)
	if p.Log != nil {
		p.Log.Infof("processed request_id=%s state=%s scenario=%s ok=%v missing=%d wrong=%d elapsed=%s",
			reqID, req.State, scenario, validation.OK, len(validation.Missing), len(validation.Wrong), elapsed)
	}
	if p.Replay != nil {
		p.Replay.Append(ReplayEntry{
			RequestID: reqID,
			Time:      time.Now(),
			Request:   req,
			Response:  resp,
		})
	}
	return resp, nil
}

func (p *Pipeline) normalize(text string) NormalizationResult {
	if p.Cache != nil {
		if cached, ok := p.Cache.Get(text); ok {
			return cached
		}
	}
	result := Normalize(text)
	if p.Cache != nil {
		p.Cache.Add(text, result)
	}
	return result
}

// TranscriptSegment is one time-stamped span of a transcribed audio
// clip, carrying faster-whisper-style confidence diagnostics alongside
// its text.
type TranscriptSegment struct {
	Text             string  `json:"text"`
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	AvgLogprob       float64 `json:"avg_logprob"`
	NoSpeechProb     float64 `json:"no_speech_prob"`
	CompressionRatio float64 `json:"compression_ratio"`
}

// Transcript is the full result of transcribing one audio clip: the
// joined text (what Process consumes) plus the segments it was
// assembled from (what the /stt/audio caller gets back alongside the
// pipeline response).
type Transcript struct {
	Text     string
	Segments []TranscriptSegment
}

// Transcriber converts recorded audio bytes to a Transcript before the
// text pipeline runs. It is supplied by the caller; this repo ships no
// concrete implementation, matching spec.md's exclusion of any
// speech-recognition model from its own scope.
type Transcriber interface {
	Transcribe(audio []byte, filename string) (Transcript, error)
}

// AudioResponse is the /stt/audio response shape: the ordinary pipeline
// Response plus the transcription segments it was derived from.
type AudioResponse struct {
	Response
	Segments []TranscriptSegment `json:"segments"`
}

// ProcessAudio transcribes audio with t, then runs the resulting text
// through Process exactly as /stt would, attaching the transcription's
// segments to the result.
func (p *Pipeline) ProcessAudio(t Transcriber, audio []byte, filename string, req Request) (AudioResponse, error) {
	transcript, err := t.Transcribe(audio, filename)
	if err != nil {
		return AudioResponse{}, fmt.Errorf("transcribe audio: %w", err)
	}
	req.Text = transcript.Text
	resp, err := p.Process(req)
	if err != nil {
		return AudioResponse{}, err
	}
	return AudioResponse{Response: resp, Segments: transcript.Segments}, nil
}
