// Command icaoserver serves the ICAO VFR phraseology pipeline over
// HTTP: /stt for a transcript turn, /stt/audio for one that needs
// transcription first, /health for liveness, and /debug/stats for
// basic process and host telemetry.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/grazvfr/icaovfr/pkg/icao"
	icaolog "github.com/grazvfr/icaovfr/pkg/log"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "listen address")
		logLevel     = flag.String("loglevel", "info", "debug, info, warn, or error")
		logDir       = flag.String("logdir", "", "log directory (default: icaovfr-logs)")
		cacheSize    = flag.Int("cache-size", 256, "normalization cache entries, 0 disables")
		scenarioFile = flag.String("scenario-file", "", "optional YAML file of supplementary scenarios")
		replayPath   = flag.String("replay-log", "", "optional path to append replay entries to")
	)
	flag.Parse()

	lg := icaolog.New(true, *logLevel, *logDir)

	if *scenarioFile != "" {
		if err := icao.LoadScenarioFile(*scenarioFile); err != nil {
			lg.Errorf("loading scenario file: %v", err)
			os.Exit(1)
		}
	}

	pipeline := icao.NewPipeline(lg, *cacheSize)
	if *replayPath != "" {
		pipeline.Replay = icao.NewReplayLog(*replayPath, 64, 5)
		defer pipeline.Replay.Close()
	}

	start := time.Now()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth(start))
	mux.HandleFunc("/debug/stats", handleStats(start))
	mux.HandleFunc("/stt", handleSTT(pipeline, lg))
	mux.HandleFunc("/stt/audio", handleSTTAudio(pipeline, lg, nil))

	lg.Infof("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, withCORS(mux)); err != nil {
		lg.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(start time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"uptime": time.Since(start).String(),
		})
	}
}

func handleStats(start time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		percents, _ := cpu.Percent(0, false)
		cpuPercent := 0.0
		if len(percents) > 0 {
			cpuPercent = percents[0]
		}
		vm, _ := mem.VirtualMemory()
		stats := map[string]any{
			"uptime":     time.Since(start).String(),
			"goroutines": runtime.NumGoroutine(),
			"cpu_percent": cpuPercent,
		}
		if vm != nil {
			stats["mem_used_percent"] = vm.UsedPercent
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

type sttRequest struct {
	Text         string            `json:"text"`
	State        string            `json:"state"`
	Scenario     string            `json:"scenario"`
	CurrentSlots map[string]string `json:"current_slots"`
}

func handleSTT(pipeline *icao.Pipeline, lg *icaolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req sttRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text must not be empty"})
			return
		}

		resp, err := pipeline.Process(icao.Request{
			Text:         req.Text,
			State:        req.State,
			Scenario:     req.Scenario,
			CurrentSlots: req.CurrentSlots,
		})
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// handleSTTAudio accepts an uploaded audio file plus state/scenario/
// current_slots form fields, transcribes it with transcriber, and runs
// the result through the same pipeline /stt uses, attaching the
// transcription's time-stamped segments to the response. main leaves
// transcriber nil since this repo carries no bundled ASR engine,
// matching the teacher's pattern of treating speech-to-text as a
// pluggable external concern; handleSTTAudio reports 503 until a real
// icao.Transcriber is wired in.
func handleSTTAudio(pipeline *icao.Pipeline, lg *icaolog.Logger, transcriber icao.Transcriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if transcriber == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no transcriber configured"})
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing audio field"})
			return
		}
		defer file.Close()
		audio, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read audio"})
			return
		}
		if len(audio) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audio payload is empty"})
			return
		}

		var currentSlots map[string]string
		if raw := r.FormValue("current_slots"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &currentSlots); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "current_slots must be valid JSON"})
				return
			}
		}

		scenario := r.FormValue("scenario")
		if scenario == "" {
			scenario = "graz_vfr_sector_e"
		}
		resp, err := pipeline.ProcessAudio(transcriber, audio, header.Filename, icao.Request{
			State:        r.FormValue("state"),
			Scenario:     scenario,
			CurrentSlots: currentSlots,
		})
		if err != nil {
			lg.Warnf("audio request failed: %v", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "transcription failed"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode response: %v\n", err)
	}
}
