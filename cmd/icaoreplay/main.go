// Command icaoreplay reads a replay log written by icaoserver's
// -replay-log flag and re-runs each recorded Request through the
// pipeline, printing whatever the response now looks like next to what
// was recorded at the time. It is a debugging aid for checking whether
// a change to normalize/parse/validate/advance/respond altered
// behavior on real traffic.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/grazvfr/icaovfr/pkg/icao"
	icaolog "github.com/grazvfr/icaovfr/pkg/log"
)

func main() {
	var (
		path     = flag.String("file", "", "replay log file to read")
		logLevel = flag.String("loglevel", "warn", "debug, info, warn, or error")
		diffOnly = flag.Bool("diff-only", false, "only print entries whose replayed output differs")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: icaoreplay -file <replay.log>")
		os.Exit(2)
	}

	lg := icaolog.New(false, *logLevel, "")
	pipeline := icao.NewPipeline(lg, 0)

	f, err := os.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *path, err)
		os.Exit(1)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open gzip stream in %s: %v\n", *path, err)
		os.Exit(1)
	}
	defer gz.Close()

	decoder := json.NewDecoder(bufio.NewReader(gz))
	total, changed := 0, 0
	for decoder.More() {
		var entry icao.ReplayEntry
		if err := decoder.Decode(&entry); err != nil {
			fmt.Fprintf(os.Stderr, "decode entry %d: %v\n", total, err)
			os.Exit(1)
		}
		total++

		replayed, err := pipeline.Process(entry.Request)
		if err != nil {
			fmt.Fprintf(os.Stderr, "request_id=%s replay error: %v\n", entry.RequestID, err)
			continue
		}

		same := replayed.NextState == entry.Response.NextState &&
			replayed.Validation.OK == entry.Response.Validation.OK &&
			replayed.ATCResponse.Text == entry.Response.ATCResponse.Text
		if same {
			if !*diffOnly {
				fmt.Printf("request_id=%s unchanged: next_state=%s ok=%v\n",
					entry.RequestID, replayed.NextState, replayed.Validation.OK)
			}
			continue
		}

		changed++
		fmt.Printf("request_id=%s CHANGED\n  recorded: next_state=%s ok=%v text=%q\n  replayed: next_state=%s ok=%v text=%q\n",
			entry.RequestID,
			entry.Response.NextState, entry.Response.Validation.OK, entry.Response.ATCResponse.Text,
			replayed.NextState, replayed.Validation.OK, replayed.ATCResponse.Text)
	}

	fmt.Printf("%d entries replayed, %d changed\n", total, changed)
}
