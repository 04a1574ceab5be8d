package icao

import "golang.org/x/sync/errgroup"

// ParseAll runs every registered Parser against the same token stream
// and merges whatever each one finds into a single slot map keyed by
// slot name. Parsers hold no shared state and each scans the full
// token list independently (see the Parser doc comment), so they run
// concurrently; results are folded back in Parsers' fixed order so the
// merge is deterministic regardless of goroutine scheduling.
func ParseAll(result NormalizationResult) map[string]ParsedSlot {
	found := make([]*ParsedSlot, len(Parsers))

	var g errgroup.Group
	for i, parser := range Parsers {
		i, parser := i, parser
		g.Go(func() error {
			found[i] = parser(result.Tokens)
			return nil
		})
	}
	_ = g.Wait() // parsers never return an error

	slots := make(map[string]ParsedSlot, len(Parsers))
	for i := range Parsers {
		if found[i] != nil {
			slots[found[i].Name] = *found[i]
		}
	}
	return slots
}
