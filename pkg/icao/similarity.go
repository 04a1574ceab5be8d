package icao

import "sort"

// fuzzyCutoff is the minimum ratio for an uncertain NATO-alphabet match
// to be accepted (stricter than difflib.get_close_matches' default of 0.6).
const fuzzyCutoff = 0.8

// fuzzyNATOMatch finds the closest NATOWords key to tok by sequence
// ratio, returning ("", 0) if nothing clears fuzzyCutoff.
func fuzzyNATOMatch(tok string) (string, float64) {
	keys := make([]string, 0, len(NATOWords))
	for k := range NATOWords {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestRatio := 0.0
	for _, k := range keys {
		r := sequenceRatio(tok, k)
		if r >= fuzzyCutoff && r > bestRatio {
			best, bestRatio = k, r
		}
	}
	return best, bestRatio
}

// sequenceRatio computes a Ratcliff/Obershelp similarity ratio between
// a and b: 2*M/T, where M is the total length of the longest matching
// blocks found by recursively splitting on the longest common
// substring, and T is len(a)+len(b). This is the same algorithm and
// the same score as Python's difflib.SequenceMatcher.ratio(), which
// spec.md's fuzzy-matching requirement is stated in terms of.
func sequenceRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	matches := matchingBlockLength(a, b)
	return 2.0 * float64(matches) / float64(total)
}

func matchingBlockLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	i, j, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingBlockLength(a[:i], b[:j]) + matchingBlockLength(a[i+size:], b[j+size:])
}

// longestCommonSubstring returns the start offsets and length of the
// first (leftmost in a, then in b) longest run common to a and b.
func longestCommonSubstring(a, b string) (besti, bestj, bestsize int) {
	for i := 0; i < len(a); i++ {
		if len(a)-i <= bestsize {
			break
		}
		for j := 0; j < len(b); j++ {
			k := 0
			for i+k < len(a) && j+k < len(b) && a[i+k] == b[j+k] {
				k++
			}
			if k > bestsize {
				besti, bestj, bestsize = i, j, k
			}
		}
	}
	return besti, bestj, bestsize
}

func formatFuzzyHint(tok, match string, ratio float64) string {
	return "fuzzy NATO match '" + tok + "' -> '" + match + "' (" + formatRatio(ratio) + ")"
}

func formatRatio(r float64) string {
	// Two-decimal formatting without pulling in fmt for one call site
	// on the hot normalize path.
	hundredths := int(r*100 + 0.5)
	whole := hundredths / 100
	frac := hundredths % 100
	digits := "0123456789"
	out := []byte{digits[whole], '.', digits[frac/10], digits[frac%10]}
	return string(out)
}
