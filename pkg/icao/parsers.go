package icao

import (
	"regexp"
	"strings"
)

// callsignRe accepts a one- or two-letter prefix, an optional hyphen,
// and a 2-5 character alphanumeric body: D-ABC, OEABC, G-EZJK.
var callsignRe = regexp.MustCompile(`^[A-Z]{1,2}-?[A-Z0-9]{2,5}$`)

// runwaySuffix maps a spoken runway-side word to its ICAO letter.
var runwaySuffix = map[string]string{
	"l": "L", "left": "L",
	"r": "R", "right": "R",
	"c": "C", "center": "C", "centre": "C",
}

// Parser extracts at most one slot from the full normalized token
// stream. Parsers never share state and each scans from index 0: by
// design a single token may contribute to more than one slot (e.g. a
// digit run can be both a runway number and, read differently, an
// altitude). The validator, not the parsers, is the authority on
// correctness.
type Parser func(tokens []Token) *ParsedSlot

// Parsers lists every registered slot parser in a fixed order, so that
// concurrent execution (see ParseAll) still merges results
// deterministically.
var Parsers = []Parser{
	parseCallsign,
	parseRunway,
	parseAltitude,
	parseFlightLevel,
	parseQNH,
	parseSquawk,
	parseSector,
	parsePosition,
	parseTaxiway,
	parseHoldingPoint,
	parseWind,
	parseTime,
}

func minConfidence(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func parseCallsign(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if callsignRe.MatchString(t.Normalized) {
			return &ParsedSlot{Name: "callsign", Value: t.Normalized, Confidence: t.Confidence, RawTokens: []string{t.Raw}}
		}
		if i+1 < len(tokens) {
			next := tokens[i+1]
			combined := t.Normalized + "-" + next.Normalized
			if callsignRe.MatchString(combined) {
				return &ParsedSlot{
					Name: "callsign", Value: combined,
					Confidence: minConfidence(t.Confidence, next.Confidence),
					RawTokens:  []string{t.Raw, next.Raw},
				}
			}
		}
	}

	// A run of 3+ NATO letters can itself spell out a callsign once a
	// hyphen is tried after the first or second letter.
	var run []Token
	tryRun := func(run []Token) *ParsedSlot {
		if len(run) < 3 {
			return nil
		}
		var letters strings.Builder
		for _, t := range run {
			letters.WriteString(t.Normalized)
		}
		full := letters.String()
		for _, prefixLen := range []int{1, 2} {
			if len(full) <= prefixLen {
				continue
			}
			candidate := full[:prefixLen] + "-" + full[prefixLen:]
			if callsignRe.MatchString(candidate) {
				confs := make([]float64, len(run))
				raws := make([]string, len(run))
				for i, t := range run {
					confs[i] = t.Confidence
					raws[i] = t.Raw
				}
				return &ParsedSlot{Name: "callsign", Value: candidate, Confidence: minConfidence(confs...), RawTokens: raws}
			}
		}
		return nil
	}
	for _, t := range append(append([]Token{}, tokens...), Token{Kind: KindWord}) {
		if t.Kind == KindNATO {
			run = append(run, t)
			continue
		}
		if slot := tryRun(run); slot != nil {
			return slot
		}
		run = nil
	}
	return nil
}

func parseFlightLevel(tokens []Token) *ParsedSlot {
	for _, t := range tokens {
		if t.Kind == KindFlightLevel && strings.HasPrefix(t.Normalized, "FL") {
			return &ParsedSlot{Name: "flight_level", Value: t.Normalized, Confidence: t.Confidence, RawTokens: []string{t.Raw}}
		}
	}
	return nil
}

// consumeNumberSequence greedily consumes a run of number/digit tokens
// from the front of tokens, returning the concatenated digits, the raw
// words consumed, and the minimum confidence across the run (0 if
// nothing was consumed).
func consumeNumberSequence(tokens []Token) (string, []string, float64) {
	var digits strings.Builder
	var raw []string
	var confs []float64
	for _, t := range tokens {
		if (t.Kind == KindNumber || t.Kind == KindDigits) && isDigitsOnly(t.Normalized) {
			digits.WriteString(t.Normalized)
			raw = append(raw, t.Raw)
			confs = append(confs, t.Confidence)
		} else {
			break
		}
	}
	if len(confs) == 0 {
		return "", nil, 0.0
	}
	return digits.String(), raw, minConfidence(confs...)
}

func zfill2(digits string) string {
	if len(digits) >= 2 {
		return digits
	}
	return strings.Repeat("0", 2-len(digits)) + digits
}

func parseRunway(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if t.Normalized != "runway" {
			continue
		}
		digits, raw, conf := consumeNumberSequence(tokens[i+1:])
		if digits == "" {
			continue
		}
		runway := zfill2(digits)
		suffix := ""
		nextIdx := i + 1 + len(raw)
		if nextIdx < len(tokens) {
			next := tokens[nextIdx]
			if s, ok := runwaySuffix[strings.ToLower(next.Normalized)]; ok {
				suffix = s
				raw = append(raw, next.Raw)
				conf = minConfidence(conf, next.Confidence)
			}
		}
		return &ParsedSlot{Name: "runway", Value: runway + suffix, Confidence: conf, RawTokens: append([]string{t.Raw}, raw...)}
	}
	return nil
}

func parseAltitude(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		n := t.Normalized
		if n == "altitude" || n == "alt" || n == "height" {
			digits, raw, conf := consumeNumberSequence(tokens[i+1:])
			if digits != "" {
				return &ParsedSlot{Name: "altitude", Value: digits, Confidence: conf, RawTokens: append([]string{t.Raw}, raw...)}
			}
		}
	}
	return nil
}

func parseQNH(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if t.Normalized != "qnh" {
			continue
		}
		digits, raw, conf := consumeNumberSequence(tokens[i+1:])
		if digits != "" {
			return &ParsedSlot{Name: "qnh", Value: digits, Confidence: conf, RawTokens: append([]string{t.Raw}, raw...)}
		}
	}
	return nil
}

func parseSquawk(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if t.Normalized != "squawk" {
			continue
		}
		digits, raw, conf := consumeNumberSequence(tokens[i+1:])
		if digits != "" {
			return &ParsedSlot{Name: "squawk", Value: digits, Confidence: conf, RawTokens: append([]string{t.Raw}, raw...)}
		}
	}
	return nil
}

// normalizeLetterToken extracts a short alphanumeric identifier (a
// sector, taxiway, or holding-point letter) from a token: a NATO letter
// as-is, or any other alnum token of length <= 3, uppercased.
func normalizeLetterToken(t Token) (string, bool) {
	if t.Kind == KindNATO {
		return t.Normalized, true
	}
	if isAlnum(t.Normalized) && len(t.Normalized) <= 3 {
		return strings.ToUpper(t.Normalized), true
	}
	return "", false
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

func parseSector(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if (t.Normalized == "sector" || t.Normalized == "sektor") && i+1 < len(tokens) {
			next := tokens[i+1]
			if letter, ok := normalizeLetterToken(next); ok {
				return &ParsedSlot{Name: "sector", Value: letter, Confidence: next.Confidence, RawTokens: []string{t.Raw, next.Raw}}
			}
		}
	}
	return nil
}

func parsePosition(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if t.Normalized != "apron" {
			continue
		}
		value := "apron"
		raw := []string{t.Raw}
		conf := t.Confidence
		if i+1 < len(tokens) {
			next := tokens[i+1]
			if next.Kind == KindWord {
				value = value + " " + next.Normalized
				raw = append(raw, next.Raw)
				conf = minConfidence(conf, next.Confidence)
			}
		}
		return &ParsedSlot{Name: "position", Value: value, Confidence: conf, RawTokens: raw}
	}
	return nil
}

func parseTaxiway(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if t.Normalized == "taxiway" && i+1 < len(tokens) {
			next := tokens[i+1]
			if letter, ok := normalizeLetterToken(next); ok {
				return &ParsedSlot{Name: "taxiway", Value: letter, Confidence: next.Confidence, RawTokens: []string{t.Raw, next.Raw}}
			}
		}
	}
	return nil
}

func parseHoldingPoint(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if (t.Normalized == "holding" || t.Normalized == "hold") && i+1 < len(tokens) {
			if tokens[i+1].Normalized == "point" && i+2 < len(tokens) {
				candidate := tokens[i+2]
				if value, ok := normalizeLetterToken(candidate); ok {
					return &ParsedSlot{
						Name: "holding_point", Value: value, Confidence: candidate.Confidence,
						RawTokens: []string{t.Raw, tokens[i+1].Raw, candidate.Raw},
					}
				}
			}
		}
		if t.Normalized == "stop" && i+1 < len(tokens) {
			candidate := tokens[i+1]
			if value, ok := normalizeLetterToken(candidate); ok {
				return &ParsedSlot{Name: "holding_point", Value: value, Confidence: candidate.Confidence, RawTokens: []string{t.Raw, candidate.Raw}}
			}
		}
	}
	return nil
}

func parseWind(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if t.Normalized != "wind" {
			continue
		}
		if i+1 >= len(tokens) {
			continue
		}
		direction := tokens[i+1]
		if !isDigitsOnly(direction.Normalized) {
			continue
		}
		var speed string
		speedConf := direction.Confidence
		if i+2 < len(tokens) {
			candidate := tokens[i+2]
			if strings.HasSuffix(candidate.Normalized, "kt") {
				speed = strings.TrimSuffix(candidate.Normalized, "kt")
				speedConf = minConfidence(speedConf, candidate.Confidence)
			} else if isDigitsOnly(candidate.Normalized) {
				speed = candidate.Normalized
				speedConf = minConfidence(speedConf, candidate.Confidence)
				if i+3 < len(tokens) && (tokens[i+3].Normalized == "kt" || tokens[i+3].Normalized == "kts") {
					speedConf = minConfidence(speedConf, tokens[i+3].Confidence)
				}
			}
		}
		if speed != "" {
			return &ParsedSlot{Name: "wind", Value: direction.Normalized + "/" + speed, Confidence: speedConf, RawTokens: []string{t.Raw, direction.Raw}}
		}
		return &ParsedSlot{Name: "wind", Value: direction.Normalized, Confidence: direction.Confidence, RawTokens: []string{t.Raw, direction.Raw}}
	}
	return nil
}

func parseTime(tokens []Token) *ParsedSlot {
	for i, t := range tokens {
		if t.Normalized == "time" && i+1 < len(tokens) {
			next := tokens[i+1]
			if isDigitsOnly(next.Normalized) {
				return &ParsedSlot{Name: "time", Value: next.Normalized, Confidence: next.Confidence, RawTokens: []string{t.Raw, next.Raw}}
			}
		}
	}
	return nil
}
