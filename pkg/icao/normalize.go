package icao

import (
	"regexp"
	"strings"
)

// NATOWords maps the NATO/ICAO phonetic alphabet to its single letter.
var NATOWords = map[string]string{
	"alpha": "A", "bravo": "B", "charlie": "C", "delta": "D", "echo": "E",
	"foxtrot": "F", "golf": "G", "hotel": "H", "india": "I", "juliet": "J",
	"kilo": "K", "lima": "L", "mike": "M", "november": "N", "oscar": "O",
	"papa": "P", "quebec": "Q", "romeo": "R", "sierra": "S", "tango": "T",
	"uniform": "U", "victor": "V", "whiskey": "W", "xray": "X", "yankee": "Y",
	"zulu": "Z",
}

// NumberWords maps spoken digit words, including the ICAO variants
// ("tree", "fife", "niner"), to their digit character.
var NumberWords = map[string]string{
	"zero": "0", "one": "1", "two": "2", "three": "3", "tree": "3",
	"four": "4", "five": "5", "fife": "5", "six": "6",
	"seven": "7", "eight": "8", "nine": "9", "niner": "9",
}

// ContextNumbers lists homophones that are only rewritten to a number
// word when adjacent to another number-ish token (the contextual rule in
// Normalize). None of them is a NumberWords entry, so away from a number
// "to", "too" and "for" stay plain words. Next to a number "for" is
// always rewritten, even where it is a preposition: the pipeline does
// not attempt real language modeling.
var ContextNumbers = map[string]string{
	"to": "two", "too": "two", "for": "four",
}

var tokenRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

func tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isNumberToken(tok string) bool {
	if isDigitsOnly(tok) {
		return true
	}
	_, ok := NumberWords[tok]
	return ok
}

// Normalize tokenizes raw STT text and rewrites ICAO number words,
// NATO-alphabet words (with fuzzy correction), flight-level phrases,
// and "to/too/for" homophones into a canonical normalized form.
func Normalize(rawText string) NormalizationResult {
	tokens := tokenize(rawText)
	out := []Token{}
	hints := []string{}

	idx := 0
	for idx < len(tokens) {
		tok := tokens[idx]

		// "flight level one zero zero" -> FL100
		if tok == "flight" && idx+1 < len(tokens) && tokens[idx+1] == "level" {
			var digits strings.Builder
			j := idx + 2
			for j < len(tokens) && isNumberToken(tokens[j]) {
				if isDigitsOnly(tokens[j]) {
					digits.WriteString(tokens[j])
				} else {
					digits.WriteString(NumberWords[tokens[j]])
				}
				j++
			}
			if digits.Len() > 0 {
				out = append(out, Token{
					Raw:        "flight level",
					Normalized: "FL" + digits.String(),
					Kind:       KindFlightLevel,
					Confidence: 1.0,
				})
				idx = j
				continue
			}
		}

		// Contextual homophone correction, only adjacent to a number token.
		if repl, isContext := ContextNumbers[tok]; isContext {
			prevNum := idx > 0 && isNumberToken(tokens[idx-1])
			nextNum := idx+1 < len(tokens) && isNumberToken(tokens[idx+1])
			if prevNum || nextNum {
				normalized := NumberWords[repl]
				out = append(out, Token{Raw: tok, Normalized: normalized, Kind: KindNumber, Confidence: 0.75})
				hints = append(hints, "context-normalized '"+tok+"' -> '"+normalized+"'")
				idx++
				continue
			}
		}

		if digit, ok := NumberWords[tok]; ok {
			out = append(out, Token{Raw: tok, Normalized: digit, Kind: KindNumber, Confidence: 1.0})
			idx++
			continue
		}

		if isDigitsOnly(tok) {
			out = append(out, Token{Raw: tok, Normalized: tok, Kind: KindDigits, Confidence: 1.0})
			idx++
			continue
		}

		if letter, ok := NATOWords[tok]; ok {
			out = append(out, Token{Raw: tok, Normalized: letter, Kind: KindNATO, Confidence: 1.0})
			idx++
			continue
		}

		if match, ratio := fuzzyNATOMatch(tok); match != "" {
			out = append(out, Token{Raw: tok, Normalized: NATOWords[match], Kind: KindNATO, Confidence: ratio})
			hints = append(hints, formatFuzzyHint(tok, match, ratio))
			idx++
			continue
		}

		out = append(out, Token{Raw: tok, Normalized: tok, Kind: KindWord, Confidence: 1.0})
		idx++
	}

	return NormalizationResult{
		RawText:         rawText,
		NormalizedText:  joinTokens(out),
		Tokens:          out,
		ConfidenceHints: hints,
	}
}

// joinTokens reconstructs normalized text, gluing consecutive NATO
// letters onto the previous output word if that word is itself a bare
// uppercase letter run (the cohesion rule: "alpha bravo" -> "AB", but
// "runway alpha" stays two words since "runway" isn't a letter run).
func joinTokens(tokens []Token) string {
	var out []string
	for _, t := range tokens {
		if t.Kind == KindNATO && len(out) > 0 && isUppercaseLetters(out[len(out)-1]) {
			out[len(out)-1] = out[len(out)-1] + t.Normalized
		} else {
			out = append(out, t.Normalized)
		}
	}
	return strings.Join(out, " ")
}

func isUppercaseLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
