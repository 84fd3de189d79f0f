// Package align re-segments free-text translation output into per-entry
// fragments. The provider returns one translated blob per batch with no
// structural echo, so the fragment count rarely matches the entry count
// exactly; the repair here is a deterministic approximation, not an inverse
// of the translation.
package align

import (
	"math"
	"strings"
)

// terminators are sentence and clause boundary marks for the split, covering
// both CJK and Latin punctuation.
var terminators = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
	'．': true,
	'…': true,
	'.': true,
	'!': true,
	'?': true,
}

// Split breaks a translated blob into candidate sentence units. Each unit
// keeps its trailing terminator; leading and trailing whitespace is trimmed
// and empty units are dropped.
func Split(text string) []string {
	var units []string
	var sb strings.Builder

	flush := func() {
		unit := strings.TrimSpace(sb.String())
		if unit != "" {
			units = append(units, unit)
		}
		sb.Reset()
	}

	for _, r := range text {
		sb.WriteRune(r)
		if terminators[r] {
			flush()
		}
	}
	flush()

	return units
}

// Fit maps candidate units onto exactly want output slots.
//
// More candidates than slots: adjacent candidates are merged by proportional
// grouping, slot k receiving candidates [round(k*r), round((k+1)*r)) with
// r = len(candidates)/want, which spreads the surplus evenly instead of
// truncating the tail. Fewer candidates: the tail is padded with empty
// strings, never fabricated text.
func Fit(candidates []string, want int) []string {
	if want <= 0 {
		return nil
	}

	out := make([]string, want)
	switch {
	case len(candidates) == want:
		copy(out, candidates)
	case len(candidates) < want:
		copy(out, candidates)
	default:
		r := float64(len(candidates)) / float64(want)
		for k := 0; k < want; k++ {
			lo := int(math.Round(float64(k) * r))
			hi := int(math.Round(float64(k+1) * r))
			if lo > len(candidates) {
				lo = len(candidates)
			}
			if hi > len(candidates) {
				hi = len(candidates)
			}
			out[k] = strings.Join(candidates[lo:hi], "")
		}
	}
	return out
}

// Repair splits text and fits the result to want fragments.
func Repair(text string, want int) []string {
	return Fit(Split(text), want)
}
