package subtitle

import "strings"

// CleanText normalizes raw transcript text: non-breaking spaces and newlines
// become regular spaces, runs of whitespace collapse to one space.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.Join(strings.Fields(text), " ")
}

// CleanEntries returns a copy of entries with each text cleaned.
func CleanEntries(entries []Entry) []Entry {
	ret := make([]Entry, len(entries))
	for i, e := range entries {
		e.Text = CleanText(e.Text)
		ret[i] = e
	}
	return ret
}
