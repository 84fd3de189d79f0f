package subtitle

// Entry is a single timed line of a transcript. Start and Duration are
// seconds, matching the shape the transcript provider returns. The same type
// carries translated tracks, with Text holding the translated line.
type Entry struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// Texts returns the text fields of entries in order.
func Texts(entries []Entry) []string {
	ret := make([]string, len(entries))
	for i, e := range entries {
		ret[i] = e.Text
	}
	return ret
}
