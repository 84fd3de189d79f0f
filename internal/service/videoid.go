package service

import "regexp"

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?]+)`),
}

// ExtractVideoID pulls the video id out of a YouTube URL (watch, short, or
// embed form). Returns false when no pattern matches.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(rawURL); match != nil {
			return match[1], true
		}
	}
	return "", false
}
