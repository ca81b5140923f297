package service

import (
	"regexp"
	"strings"
)

var allowedVideoURLPrefixes = []string{
	"https://www.youtube.com/watch?v=",
	"http://www.youtube.com/watch?v=",
	"https://youtu.be/",
	"http://youtu.be/",
}

var shortVideoIDRegex = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{6,})`)

// ValidateVideoURL reports whether url points at a YouTube video in one of the accepted
// forms: youtube.com/watch?v= or youtu.be/, over http or https.
func ValidateVideoURL(url string) bool {
	for _, prefix := range allowedVideoURLPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// VideoID extracts the video id from a YouTube URL. It returns false when no id is found.
func VideoID(url string) (string, bool) {
	if _, after, found := strings.Cut(url, "v="); found {
		id, _, _ := strings.Cut(after, "&")
		return id, id != ""
	}

	match := shortVideoIDRegex.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}
