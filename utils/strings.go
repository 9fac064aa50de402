package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// DisplayName returns the participant name trimmed, or "Unnamed" when blank
func DisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return UnnamedParticipant
	}
	return name
}

// FormatDate renders an event date the way the client shows it (dd/mm/yyyy)
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders an event date with its start time
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// ContainsFold reports whether substr is within s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// CleanFileName removes invalid characters from filename
func CleanFileName(filename string) string {
	cleaned := invalidFileChars.ReplaceAllString(filename, "_")
	cleaned = strings.TrimSpace(cleaned)
	return whitespaceRun.ReplaceAllString(cleaned, "_")
}
