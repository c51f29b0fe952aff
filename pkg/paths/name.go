package paths

import (
	"regexp"
	"strings"
	"time"
)

var invalidNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeName strips characters that are invalid in file names on the
// host's target platform, plus surrounding whitespace.
func SanitizeName(name string) string {
	return invalidNameChars.ReplaceAllString(strings.TrimSpace(name), "")
}

// ProjectName builds the full project name from a base name, optionally
// prefixed with the date as YYYYMMDD to keep project folders unique and
// sorted.
func ProjectName(baseName string, now time.Time, withDate bool) string {
	name := SanitizeName(baseName)
	if !withDate {
		return name
	}

	return now.Format("20060102") + "_" + name
}
