package issueparse

import (
	"regexp"
	"strings"
)

// noResponse is what the issue form renders for a field left blank.
const noResponse = "_No response_"

// extractor pulls one raw field value out of issue text.
type extractor func(text string) (string, bool)

// headingLine captures valuePattern on the first non-blank line after a
// "### heading" line.
func headingLine(heading, valuePattern string) extractor {
	re := regexp.MustCompile(`(?i)### ` + heading + `\s*\n\s*(` + valuePattern + `)`)
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		value := strings.TrimSpace(m[1])
		if value == "" || value == noResponse {
			return "", false
		}
		return value, true
	}
}

// headingSection captures everything after a "### heading" line up to the
// next "### " heading, or the end of the text. Headings for which nested
// reports true stay part of the section.
func headingSection(heading string, nested func(rest string) bool) extractor {
	re := regexp.MustCompile(`(?i)### ` + heading + `\s*\n\s*`)
	return func(text string) (string, bool) {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return "", false
		}
		body := cutAtHeading(text[loc[1]:], nested)
		body = strings.TrimSpace(body)
		if body == "" || body == noResponse {
			return "", false
		}
		return body, true
	}
}

// cutAtHeading returns the prefix of rest that precedes the first line
// starting with "### ". A heading at the very start of rest ends the section
// immediately.
func cutAtHeading(rest string, nested func(string) bool) string {
	const marker = "\n### "
	padded := "\n" + rest
	offset := 0
	for {
		idx := strings.Index(padded[offset:], marker)
		if idx < 0 {
			return rest
		}
		at := offset + idx
		if nested == nil || !nested(padded[at+1:]) {
			if at == 0 {
				return ""
			}
			return rest[:at-1]
		}
		offset = at + len(marker)
	}
}

// inlineField captures valuePattern after a "**label:**" marker.
func inlineField(label, valuePattern string) extractor {
	re := regexp.MustCompile(`(?i)\*\*` + label + `:\*\*\s*(` + valuePattern + `)`)
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		value := strings.TrimSpace(m[1])
		return value, value != ""
	}
}

// fencedBlock captures the contents of the first ``` block following a
// "**label...:**" marker.
func fencedBlock(labelPrefix string) extractor {
	re := regexp.MustCompile("(?is)\\*\\*" + labelPrefix + ".*:\\*\\*\\s*```\\s*(.*?)\\s*```")
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		value := strings.TrimSpace(m[1])
		return value, value != ""
	}
}

// afterMarker captures everything after the first match of pattern up to the
// first occurrence of terminator, or the end of the text.
func afterMarker(pattern, terminator string) extractor {
	re := regexp.MustCompile(pattern)
	return func(text string) (string, bool) {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return "", false
		}
		body := text[loc[1]:]
		if idx := strings.Index(body, terminator); idx >= 0 {
			body = body[:idx]
		}
		return body, strings.TrimSpace(body) != ""
	}
}

// urlLines returns the trimmed lines of block that start with "http".
func urlLines(block string) []string {
	var urls []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			urls = append(urls, line)
		}
	}
	return urls
}
