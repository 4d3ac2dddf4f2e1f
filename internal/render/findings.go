// Package render turns the backend's loosely structured verification text
// into labeled display blocks. It is a pure presentation transform: it never
// fails, has no side effects, and is idempotent for a given input.
package render

import (
	"regexp"
	"strings"
)

// Finding is one display block of a verification result. Raw holds the
// untrimmed source segment; concatenating the Raw fields of all findings
// reconstructs the original string exactly.
type Finding struct {
	Label string
	Body  string
	Raw   string
}

// Findings are enumerated like "1. Kết luận: ... 2. Giải thích: ...".
var marker = regexp.MustCompile(`[0-9]\. `)

// Findings splits raw into blocks at each point immediately preceding a
// numbered marker, then splits each block on its first colon into label and
// body. Arbitrary text is tolerated: input without markers yields a single
// block, and a block without a colon becomes a label with an empty body.
func Findings(raw string) []Finding {
	segments := splitSegments(raw)

	findings := make([]Finding, 0, len(segments))
	for _, segment := range segments {
		label, body := splitLabel(segment)
		findings = append(findings, Finding{Label: label, Body: body, Raw: segment})
	}
	return findings
}

// splitSegments cuts raw before every marker match. The marker stays with
// the segment it opens, so the split is lossless.
func splitSegments(raw string) []string {
	matches := marker.FindAllStringIndex(raw, -1)
	if len(matches) == 0 {
		return []string{raw}
	}

	var segments []string
	start := 0
	for _, match := range matches {
		if match[0] == start {
			continue
		}
		segments = append(segments, raw[start:match[0]])
		start = match[0]
	}
	segments = append(segments, raw[start:])

	return segments
}

func splitLabel(segment string) (label, body string) {
	before, after, found := strings.Cut(segment, ":")
	if !found {
		return strings.TrimSpace(segment), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
