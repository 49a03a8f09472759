package view

import (
	"regexp"
	"strings"
)

// Segment is a piece of highlighted text. Concatenating the Text of every
// segment returned by Highlight reproduces the input.
type Segment struct {
	Text    string `yaml:"text"`
	IsMatch bool   `yaml:"match"`
}

// queryPattern compiles query as literal, case-insensitive text. It returns
// nil when query is not valid UTF-8; such a query matches nothing.
func queryPattern(query string) *regexp.Regexp {
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil
	}
	return re
}

// Matches reports whether text contains query, ignoring case. An empty query
// matches everything. It agrees with Highlight: text matches exactly when
// Highlight marks at least one segment.
func Matches(text, query string) bool {
	if query == "" {
		return true
	}
	re := queryPattern(query)
	return re != nil && re.MatchString(text)
}

// Highlight splits text around every case-insensitive occurrence of query.
// The query is literal text, never a pattern.
func Highlight(text, query string) []Segment {
	if query == "" {
		return []Segment{{Text: text}}
	}
	re := queryPattern(query)
	if re == nil {
		return []Segment{{Text: text}}
	}
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{Text: text[m[0]:m[1]], IsMatch: true})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// JoinSegments concatenates segment texts.
func JoinSegments(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}
