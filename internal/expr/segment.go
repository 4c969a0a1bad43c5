// Package expr implements the expression editing model: parsing a raw
// expression string into text and reference segments, and the keyboard-driven
// editor state machine built on top of it.
//
// A reference token is a '$' followed by one or more identifier characters
// ([A-Za-z0-9-]). Parsing is lossless: concatenating the segments' Content in
// order reproduces the raw string exactly.
package expr

import "strings"

// SegmentKind distinguishes literal text from reference tokens.
type SegmentKind int

const (
	// SegmentText is a literal run of characters.
	SegmentText SegmentKind = iota
	// SegmentReference is a $<id> token pointing at another transaction.
	SegmentReference
)

// Segment is one parsed unit of a raw expression. Content is the verbatim
// substring of the raw string; for references it includes the leading '$' and
// ID holds the identifier without it.
type Segment struct {
	Content string
	ID      string
	Kind    SegmentKind
}

// isIdentByte reports whether b may appear in a reference identifier.
// Identifier characters are ASCII, so byte-wise scanning is safe in the
// presence of multi-byte runes elsewhere in the string.
func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-':
		return true
	}
	return false
}

// Parse splits raw into an ordered sequence of segments using an explicit
// left-to-right scanner. At each '$' the longest run of identifier characters
// is consumed; a '$' with no identifier character after it stays in the
// surrounding text segment. An empty string yields no segments.
func Parse(raw string) []Segment {
	if raw == "" {
		return nil
	}

	var segments []Segment
	textStart := 0

	i := 0
	for i < len(raw) {
		if raw[i] != '$' {
			i++
			continue
		}

		j := i + 1
		for j < len(raw) && isIdentByte(raw[j]) {
			j++
		}
		if j == i+1 {
			// Bare '$': part of the text run.
			i++
			continue
		}

		if textStart < i {
			segments = append(segments, Segment{
				Kind:    SegmentText,
				Content: raw[textStart:i],
			})
		}
		segments = append(segments, Segment{
			Kind:    SegmentReference,
			Content: raw[i:j],
			ID:      raw[i+1 : j],
		})
		i = j
		textStart = j
	}

	if textStart < len(raw) {
		segments = append(segments, Segment{
			Kind:    SegmentText,
			Content: raw[textStart:],
		})
	}

	return segments
}

// Serialize is the exact inverse of Parse: the concatenation of every
// segment's Content.
func Serialize(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Content)
	}
	return b.String()
}

// References returns the identifiers of all reference segments in raw, in
// order of appearance. Duplicates are preserved.
func References(raw string) []string {
	var ids []string
	for _, s := range Parse(raw) {
		if s.Kind == SegmentReference {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// SegmentAt returns the segment containing the character immediately before
// the byte offset, along with the segment's start offset. This is the segment
// a delete-backward at that offset targets. Returns ok=false when offset is
// at or before the start of the string.
func SegmentAt(segments []Segment, offset int) (seg Segment, start int, ok bool) {
	if offset <= 0 {
		return Segment{}, 0, false
	}
	pos := 0
	for _, s := range segments {
		end := pos + len(s.Content)
		if offset > pos && offset <= end {
			return s, pos, true
		}
		pos = end
	}
	return Segment{}, 0, false
}
