package bot

import (
	"strings"
	"unicode/utf8"
)

const paragraphSep = "\n\n"

// SplitMessage cuts text into chunks of at most limit characters, breaking
// only between paragraphs (blank lines). strings.Join(chunks, "\n\n") gives
// text back as long as no single paragraph is longer than limit; such a
// paragraph is broken at line ends, and a line longer than limit at the
// limit itself.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	sepLen := utf8.RuneCountInString(paragraphSep)

	var chunks []string
	var parts []string
	size := 0
	for _, para := range strings.Split(text, paragraphSep) {
		for _, piece := range splitLong(para, limit) {
			n := utf8.RuneCountInString(piece)
			if len(parts) > 0 && size+sepLen+n > limit {
				chunks = append(chunks, strings.Join(parts, paragraphSep))
				parts = parts[:0]
				size = 0
			}
			if len(parts) > 0 {
				size += sepLen
			}
			parts = append(parts, piece)
			size += n
		}
	}
	if len(parts) > 0 {
		chunks = append(chunks, strings.Join(parts, paragraphSep))
	}
	return chunks
}

// splitLong breaks one oversized paragraph into pieces of at most limit runes.
func splitLong(para string, limit int) []string {
	if utf8.RuneCountInString(para) <= limit {
		return []string{para}
	}
	var pieces []string
	var cur strings.Builder
	curLen := 0
	for _, line := range strings.Split(para, "\n") {
		for _, seg := range splitRunes(line, limit) {
			n := utf8.RuneCountInString(seg)
			if curLen > 0 && curLen+1+n > limit {
				pieces = append(pieces, cur.String())
				cur.Reset()
				curLen = 0
			}
			if curLen > 0 {
				cur.WriteByte('\n')
				curLen++
			}
			cur.WriteString(seg)
			curLen += n
		}
	}
	if curLen > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}

func splitRunes(s string, limit int) []string {
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}
	var out []string
	runes := []rune(s)
	for len(runes) > limit {
		out = append(out, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
