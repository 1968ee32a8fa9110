package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage_Short(t *testing.T) {
	assert.Equal(t, []string{"xin chào"}, SplitMessage("xin chào", 4096))
	assert.Equal(t, []string{""}, SplitMessage("", 4096))
}

func TestSplitMessage_Paragraphs(t *testing.T) {
	// 50 paragraphs of 100 chars: 5000 chars of body plus separators.
	paras := make([]string, 50)
	for i := range paras {
		paras[i] = strings.Repeat(string(rune('a'+i%26)), 100)
	}
	text := strings.Join(paras, "\n\n")

	chunks := SplitMessage(text, 4096)
	require.Len(t, chunks, 2)
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 4096, "chunk %d", i)
		assert.False(t, strings.HasPrefix(c, "\n"), "chunk %d starts inside a separator", i)
	}
	assert.Equal(t, text, strings.Join(chunks, "\n\n"))
}

func TestSplitMessage_CountsRunes(t *testing.T) {
	// "đ" is two bytes; the limit is in characters.
	text := strings.Repeat("đ", 10) + "\n\n" + strings.Repeat("đ", 10)
	assert.Equal(t, []string{text}, SplitMessage(text, 22))
	assert.Equal(t, []string{strings.Repeat("đ", 10), strings.Repeat("đ", 10)}, SplitMessage(text, 21))
}

func TestSplitMessage_OversizedParagraph(t *testing.T) {
	line := strings.Repeat("x", 30)
	para := strings.Join([]string{line, line, line}, "\n")
	chunks := SplitMessage("head\n\n"+para, 40)

	// The first piece still shares a chunk with the paragraph before it.
	assert.Equal(t, []string{"head\n\n" + line, line, line}, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 40)
	}
}

func TestSplitMessage_OversizedLine(t *testing.T) {
	text := strings.Repeat("y", 25)
	chunks := SplitMessage(text, 10)
	assert.Equal(t, []string{strings.Repeat("y", 10), strings.Repeat("y", 10), strings.Repeat("y", 5)}, chunks)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMessage_KeepsEmptyParagraphs(t *testing.T) {
	text := strings.Repeat("a", 8) + "\n\n\n\n" + strings.Repeat("b", 8)
	chunks := SplitMessage(text, 12)
	assert.Equal(t, text, strings.Join(chunks, "\n\n"))
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 12)
	}
}
