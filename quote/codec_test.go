package quote

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlainBodyIsIdempotent(t *testing.T) {
	bodies := []string{
		"",
		"hello",
		"multi\nline\nbody",
		"trailing newline\n",
		"  leading spaces stay",
		"contains • bullet but no quote",
	}
	for _, body := range bodies {
		dec := Decode(body)
		assert.Empty(t, dec.Header, "body %q", body)
		assert.Empty(t, dec.Excerpt, "body %q", body)
		assert.Equal(t, body, dec.Body, "body %q", body)
		assert.False(t, dec.Quoted())
	}
}

func TestEncodeDecodeScenario(t *testing.T) {
	sentAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	body := Encode("Alice", sentAt, "Let's ship it", " sounds good")
	require.Equal(t, "> Alice • 01/01 10:00\n> Let's ship it\n\n sounds good", body)

	dec := Decode(body)
	assert.Equal(t, "Alice • 01/01 10:00", dec.Header)
	assert.Equal(t, []string{"Let's ship it"}, dec.Excerpt)
	assert.Equal(t, "sounds good", dec.Body)
	assert.True(t, dec.Quoted())
}

func TestEncodeTruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("я", 300)

	body := Encode("Bob", time.Now(), long, "ok")
	dec := Decode(body)

	require.Len(t, dec.Excerpt, 1)
	excerpt := []rune(dec.Excerpt[0])
	assert.LessOrEqual(t, len(excerpt), MaxExcerptRunes+1)
	assert.Equal(t, "…", string(excerpt[len(excerpt)-1]))
	assert.Equal(t, "ok", dec.Body)
}

func TestEncodeCapsExcerptLines(t *testing.T) {
	original := "a\nb\nc\nd\ne\nf\ng\nh"

	dec := Decode(Encode("Bob", time.Now(), original, "ok"))
	assert.Len(t, dec.Excerpt, MaxExcerptLines)
}

func TestEncodeStripsNestedQuote(t *testing.T) {
	sentAt := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	reply := Encode("Alice", sentAt, "original text", "first reply")

	dec := Decode(Encode("Bob", sentAt, reply, "second reply"))
	assert.Equal(t, []string{"first reply"}, dec.Excerpt)
	assert.Equal(t, "second reply", dec.Body)
}

func TestEncodeQuoteOnlyOriginalEmitsHeaderOnly(t *testing.T) {
	sentAt := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	quoteOnly := "> Alice • 01/01 10:00\n> something\n\n"

	body := Encode("Bob", sentAt, quoteOnly, "reply")
	require.Equal(t, "> Bob • 03/05 18:30\n\nreply", body)

	dec := Decode(body)
	assert.Equal(t, "Bob • 03/05 18:30", dec.Header)
	assert.Empty(t, dec.Excerpt)
	assert.Equal(t, "reply", dec.Body)
}

func TestDecodeBlockWithoutHeader(t *testing.T) {
	dec := Decode("> just a quoted line\n> another\n\nrest")
	assert.Empty(t, dec.Header)
	assert.Equal(t, []string{"just a quoted line", "another"}, dec.Excerpt)
	assert.Equal(t, "rest", dec.Body)
}

func TestDecodeMissingBlankSeparator(t *testing.T) {
	// Malformed: no blank line after the block. The non-quote line starts the
	// remainder directly.
	dec := Decode("> Alice • 01/01 10:00\n> hi\nrest of it")
	assert.Equal(t, "Alice • 01/01 10:00", dec.Header)
	assert.Equal(t, []string{"hi"}, dec.Excerpt)
	assert.Equal(t, "rest of it", dec.Body)
}

func TestDecodeBareQuoteMarker(t *testing.T) {
	dec := Decode(">\n> second\n\nbody")
	assert.Equal(t, []string{"", "second"}, dec.Excerpt)
	assert.Equal(t, "body", dec.Body)
}

func TestDecodeConsumesSingleBlankLineOnly(t *testing.T) {
	dec := Decode("> quoted\n\n\nbody after extra blank")
	assert.Equal(t, "\nbody after extra blank", dec.Body)
}
