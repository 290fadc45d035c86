// Package quote implements the reply-quoting text protocol: a quoted excerpt
// of a prior message is prepended to a new message body as "> "-prefixed
// lines, headed by an author/time line and separated from the new content by
// one blank line.
package quote

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// MaxExcerptRunes caps the quoted excerpt, counted in characters.
	MaxExcerptRunes = 180
	// MaxExcerptLines caps the quoted excerpt line count after truncation.
	MaxExcerptLines = 6

	ellipsis        = "…"
	timestampLayout = "01/02 15:04"
)

var (
	quoteLineRe = regexp.MustCompile(`^>\s?`)
	headerRe    = regexp.MustCompile(`^.+ • .+$`)
)

// Decoded is the result of splitting a message body into its quote block and
// the actual new content.
type Decoded struct {
	// Header is the "<author> • <timestamp>" line, without the "> " prefix.
	// Empty when the quote block carries no recognizable header.
	Header string
	// Excerpt holds the quoted lines, prefixes stripped.
	Excerpt []string
	// Body is everything after the quote block.
	Body string
}

// Quoted reports whether the body carried a quote block at all.
func (d Decoded) Quoted() bool {
	return d.Header != "" || len(d.Excerpt) > 0
}

// Encode builds a reply body quoting the original message. The original's own
// quote block, if any, is stripped first so nested history is never quoted.
// The excerpt is truncated to MaxExcerptRunes characters (ellipsis appended)
// and capped at MaxExcerptLines lines.
func Encode(authorLabel string, sentAt time.Time, original string, reply string) string {
	excerpt := Decode(original).Body

	runes := []rune(excerpt)
	if len(runes) > MaxExcerptRunes {
		excerpt = string(runes[:MaxExcerptRunes]) + ellipsis
	}

	var b strings.Builder
	fmt.Fprintf(&b, "> %s • %s", authorLabel, sentAt.UTC().Format(timestampLayout))

	if excerpt != "" {
		lines := strings.Split(excerpt, "\n")
		if len(lines) > MaxExcerptLines {
			lines = lines[:MaxExcerptLines]
		}
		for _, line := range lines {
			b.WriteString("\n> ")
			b.WriteString(line)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(reply)
	return b.String()
}

// Decode splits a body into quote block and remainder. A body with no leading
// "> " lines comes back unchanged: no header, no excerpt, Body == body.
// Malformed or partial quote syntax is consumed as far as it matches; Decode
// never fails.
func Decode(body string) Decoded {
	lines := strings.Split(body, "\n")

	var block []string
	i := 0
	for i < len(lines) {
		loc := quoteLineRe.FindStringIndex(lines[i])
		if loc == nil {
			break
		}
		block = append(block, lines[i][loc[1]:])
		i++
	}

	if len(block) == 0 {
		return Decoded{Body: body}
	}

	var dec Decoded
	if headerRe.MatchString(block[0]) {
		dec.Header = block[0]
		dec.Excerpt = block[1:]
	} else {
		dec.Excerpt = block
	}

	// One blank separator line after the block is part of the encoding.
	if i < len(lines) && lines[i] == "" {
		i++
	}

	dec.Body = strings.TrimLeft(strings.Join(lines[i:], "\n"), " \t")
	return dec
}
