package qsf

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// CleanText prepares platform display text for use inside a single-quoted
// syntax literal: markup is stripped (entities decoded), line breaks become
// spaces, anything outside printable ASCII is dropped, and single quotes are
// doubled. Apply it once; doubling is not idempotent.
func CleanText(s string) string {
	s = StripHTML(s)
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ", "\u00a0", " ").Replace(s)
	s = ASCIIOnly(s)
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, "'", "''")
}

// StripHTML returns the text content of an HTML fragment
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far is all we get
			return sb.String()
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br":
				sb.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if (string(name) == "script" || string(name) == "style") && skip > 0 {
				skip--
			}
		}
	}
}

// ASCIIOnly drops every rune outside the printable ASCII range 0x20-0x7E
func ASCIIOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7E {
			return -1
		}
		return r
	}, s)
}

// FormatNumber renders integral values without a fractional part
// (1.0 -> "1") and everything else in shortest form (1.5 -> "1.5").
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
