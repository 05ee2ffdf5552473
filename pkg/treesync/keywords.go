package treesync

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vanderheijden86/tunebook/pkg/model"
)

// Keywords is a parsed search: lowercase, whitespace separated, in input
// order. An empty Keywords disables filtering.
type Keywords []string

// ParseKeywords splits the search box text into keywords.
func ParseKeywords(text string) Keywords {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	fields := strings.Fields(fold(text))
	if len(fields) == 0 {
		return nil
	}
	return Keywords(fields)
}

// Active reports whether a filter is in effect.
func (k Keywords) Active() bool { return len(k) > 0 }

// Match reports whether every keyword occurs in text, ignoring case.
func (k Keywords) Match(text string) bool {
	if len(k) == 0 {
		return true
	}
	haystack := fold(text)
	for _, kw := range k {
		if !strings.Contains(haystack, kw) {
			return false
		}
	}
	return true
}

func (k Keywords) String() string { return strings.Join(k, " ") }

// Equal reports whether both searches have the same keywords in the same order.
func (k Keywords) Equal(o Keywords) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if k[i] != o[i] {
			return false
		}
	}
	return true
}

// cases.Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// SearchText is the text a node is matched against.
func SearchText(n *Node) string {
	switch n.Kind {
	case KindActive:
		return activeSearchText(n.Demod)
	case KindRange:
		return rangeSearchText(n.Range)
	case KindBookmark:
		return bookmarkSearchText(n.Entry)
	case KindRecent:
		return recentSearchText(n.Entry)
	case KindBranch, KindGroup:
		return n.Label
	default:
		panic(fmt.Sprintf("treesync: unknown node kind %d", int(n.Kind)))
	}
}

func bookmarkSearchText(b *model.Bookmark) string {
	return strings.Join([]string{
		b.DisplayName(),
		b.Label,
		model.FrequencyDigits(b.Frequency),
		model.FormatFrequency(b.Frequency),
		model.FormatFrequency(b.Bandwidth),
		b.Type,
	}, " ")
}

func recentSearchText(b *model.Bookmark) string {
	return strings.Join([]string{
		b.DisplayName(),
		model.FrequencyDigits(b.Frequency),
		model.FormatFrequency(b.Frequency),
		model.FormatFrequency(b.Bandwidth),
		b.Type,
	}, " ")
}

func activeSearchText(d *model.Demodulator) string {
	return strings.Join([]string{
		d.DisplayName(),
		d.UserLabel,
		model.FrequencyDigits(d.Frequency),
		model.FormatFrequency(d.Frequency),
		model.FormatFrequency(d.Bandwidth),
		d.Type,
	}, " ")
}

func rangeSearchText(r *model.Range) string {
	return strings.Join([]string{
		r.DisplayName(),
		model.FrequencyDigits(r.Start),
		model.FrequencyDigits(r.End),
		model.FormatFrequency(r.Start),
		model.FormatFrequency(r.End),
	}, " ")
}
