package onix

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Small etree helpers shared by parsers and builder. Repetition of "one or
// many child elements" is handled uniformly through SelectElements, which
// always yields a slice.

// childText returns the trimmed text of the first child with the given tag,
// empty when absent.
func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

// addElement appends a child with text content, escaping is handled by the
// document writer.
func addElement(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(text)
	return el
}

// addOptional is the single "build element or omit" helper: an optional
// value that is empty or blank produces no element at all. ONIX treats an
// empty tag as invalid, so this is the only way optional text gets into a
// document.
func addOptional(parent *etree.Element, tag, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	addElement(parent, tag, text)
}

// formatCompactDate renders the ONIX YYYYMMDD date format.
func formatCompactDate(t time.Time) string {
	return t.Format("20060102")
}

// parseCompactDate accepts the compact ONIX date forms YYYYMMDD, YYYYMM and
// YYYY. A missing day defaults to the 1st, a missing month to January.
func parseCompactDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	var layout string
	switch len(raw) {
	case 8:
		layout = "20060102"
	case 6:
		layout = "200601"
	case 4:
		layout = "2006"
	default:
		return nil, fmt.Errorf("unsupported date format %q", raw)
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return nil, fmt.Errorf("unable to parse date %q: %w", raw, err)
	}
	return &t, nil
}
