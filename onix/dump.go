package onix

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter renders indented troubleshooting dumps. Quoting values keeps
// invisible characters (BOM leftovers, stray control codes) visible in the
// output.
type treeWriter struct {
	w strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(&tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw *treeWriter) field(depth int, label, value string) {
	if value == "" {
		return
	}
	tw.line(depth, "%s: %s", label, strconv.Quote(value))
}

// DumpMessage renders the parsed message as an indented tree for debug
// reports. Empty fields are omitted so the dump shows what the file actually
// carried.
func DumpMessage(msg *ParsedMessage) string {
	tw := &treeWriter{}
	tw.line(0, "ONIX %s, %d product(s), %d parse error(s)", msg.Version, len(msg.Products), len(msg.ParsingErrors))

	if msg.Header != nil {
		tw.line(0, "header:")
		tw.field(1, "sender", msg.Header.SenderName)
		tw.field(1, "contact", msg.Header.ContactName)
		tw.field(1, "email", msg.Header.Email)
		tw.field(1, "sent", msg.Header.SentDate)
		tw.field(1, "note", msg.Header.Note)
	}

	for _, p := range msg.Products {
		tw.line(0, "product %d:", p.RawIndex+1)
		tw.field(1, "record reference", p.RecordReference)
		tw.field(1, "isbn13", p.ISBN13)
		tw.field(1, "gtin13", p.GTIN13)
		tw.field(1, "title", p.Title)
		tw.field(1, "subtitle", p.Subtitle)
		tw.field(1, "product form", p.ProductForm)
		tw.field(1, "publishing status", p.PublishingStatus)
		if p.PublicationDate != nil {
			tw.field(1, "publication date", p.PublicationDate.Format("2006-01-02"))
		}
		for _, c := range p.Contributors {
			tw.line(1, "contributor %d (%s):", c.Sequence, c.Role)
			tw.field(2, "name", c.DisplayName())
		}
		for _, pr := range p.Prices {
			tw.line(1, "price: %s %s (type %s)", pr.Currency, pr.Amount, pr.Type)
		}
		for _, s := range p.Subjects {
			tw.line(1, "subject: %s %s %s", s.Scheme, s.Code, s.Heading)
		}
	}

	for _, e := range msg.ParsingErrors {
		if e.ProductIndex != nil {
			tw.line(0, "parse error (product %d): %s", *e.ProductIndex+1, e.Message)
		} else {
			tw.line(0, "parse error: %s", e.Message)
		}
	}
	return tw.w.String()
}
