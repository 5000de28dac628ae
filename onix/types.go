// Package onix implements the EDItEUR ONIX interchange engine: version
// detection, decoding, parsing of 2.1/3.0/3.1 messages into a normalized
// product representation, message building and validation.
package onix

import (
	"strings"
	"time"

	"onx/common"
)

// ParsedMessage is the version-agnostic result of parsing one ONIX file.
type ParsedMessage struct {
	Version       common.ONIXVersion
	Header        *Header
	Products      []ParsedProduct
	ParsingErrors []ParseError
}

// Header carries the message-level sender block. All fields optional.
type Header struct {
	SenderName  string
	ContactName string
	Email       string
	SentDate    string
	Note        string
}

// ParsedProduct is one Product normalized out of any of the three wire
// versions. Empty string means the element was absent. RawIndex is the only
// stable cross-reference between parser output, mapped output and preview
// rows; it is unique within one parsed message.
type ParsedProduct struct {
	RecordReference  string
	ISBN13           string
	GTIN13           string
	Title            string
	Subtitle         string
	Contributors     []Contributor
	ProductForm      string // display only, never mapped
	PublishingStatus string // raw list 64 code
	PublicationDate  *time.Time
	Prices           []Price // display only
	Subjects         []Subject
	RawIndex         int
}

// Contributor as parsed. Exactly one naming strategy is normally populated:
// NamesBeforeKey+KeyNames, or PersonNameInverted, or CorporateName. The
// parser does not enforce that, an all-empty name is caught at validation
// time.
type Contributor struct {
	Sequence           int
	Role               string // list 17 code, defaulted to A01 by parsers
	NamesBeforeKey     string
	KeyNames           string
	PersonNameInverted string
	CorporateName      string
}

// DisplayName resolves the populated naming strategy into a printable name,
// empty when no strategy carries a value.
func (c Contributor) DisplayName() string {
	if c.KeyNames != "" || c.NamesBeforeKey != "" {
		return strings.TrimSpace(strings.TrimSpace(c.NamesBeforeKey) + " " + strings.TrimSpace(c.KeyNames))
	}
	if c.PersonNameInverted != "" {
		parts := strings.SplitN(c.PersonNameInverted, ",", 2)
		if len(parts) == 2 {
			return strings.TrimSpace(strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0]))
		}
		return strings.TrimSpace(c.PersonNameInverted)
	}
	return strings.TrimSpace(c.CorporateName)
}

// Price is display-only price information, never validated or mapped during
// import.
type Price struct {
	Type     string
	Amount   string
	Currency string
}

// Subject is display-only classification information.
type Subject struct {
	Scheme  string
	Code    string
	Heading string
}

// ParseError is a degraded per-product (or message-level when ProductIndex
// is nil) parse failure. Parsing continues past these.
type ParseError struct {
	ProductIndex    *int
	RecordReference string
	Message         string
}

// Parser is implemented per wire version. Input is decoded text, already
// short-tag expanded for 2.1. A non-nil error means message-level failure
// with zero products.
type Parser interface {
	Parse(text string) (*ParsedMessage, error)
}
