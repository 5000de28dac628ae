package onix

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"onx/common"
	"onx/onix/codelist"
)

// versionProfile captures what actually differs between ONIX 3.0 and 3.1:
// namespace and release string. Structure is identical, so both share one
// parser implementation instead of two.
type versionProfile struct {
	version   common.ONIXVersion
	namespace string
	release   string
}

var (
	profile30 = versionProfile{
		version:   common.ONIX30,
		namespace: "http://ns.editeur.org/onix/3.0/reference",
		release:   "3.0",
	}
	profile31 = versionProfile{
		version:   common.ONIX31,
		namespace: "http://ns.editeur.org/onix/3.1/reference",
		release:   "3.1",
	}
)

func profileFor(version common.ONIXVersion) versionProfile {
	if version == common.ONIX30 {
		return profile30
	}
	return profile31
}

// ParserFor returns the parser implementation for a detected version.
func ParserFor(version common.ONIXVersion, log *zap.Logger) (Parser, error) {
	switch version {
	case common.ONIX30, common.ONIX31:
		return &Parser3x{profile: profileFor(version), log: log}, nil
	case common.ONIX21:
		return &Parser21{log: log}, nil
	default:
		return nil, fmt.Errorf("no parser for ONIX version %q", version)
	}
}

// Parser3x reads ONIX 3.x reference-name messages.
type Parser3x struct {
	profile versionProfile
	log     *zap.Logger
}

func (p *Parser3x) Parse(text string) (*ParsedMessage, error) {
	root, err := readMessageRoot(text)
	if err != nil {
		return nil, err
	}

	msg := &ParsedMessage{Version: p.profile.version}
	if h := root.SelectElement("Header"); h != nil {
		msg.Header = parseHeader3x(h)
	}

	for i, el := range root.SelectElements("Product") {
		product, err := p.parseProduct(el, i)
		if err != nil {
			idx := i
			msg.ParsingErrors = append(msg.ParsingErrors, ParseError{
				ProductIndex:    &idx,
				RecordReference: childText(el, "RecordReference"),
				Message:         err.Error(),
			})
			p.log.Warn("Skipping unparseable product", zap.Int("index", i), zap.Error(err))
			continue
		}
		msg.Products = append(msg.Products, product)
	}
	return msg, nil
}

// readMessageRoot parses the document and insists on an ONIXMessage root.
// Failure here is message-level and terminal.
func readMessageRoot(text string) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{Permissive: true}
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "ONIXMessage" {
		return nil, fmt.Errorf("unexpected root element %q, expected ONIXMessage", root.Tag)
	}
	return root, nil
}

func parseHeader3x(el *etree.Element) *Header {
	h := &Header{
		SentDate: childText(el, "SentDateTime"),
		Note:     childText(el, "MessageNote"),
	}
	if s := el.SelectElement("Sender"); s != nil {
		h.SenderName = childText(s, "SenderName")
		h.ContactName = childText(s, "ContactName")
		h.Email = childText(s, "EmailAddress")
	}
	return h
}

func (p *Parser3x) parseProduct(el *etree.Element, index int) (ParsedProduct, error) {
	product := ParsedProduct{
		RecordReference: childText(el, "RecordReference"),
		RawIndex:        index,
	}

	for _, id := range el.SelectElements("ProductIdentifier") {
		idType := childText(id, "ProductIDType")
		value := childText(id, "IDValue")
		if value == "" {
			continue
		}
		switch idType {
		case codelist.IDTypeISBN13:
			product.ISBN13 = NormalizeISBN(value)
		case codelist.IDTypeGTIN13:
			product.GTIN13 = NormalizeISBN(value)
		}
	}

	if dd := el.SelectElement("DescriptiveDetail"); dd != nil {
		product.ProductForm = childText(dd, "ProductForm")
		p.parseTitles(dd, &product)
		for _, c := range dd.SelectElements("Contributor") {
			product.Contributors = append(product.Contributors, parseContributor3x(c))
		}
		for _, s := range dd.SelectElements("Subject") {
			product.Subjects = append(product.Subjects, Subject{
				Scheme:  childText(s, "SubjectSchemeIdentifier"),
				Code:    childText(s, "SubjectCode"),
				Heading: childText(s, "SubjectHeadingText"),
			})
		}
	}

	if pd := el.SelectElement("PublishingDetail"); pd != nil {
		product.PublishingStatus = childText(pd, "PublishingStatus")
		if date, err := p.parsePublishingDate(pd); err != nil {
			p.log.Debug("Ignoring unparseable publication date",
				zap.String("recordReference", product.RecordReference), zap.Error(err))
		} else {
			product.PublicationDate = date
		}
	}

	for _, ps := range el.SelectElements("ProductSupply") {
		for _, sd := range ps.SelectElements("SupplyDetail") {
			for _, pr := range sd.SelectElements("Price") {
				product.Prices = append(product.Prices, Price{
					Type:     childText(pr, "PriceType"),
					Amount:   childText(pr, "PriceAmount"),
					Currency: childText(pr, "CurrencyCode"),
				})
			}
		}
	}

	return product, nil
}

// parseTitles prefers the distinctive title (TitleType 01) and falls back
// to the first TitleDetail block. Title text is the optional prefix
// concatenated with TitleWithoutPrefix, or plain TitleText.
func (p *Parser3x) parseTitles(dd *etree.Element, product *ParsedProduct) {
	details := dd.SelectElements("TitleDetail")
	if len(details) == 0 {
		return
	}
	chosen := details[0]
	for _, td := range details {
		if childText(td, "TitleType") == "01" {
			chosen = td
			break
		}
	}
	te := chosen.SelectElement("TitleElement")
	if te == nil {
		return
	}
	title := childText(te, "TitleText")
	if title == "" {
		prefix := childText(te, "TitlePrefix")
		rest := childText(te, "TitleWithoutPrefix")
		title = strings.TrimSpace(prefix + " " + rest)
	}
	product.Title = title
	product.Subtitle = childText(te, "Subtitle")
}

func parseContributor3x(el *etree.Element) Contributor {
	c := Contributor{
		Role:               childText(el, "ContributorRole"),
		NamesBeforeKey:     childText(el, "NamesBeforeKey"),
		KeyNames:           childText(el, "KeyNames"),
		PersonNameInverted: childText(el, "PersonNameInverted"),
		CorporateName:      childText(el, "CorporateName"),
	}
	if c.Role == "" {
		c.Role = codelist.DefaultContributorRole
	}
	if raw := childText(el, "SequenceNumber"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			c.Sequence = v
		}
	}
	// PersonName without structure still yields a display name
	if c.DisplayName() == "" {
		if name := childText(el, "PersonName"); name != "" {
			c.NamesBeforeKey, c.KeyNames = SplitPersonName(name)
		}
	}
	return c
}

// parsePublishingDate prefers PublishingDateRole 01 (publication date) and
// falls back to the first date block.
func (p *Parser3x) parsePublishingDate(pd *etree.Element) (*time.Time, error) {
	dates := pd.SelectElements("PublishingDate")
	if len(dates) == 0 {
		return nil, nil
	}
	chosen := dates[0]
	for _, d := range dates {
		if childText(d, "PublishingDateRole") == "01" {
			chosen = d
			break
		}
	}
	raw := childText(chosen, "Date")
	if raw == "" {
		return nil, nil
	}
	return parseCompactDate(raw)
}

// SplitPersonName splits an unstructured personal name: the last
// whitespace-delimited token is the key name, everything before it the
// names-before-key group. Single-token names are all key name.
func SplitPersonName(name string) (before, key string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	if len(fields) == 1 {
		return "", fields[0]
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}
