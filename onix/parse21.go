package onix

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"onx/common"
	"onx/onix/codelist"
)

// Parser21 reads ONIX 2.1 messages. Short tags must already be expanded to
// reference names before this parser runs. Beyond the different element
// vocabulary, 2.1 allows legacy direct-child ISBN/EAN13 identifiers next to
// the ProductIdentifier composite, and unstructured PersonName elements.
type Parser21 struct {
	log *zap.Logger
}

func (p *Parser21) Parse(text string) (*ParsedMessage, error) {
	root, err := readMessageRoot(text)
	if err != nil {
		return nil, err
	}

	msg := &ParsedMessage{Version: common.ONIX21}
	if h := root.SelectElement("Header"); h != nil {
		msg.Header = &Header{
			SenderName:  childText(h, "FromCompany"),
			ContactName: childText(h, "FromPerson"),
			Email:       childText(h, "FromEmail"),
			SentDate:    childText(h, "SentDate"),
			Note:        childText(h, "MessageNote"),
		}
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

func (p *Parser21) parseProduct(el *etree.Element, index int) (ParsedProduct, error) {
	product := ParsedProduct{
		RecordReference:  childText(el, "RecordReference"),
		ProductForm:      childText(el, "ProductForm"),
		PublishingStatus: childText(el, "PublishingStatus"),
		RawIndex:         index,
	}

	p.parseIdentifiers(el, &product)
	p.parseTitles(el, &product)

	for _, c := range el.SelectElements("Contributor") {
		product.Contributors = append(product.Contributors, parseContributor21(c))
	}

	if raw := childText(el, "PublicationDate"); raw != "" {
		if date, err := parseCompactDate(raw); err != nil {
			p.log.Debug("Ignoring unparseable publication date",
				zap.String("recordReference", product.RecordReference), zap.Error(err))
		} else {
			product.PublicationDate = date
		}
	}

	for _, sd := range el.SelectElements("SupplyDetail") {
		for _, pr := range sd.SelectElements("Price") {
			product.Prices = append(product.Prices, Price{
				Type:     childText(pr, "PriceTypeCode"),
				Amount:   childText(pr, "PriceAmount"),
				Currency: childText(pr, "CurrencyCode"),
			})
		}
	}

	if basic := childText(el, "BASICMainSubject"); basic != "" {
		product.Subjects = append(product.Subjects, Subject{Scheme: "10", Code: basic})
	}
	for _, s := range el.SelectElements("Subject") {
		product.Subjects = append(product.Subjects, Subject{
			Scheme:  childText(s, "SubjectSchemeIdentifier"),
			Code:    childText(s, "SubjectCode"),
			Heading: childText(s, "SubjectHeadingText"),
		})
	}

	return product, nil
}

// parseIdentifiers handles both the composite and the legacy direct-child
// forms. A direct ISBN element may carry either flavour; an ISBN-10 is
// converted to ISBN-13 only when no ISBN-13 was found anywhere else.
func (p *Parser21) parseIdentifiers(el *etree.Element, product *ParsedProduct) {
	var isbn10 string

	for _, id := range el.SelectElements("ProductIdentifier") {
		value := NormalizeISBN(childText(id, "IDValue"))
		if value == "" {
			continue
		}
		switch childText(id, "ProductIDType") {
		case codelist.IDTypeISBN13:
			product.ISBN13 = value
		case codelist.IDTypeGTIN13:
			product.GTIN13 = value
		case codelist.IDTypeISBN10:
			isbn10 = value
		}
	}

	if raw := NormalizeISBN(childText(el, "ISBN")); raw != "" {
		switch len(raw) {
		case 13:
			if product.ISBN13 == "" {
				product.ISBN13 = raw
			}
		case 10:
			if isbn10 == "" {
				isbn10 = raw
			}
		}
	}
	if raw := NormalizeISBN(childText(el, "EAN13")); raw != "" {
		if product.GTIN13 == "" {
			product.GTIN13 = raw
		}
		if product.ISBN13 == "" && ValidateISBN13(raw) {
			product.ISBN13 = raw
		}
	}

	if product.ISBN13 == "" && isbn10 != "" {
		if converted, ok := ConvertISBN10To13(isbn10); ok {
			p.log.Debug("Converted legacy ISBN-10", zap.String("isbn10", isbn10), zap.String("isbn13", converted))
			product.ISBN13 = converted
		}
	}
}

// parseTitles reads either the legacy DistinctiveTitle element or the Title
// composite, preferring TitleType 01.
func (p *Parser21) parseTitles(el *etree.Element, product *ParsedProduct) {
	if t := childText(el, "DistinctiveTitle"); t != "" {
		product.Title = t
	}

	titles := el.SelectElements("Title")
	if len(titles) > 0 {
		chosen := titles[0]
		for _, t := range titles {
			if childText(t, "TitleType") == "01" {
				chosen = t
				break
			}
		}
		text := childText(chosen, "TitleText")
		if text == "" {
			prefix := childText(chosen, "TitlePrefix")
			rest := childText(chosen, "TitleWithoutPrefix")
			text = strings.TrimSpace(prefix + " " + rest)
		}
		if text != "" {
			product.Title = text
		}
		product.Subtitle = childText(chosen, "Subtitle")
	}

	if product.Subtitle == "" {
		product.Subtitle = childText(el, "Subtitle")
	}
}

func parseContributor21(el *etree.Element) Contributor {
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
	// 2.1 feeds frequently carry only the unstructured PersonName
	if c.DisplayName() == "" {
		if name := childText(el, "PersonName"); name != "" {
			c.NamesBeforeKey, c.KeyNames = SplitPersonName(name)
		}
	}
	return c
}
