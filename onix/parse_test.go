package onix

import (
	"strings"
	"testing"

	"onx/common"
)

const sample30 = `<?xml version="1.0" encoding="UTF-8"?>
<ONIXMessage xmlns="http://ns.editeur.org/onix/3.0/reference" release="3.0">
  <Header>
    <Sender>
      <SenderName>Good Books Ltd</SenderName>
      <ContactName>Jo Smith</ContactName>
      <EmailAddress>jo@goodbooks.example</EmailAddress>
    </Sender>
    <SentDateTime>20240115T1200</SentDateTime>
    <MessageNote>Spring catalog</MessageNote>
  </Header>
  <Product>
    <RecordReference>gb.2024.001</RecordReference>
    <NotificationType>03</NotificationType>
    <ProductIdentifier>
      <ProductIDType>15</ProductIDType>
      <IDValue>9780306406157</IDValue>
    </ProductIdentifier>
    <ProductIdentifier>
      <ProductIDType>03</ProductIDType>
      <IDValue>9780306406157</IDValue>
    </ProductIdentifier>
    <DescriptiveDetail>
      <ProductComposition>00</ProductComposition>
      <ProductForm>BC</ProductForm>
      <TitleDetail>
        <TitleType>01</TitleType>
        <TitleElement>
          <TitleElementLevel>01</TitleElementLevel>
          <TitleText>The Long Road</TitleText>
          <Subtitle>A Journey</Subtitle>
        </TitleElement>
      </TitleDetail>
      <Contributor>
        <SequenceNumber>1</SequenceNumber>
        <ContributorRole>A01</ContributorRole>
        <NamesBeforeKey>Mary</NamesBeforeKey>
        <KeyNames>Shelley</KeyNames>
      </Contributor>
      <Contributor>
        <SequenceNumber>2</SequenceNumber>
        <ContributorRole>B06</ContributorRole>
        <PersonName>John Ronald Tolkien</PersonName>
      </Contributor>
      <Subject>
        <SubjectSchemeIdentifier>10</SubjectSchemeIdentifier>
        <SubjectCode>FIC000000</SubjectCode>
      </Subject>
    </DescriptiveDetail>
    <PublishingDetail>
      <PublishingStatus>04</PublishingStatus>
      <PublishingDate>
        <PublishingDateRole>01</PublishingDateRole>
        <Date>20240301</Date>
      </PublishingDate>
    </PublishingDetail>
    <ProductSupply>
      <SupplyDetail>
        <Supplier>
          <SupplierRole>01</SupplierRole>
          <SupplierName>Good Books Ltd</SupplierName>
        </Supplier>
        <Price>
          <PriceType>02</PriceType>
          <PriceAmount>19.99</PriceAmount>
          <CurrencyCode>USD</CurrencyCode>
        </Price>
      </SupplyDetail>
    </ProductSupply>
  </Product>
</ONIXMessage>`

func TestParser3x_Parse(t *testing.T) {
	log := testLogger(t)

	parser, err := ParserFor(common.ONIX30, log)
	if err != nil {
		t.Fatalf("ParserFor: %v", err)
	}

	msg, err := parser.Parse(sample30)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if msg.Version != common.ONIX30 {
		t.Errorf("version = %s, want 3.0", msg.Version)
	}
	if msg.Header == nil {
		t.Fatal("expected header")
	}
	if msg.Header.SenderName != "Good Books Ltd" {
		t.Errorf("sender = %q", msg.Header.SenderName)
	}
	if msg.Header.Email != "jo@goodbooks.example" {
		t.Errorf("email = %q", msg.Header.Email)
	}
	if len(msg.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(msg.Products))
	}

	p := msg.Products[0]
	if p.RecordReference != "gb.2024.001" {
		t.Errorf("record reference = %q", p.RecordReference)
	}
	if p.ISBN13 != "9780306406157" {
		t.Errorf("isbn13 = %q", p.ISBN13)
	}
	if p.GTIN13 != "9780306406157" {
		t.Errorf("gtin13 = %q", p.GTIN13)
	}
	if p.Title != "The Long Road" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Subtitle != "A Journey" {
		t.Errorf("subtitle = %q", p.Subtitle)
	}
	if p.ProductForm != "BC" {
		t.Errorf("product form = %q", p.ProductForm)
	}
	if p.PublishingStatus != "04" {
		t.Errorf("publishing status = %q", p.PublishingStatus)
	}
	if p.PublicationDate == nil || p.PublicationDate.Format("20060102") != "20240301" {
		t.Errorf("publication date = %v", p.PublicationDate)
	}

	if len(p.Contributors) != 2 {
		t.Fatalf("expected 2 contributors, got %d", len(p.Contributors))
	}
	if got := p.Contributors[0].DisplayName(); got != "Mary Shelley" {
		t.Errorf("contributor 1 = %q", got)
	}
	if p.Contributors[1].NamesBeforeKey != "John Ronald" || p.Contributors[1].KeyNames != "Tolkien" {
		t.Errorf("unstructured PersonName not split: %+v", p.Contributors[1])
	}
	if p.Contributors[1].Role != "B06" {
		t.Errorf("contributor 2 role = %q", p.Contributors[1].Role)
	}

	if len(p.Prices) != 1 || p.Prices[0].Currency != "USD" || p.Prices[0].Amount != "19.99" {
		t.Errorf("prices = %+v", p.Prices)
	}
	if len(p.Subjects) != 1 || p.Subjects[0].Code != "FIC000000" {
		t.Errorf("subjects = %+v", p.Subjects)
	}
}

func TestParser3x_Parse31(t *testing.T) {
	log := testLogger(t)

	text := strings.ReplaceAll(sample30, "onix/3.0", "onix/3.1")
	text = strings.ReplaceAll(text, `release="3.0"`, `release="3.1"`)

	parser, err := ParserFor(common.ONIX31, log)
	if err != nil {
		t.Fatalf("ParserFor: %v", err)
	}
	msg, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if msg.Version != common.ONIX31 {
		t.Errorf("version = %s, want 3.1", msg.Version)
	}
	if len(msg.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(msg.Products))
	}
}

func TestParser3x_TitleWithoutPrefix(t *testing.T) {
	log := testLogger(t)

	text := `<ONIXMessage release="3.0"><Header/><Product>
		<RecordReference>r1</RecordReference>
		<DescriptiveDetail>
			<TitleDetail><TitleType>01</TitleType><TitleElement>
				<TitlePrefix>The</TitlePrefix>
				<TitleWithoutPrefix>Silent Sea</TitleWithoutPrefix>
			</TitleElement></TitleDetail>
		</DescriptiveDetail>
	</Product></ONIXMessage>`

	parser, _ := ParserFor(common.ONIX30, log)
	msg, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := msg.Products[0].Title; got != "The Silent Sea" {
		t.Errorf("title = %q, want %q", got, "The Silent Sea")
	}
}

func TestParser3x_MalformedXML(t *testing.T) {
	log := testLogger(t)

	parser, _ := ParserFor(common.ONIX31, log)
	// start tag never closed, a syntax error even for the permissive reader
	if _, err := parser.Parse(`<ONIXMessage <Product`); err == nil {
		t.Error("expected error for broken XML")
	}
	if _, err := parser.Parse(``); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParser3x_WrongRoot(t *testing.T) {
	log := testLogger(t)

	parser, _ := ParserFor(common.ONIX31, log)
	if _, err := parser.Parse(`<Catalog><Product/></Catalog>`); err == nil {
		t.Error("expected error for non-ONIXMessage root")
	}
}

func TestParserFor_Unknown(t *testing.T) {
	log := testLogger(t)

	if _, err := ParserFor(common.ONIXUnknown, log); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestSplitPersonName(t *testing.T) {
	tests := []struct {
		in     string
		before string
		key    string
	}{
		{"Mary Shelley", "Mary", "Shelley"},
		{"John Ronald Reuel Tolkien", "John Ronald Reuel", "Tolkien"},
		{"Plato", "", "Plato"},
		{"  spaced   out  ", "spaced", "out"},
		{"", "", ""},
	}
	for _, tc := range tests {
		before, key := SplitPersonName(tc.in)
		if before != tc.before || key != tc.key {
			t.Errorf("SplitPersonName(%q) = (%q, %q), want (%q, %q)", tc.in, before, key, tc.before, tc.key)
		}
	}
}
