package onix

import (
	"testing"

	"onx/common"
)

const sample21 = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE ONIXmessage SYSTEM "onix-international.dtd">
<ONIXMessage>
  <Header>
    <FromCompany>Legacy Press</FromCompany>
    <FromPerson>Ann Librarian</FromPerson>
    <FromEmail>ann@legacy.example</FromEmail>
    <SentDate>20240110</SentDate>
    <MessageNote>Backlist refresh</MessageNote>
  </Header>
  <Product>
    <RecordReference>lp-0001</RecordReference>
    <NotificationType>03</NotificationType>
    <ISBN>0306406152</ISBN>
    <ProductForm>BB</ProductForm>
    <DistinctiveTitle>Old Classics</DistinctiveTitle>
    <Subtitle>Annotated Edition</Subtitle>
    <Contributor>
      <SequenceNumber>1</SequenceNumber>
      <ContributorRole>A01</ContributorRole>
      <PersonNameInverted>Dickens, Charles</PersonNameInverted>
    </Contributor>
    <PublicationDate>199805</PublicationDate>
    <PublishingStatus>04</PublishingStatus>
    <SupplyDetail>
      <SupplierName>Legacy Press</SupplierName>
      <Price>
        <PriceTypeCode>01</PriceTypeCode>
        <PriceAmount>12.50</PriceAmount>
        <CurrencyCode>GBP</CurrencyCode>
      </Price>
    </SupplyDetail>
    <BASICMainSubject>FIC004000</BASICMainSubject>
  </Product>
</ONIXMessage>`

func TestParser21_Parse(t *testing.T) {
	log := testLogger(t)

	parser, err := ParserFor(common.ONIX21, log)
	if err != nil {
		t.Fatalf("ParserFor: %v", err)
	}

	msg, err := parser.Parse(sample21)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if msg.Version != common.ONIX21 {
		t.Errorf("version = %s, want 2.1", msg.Version)
	}
	if msg.Header == nil || msg.Header.SenderName != "Legacy Press" {
		t.Fatalf("header = %+v", msg.Header)
	}
	if msg.Header.ContactName != "Ann Librarian" {
		t.Errorf("contact = %q", msg.Header.ContactName)
	}
	if len(msg.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(msg.Products))
	}

	p := msg.Products[0]
	if p.ISBN13 != "9780306406157" {
		t.Errorf("legacy ISBN-10 not converted: %q", p.ISBN13)
	}
	if p.Title != "Old Classics" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Subtitle != "Annotated Edition" {
		t.Errorf("subtitle = %q", p.Subtitle)
	}
	if p.PublicationDate == nil || p.PublicationDate.Format("2006-01-02") != "1998-05-01" {
		t.Errorf("publication date = %v", p.PublicationDate)
	}
	if len(p.Contributors) != 1 || p.Contributors[0].DisplayName() != "Charles Dickens" {
		t.Errorf("contributors = %+v", p.Contributors)
	}
	if len(p.Prices) != 1 || p.Prices[0].Currency != "GBP" {
		t.Errorf("prices = %+v", p.Prices)
	}
	if len(p.Subjects) != 1 || p.Subjects[0].Code != "FIC004000" {
		t.Errorf("subjects = %+v", p.Subjects)
	}
}

func TestParser21_ShortTagDocument(t *testing.T) {
	log := testLogger(t)

	short := `<ONIXmessage><header><m174>Shorty Press</m174></header>` +
		`<product><a001>s-1</a001><b004>9780306406157</b004>` +
		`<b028>Brief Title</b028></product></ONIXmessage>`

	parser, _ := ParserFor(common.ONIX21, log)
	msg, err := parser.Parse(ExpandShortTags(short))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if msg.Header == nil || msg.Header.SenderName != "Shorty Press" {
		t.Fatalf("header = %+v", msg.Header)
	}
	if len(msg.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(msg.Products))
	}
	if msg.Products[0].ISBN13 != "9780306406157" {
		t.Errorf("isbn = %q", msg.Products[0].ISBN13)
	}
	if msg.Products[0].Title != "Brief Title" {
		t.Errorf("title = %q", msg.Products[0].Title)
	}
}

func TestParser21_IdentifierPrecedence(t *testing.T) {
	log := testLogger(t)

	t.Run("composite ISBN-13 wins over legacy ISBN-10", func(t *testing.T) {
		text := `<ONIXMessage><Header/><Product>
			<RecordReference>r1</RecordReference>
			<ISBN>0306406152</ISBN>
			<ProductIdentifier><ProductIDType>15</ProductIDType><IDValue>9780136091813</IDValue></ProductIdentifier>
		</Product></ONIXMessage>`

		parser, _ := ParserFor(common.ONIX21, log)
		msg, err := parser.Parse(text)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if msg.Products[0].ISBN13 != "9780136091813" {
			t.Errorf("isbn = %q, want composite value", msg.Products[0].ISBN13)
		}
	})

	t.Run("EAN13 doubles as ISBN when valid", func(t *testing.T) {
		text := `<ONIXMessage><Header/><Product>
			<RecordReference>r1</RecordReference>
			<EAN13>9780306406157</EAN13>
		</Product></ONIXMessage>`

		parser, _ := ParserFor(common.ONIX21, log)
		msg, err := parser.Parse(text)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		p := msg.Products[0]
		if p.GTIN13 != "9780306406157" {
			t.Errorf("gtin = %q", p.GTIN13)
		}
		if p.ISBN13 != "9780306406157" {
			t.Errorf("isbn = %q", p.ISBN13)
		}
	})
}

func TestParser21_TitleComposite(t *testing.T) {
	log := testLogger(t)

	text := `<ONIXMessage><Header/><Product>
		<RecordReference>r1</RecordReference>
		<Title><TitleType>01</TitleType><TitleText>Composite Title</TitleText><Subtitle>From Composite</Subtitle></Title>
	</Product></ONIXMessage>`

	parser, _ := ParserFor(common.ONIX21, log)
	msg, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if msg.Products[0].Title != "Composite Title" {
		t.Errorf("title = %q", msg.Products[0].Title)
	}
	if msg.Products[0].Subtitle != "From Composite" {
		t.Errorf("subtitle = %q", msg.Products[0].Subtitle)
	}
}

func TestContributorDisplayName(t *testing.T) {
	tests := []struct {
		name string
		c    Contributor
		want string
	}{
		{"structured", Contributor{NamesBeforeKey: "Mary", KeyNames: "Shelley"}, "Mary Shelley"},
		{"key only", Contributor{KeyNames: "Plato"}, "Plato"},
		{"inverted", Contributor{PersonNameInverted: "Dickens, Charles"}, "Charles Dickens"},
		{"inverted without comma", Contributor{PersonNameInverted: "Voltaire"}, "Voltaire"},
		{"corporate", Contributor{CorporateName: "The Editors of Example"}, "The Editors of Example"},
		{"empty", Contributor{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
