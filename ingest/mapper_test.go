package ingest

import (
	"strings"
	"testing"
	"time"

	"onx/common"
	"onx/onix"
)

func TestMapProduct(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := onix.ParsedProduct{
		RecordReference:  "gb.2024.001",
		ISBN13:           "978-0-306-40615-7",
		Title:            " The Long Road ",
		Subtitle:         "A Journey",
		PublishingStatus: "04",
		PublicationDate:  &date,
		ProductForm:      "BC",
		Contributors: []onix.Contributor{
			{Sequence: 2, Role: "B06", NamesBeforeKey: "Erika", KeyNames: "Fuchs"},
			{Sequence: 1, Role: "A01", NamesBeforeKey: "Mary", KeyNames: "Shelley"},
		},
		Prices:   []onix.Price{{Type: "02", Amount: "19.99", Currency: "USD"}},
		Subjects: []onix.Subject{{Scheme: "10", Code: "FIC000000"}},
		RawIndex: 3,
	}

	m := MapProduct(p)

	if !m.Importable() {
		t.Fatalf("expected importable product, errors: %+v", m.Errors)
	}
	if m.SourceIndex != 3 {
		t.Errorf("source index = %d", m.SourceIndex)
	}
	if m.ISBN != "9780306406157" {
		t.Errorf("isbn = %q", m.ISBN)
	}
	if m.Title != "The Long Road" {
		t.Errorf("title = %q", m.Title)
	}
	if m.Status != common.StatusPublished {
		t.Errorf("status = %s", m.Status)
	}

	if len(m.Contributors) != 2 {
		t.Fatalf("contributors = %+v", m.Contributors)
	}
	// sequence number drives ordering, not document order
	if m.Contributors[0].LastName != "Shelley" || m.Contributors[0].Role != common.RoleAuthor {
		t.Errorf("first contributor = %+v", m.Contributors[0])
	}
	if m.Contributors[1].LastName != "Fuchs" || m.Contributors[1].Role != common.RoleTranslator {
		t.Errorf("second contributor = %+v", m.Contributors[1])
	}

	// product form, price and subject all surface as unmapped
	names := make(map[string]int)
	for _, u := range m.Unmapped {
		names[u.Name]++
	}
	if names["ProductForm"] != 1 || names["Price"] != 1 || names["Subject"] != 1 {
		t.Errorf("unmapped = %+v", m.Unmapped)
	}
}

func TestMapProduct_FieldErrors(t *testing.T) {
	t.Run("missing ISBN", func(t *testing.T) {
		m := MapProduct(onix.ParsedProduct{Title: "T"})
		if m.Importable() {
			t.Fatal("product without ISBN must not be importable")
		}
		if len(m.Errors) != 1 || m.Errors[0].Field != "isbn" {
			t.Errorf("errors = %+v", m.Errors)
		}
	})

	t.Run("bad checksum", func(t *testing.T) {
		m := MapProduct(onix.ParsedProduct{ISBN13: "9780306406158", Title: "T"})
		if m.Importable() {
			t.Fatal("product with bad ISBN must not be importable")
		}
		if !strings.Contains(m.Errors[0].Message, "checksum") {
			t.Errorf("errors = %+v", m.Errors)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		m := MapProduct(onix.ParsedProduct{ISBN13: "9780306406157"})
		if m.Importable() {
			t.Fatal("product without title must not be importable")
		}
		if m.Errors[0].Field != "title" {
			t.Errorf("errors = %+v", m.Errors)
		}
	})

	t.Run("errors accumulate", func(t *testing.T) {
		m := MapProduct(onix.ParsedProduct{})
		if len(m.Errors) != 2 {
			t.Errorf("expected isbn and title errors, got %+v", m.Errors)
		}
	})

	t.Run("nameless contributor", func(t *testing.T) {
		m := MapProduct(onix.ParsedProduct{
			ISBN13:       "9780306406157",
			Title:        "T",
			Contributors: []onix.Contributor{{Role: "A01"}},
		})
		if m.Importable() {
			t.Fatal("nameless contributor must block import")
		}
		if len(m.Contributors) != 0 {
			t.Errorf("contributors = %+v", m.Contributors)
		}
	})
}

func TestMapProduct_UnknownStatusDefaultsToDraft(t *testing.T) {
	m := MapProduct(onix.ParsedProduct{ISBN13: "9780306406157", Title: "T", PublishingStatus: "77"})
	if m.Status != common.StatusDraft {
		t.Errorf("status = %s, want draft", m.Status)
	}
}

func TestMapProduct_ContributorSequenceDefaults(t *testing.T) {
	m := MapProduct(onix.ParsedProduct{
		ISBN13: "9780306406157",
		Title:  "T",
		Contributors: []onix.Contributor{
			{KeyNames: "First"},
			{KeyNames: "Second"},
		},
	})
	if len(m.Contributors) != 2 {
		t.Fatalf("contributors = %+v", m.Contributors)
	}
	if m.Contributors[0].LastName != "First" || m.Contributors[1].LastName != "Second" {
		t.Errorf("document order lost: %+v", m.Contributors)
	}
	if m.Contributors[0].Sequence != 1 || m.Contributors[1].Sequence != 2 {
		t.Errorf("sequence defaults wrong: %+v", m.Contributors)
	}
}
