package ingest

import (
	"fmt"
	"sort"
	"strings"

	"onx/onix"
	"onx/onix/codelist"
)

// MapProduct maps one parsed product into the target title schema. Mapping
// always succeeds structurally; required-field problems become field errors
// on the result so a caller can see why a product is unimportable without
// re-parsing.
func MapProduct(p onix.ParsedProduct) MappedTitle {
	m := MappedTitle{
		SourceIndex:     p.RawIndex,
		RecordReference: p.RecordReference,
		Title:           strings.TrimSpace(p.Title),
		Subtitle:        strings.TrimSpace(p.Subtitle),
		ISBN:            onix.NormalizeISBN(p.ISBN13),
		Status:          codelist.MapPublishingStatus(p.PublishingStatus),
		PublicationDate: p.PublicationDate,
	}

	if m.ISBN == "" {
		m.Errors = append(m.Errors, FieldError{
			Field:   "isbn",
			Message: "product has no ISBN-13 identifier",
		})
	} else if !onix.ValidateISBN13(m.ISBN) {
		m.Errors = append(m.Errors, FieldError{
			Field:   "isbn",
			Message: fmt.Sprintf("ISBN-13 %q fails its checksum", m.ISBN),
		})
	}
	if m.Title == "" {
		m.Errors = append(m.Errors, FieldError{
			Field:   "title",
			Message: "product has no title",
		})
	}

	m.Contributors = mapContributors(p.Contributors, &m)
	m.Unmapped = collectUnmapped(p)

	return m
}

func mapContributors(parsed []onix.Contributor, m *MappedTitle) []MappedContributor {
	out := make([]MappedContributor, 0, len(parsed))
	for i, c := range parsed {
		name := c.DisplayName()
		if name == "" {
			m.Errors = append(m.Errors, FieldError{
				Field:   fmt.Sprintf("contributor[%d]", i+1),
				Message: "contributor has no usable name",
			})
			continue
		}
		first, last := onix.SplitPersonName(name)
		seq := c.Sequence
		if seq <= 0 {
			seq = i + 1
		}
		out = append(out, MappedContributor{
			FirstName: first,
			LastName:  last,
			Role:      codelist.MapContributorRole(c.Role),
			Sequence:  seq,
		})
	}
	// sequence number drives author ordering
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// collectUnmapped records everything parsed but not representable in the
// target schema.
func collectUnmapped(p onix.ParsedProduct) []UnmappedField {
	var out []UnmappedField
	if p.ProductForm != "" {
		label := codelist.ProductForms[p.ProductForm]
		if label == "" {
			label = p.ProductForm
		}
		out = append(out, UnmappedField{
			Name:   "ProductForm",
			Value:  label,
			Reason: "product form has no destination field and is shown for information only",
		})
	}
	for _, price := range p.Prices {
		out = append(out, UnmappedField{
			Name:   "Price",
			Value:  strings.TrimSpace(price.Currency + " " + price.Amount),
			Reason: "prices are not stored with imported titles",
		})
	}
	for _, s := range p.Subjects {
		value := s.Code
		if s.Heading != "" {
			value = strings.TrimSpace(value + " " + s.Heading)
		}
		out = append(out, UnmappedField{
			Name:   "Subject",
			Value:  value,
			Reason: "subject classifications are not stored with imported titles",
		})
	}
	return out
}
