package ingest

import (
	"context"
	"fmt"
)

// DetectConflicts finds ISBN collisions between the mapped batch and
// existing records. A single set-based lookup provides O(1) resolution per
// product afterwards.
func DetectConflicts(ctx context.Context, store Store, tenantID string, titles []MappedTitle) ([]Conflict, map[string]ExistingTitle, error) {
	var isbns []string
	seen := make(map[string]bool)
	for _, t := range titles {
		if t.ISBN != "" && !seen[t.ISBN] {
			seen[t.ISBN] = true
			isbns = append(isbns, t.ISBN)
		}
	}
	if len(isbns) == 0 {
		return nil, map[string]ExistingTitle{}, nil
	}

	existing, err := store.TitlesByISBN(ctx, tenantID, isbns)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to look up existing titles: %w", err)
	}

	byISBN := make(map[string]ExistingTitle, len(existing))
	for _, e := range existing {
		byISBN[e.ISBN] = e
	}

	var conflicts []Conflict
	for _, t := range titles {
		if t.ISBN == "" {
			continue
		}
		if e, ok := byISBN[t.ISBN]; ok {
			conflicts = append(conflicts, Conflict{
				ISBN:         t.ISBN,
				ExistingID:   e.ID,
				ExistingName: e.Title,
				SourceIndex:  t.SourceIndex,
			})
		}
	}
	return conflicts, byISBN, nil
}

// flagDuplicateISBNs marks products within one batch that share an ISBN.
// Both sides get an error referencing the other's index.
func flagDuplicateISBNs(titles []MappedTitle) {
	byISBN := make(map[string][]int) // ISBN -> positions in titles
	for i, t := range titles {
		if t.ISBN != "" {
			byISBN[t.ISBN] = append(byISBN[t.ISBN], i)
		}
	}
	for isbn, positions := range byISBN {
		if len(positions) < 2 {
			continue
		}
		for _, pos := range positions {
			for _, other := range positions {
				if other == pos {
					continue
				}
				titles[pos].Errors = append(titles[pos].Errors, FieldError{
					Field: "isbn",
					Message: fmt.Sprintf("ISBN %s is also used by product %d in this file",
						isbn, titles[other].SourceIndex+1),
				})
			}
		}
	}
}
