package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"

	"onx/common"
)

type linkRec struct {
	TitleID   string
	ContactID string
	Ownership decimal.Decimal
	Primary   bool
}

type fakeTx struct {
	nextTitle   int
	nextContact int
	created     []NewTitle
	createdIDs  []string
	updated     map[string]TitleUpdate
	contacts    map[string]string // "first|last" -> contact id
	roles       map[string]int    // contact id -> EnsureAuthorRole calls
	links       []linkRec

	createTitleErr error
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		updated:  make(map[string]TitleUpdate),
		contacts: make(map[string]string),
		roles:    make(map[string]int),
	}
}

func (tx *fakeTx) CreateTitle(_ context.Context, t NewTitle) (string, error) {
	if tx.createTitleErr != nil {
		return "", tx.createTitleErr
	}
	tx.nextTitle++
	id := fmt.Sprintf("title-%d", tx.nextTitle)
	tx.created = append(tx.created, t)
	tx.createdIDs = append(tx.createdIDs, id)
	return id, nil
}

func (tx *fakeTx) UpdateTitle(_ context.Context, id string, fields TitleUpdate) error {
	tx.updated[id] = fields
	return nil
}

func (tx *fakeTx) FindActiveContact(_ context.Context, _, firstName, lastName string) (string, bool, error) {
	id, ok := tx.contacts[firstName+"|"+lastName]
	return id, ok, nil
}

func (tx *fakeTx) CreateContact(_ context.Context, _, firstName, lastName string) (string, error) {
	tx.nextContact++
	id := fmt.Sprintf("contact-%d", tx.nextContact)
	tx.contacts[firstName+"|"+lastName] = id
	return id, nil
}

func (tx *fakeTx) EnsureAuthorRole(_ context.Context, contactID string) error {
	tx.roles[contactID]++
	return nil
}

func (tx *fakeTx) LinkContributor(_ context.Context, titleID, contactID string, ownership decimal.Decimal, primary bool) error {
	tx.links = append(tx.links, linkRec{titleID, contactID, ownership, primary})
	return nil
}

type fakeStore struct {
	existing []ExistingTitle
	tx       *fakeTx
}

func (s *fakeStore) TitlesByISBN(_ context.Context, _ string, isbns []string) ([]ExistingTitle, error) {
	want := make(map[string]bool, len(isbns))
	for _, isbn := range isbns {
		want[isbn] = true
	}
	var out []ExistingTitle
	for _, e := range s.existing {
		if want[e.ISBN] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) WithinTx(_ context.Context, fn func(tx Tx) error) error {
	return fn(s.tx)
}

func TestExecute_CreatesTitleWithContributors(t *testing.T) {
	store := &fakeStore{tx: newFakeTx()}
	exec := NewExecutor(store, zaptest.NewLogger(t))

	titles := []MappedTitle{{
		SourceIndex: 0,
		Title:       "Fresh Title",
		ISBN:        "9780306406157",
		Status:      common.StatusPublished,
		Contributors: []MappedContributor{
			{FirstName: "Mary", LastName: "Shelley", Role: common.RoleAuthor, Sequence: 1},
			{FirstName: "Erika", LastName: "Fuchs", Role: common.RoleTranslator, Sequence: 2},
			{FirstName: "", LastName: "Homer", Role: common.RoleAuthor, Sequence: 3},
		},
	}}

	result, err := exec.Execute(context.Background(), "tenant", titles, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || result.Skipped != 0 || result.Updated != 0 {
		t.Errorf("result = %+v", result)
	}
	if len(result.CreatedIDs) != 1 || result.CreatedIDs[0] != "title-1" {
		t.Errorf("created IDs = %v", result.CreatedIDs)
	}

	tx := store.tx
	if len(tx.created) != 1 || tx.created[0].TenantID != "tenant" || tx.created[0].ISBN != "9780306406157" {
		t.Fatalf("created = %+v", tx.created)
	}
	if len(tx.links) != 3 {
		t.Fatalf("links = %+v", tx.links)
	}
	wantShares := []string{"33.33", "33.33", "33.34"}
	for i, l := range tx.links {
		if l.TitleID != "title-1" {
			t.Errorf("link %d title = %s", i, l.TitleID)
		}
		if l.Ownership.StringFixed(2) != wantShares[i] {
			t.Errorf("link %d ownership = %s, want %s", i, l.Ownership, wantShares[i])
		}
		if l.Primary != (i == 0) {
			t.Errorf("link %d primary = %v", i, l.Primary)
		}
	}
	// every linked contact got the author role
	for id, calls := range tx.roles {
		if calls != 1 {
			t.Errorf("contact %s role ensured %d times", id, calls)
		}
	}
	if len(tx.roles) != 3 {
		t.Errorf("roles = %+v", tx.roles)
	}
}

func TestExecute_ReusesExistingContact(t *testing.T) {
	store := &fakeStore{tx: newFakeTx()}
	store.tx.contacts["Mary|Shelley"] = "contact-known"
	exec := NewExecutor(store, zaptest.NewLogger(t))

	titles := []MappedTitle{{
		Title: "T", ISBN: "9780306406157",
		Contributors: []MappedContributor{{FirstName: "Mary", LastName: "Shelley", Sequence: 1}},
	}}
	if _, err := exec.Execute(context.Background(), "tenant", titles, nil); err != nil {
		t.Fatal(err)
	}
	if store.tx.nextContact != 0 {
		t.Errorf("created %d contacts, want 0", store.tx.nextContact)
	}
	if len(store.tx.links) != 1 || store.tx.links[0].ContactID != "contact-known" {
		t.Errorf("links = %+v", store.tx.links)
	}
	if store.tx.roles["contact-known"] != 1 {
		t.Errorf("roles = %+v", store.tx.roles)
	}
}

func TestExecute_Resolutions(t *testing.T) {
	existing := []ExistingTitle{{ID: "old-1", Title: "Old", ISBN: "9780306406157"}}

	t.Run("default skip", func(t *testing.T) {
		store := &fakeStore{existing: existing, tx: newFakeTx()}
		exec := NewExecutor(store, zaptest.NewLogger(t))
		result, err := exec.Execute(context.Background(), "tenant",
			[]MappedTitle{{Title: "T", ISBN: "9780306406157"}}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if result.Skipped != 1 || result.Imported != 0 || result.Updated != 0 {
			t.Errorf("result = %+v", result)
		}
		if len(store.tx.created) != 0 || len(store.tx.updated) != 0 {
			t.Error("skip resolution must not write")
		}
	})

	t.Run("update", func(t *testing.T) {
		store := &fakeStore{existing: existing, tx: newFakeTx()}
		exec := NewExecutor(store, zaptest.NewLogger(t))
		result, err := exec.Execute(context.Background(), "tenant",
			[]MappedTitle{{Title: "New Name", Subtitle: "Sub", ISBN: "9780306406157", Status: common.StatusPublished}},
			map[string]Resolution{"9780306406157": {Kind: ResolveUpdate}})
		if err != nil {
			t.Fatal(err)
		}
		if result.Updated != 1 || result.Imported != 0 || result.Skipped != 0 {
			t.Errorf("result = %+v", result)
		}
		fields, ok := store.tx.updated["old-1"]
		if !ok {
			t.Fatalf("updated = %+v", store.tx.updated)
		}
		if fields.Title != "New Name" || fields.Subtitle != "Sub" || fields.Status != common.StatusPublished {
			t.Errorf("fields = %+v", fields)
		}
	})

	t.Run("create-new with replacement", func(t *testing.T) {
		store := &fakeStore{existing: existing, tx: newFakeTx()}
		exec := NewExecutor(store, zaptest.NewLogger(t))
		result, err := exec.Execute(context.Background(), "tenant",
			[]MappedTitle{{Title: "T", ISBN: "9780306406157"}},
			map[string]Resolution{"9780306406157": {Kind: ResolveCreateNew, ReplacementISBN: "978-0-9752298-0-4"}})
		if err != nil {
			t.Fatal(err)
		}
		if result.Imported != 1 {
			t.Errorf("result = %+v", result)
		}
		if len(store.tx.created) != 1 || store.tx.created[0].ISBN != "9780975229804" {
			t.Errorf("created = %+v", store.tx.created)
		}
	})

	t.Run("create-new without replacement", func(t *testing.T) {
		store := &fakeStore{existing: existing, tx: newFakeTx()}
		exec := NewExecutor(store, zaptest.NewLogger(t))
		result, err := exec.Execute(context.Background(), "tenant",
			[]MappedTitle{{SourceIndex: 4, Title: "T", ISBN: "9780306406157"}},
			map[string]Resolution{"9780306406157": {Kind: ResolveCreateNew}})
		if err != nil {
			t.Fatal(err)
		}
		if result.Skipped != 1 || result.Imported != 0 {
			t.Errorf("result = %+v", result)
		}
		if len(result.Errors) != 1 {
			t.Fatalf("errors = %+v", result.Errors)
		}
		e := result.Errors[0]
		if e.SourceIndex != 4 || e.ISBN != "9780306406157" || !strings.Contains(e.Message, "replacement ISBN") {
			t.Errorf("error = %+v", e)
		}
		if len(store.tx.created) != 0 {
			t.Error("must not create without a replacement ISBN")
		}
	})
}

func TestExecute_SkipsUnimportable(t *testing.T) {
	store := &fakeStore{tx: newFakeTx()}
	exec := NewExecutor(store, zaptest.NewLogger(t))

	titles := []MappedTitle{
		{Title: "Bad", Errors: []FieldError{{Field: "isbn", Message: "product has no ISBN-13 identifier"}}},
		{Title: "Good", ISBN: "9780306406157"},
	}
	result, err := exec.Execute(context.Background(), "tenant", titles, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 || result.Imported != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(store.tx.created) != 1 || store.tx.created[0].Title != "Good" {
		t.Errorf("created = %+v", store.tx.created)
	}
}

func TestExecute_WriteErrorNamesProduct(t *testing.T) {
	tx := newFakeTx()
	tx.createTitleErr = errors.New("unique violation")
	store := &fakeStore{tx: tx}
	exec := NewExecutor(store, zaptest.NewLogger(t))

	_, err := exec.Execute(context.Background(), "tenant",
		[]MappedTitle{{SourceIndex: 2, Title: "T", ISBN: "9780306406157"}}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "product 3") || !strings.Contains(err.Error(), "unique violation") {
		t.Errorf("err = %v", err)
	}
}

func TestOwnershipSplit(t *testing.T) {
	tests := []struct {
		n    int
		want []string
	}{
		{0, nil},
		{-1, nil},
		{1, []string{"100.00"}},
		{2, []string{"50.00", "50.00"}},
		{3, []string{"33.33", "33.33", "33.34"}},
		{6, []string{"16.66", "16.66", "16.66", "16.66", "16.66", "16.70"}},
	}
	for _, tc := range tests {
		shares := OwnershipSplit(tc.n)
		if len(shares) != len(tc.want) {
			t.Errorf("OwnershipSplit(%d) = %v", tc.n, shares)
			continue
		}
		sum := decimal.Zero
		for i, s := range shares {
			if s.StringFixed(2) != tc.want[i] {
				t.Errorf("OwnershipSplit(%d)[%d] = %s, want %s", tc.n, i, s, tc.want[i])
			}
			sum = sum.Add(s)
		}
		if tc.n > 0 && !sum.Equal(decimal.NewFromInt(100)) {
			t.Errorf("OwnershipSplit(%d) sums to %s", tc.n, sum)
		}
	}
}
