package ingest

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"onx/onix"
)

// Executor applies caller-supplied resolutions and writes the batch inside
// one transaction. Products are processed in deterministic slice order so a
// mid-batch failure reports an exact product index and the surrounding
// transaction discards every write.
type Executor struct {
	store Store
	log   *zap.Logger
}

func NewExecutor(store Store, log *zap.Logger) *Executor {
	return &Executor{store: store, log: log}
}

// Execute runs the import. Resolutions are keyed by ISBN; a conflicting
// product without a resolution defaults to skip. Products with field errors
// are always skipped no matter what the caller selected.
func (e *Executor) Execute(ctx context.Context, tenantID string, titles []MappedTitle, resolutions map[string]Resolution) (*Result, error) {
	_, byISBN, err := DetectConflicts(ctx, e.store, tenantID, titles)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	err = e.store.WithinTx(ctx, func(tx Tx) error {
		for i := range titles {
			if err := e.importOne(ctx, tx, tenantID, &titles[i], byISBN, resolutions, result); err != nil {
				return fmt.Errorf("product %d: %w", titles[i].SourceIndex+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("Import executed",
		zap.String("tenant", tenantID),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (e *Executor) importOne(ctx context.Context, tx Tx, tenantID string, t *MappedTitle, existing map[string]ExistingTitle, resolutions map[string]Resolution, result *Result) error {
	if !t.Importable() {
		result.Skipped++
		return nil
	}

	conflict, hasConflict := existing[t.ISBN]
	if !hasConflict {
		return e.createTitle(ctx, tx, tenantID, t, t.ISBN, result)
	}

	resolution := resolutions[t.ISBN]
	switch resolution.Kind {
	case ResolveUpdate:
		err := tx.UpdateTitle(ctx, conflict.ID, TitleUpdate{
			Title:           t.Title,
			Subtitle:        t.Subtitle,
			Status:          t.Status,
			PublicationDate: t.PublicationDate,
		})
		if err != nil {
			return err
		}
		result.Updated++
		return nil

	case ResolveCreateNew:
		replacement := onix.NormalizeISBN(resolution.ReplacementISBN)
		if replacement == "" {
			// hard precondition on the caller, reported per product
			result.Errors = append(result.Errors, ImportError{
				SourceIndex: t.SourceIndex,
				ISBN:        t.ISBN,
				Message:     "create-new resolution requires a replacement ISBN",
			})
			result.Skipped++
			return nil
		}
		return e.createTitle(ctx, tx, tenantID, t, replacement, result)

	default:
		// skip, or no resolution supplied
		result.Skipped++
		return nil
	}
}

func (e *Executor) createTitle(ctx context.Context, tx Tx, tenantID string, t *MappedTitle, isbn string, result *Result) error {
	id, err := tx.CreateTitle(ctx, NewTitle{
		TenantID:        tenantID,
		Title:           t.Title,
		Subtitle:        t.Subtitle,
		ISBN:            isbn,
		Status:          t.Status,
		PublicationDate: t.PublicationDate,
	})
	if err != nil {
		return err
	}

	shares := OwnershipSplit(len(t.Contributors))
	for i, c := range t.Contributors {
		contactID, err := findOrCreateContact(ctx, tx, tenantID, c)
		if err != nil {
			return err
		}
		if err := tx.LinkContributor(ctx, id, contactID, shares[i], i == 0); err != nil {
			return err
		}
	}

	result.Imported++
	result.CreatedIDs = append(result.CreatedIDs, id)
	return nil
}

// findOrCreateContact resolves a contributor identity by exact first/last
// match within the tenant and makes sure it carries the author role link,
// creating both when missing.
func findOrCreateContact(ctx context.Context, tx Tx, tenantID string, c MappedContributor) (string, error) {
	id, found, err := tx.FindActiveContact(ctx, tenantID, c.FirstName, c.LastName)
	if err != nil {
		return "", err
	}
	if !found {
		if id, err = tx.CreateContact(ctx, tenantID, c.FirstName, c.LastName); err != nil {
			return "", err
		}
	}
	if err := tx.EnsureAuthorRole(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

var hundred = decimal.NewFromInt(100)

// OwnershipSplit divides 100 evenly among n contributors, truncating each
// share to two decimal places and giving the entire rounding remainder to
// the last one, so shares always sum to exactly 100.00.
func OwnershipSplit(n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}
	each := hundred.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = each
	}
	shares[n-1] = hundred.Sub(each.Mul(decimal.NewFromInt(int64(n - 1))))
	return shares
}
