package ingest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"onx/common"
)

// ExistingTitle is the read model of an already persisted record used for
// conflict detection and updates.
type ExistingTitle struct {
	ID    string
	Title string
	ISBN  string
}

// NewTitle is what import execution writes for created records.
type NewTitle struct {
	TenantID        string
	Title           string
	Subtitle        string
	ISBN            string
	Status          common.PublishingStatus
	PublicationDate *time.Time
}

// TitleUpdate carries the only fields an update resolution may touch.
// Contributor links on the existing record are deliberately left alone so
// manually curated author relationships survive an import.
type TitleUpdate struct {
	Title           string
	Subtitle        string
	Status          common.PublishingStatus
	PublicationDate *time.Time
}

// Store is the persistence boundary. Everything behind it is an external
// collaborator: the engine only ever asks for a batch ISBN lookup and a
// transaction-scoped unit of work.
type Store interface {
	// TitlesByISBN fetches existing records whose ISBN is in the given
	// set, scoped to the tenant. One query per batch, never per product.
	TitlesByISBN(ctx context.Context, tenantID string, isbns []string) ([]ExistingTitle, error)

	// WithinTx runs fn inside one transaction; any error discards every
	// write of the batch.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the open-transaction handle threaded through title-creation and
// contributor-linking helpers.
type Tx interface {
	CreateTitle(ctx context.Context, t NewTitle) (string, error)
	UpdateTitle(ctx context.Context, id string, fields TitleUpdate) error

	// FindActiveContact looks up an active contact by exact first/last
	// name match scoped to the tenant.
	FindActiveContact(ctx context.Context, tenantID, firstName, lastName string) (string, bool, error)
	CreateContact(ctx context.Context, tenantID, firstName, lastName string) (string, error)
	// EnsureAuthorRole adds the author role link only when it is absent.
	EnsureAuthorRole(ctx context.Context, contactID string) error
	LinkContributor(ctx context.Context, titleID, contactID string, ownership decimal.Decimal, primary bool) error
}
