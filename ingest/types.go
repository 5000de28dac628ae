// Package ingest turns parsed ONIX products into importable title records:
// field mapping, conflict detection against existing records, resolution
// application and contributor linking.
package ingest

import (
	"time"

	"onx/common"
	"onx/onix"
)

// MappedTitle is the staging structure between parsing and import
// execution. Created once per parsed product, immutable afterwards, never
// persisted directly.
type MappedTitle struct {
	SourceIndex     int // ParsedProduct.RawIndex
	RecordReference string
	Title           string
	Subtitle        string
	ISBN            string
	Status          common.PublishingStatus
	PublicationDate *time.Time
	Contributors    []MappedContributor
	Unmapped        []UnmappedField
	Errors          []FieldError
}

// Importable reports whether the product can be written at all. A single
// field error makes it categorically non-importable regardless of user
// selection.
func (m *MappedTitle) Importable() bool {
	return len(m.Errors) == 0
}

type MappedContributor struct {
	FirstName string
	LastName  string
	Role      common.RoleBucket
	Sequence  int
}

// UnmappedField surfaces source data with no destination in the target
// schema. Transparency requirement: the importing user is told what was in
// the file but will not be stored, nothing is silently dropped.
type UnmappedField struct {
	Name   string
	Value  string
	Reason string
}

// FieldError is a per-product validation problem that blocks import of that
// product but not of the rest of the batch.
type FieldError struct {
	Field   string
	Message string
}

// Conflict marks an incoming ISBN that already exists among persisted
// records within the same tenant boundary.
type Conflict struct {
	ISBN         string
	ExistingID   string
	ExistingName string
	SourceIndex  int
}

// ResolutionKind selects what to do with a conflicting product.
type ResolutionKind string

const (
	ResolveSkip      ResolutionKind = "skip"
	ResolveUpdate    ResolutionKind = "update"
	ResolveCreateNew ResolutionKind = "create-new"
)

// Resolution is the caller's per-product decision, keyed by ISBN. A
// create-new resolution must carry a replacement ISBN since the original is
// known to collide.
type Resolution struct {
	Kind            ResolutionKind `yaml:"kind"`
	ReplacementISBN string         `yaml:"replacement_isbn,omitempty"`
}

// Preview is the entire contract a caller needs to render a review UI and
// collect resolutions before executing the import.
type Preview struct {
	Version         common.ONIXVersion
	TotalProducts   int
	ValidProducts   int
	Products        []PreviewProduct
	Errors          []onix.ParseError
	Conflicts       []Conflict
	UnmappedSummary []string
}

type PreviewProduct struct {
	SourceIndex     int
	RecordReference string
	Title           string
	Subtitle        string
	ISBN            string
	Status          common.PublishingStatus
	PublicationDate *time.Time
	Contributors    []MappedContributor
	Unmapped        []UnmappedField
	Errors          []FieldError
	HasConflict     bool
}

// Result reports import execution for audit logging by the caller.
type Result struct {
	Imported   int
	Skipped    int
	Updated    int
	CreatedIDs []string
	Errors     []ImportError
}

// ImportError is a per-product execution problem, reported against an exact
// source index.
type ImportError struct {
	SourceIndex int
	ISBN        string
	Message     string
}
