// Package postgres implements the ingest persistence ports on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"onx/ingest"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) TitlesByISBN(ctx context.Context, tenantID string, isbns []string) ([]ingest.ExistingTitle, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, isbn FROM titles WHERE tenant_id = $1 AND isbn = ANY($2)`,
		tenantID, isbns)
	if err != nil {
		return nil, fmt.Errorf("query titles by isbn: %w", err)
	}
	defer rows.Close()

	var out []ingest.ExistingTitle
	for rows.Next() {
		var t ingest.ExistingTitle
		if err := rows.Scan(&t.ID, &t.Title, &t.ISBN); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) WithinTx(ctx context.Context, fn func(tx ingest.Tx) error) error {
	pgtx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = pgtx.Rollback(ctx)
	}()

	if err := fn(&txHandle{tx: pgtx}); err != nil {
		return err
	}
	if err := pgtx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type txHandle struct {
	tx pgx.Tx
}

func (h *txHandle) CreateTitle(ctx context.Context, t ingest.NewTitle) (string, error) {
	var id string
	err := h.tx.QueryRow(ctx,
		`INSERT INTO titles (tenant_id, title, subtitle, isbn, publication_status, publication_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.TenantID, t.Title, nullable(t.Subtitle), t.ISBN, t.Status.String(), t.PublicationDate).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert title: %w", err)
	}
	return id, nil
}

func (h *txHandle) UpdateTitle(ctx context.Context, id string, fields ingest.TitleUpdate) error {
	tag, err := h.tx.Exec(ctx,
		`UPDATE titles
		 SET title = $2, subtitle = $3, publication_status = $4, publication_date = $5, updated_at = now()
		 WHERE id = $1`,
		id, fields.Title, nullable(fields.Subtitle), fields.Status.String(), fields.PublicationDate)
	if err != nil {
		return fmt.Errorf("update title %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("title %s does not exist", id)
	}
	return nil
}

func (h *txHandle) FindActiveContact(ctx context.Context, tenantID, firstName, lastName string) (string, bool, error) {
	var id string
	err := h.tx.QueryRow(ctx,
		`SELECT id FROM contacts
		 WHERE tenant_id = $1 AND first_name = $2 AND last_name = $3 AND active
		 LIMIT 1`,
		tenantID, firstName, lastName).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find contact: %w", err)
	}
	return id, true, nil
}

func (h *txHandle) CreateContact(ctx context.Context, tenantID, firstName, lastName string) (string, error) {
	var id string
	err := h.tx.QueryRow(ctx,
		`INSERT INTO contacts (tenant_id, first_name, last_name, active)
		 VALUES ($1, $2, $3, true)
		 RETURNING id`,
		tenantID, firstName, lastName).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert contact: %w", err)
	}
	return id, nil
}

func (h *txHandle) EnsureAuthorRole(ctx context.Context, contactID string) error {
	_, err := h.tx.Exec(ctx,
		`INSERT INTO contact_roles (contact_id, role)
		 VALUES ($1, 'author')
		 ON CONFLICT (contact_id, role) DO NOTHING`,
		contactID)
	if err != nil {
		return fmt.Errorf("ensure author role for contact %s: %w", contactID, err)
	}
	return nil
}

func (h *txHandle) LinkContributor(ctx context.Context, titleID, contactID string, ownership decimal.Decimal, primary bool) error {
	_, err := h.tx.Exec(ctx,
		`INSERT INTO title_contributors (title_id, contact_id, ownership_percent, is_primary)
		 VALUES ($1, $2, $3, $4)`,
		titleID, contactID, ownership, primary)
	if err != nil {
		return fmt.Errorf("link contributor %s to title %s: %w", contactID, titleID, err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
