package postgres

import (
	"context"
	"fmt"
	"time"

	"onx/common"
	"onx/onix"
)

// LoadTitles reads the export title read model: titles with their linked
// contributors ordered by sequence. Empty ids loads every title of the
// tenant.
func (r *Repo) LoadTitles(ctx context.Context, tenantID string, ids []string) ([]onix.TitleRecord, error) {
	query := `SELECT id, title, COALESCE(subtitle, ''), COALESCE(isbn, ''), publication_status, publication_date
		  FROM titles WHERE tenant_id = $1`
	args := []any{tenantID}
	if len(ids) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, ids)
	}
	query += ` ORDER BY title`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var titles []onix.TitleRecord
	index := make(map[string]int)
	for rows.Next() {
		var (
			t      onix.TitleRecord
			status string
			date   *time.Time
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Subtitle, &t.ISBN, &status, &date); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		t.Status = common.PublishingStatus(status)
		t.PublicationDate = date
		index[t.ID] = len(titles)
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(titles) == 0 {
		return titles, nil
	}

	titleIDs := make([]string, 0, len(titles))
	for _, t := range titles {
		titleIDs = append(titleIDs, t.ID)
	}
	crows, err := r.db.Query(ctx,
		`SELECT tc.title_id, c.first_name, c.last_name
		 FROM title_contributors tc
		 JOIN contacts c ON c.id = tc.contact_id
		 WHERE tc.title_id = ANY($1)
		 ORDER BY tc.title_id, tc.is_primary DESC, c.last_name`,
		titleIDs)
	if err != nil {
		return nil, fmt.Errorf("query contributors: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var titleID, first, last string
		if err := crows.Scan(&titleID, &first, &last); err != nil {
			return nil, fmt.Errorf("scan contributor: %w", err)
		}
		if i, ok := index[titleID]; ok {
			titles[i].Contributors = append(titles[i].Contributors, onix.TitleContributor{
				FirstName: first,
				LastName:  last,
				Role:      common.RoleAuthor,
			})
		}
	}
	return titles, crows.Err()
}
