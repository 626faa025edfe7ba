package invoices

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, link Link) error {
	const query = `
INSERT INTO invoice_links (id, user_name, pdf_url, uploaded_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, link.ID, link.UserName, link.PDFURL, link.UploadedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Link, error) {
	const query = `
SELECT id, user_name, pdf_url, uploaded_at
FROM invoice_links
WHERE id = $1
LIMIT 1`
	var link Link
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&link.ID, &link.UserName, &link.PDFURL, &link.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Link{}, ErrNotFound
		}
		return Link{}, err
	}
	return link, nil
}

func (r *PGRepo) ListByUserName(ctx context.Context, userName string) ([]Link, error) {
	const query = `
SELECT id, user_name, pdf_url, uploaded_at
FROM invoice_links
WHERE user_name = $1
ORDER BY uploaded_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		if err := rows.Scan(&link.ID, &link.UserName, &link.PDFURL, &link.UploadedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
