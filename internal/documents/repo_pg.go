package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `
id, owner_email, document_type, subject_name, subject_email, storage_url,
stored_name, title, description, status, array_to_string(tags, ','), is_active,
sent_at, signed_at, expires_at, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
	id, owner_email, document_type, subject_name, subject_email, storage_url,
	stored_name, title, description, status, tags, is_active, expires_at,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, string_to_array(NULLIF($11, ''), ','), $12, $13, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.OwnerEmail,
		doc.DocumentType,
		doc.SubjectName,
		doc.SubjectEmail,
		doc.StorageURL,
		doc.StoredName,
		doc.Title,
		nullableString(doc.Description),
		string(doc.Status),
		strings.Join(doc.Tags, ","),
		doc.IsActive,
		nullableTime(doc.ExpiresAt),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, id))
}

var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"title":        "title",
	"documentType": "document_type",
	"status":       "status",
	"employeeName": "subject_name",
}

func (r *PGRepo) List(ctx context.Context, q ListQuery) ([]Document, int, error) {
	where := []string{"owner_email = $1"}
	args := []any{q.OwnerEmail}

	if q.Status != "" {
		args = append(args, string(q.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.DocumentType != "" {
		args = append(args, q.DocumentType)
		where = append(where, fmt.Sprintf("document_type = $%d", len(args)))
	}
	if q.SubjectName != "" {
		args = append(args, "%"+q.SubjectName+"%")
		where = append(where, fmt.Sprintf("subject_name ILIKE $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT count(*) FROM documents WHERE " + whereClause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[q.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(
		"SELECT %s FROM documents WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		documentColumns, whereClause, sortCol, dir, len(args)-1, len(args),
	)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *PGRepo) ListBySubject(ctx context.Context, subjectEmail string) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
WHERE subject_email = $1 AND is_active
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, subjectEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *PGRepo) MarkSent(ctx context.Context, id string, at time.Time) error {
	const query = `
UPDATE documents SET status = 'Sent', sent_at = $2, updated_at = now()
WHERE id = $1`
	return r.execOne(ctx, query, id, at)
}

func (r *PGRepo) MarkSigned(ctx context.Context, id, storageURL string, at time.Time) error {
	const query = `
UPDATE documents SET status = 'Signed', storage_url = $2, signed_at = $3, updated_at = now()
WHERE id = $1`
	return r.execOne(ctx, query, id, storageURL, at)
}

func (r *PGRepo) Archive(ctx context.Context, id string, at time.Time) error {
	const query = `
UPDATE documents SET status = 'Archived', is_active = FALSE, updated_at = $2
WHERE id = $1`
	return r.execOne(ctx, query, id, at)
}

func (r *PGRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc         Document
		description sql.NullString
		tags        sql.NullString
		sentAt      sql.NullTime
		signedAt    sql.NullTime
		expiresAt   sql.NullTime
	)
	err := row.Scan(
		&doc.ID,
		&doc.OwnerEmail,
		&doc.DocumentType,
		&doc.SubjectName,
		&doc.SubjectEmail,
		&doc.StorageURL,
		&doc.StoredName,
		&doc.Title,
		&description,
		&doc.Status,
		&tags,
		&doc.IsActive,
		&sentAt,
		&signedAt,
		&expiresAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	doc.Description = description.String
	if tags.Valid && tags.String != "" {
		doc.Tags = strings.Split(tags.String, ",")
	}
	doc.SentAt = timePtr(sentAt)
	doc.SignedAt = timePtr(signedAt)
	doc.ExpiresAt = timePtr(expiresAt)
	return doc, nil
}

func scanDocuments(rows *sql.Rows) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
