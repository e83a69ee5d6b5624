package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"vault/internal/domain"
	"vault/internal/domain/models"
	"vault/internal/domain/repositories"
)

const documentColumns = `id, original_name, stored_name, stored_path, size_bytes, media_type,
		folder_id, status, summary, markdown, error, uploaded_at, processed_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create persists a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.Documents, documentColumns)

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.OriginalName,
		doc.StoredName,
		doc.StoredPath,
		doc.SizeBytes,
		doc.MediaType,
		doc.FolderID,
		doc.Status,
		doc.Summary,
		doc.Markdown,
		doc.Error,
		doc.UploadedAt,
		doc.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.OriginalName,
		&doc.StoredName,
		&doc.StoredPath,
		&doc.SizeBytes,
		&doc.MediaType,
		&doc.FolderID,
		&doc.Status,
		&doc.Summary,
		&doc.Markdown,
		&doc.Error,
		&doc.UploadedAt,
		&doc.ProcessedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// Update overwrites an existing document record. The mutable columns are
// written wholesale; the last update wins.
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, status = $2, summary = $3, markdown = $4,
		    error = $5, processed_at = $6
		WHERE id = $7
	`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query,
		doc.FolderID,
		doc.Status,
		doc.Summary,
		doc.Markdown,
		doc.Error,
		doc.ProcessedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a document record
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List retrieves all documents, newest upload first
func (r *PostgresDocumentRepository) List(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY uploaded_at DESC
	`, documentColumns, r.tables.Documents)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListByFolder lists documents directly inside a folder (nil = root)
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID *string) ([]models.Document, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE folder_id IS NULL
			ORDER BY uploaded_at DESC
		`, documentColumns, r.tables.Documents)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE folder_id = $1
			ORDER BY uploaded_at DESC
		`, documentColumns, r.tables.Documents)
		args = append(args, *folderID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents by folder: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func scanDocuments(rows pgxRows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.OriginalName,
			&doc.StoredName,
			&doc.StoredPath,
			&doc.SizeBytes,
			&doc.MediaType,
			&doc.FolderID,
			&doc.Status,
			&doc.Summary,
			&doc.Markdown,
			&doc.Error,
			&doc.UploadedAt,
			&doc.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
