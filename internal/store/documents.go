package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
)

// looks a document up by its upsert identity
func (c *Client) FindDocument(ctx context.Context, workspaceID, dataSourceID, externalID string) (*Document, error) {
	var doc Document

	err := c.pool.QueryRow(ctx, findDocumentQuery, workspaceID, dataSourceID, externalID).Scan(
		&doc.ID,
		&doc.WorkspaceID,
		&doc.DataSourceID,
		&doc.ExternalID,
		&doc.Title,
		&doc.Content,
		&doc.Metadata,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("document", externalID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// inserts a new document, assigning its id and timestamps
func (c *Client) CreateDocument(ctx context.Context, doc *Document) error {
	doc.ID = uuid.NewString()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := c.pool.Exec(ctx, createDocumentQuery,
		doc.ID,
		doc.WorkspaceID,
		doc.DataSourceID,
		doc.ExternalID,
		doc.Title,
		doc.Content,
		doc.Metadata,
		now,
	)

	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// replaces a document's content and metadata; chunk replacement is the
// caller's job
func (c *Client) UpdateDocumentContent(ctx context.Context, id, content string, metadata map[string]any) error {
	_, err := c.pool.Exec(ctx, updateDocumentContentQuery, id, content, metadata, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	return nil
}

// fetches citation projections for the given document ids; missing ids
// are simply absent from the result
func (c *Client) GetDocumentRefs(ctx context.Context, ids []string) ([]DocumentRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := c.pool.Query(ctx, getDocumentRefsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get document refs: %w", err)
	}

	defer rows.Close()

	var refs []DocumentRef

	for rows.Next() {
		var ref DocumentRef

		if err := rows.Scan(&ref.ID, &ref.Title, &ref.ExternalID); err != nil {
			return nil, fmt.Errorf("failed to scan document ref: %w", err)
		}

		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document refs: %w", err)
	}

	return refs, nil
}
