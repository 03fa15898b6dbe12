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

// inserts a new data source, assigning its id and creation time
func (c *Client) CreateDataSource(ctx context.Context, src *DataSource) error {
	src.ID = uuid.NewString()
	src.CreatedAt = time.Now().UTC()

	_, err := c.pool.Exec(ctx, createDataSourceQuery,
		src.ID,
		src.WorkspaceID,
		src.Name,
		src.Type,
		src.Config,
		src.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	return nil
}

// fetches a data source by id
func (c *Client) GetDataSource(ctx context.Context, id string) (*DataSource, error) {
	var src DataSource

	err := c.pool.QueryRow(ctx, getDataSourceQuery, id).Scan(
		&src.ID,
		&src.WorkspaceID,
		&src.Name,
		&src.Type,
		&src.Config,
		&src.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("data source", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get data source: %w", err)
	}

	return &src, nil
}

// lists a workspace's data sources, newest first
func (c *Client) ListDataSources(ctx context.Context, workspaceID string) ([]DataSource, error) {
	rows, err := c.pool.Query(ctx, listDataSourcesQuery, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data sources: %w", err)
	}

	defer rows.Close()

	var sources []DataSource

	for rows.Next() {
		var src DataSource

		if err := rows.Scan(&src.ID, &src.WorkspaceID, &src.Name, &src.Type, &src.Config, &src.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan data source: %w", err)
		}

		sources = append(sources, src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating data sources: %w", err)
	}

	return sources, nil
}
