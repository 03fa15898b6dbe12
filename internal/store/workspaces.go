package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
)

// fetches a workspace by id
func (c *Client) GetWorkspace(ctx context.Context, id string) (*Workspace, error) {
	var ws Workspace
	var modelConfig []byte

	err := c.pool.QueryRow(ctx, getWorkspaceQuery, id).Scan(
		&ws.ID,
		&ws.Name,
		&modelConfig,
		&ws.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("workspace", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	if string(modelConfig) != "null" {
		ws.ModelConfig = modelConfig
	}

	return &ws, nil
}
