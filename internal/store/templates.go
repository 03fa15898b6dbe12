package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
)

// fetches a template by id
func (c *Client) GetTemplate(ctx context.Context, id string) (*Template, error) {
	var tpl Template
	var config []byte

	err := c.pool.QueryRow(ctx, getTemplateQuery, id).Scan(
		&tpl.ID,
		&tpl.WorkspaceID,
		&tpl.Name,
		&tpl.Type,
		&tpl.Prompt,
		&config,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("template", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if string(config) != "null" {
		tpl.Config = config
	}

	return &tpl, nil
}
