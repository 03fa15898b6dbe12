package store

const (
	getWorkspaceQuery = `
		SELECT id, name, coalesce(model_config, 'null'::jsonb), created_at
		FROM workspaces
		WHERE id = $1
	`

	createDataSourceQuery = `
		INSERT INTO data_sources (id, workspace_id, name, type, config, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	getDataSourceQuery = `
		SELECT id, workspace_id, name, type, config, created_at
		FROM data_sources
		WHERE id = $1
	`

	listDataSourcesQuery = `
		SELECT id, workspace_id, name, type, config, created_at
		FROM data_sources
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`

	findDocumentQuery = `
		SELECT id, workspace_id, data_source_id, external_id, title, content,
		       coalesce(metadata, '{}'::jsonb), created_at, updated_at
		FROM documents
		WHERE workspace_id = $1 AND data_source_id = $2 AND external_id = $3
	`

	createDocumentQuery = `
		INSERT INTO documents
			(id, workspace_id, data_source_id, external_id, title, content, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`

	updateDocumentContentQuery = `
		UPDATE documents
		SET content = $2, metadata = $3, updated_at = $4
		WHERE id = $1
	`

	getDocumentRefsQuery = `
		SELECT id, title, coalesce(external_id, '')
		FROM documents
		WHERE id = ANY($1)
	`

	getTemplateQuery = `
		SELECT id, workspace_id, name, type, prompt, coalesce(config, 'null'::jsonb)
		FROM templates
		WHERE id = $1
	`
)
