package vectorstore

const (
	insertChunkQuery = `
		INSERT INTO document_chunks (id, document_id, content, embedding, chunk_index, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	deleteChunksByDocumentQuery = `
		DELETE FROM document_chunks
		WHERE document_id = $1
	`

	loadWorkspaceChunksQuery = `
		SELECT dc.id, dc.document_id, dc.content, dc.embedding, coalesce(dc.metadata, '{}'::jsonb)
		FROM document_chunks dc
		JOIN documents d ON d.id = dc.document_id
		WHERE d.workspace_id = $1
	`

	countWorkspaceChunksQuery = `
		SELECT COUNT(*)
		FROM document_chunks dc
		JOIN documents d ON d.id = dc.document_id
		WHERE d.workspace_id = $1
	`
)
