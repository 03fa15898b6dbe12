package query

// Request is the body of the query endpoint.
type Request struct {
	WorkspaceID string `json:"workspaceId" binding:"required"`
	Query       string `json:"query" binding:"required"`
	TemplateID  string `json:"templateId"`
}
