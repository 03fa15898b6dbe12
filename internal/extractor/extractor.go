package extractor

import (
	"mime"
	"strings"
)

// placeholder content for formats whose parsers are not wired in yet.
// These files are ingested with non-informative content instead of
// failing the pipeline.
const (
	pdfPlaceholder  = "[PDF content extraction not implemented - install a PDF parser]"
	docxPlaceholder = "[DOCX content extraction not implemented - install a DOCX parser]"
)

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extract converts raw file bytes into plain text based on MIME type.
// Text and JSON pass through unchanged, PDF and DOCX yield placeholder
// strings, and anything else yields an empty string. It never errors;
// an empty result means the caller should skip the file.
func Extract(data []byte, mimeType string) string {
	mediaType := mimeType

	// strip parameters such as "; charset=utf-8"
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mediaType = parsed
	}

	switch {
	case strings.HasPrefix(mediaType, "text/"), mediaType == "application/json":
		return string(data)
	case mediaType == "application/pdf":
		return pdfPlaceholder
	case mediaType == docxMimeType:
		return docxPlaceholder
	default:
		return ""
	}
}
