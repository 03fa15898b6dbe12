package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/logger"
)

// FilesystemConnector exposes a directory tree on the local disk as a
// data source. File IDs are absolute paths under the configured root.
type FilesystemConnector struct{}

type filesystemConfig struct {
	Path string `json:"path"`
}

func NewFilesystemConnector() *FilesystemConnector {
	return &FilesystemConnector{}
}

func (f *FilesystemConnector) Type() string {
	return "filesystem"
}

// checks that the configured path exists and is a directory
func (f *FilesystemConnector) ValidateConfig(config json.RawMessage) error {
	cfg, err := parseFilesystemConfig(config)
	if err != nil {
		return err
	}

	info, err := os.Stat(cfg.Path)
	if err != nil {
		return fmt.Errorf("base path %q not accessible: %w", cfg.Path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("base path %q is not a directory", cfg.Path)
	}

	return nil
}

// lists the entries directly under the base path (or subPath inside it).
// Dotfiles are skipped. A listing failure degrades to an empty result so
// a single unreadable directory does not fail a whole ingestion run.
func (f *FilesystemConnector) ListFiles(ctx context.Context, config json.RawMessage, subPath string) ([]FileObject, error) {
	cfg, err := parseFilesystemConfig(config)
	if err != nil {
		return nil, err
	}

	target := cfg.Path
	if subPath != "" {
		target = filepath.Join(cfg.Path, subPath)
	}

	resolved, err := resolveWithin(cfg.Path, target)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		logger.Warn("failed to list directory", "path", resolved, "error", err)
		return []FileObject{}, nil
	}

	files := make([]FileObject, 0, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		fullPath := filepath.Join(resolved, entry.Name())

		info, err := entry.Info()
		if err != nil {
			logger.Warn("failed to stat entry", "path", fullPath, "error", err)
			continue
		}

		kind := EntryFile
		if entry.IsDir() {
			kind = EntryFolder
		}

		files = append(files, FileObject{
			ID:        fullPath, // full path doubles as the connector-native ID
			Name:      entry.Name(),
			Path:      fullPath,
			Type:      kind,
			MimeType:  mimeTypeFor(entry.Name(), entry.IsDir()),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}

	return files, nil
}

// reads a file's raw bytes; the fileID is the absolute path produced by
// ListFiles and must resolve inside the configured base path
func (f *FilesystemConnector) GetFileContent(ctx context.Context, config json.RawMessage, fileID string) ([]byte, error) {
	cfg, err := parseFilesystemConfig(config)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveWithin(cfg.Path, fileID)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", resolved, err)
	}

	return data, nil
}

func parseFilesystemConfig(config json.RawMessage) (*filesystemConfig, error) {
	var cfg filesystemConfig

	if err := json.Unmarshal(config, &cfg); err != nil {
		return nil, fmt.Errorf("invalid filesystem config: %w", err)
	}

	if cfg.Path == "" {
		return nil, fmt.Errorf("invalid filesystem config: path is required")
	}

	return &cfg, nil
}

// resolves target against base and rejects anything that escapes it.
// Both sides are made absolute and symlink-resolved before the
// containment check, so "../" segments and symlinks pointing outside the
// root are caught rather than prefix-matched away.
func resolveWithin(base, target string) (string, error) {
	canonBase, err := canonicalize(base)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path %q: %w", base, err)
	}

	// relative ids resolve against the base, never the process cwd
	absTarget := target
	if !filepath.IsAbs(absTarget) {
		absTarget = filepath.Join(canonBase, absTarget)
	}

	absTarget, err = filepath.Abs(absTarget)
	if err != nil {
		return "", &apperrors.AccessDeniedError{Path: target}
	}

	canonTarget := absTarget
	if resolved, err := filepath.EvalSymlinks(absTarget); err == nil {
		canonTarget = resolved
	}

	rel, err := filepath.Rel(canonBase, canonTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &apperrors.AccessDeniedError{Path: target}
	}

	return canonTarget, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// base may not exist yet; fall back to the cleaned absolute path
		return abs, nil
	}

	return resolved, nil
}

// unknown extensions yield an empty MIME type; the ingestion pipeline
// treats a missing type as plain text
func mimeTypeFor(name string, isDir bool) string {
	if isDir {
		return ""
	}

	return mime.TypeByExtension(filepath.Ext(name))
}
