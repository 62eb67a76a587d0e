package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/todo/internal/domain"
)

// Format is an export/import document format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (want yaml or json)", domain.ErrInvalidFormat, s)
	}
}

// FormatFromPath picks the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatYAML
}

// transferDocument is the export/import file layout.
type transferDocument struct {
	Tasks   []transferTask `yaml:"tasks" json:"tasks"`
	Version int            `yaml:"version" json:"version"`
}

// transferTask is one exported task.
type transferTask struct {
	CompletedAt *domain.Timestamp `yaml:"completedAt,omitempty" json:"completedAt,omitempty"`
	ID          string            `yaml:"id,omitempty" json:"id,omitempty"`
	Title       string            `yaml:"title" json:"title"`
	CreatedAt   domain.Timestamp  `yaml:"createdAt" json:"createdAt"`
	IsFavorite  bool              `yaml:"isFavorite" json:"isFavorite"`
	Completed   bool              `yaml:"completed" json:"completed"`
}

const transferVersion = 1

func encodeTransfer(format Format, tasks []domain.Task) ([]byte, error) {
	doc := transferDocument{Version: transferVersion, Tasks: make([]transferTask, 0, len(tasks))}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, transferTask{
			ID:          t.ID,
			Title:       t.Title,
			IsFavorite:  t.IsFavorite,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
		})
	}

	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, format)
	}
}

func decodeTransfer(format Format, data []byte) ([]transferTask, error) {
	var doc transferDocument
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidFormat, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, format)
	}

	if doc.Version > transferVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrInvalidFormat, doc.Version)
	}
	return doc.Tasks, nil
}
