package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// Format identifies a definition file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// document is the on-disk shape: a list of views or a single inline view
type document struct {
	Views []types.ViewDescriptor `json:"views" yaml:"views" toml:"views"`
}

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// FormatFromContentType picks a format from an HTTP content type
func FormatFromContentType(contentType string) Format {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	case strings.Contains(ct, "toml"):
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Parse decodes view descriptors from data
func Parse(data []byte, format Format) ([]types.ViewDescriptor, error) {
	var doc document
	if err := unmarshal(data, format, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s definitions: %w", format, err)
	}

	views := doc.Views
	if len(views) == 0 {
		var single types.ViewDescriptor
		if err := unmarshal(data, format, &single); err != nil {
			return nil, fmt.Errorf("failed to parse %s definition: %w", format, err)
		}
		if single.ID == "" {
			return nil, fmt.Errorf("%w: no views defined", ErrInvalidDescriptor)
		}
		views = []types.ViewDescriptor{single}
	}

	for i, v := range views {
		if v.ID == "" {
			return nil, fmt.Errorf("%w: view %d has no id", ErrInvalidDescriptor, i)
		}
	}
	return views, nil
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatJSON:
		return sonic.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
