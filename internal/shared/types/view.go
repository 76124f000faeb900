package types

import (
	"time"

	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
)

// Well-known view identifiers
const (
	ViewLogin = "login"
)

// ViewDescriptor describes a navigable view. Descriptors are immutable once
// registered in the catalog.
type ViewDescriptor struct {
	ID        string   `json:"id" yaml:"id" toml:"id"`
	Title     string   `json:"title" yaml:"title" toml:"title"`
	Subview   bool     `json:"subview" yaml:"subview" toml:"subview"`
	Resizable bool     `json:"resizable" yaml:"resizable" toml:"resizable"`
	Resource  string   `json:"resource" yaml:"resource" toml:"resource"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
}

// Controller is the handle a catalog resolution yields. Each resolution
// produces a fresh controller bound to the view's resource.
type Controller struct {
	ID         id.ControllerID `json:"id"`
	View       ViewDescriptor  `json:"view"`
	Resource   string          `json:"resource"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

// Rendered is a handle to presentation output
type Rendered struct {
	ID      string         `json:"id"`
	ViewID  string         `json:"view_id"`
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// CatalogStats contains view catalog statistics
type CatalogStats struct {
	TotalViews   int        `json:"total_views"`
	SubviewViews int        `json:"subview_views"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}
