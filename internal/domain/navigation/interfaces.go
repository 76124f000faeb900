package navigation

import (
	"context"

	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// Catalog resolves view identifiers to controllers
type Catalog interface {
	Resolve(ctx context.Context, viewID string) (*types.Controller, error)
}

// Presenter materialises controllers
type Presenter interface {
	// Render draws the controller into the main stage
	Render(ctx context.Context, ctrl *types.Controller) (types.Rendered, error)
	// OpenWindow shows the controller in a new secondary window
	OpenWindow(ctx context.Context, ctrl *types.Controller) (Window, error)
}

// Window is an open secondary window
type Window interface {
	Close() error
}

// Container is any presentation node a subview may be embedded into
type Container interface {
	ID() string
}

// ItemList is a container that accepts appended items
type ItemList interface {
	Container
	AppendItem(item Item) error
}

// Alignment positions an item inside its list cell
type Alignment string

const (
	AlignCenter Alignment = "center"
)

// Item wraps a rendered subview for insertion into an ItemList
type Item struct {
	Alignment Alignment      `json:"alignment"`
	View      types.Rendered `json:"view"`
}
