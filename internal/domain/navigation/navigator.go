package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// View pairs a descriptor with the controller resolved for it
type View struct {
	Descriptor types.ViewDescriptor `json:"descriptor"`
	Controller *types.Controller    `json:"controller"`
}

// Subview is one embedded view
type Subview struct {
	View
	ContainerID string         `json:"container_id"`
	Rendered    types.Rendered `json:"rendered"`
}

// Stats contains navigation counters
type Stats struct {
	PrimaryChanges  int  `json:"primary_changes"`
	AuxiliaryOpened int  `json:"auxiliary_opened"`
	AuxiliaryClosed int  `json:"auxiliary_closed"`
	Subviews        int  `json:"subviews"`
	AuxiliaryOpen   bool `json:"auxiliary_open"`
}

type auxiliary struct {
	view   View
	window Window
}

// Navigator owns the primary, auxiliary and subview slots
type Navigator struct {
	mu        sync.Mutex
	catalog   Catalog
	presenter Presenter
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	primary   *View      // Protected by mu
	auxiliary *auxiliary // Protected by mu
	subviews  []Subview  // Protected by mu
	stats     Stats      // Protected by mu
}

// NewNavigator creates a navigator; a nil logger discards output
func NewNavigator(catalog Catalog, presenter Presenter, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		catalog:   catalog,
		presenter: presenter,
		logger:    logger,
	}
}

// WithMetrics adds metrics tracking to the navigator
func (n *Navigator) WithMetrics(metrics *monitoring.Metrics) *Navigator {
	n.metrics = metrics
	return n
}

// SetPrimary makes viewID the primary view. Resolution failures leave the
// previous primary untouched. When activate is set the view is rendered after
// the new primary is committed; a render failure does not undo the commit.
func (n *Navigator) SetPrimary(ctx context.Context, viewID string, activate bool) (err error) {
	timer := monitoring.NewTimer(n.metrics, "set_primary")
	defer func() { timer.Stop(outcome(err)) }()

	ctrl, err := n.resolve(ctx, viewID)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.primary = &View{Descriptor: ctrl.View, Controller: ctrl}
	n.stats.PrimaryChanges++

	if !activate {
		return nil
	}

	if _, err := n.presenter.Render(ctx, ctrl); err != nil {
		n.logger.Warn("Failed to render primary view",
			zap.String("view_id", viewID),
			zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrRenderFailure, viewID, err)
	}
	return nil
}

// OpenAuxiliary replaces the auxiliary window with viewID. Any open window
// is closed first, whatever the outcome of the new one.
func (n *Navigator) OpenAuxiliary(ctx context.Context, viewID string) (err error) {
	timer := monitoring.NewTimer(n.metrics, "open_auxiliary")
	defer func() { timer.Stop(outcome(err)) }()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.closeAuxiliaryLocked()

	ctrl, err := n.resolve(ctx, viewID)
	if err != nil {
		return err
	}

	window, err := n.presenter.OpenWindow(ctx, ctrl)
	if err != nil {
		n.logger.Warn("Failed to open auxiliary window",
			zap.String("view_id", viewID),
			zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrRenderFailure, viewID, err)
	}

	n.auxiliary = &auxiliary{
		view:   View{Descriptor: ctrl.View, Controller: ctrl},
		window: window,
	}
	n.stats.AuxiliaryOpened++
	return nil
}

// CloseAuxiliary closes the auxiliary window if one is open
func (n *Navigator) CloseAuxiliary() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closeAuxiliaryLocked()
}

func (n *Navigator) closeAuxiliaryLocked() {
	if n.auxiliary == nil {
		return
	}

	aux := n.auxiliary
	n.auxiliary = nil
	n.stats.AuxiliaryClosed++

	if err := aux.window.Close(); err != nil {
		n.logger.Warn("Failed to close auxiliary window",
			zap.String("view_id", aux.view.Descriptor.ID),
			zap.Error(err))
	}
}

// EmbedSubview renders viewID and appends it to container, wrapped in a
// centered item. The returned handle is the inner rendered view.
func (n *Navigator) EmbedSubview(ctx context.Context, container Container, viewID string) (rendered types.Rendered, err error) {
	timer := monitoring.NewTimer(n.metrics, "embed_subview")
	defer func() { timer.Stop(outcome(err)) }()

	ctrl, err := n.resolve(ctx, viewID)
	if err != nil {
		return types.Rendered{}, err
	}
	if !ctrl.View.Subview {
		return types.Rendered{}, fmt.Errorf("%w: %s", ErrNotASubview, viewID)
	}

	list, ok := container.(ItemList)
	if !ok {
		return types.Rendered{}, fmt.Errorf("%w: %T", ErrUnsupportedContainer, container)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	rendered, err = n.presenter.Render(ctx, ctrl)
	if err != nil {
		return types.Rendered{}, fmt.Errorf("%w: %s: %v", ErrRenderFailure, viewID, err)
	}

	if err := list.AppendItem(Item{Alignment: AlignCenter, View: rendered}); err != nil {
		return types.Rendered{}, fmt.Errorf("%w: append to %s: %v", ErrRenderFailure, list.ID(), err)
	}

	n.subviews = append(n.subviews, Subview{
		View:        View{Descriptor: ctrl.View, Controller: ctrl},
		ContainerID: list.ID(),
		Rendered:    rendered,
	})
	return rendered, nil
}

// Release closes the auxiliary window and forgets all subviews. The primary
// slot is kept.
func (n *Navigator) Release() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closeAuxiliaryLocked()
	n.subviews = nil
}

// Primary returns the current primary view
func (n *Navigator) Primary() (View, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.primary == nil {
		return View{}, false
	}
	return *n.primary, true
}

// Auxiliary returns the open auxiliary view
func (n *Navigator) Auxiliary() (View, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.auxiliary == nil {
		return View{}, false
	}
	return n.auxiliary.view, true
}

// Subviews returns a copy of the subview sequence
func (n *Navigator) Subviews() []Subview {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Subview, len(n.subviews))
	copy(out, n.subviews)
	return out
}

// Stats returns navigation counters
func (n *Navigator) Stats() Stats {
	n.mu.Lock()
	defer n.mu.Unlock()

	stats := n.stats
	stats.Subviews = len(n.subviews)
	stats.AuxiliaryOpen = n.auxiliary != nil
	return stats
}

func (n *Navigator) resolve(ctx context.Context, viewID string) (*types.Controller, error) {
	ctrl, err := n.catalog.Resolve(ctx, viewID)
	if err != nil {
		if !errors.Is(err, ErrViewNotFound) {
			err = fmt.Errorf("%w: %s: %v", ErrViewNotFound, viewID, err)
		}
		n.logger.Warn("View not found", zap.String("view_id", viewID), zap.Error(err))
		return nil, err
	}
	return ctrl, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrViewNotFound):
		return "not_found"
	case errors.Is(err, ErrRenderFailure):
		return "render_failure"
	default:
		return "rejected"
	}
}
