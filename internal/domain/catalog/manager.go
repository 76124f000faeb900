package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/navigation"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/utils"
)

// Manager holds registered view descriptors
type Manager struct {
	views       sync.Map // id -> types.ViewDescriptor
	count       int64    // Atomic
	lastUpdated atomic.Pointer[time.Time]
	logger      *zap.Logger
	metrics     *monitoring.Metrics
}

var _ navigation.Catalog = (*Manager)(nil)

// NewManager creates an empty catalog
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Register adds or replaces a view descriptor
func (m *Manager) Register(desc types.ViewDescriptor) error {
	if err := validateDescriptor(desc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	if _, existed := m.views.Swap(desc.ID, desc); !existed {
		atomic.AddInt64(&m.count, 1)
	}
	m.touch()
	return nil
}

// Remove deletes a view descriptor; unknown ids are ignored
func (m *Manager) Remove(viewID string) {
	if _, existed := m.views.LoadAndDelete(viewID); existed {
		atomic.AddInt64(&m.count, -1)
		m.touch()
	}
}

// Get returns the descriptor for viewID
func (m *Manager) Get(viewID string) (types.ViewDescriptor, bool) {
	v, ok := m.views.Load(viewID)
	if !ok {
		return types.ViewDescriptor{}, false
	}
	return v.(types.ViewDescriptor), true
}

// Resolve produces a fresh controller bound to the view's resource
func (m *Manager) Resolve(ctx context.Context, viewID string) (*types.Controller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	desc, ok := m.Get(viewID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", navigation.ErrViewNotFound, viewID)
	}

	return &types.Controller{
		ID:         id.NewControllerID(),
		View:       desc,
		Resource:   desc.Resource,
		ResolvedAt: time.Now(),
	}, nil
}

// List returns all descriptors ordered by id
func (m *Manager) List() []types.ViewDescriptor {
	views := make([]types.ViewDescriptor, 0, atomic.LoadInt64(&m.count))
	m.views.Range(func(_, value any) bool {
		views = append(views, value.(types.ViewDescriptor))
		return true
	})

	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// Stats returns catalog statistics
func (m *Manager) Stats() types.CatalogStats {
	var stats types.CatalogStats
	m.views.Range(func(_, value any) bool {
		stats.TotalViews++
		if value.(types.ViewDescriptor).Subview {
			stats.SubviewViews++
		}
		return true
	})
	stats.LastUpdated = m.lastUpdated.Load()
	return stats
}

func (m *Manager) touch() {
	now := time.Now()
	m.lastUpdated.Store(&now)
	if m.metrics != nil {
		m.metrics.SetCatalogViews(int(atomic.LoadInt64(&m.count)))
	}
}

func validateDescriptor(desc types.ViewDescriptor) error {
	if err := utils.ValidateID(desc.ID, "id", true); err != nil {
		return err
	}
	if err := utils.ValidateTitle(desc.Title, "title"); err != nil {
		return err
	}
	return utils.ValidateTags(desc.Tags)
}
