package catalog

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/navigation"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

func TestManagerResolve(t *testing.T) {
	m := NewManager(nil)
	require.NoError(t, m.Register(types.ViewDescriptor{ID: "home", Title: "Home", Resource: "/views/home.html"}))

	ctrl, err := m.Resolve(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, "home", ctrl.View.ID)
	assert.Equal(t, "/views/home.html", ctrl.Resource)
	assert.True(t, strings.HasPrefix(ctrl.ID.String(), id.ControllerPrefix+"_"))
	assert.False(t, ctrl.ResolvedAt.IsZero())

	again, err := m.Resolve(context.Background(), "home")
	require.NoError(t, err)
	assert.NotEqual(t, ctrl.ID, again.ID, "each resolution yields a fresh controller")
}

func TestManagerResolveNotFound(t *testing.T) {
	m := NewManager(nil)

	_, err := m.Resolve(context.Background(), "missing")
	assert.ErrorIs(t, err, navigation.ErrViewNotFound)
}

func TestManagerResolveCancelled(t *testing.T) {
	m := NewManager(nil)
	require.NoError(t, m.Register(types.ViewDescriptor{ID: "home"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Resolve(ctx, "home")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManagerRegisterValidation(t *testing.T) {
	m := NewManager(nil)

	for _, desc := range []types.ViewDescriptor{
		{Title: "No id"},
		{ID: "friend card"},
		{ID: "../home"},
		{ID: "home", Tags: []string{""}},
	} {
		err := m.Register(desc)
		assert.ErrorIs(t, err, ErrInvalidDescriptor, desc.ID)
	}
	assert.Empty(t, m.List())
}

func TestManagerListAndStats(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m := NewManager(nil).WithMetrics(metrics)

	assert.Nil(t, m.Stats().LastUpdated)

	require.NoError(t, m.Register(types.ViewDescriptor{ID: "settings"}))
	require.NoError(t, m.Register(types.ViewDescriptor{ID: "friend-card", Subview: true}))
	require.NoError(t, m.Register(types.ViewDescriptor{ID: "home"}))
	require.NoError(t, m.Register(types.ViewDescriptor{ID: "home", Title: "Replaced"}))

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"friend-card", "home", "settings"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, "Replaced", list[1].Title)

	stats := m.Stats()
	assert.Equal(t, 3, stats.TotalViews)
	assert.Equal(t, 1, stats.SubviewViews)
	assert.NotNil(t, stats.LastUpdated)

	m.Remove("settings")
	m.Remove("settings")
	assert.Equal(t, 2, m.Stats().TotalViews)
	assert.Len(t, m.List(), 2)
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager(nil)
	ids := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			viewID := ids[i%len(ids)]
			_ = m.Register(types.ViewDescriptor{ID: viewID})
			_, _ = m.Resolve(context.Background(), viewID)
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.List(), len(ids))
	assert.Equal(t, len(ids), m.Stats().TotalViews)
}
