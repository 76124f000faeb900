package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/client/internal/domain/session"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/client/internal/presentation/web"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

const homeHTML = `<html><head><title>Home</title></head>
<body><ul data-list="friends"></ul><div data-pane="sidebar"></div></body></html>`

type harness struct {
	router    *gin.Engine
	session   *session.Session
	presenter *web.Presenter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	home := filepath.Join(dir, "home.html")
	require.NoError(t, os.WriteFile(home, []byte(homeHTML), 0o644))

	views := catalog.NewManager(nil)
	for _, desc := range []types.ViewDescriptor{
		{ID: types.ViewLogin, Title: "Login"},
		{ID: "home", Resource: home},
		{ID: "settings", Title: "Settings"},
		{ID: "friend_card", Title: "Friend", Subview: true},
		{ID: "broken", Resource: filepath.Join(dir, "missing.html")},
	} {
		require.NoError(t, views.Register(desc))
	}

	presenter := web.NewPresenter(nil, nil)
	sess := session.New(session.Dependencies{Catalog: views, Presenter: presenter}, nil)
	t.Cleanup(sess.Finish)

	router := gin.New()
	NewHandlers(sess, presenter, views).Register(router)
	return &harness{router: router, session: sess, presenter: presenter}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	h.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "unauthenticated", body["session"])
	assert.Equal(t, "disconnected", body["transport"])
	assert.NotContains(t, body, "metrics")
}

type stubLink struct{ state resilience.State }

func (l stubLink) BreakerState() resilience.State { return l.state }

func TestHealthReportsLinkAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	views := catalog.NewManager(nil)
	require.NoError(t, views.Register(types.ViewDescriptor{ID: types.ViewLogin, Title: "Login"}))
	presenter := web.NewPresenter(nil, nil)
	sess := session.New(session.Dependencies{Catalog: views, Presenter: presenter}, nil)
	t.Cleanup(sess.Finish)

	router := gin.New()
	NewHandlers(sess, presenter, views).
		WithMetrics(monitoring.NewMetrics()).
		WithLink(stubLink{state: resilience.StateOpen}).
		Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "open", body["transport"])
	metrics, ok := body["metrics"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, metrics, "total_requests")
}

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"unauthenticated"`)
	assert.Contains(t, w.Body.String(), `"primary":{`, "login view is primary")

	w = h.do(http.MethodPost, "/session/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"started":true`)

	w = h.do(http.MethodPost, "/session/login", `{"username":"ada","display_name":"Ada"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.StateAuthenticated, h.session.State())

	w = h.do(http.MethodPost, "/session/login", `{"username":"ada"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, "/session/close", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.StateTerminated, h.session.State())

	w = h.do(http.MethodPost, "/views/home", "")
	assert.Equal(t, http.StatusGone, w.Code)

	w = h.do(http.MethodGet, "/health", "")
	assert.Contains(t, w.Body.String(), `"status":"terminated"`)
}

func TestLoginRejectsMissingUsername(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/session/login", `{"display_name":"nobody"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, session.StateUnauthenticated, h.session.State())
}

func TestNavigate(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/views/home", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Home", h.presenter.Stage().Title)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "unknown view", path: "/views/nowhere", status: http.StatusNotFound},
		{name: "render failure", path: "/views/broken", status: http.StatusBadGateway},
		{name: "bad activate flag", path: "/views/settings?activate=maybe", status: http.StatusBadRequest},
		{name: "without activation", path: "/views/settings?activate=false", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuxiliaryWindow(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auxiliary/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, h.presenter.Snapshot().Windows, 1)

	w = h.do(http.MethodPost, "/auxiliary/home", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, h.presenter.Snapshot().Windows, 1, "opening a second window replaces the first")

	w = h.do(http.MethodDelete, "/auxiliary", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, h.presenter.Snapshot().Windows)

	w = h.do(http.MethodPost, "/auxiliary/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmbedSubview(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/views/home", "").Code)

	w := h.do(http.MethodPost, "/containers/friends/subviews/friend_card", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var rendered types.Rendered
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rendered))
	assert.Equal(t, "friend_card", rendered.ViewID)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "unknown container", path: "/containers/nowhere/subviews/friend_card", status: http.StatusNotFound},
		{name: "not a subview", path: "/containers/friends/subviews/home", status: http.StatusUnprocessableEntity},
		{name: "pane is not an item list", path: "/containers/sidebar/subviews/friend_card", status: http.StatusUnprocessableEntity},
		{name: "unknown view", path: "/containers/friends/subviews/nowhere", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w = h.do(http.MethodGet, "/stage", "")
	require.Equal(t, http.StatusOK, w.Code)

	var snap web.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Lists["friends"], 1)
	assert.Equal(t, []string{"sidebar"}, snap.Panes)
}

func TestListViews(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/views", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Views []types.ViewDescriptor `json:"views"`
		Stats types.CatalogStats     `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Views, 5)
	assert.Equal(t, 1, body.Stats.SubviewViews)
}
