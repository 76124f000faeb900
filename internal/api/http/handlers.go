package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/client/internal/domain/session"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/client/internal/presentation/web"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// Version of the client reported by the root route
const Version = "0.3.0"

// LinkStatus reports the state of the backend link
type LinkStatus interface {
	BreakerState() resilience.State
}

// Handlers contains all HTTP handlers
type Handlers struct {
	session   *session.Session
	presenter *web.Presenter
	catalog   *catalog.Manager
	metrics   *monitoring.Metrics
	link      LinkStatus
	startTime time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(sess *session.Session, presenter *web.Presenter, views *catalog.Manager) *Handlers {
	return &Handlers{
		session:   sess,
		presenter: presenter,
		catalog:   views,
		startTime: time.Now(),
	}
}

// WithMetrics adds the metrics snapshot to the health report
func (h *Handlers) WithMetrics(metrics *monitoring.Metrics) *Handlers {
	h.metrics = metrics
	return h
}

// WithLink adds the backend link state to the health report
func (h *Handlers) WithLink(link LinkStatus) *Handlers {
	h.link = link
	return h
}

// Root handles the root route
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "AgentOS Client",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	state := h.session.State()
	status := "healthy"
	if state.IsTerminal() {
		status = "terminated"
	}

	report := gin.H{
		"status":    status,
		"session":   state,
		"catalog":   h.catalog.Stats(),
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"transport": "disconnected",
	}
	if h.link != nil {
		report["transport"] = h.link.BreakerState().String()
	}
	if h.metrics != nil {
		report["metrics"] = h.metrics.GetSnapshot()
	}
	c.JSON(http.StatusOK, report)
}

// GetSession returns the session snapshot
func (h *Handlers) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// StartSession arms the idle watchdog
func (h *Handlers) StartSession(c *gin.Context) {
	if err := h.session.Start(); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// LoginRequest is the body of a login call
type LoginRequest struct {
	ID          string `json:"id"`
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
}

// Login authenticates the session
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &types.User{ID: req.ID, Username: req.Username, DisplayName: req.DisplayName}
	if err := h.session.Login(user); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// CloseSession finishes the session as if the main window closed
func (h *Handlers) CloseSession(c *gin.Context) {
	h.session.Finish()
	c.JSON(http.StatusOK, h.session.Snapshot())
}

// ListViews returns every registered view
func (h *Handlers) ListViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"views": h.catalog.List(),
		"stats": h.catalog.Stats(),
	})
}

// Navigate makes a view the primary view
func (h *Handlers) Navigate(c *gin.Context) {
	activate, err := strconv.ParseBool(c.DefaultQuery("activate", "true"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "activate must be a boolean"})
		return
	}

	if err := h.session.NavigateTo(c.Request.Context(), c.Param("id"), activate); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"primary": c.Param("id"),
		"stage":   h.presenter.Stage(),
	})
}

// OpenAuxiliary replaces the auxiliary window
func (h *Handlers) OpenAuxiliary(c *gin.Context) {
	if err := h.session.OpenAuxiliary(c.Request.Context(), c.Param("id")); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"auxiliary": c.Param("id"),
		"windows":   h.presenter.Snapshot().Windows,
	})
}

// CloseAuxiliary closes the auxiliary window if one is open
func (h *Handlers) CloseAuxiliary(c *gin.Context) {
	h.session.CloseAuxiliary()
	c.Status(http.StatusNoContent)
}

// EmbedSubview appends a subview to a declared item list
func (h *Handlers) EmbedSubview(c *gin.Context) {
	container, ok := h.presenter.Container(c.Param("container"))
	if !ok {
		abort(c, ErrContainerNotFound)
		return
	}

	rendered, err := h.session.EmbedSubview(c.Request.Context(), container, c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, rendered)
}

// Stage returns the presentation state
func (h *Handlers) Stage(c *gin.Context) {
	c.JSON(http.StatusOK, h.presenter.Snapshot())
}

// Register mounts every route on router
func (h *Handlers) Register(router gin.IRoutes) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	router.GET("/session", h.GetSession)
	router.POST("/session/start", h.StartSession)
	router.POST("/session/login", h.Login)
	router.POST("/session/close", h.CloseSession)

	router.GET("/views", h.ListViews)
	router.POST("/views/:id", h.Navigate)

	router.POST("/auxiliary/:id", h.OpenAuxiliary)
	router.DELETE("/auxiliary", h.CloseAuxiliary)

	router.POST("/containers/:container/subviews/:id", h.EmbedSubview)
	router.GET("/stage", h.Stage)
}
