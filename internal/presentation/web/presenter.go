package web

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/navigation"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// WindowStyleUtility marks secondary tool windows
const WindowStyleUtility = "utility"

// Stage is the main window
type Stage struct {
	Title     string          `json:"title"`
	Resizable bool            `json:"resizable"`
	Current   *types.Rendered `json:"current,omitempty"`
}

// Snapshot is the presentation state served to the control API
type Snapshot struct {
	Stage   Stage                        `json:"stage"`
	Windows []WindowSnapshot             `json:"windows"`
	Lists   map[string][]navigation.Item `json:"lists"`
	Panes   []string                     `json:"panes"`
}

// Presenter renders controllers into a stage, windows and item lists
type Presenter struct {
	loader *Loader
	policy *bluemonday.Policy
	logger *zap.Logger

	mu      sync.RWMutex
	stage   Stage
	windows map[id.WindowID]*Window
	lists   map[string]*ItemList
	panes   map[string]*Pane
}

var _ navigation.Presenter = (*Presenter)(nil)

// NewPresenter creates a presenter; a nil loader uses NewLoader
func NewPresenter(loader *Loader, logger *zap.Logger) *Presenter {
	if loader == nil {
		loader = NewLoader()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowDataAttributes()

	return &Presenter{
		loader:  loader,
		policy:  policy,
		logger:  logger,
		windows: make(map[id.WindowID]*Window),
		lists:   make(map[string]*ItemList),
		panes:   make(map[string]*Pane),
	}
}

// Render materialises ctrl. Non-subview controllers become the stage's
// current view, taking its title and resizable flag.
func (p *Presenter) Render(ctx context.Context, ctrl *types.Controller) (types.Rendered, error) {
	rendered, err := p.render(ctx, ctrl)
	if err != nil {
		return types.Rendered{}, err
	}

	if !ctrl.View.Subview {
		p.mu.Lock()
		p.stage = Stage{Title: rendered.Title, Resizable: ctrl.View.Resizable, Current: &rendered}
		p.mu.Unlock()
	}
	return rendered, nil
}

// OpenWindow renders ctrl into a new utility window
func (p *Presenter) OpenWindow(ctx context.Context, ctrl *types.Controller) (navigation.Window, error) {
	rendered, err := p.render(ctx, ctrl)
	if err != nil {
		return nil, err
	}

	w := &Window{
		id:        id.NewWindowID(),
		title:     rendered.Title,
		resizable: ctrl.View.Resizable,
		style:     WindowStyleUtility,
		rendered:  rendered,
		presenter: p,
	}

	p.mu.Lock()
	p.windows[w.id] = w
	p.mu.Unlock()

	p.logger.Debug("Window opened", zap.String("window_id", w.id.String()), zap.String("view_id", ctrl.View.ID))
	return w, nil
}

func (p *Presenter) render(ctx context.Context, ctrl *types.Controller) (types.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return types.Rendered{}, err
	}

	rendered := types.Rendered{
		ID:     uuid.NewString(),
		ViewID: ctrl.View.ID,
		Title:  ctrl.View.Title,
		Meta:   map[string]any{"controller_id": ctrl.ID.String()},
	}
	if ctrl.Resource == "" {
		return rendered, nil
	}

	res, err := p.loader.Load(ctrl.Resource)
	if err != nil {
		return types.Rendered{}, err
	}
	rendered.Meta["mime"] = res.MIME
	rendered.Meta["charset"] = res.Charset

	if !res.IsHTML() {
		rendered.Content = html.EscapeString(string(res.Data))
		return rendered, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(res.Data)))
	if err != nil {
		return types.Rendered{}, fmt.Errorf("failed to parse %s: %w", ctrl.Resource, err)
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" && rendered.Title == "" {
		rendered.Title = title
	}
	p.declareContainers(doc)

	body, err := doc.Find("body").Html()
	if err != nil {
		return types.Rendered{}, fmt.Errorf("failed to serialise %s: %w", ctrl.Resource, err)
	}
	rendered.Content = strings.TrimSpace(p.policy.Sanitize(body))
	return rendered, nil
}

func (p *Presenter) declareContainers(doc *goquery.Document) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc.Find("[data-list]").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.AttrOr("data-list", ""))
		if _, ok := p.lists[name]; name != "" && !ok {
			p.lists[name] = &ItemList{id: name}
		}
	})
	doc.Find("[data-pane]").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.AttrOr("data-pane", ""))
		if _, ok := p.panes[name]; name != "" && !ok {
			p.panes[name] = &Pane{id: name}
		}
	})
}

// DeclareList registers an item list container
func (p *Presenter) DeclareList(name string) *ItemList {
	p.mu.Lock()
	defer p.mu.Unlock()

	if l, ok := p.lists[name]; ok {
		return l
	}
	l := &ItemList{id: name}
	p.lists[name] = l
	return l
}

// Container looks up a declared container by name
func (p *Presenter) Container(name string) (navigation.Container, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if l, ok := p.lists[name]; ok {
		return l, true
	}
	if pane, ok := p.panes[name]; ok {
		return pane, true
	}
	return nil, false
}

// Stage returns the main window state
func (p *Presenter) Stage() Stage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stage
}

// Snapshot returns the full presentation state
func (p *Presenter) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := Snapshot{
		Stage:   p.stage,
		Windows: make([]WindowSnapshot, 0, len(p.windows)),
		Lists:   make(map[string][]navigation.Item, len(p.lists)),
		Panes:   make([]string, 0, len(p.panes)),
	}
	for _, w := range p.windows {
		snap.Windows = append(snap.Windows, w.snapshot())
	}
	sort.Slice(snap.Windows, func(i, j int) bool { return snap.Windows[i].ID < snap.Windows[j].ID })

	for name, l := range p.lists {
		snap.Lists[name] = l.Items()
	}
	for name := range p.panes {
		snap.Panes = append(snap.Panes, name)
	}
	sort.Strings(snap.Panes)
	return snap
}

func (p *Presenter) removeWindow(wid id.WindowID) {
	p.mu.Lock()
	delete(p.windows, wid)
	p.mu.Unlock()
}
