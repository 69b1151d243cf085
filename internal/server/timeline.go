package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adee/portfolio/internal/metrics"
	"github.com/adee/portfolio/internal/session"
	"github.com/adee/portfolio/internal/timeline"
)

var errUnknownNode = errors.New("unknown timeline node")

func (s *Server) setupTimelineRoutes(r *gin.Engine) {
	r.GET("/api/timeline", s.handleTimelineJSON)

	r.GET("/timeline", s.handleTimelinePage)
	r.GET("/timeline.svg", s.handleTimelineSVG)
	r.GET("/timeline/view", s.handleTimelineView)
	r.POST("/timeline/filter", s.handleTimelineFilter)
	r.POST("/timeline/nodes/:index/:action", s.handleTimelineNode)
}

// visitorSession returns the session named by the visitor's cookie. A visitor
// without a live session only gets one, and the cookie, when create is set.
func (s *Server) visitorSession(c *gin.Context, create bool) *session.Session {
	id, _ := c.Cookie(s.cfg.Session.Cookie)
	if !create {
		if id == "" {
			return nil
		}
		sess, err := s.sessions.Get(id)
		if err != nil {
			return nil
		}
		return sess
	}

	sess, created := s.sessions.GetOrCreate(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(s.cfg.Session.Cookie, sess.ID, int(s.cfg.Session.IdleTTL.Seconds()), "/", "", false, true)
		metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	}
	return sess
}

// withView runs fn on the visitor's view. Reads from visitors without a
// session use a fresh view that is thrown away afterwards.
func (s *Server) withView(c *gin.Context, create bool, fn func(*timeline.View) error) error {
	sess := s.visitorSession(c, create)
	if sess == nil {
		return fn(s.newView())
	}
	return sess.Do(fn)
}

type timelineNode struct {
	Index              int
	Title              string
	Category           string
	Description        string
	DateLabel          string
	Side               string
	Top                float64
	HorizontalOffset   float64
	ZIndex             int
	DotColor           template.CSS
	Selected           bool
	Hovered            bool
	ContentVisible     bool
	DescriptionVisible bool
}

type timelineTick struct {
	Label     string
	Top       float64
	Height    float64
	Populated bool
	Count     int
}

// timelineModel is the template data of the timeline fragment.
type timelineModel struct {
	Nodes      []timelineNode
	Ticks      []timelineTick
	Height     float64
	Categories []string
	Filter     string
	Order      string
	Mode       string
	Minimal    bool
	Empty      bool
}

func buildTimelineModel(v *timeline.View) timelineModel {
	res := v.Layout()
	st := v.State()
	opts := v.Options()
	mode := opts.DisplayMode
	if mode == "" {
		mode = timeline.DisplayDefault
	}

	m := timelineModel{
		Height:     res.Height,
		Categories: v.Categories(),
		Filter:     v.FilterKey(),
		Order:      opts.Direction.String(),
		Mode:       string(mode),
		Minimal:    mode.Minimal(),
		Empty:      len(res.Placements) == 0,
		Nodes:      make([]timelineNode, 0, len(res.Placements)),
		Ticks:      make([]timelineTick, 0, len(res.Ticks)),
	}

	var top float64
	for i, t := range res.Ticks {
		m.Ticks = append(m.Ticks, timelineTick{
			Label:     t.Label(),
			Top:       top,
			Height:    t.Height,
			Populated: t.Populated,
			Count:     len(res.Bucket(i)),
		})
		top += t.Height
	}

	for _, p := range res.Placements {
		m.Nodes = append(m.Nodes, timelineNode{
			Index:              p.Index,
			Title:              p.Event.Title,
			Category:           p.Event.Category,
			Description:        p.Event.Description,
			DateLabel:          p.Event.Date.Format("Jan 2, 2006"),
			Side:               p.Side.String(),
			Top:                p.Top,
			HorizontalOffset:   p.HorizontalOffset,
			ZIndex:             st.ZIndex(p.Index),
			DotColor:           template.CSS(st.DotColor(p.Index).CSSVar()),
			Selected:           st.IsSelected(p.Index),
			Hovered:            st.IsHovered(p.Index),
			ContentVisible:     st.ContentVisible(p.Index, mode),
			DescriptionVisible: st.DescriptionVisible(p.Index),
		})
	}
	metrics.TimelineLayoutsTotal.Inc()
	return m
}

func (s *Server) handleTimelinePage(c *gin.Context) {
	var model timelineModel
	_ = s.withView(c, false, func(v *timeline.View) error {
		model = buildTimelineModel(v)
		return nil
	})
	s.render(c, http.StatusOK, "timeline.html", gin.H{
		"title":    s.strings.Timeline.Title,
		"timeline": model,
	})
}

func (s *Server) renderTimeline(c *gin.Context, model timelineModel) {
	s.render(c, http.StatusOK, "timeline-view.html", gin.H{"timeline": model})
}

func (s *Server) handleTimelineView(c *gin.Context) {
	var model timelineModel
	_ = s.withView(c, false, func(v *timeline.View) error {
		model = buildTimelineModel(v)
		return nil
	})
	s.renderTimeline(c, model)
}

// handleTimelineFilter applies the category filter and, when given, the order
// and display mode. Changing the category clears the selection.
func (s *Server) handleTimelineFilter(c *gin.Context) {
	category := strings.TrimSpace(c.PostForm("category"))

	var dir *timeline.Direction
	if order := c.PostForm("order"); order != "" {
		d, err := timeline.ParseDirection(order)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dir = &d
	}
	var mode timeline.DisplayMode
	if m := c.PostForm("mode"); m != "" {
		parsed, err := timeline.ParseDisplayMode(m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		mode = parsed
	}

	var model timelineModel
	_ = s.withView(c, true, func(v *timeline.View) error {
		v.SetFilter(strings.ToLower(category), timeline.ByCategory(category))
		opts := v.Options()
		if dir != nil {
			opts.Direction = *dir
		}
		if mode != "" {
			opts.DisplayMode = mode
		}
		v.SetOptions(opts)
		model = buildTimelineModel(v)
		return nil
	})
	s.renderTimeline(c, model)
}

// handleTimelineNode applies click, enter or leave to one node.
func (s *Server) handleTimelineNode(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid node index"})
		return
	}

	var apply func(*timeline.State, int)
	switch c.Param("action") {
	case "click":
		apply = (*timeline.State).Click
	case "enter":
		apply = (*timeline.State).Enter
	case "leave":
		apply = (*timeline.State).Leave
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown action"})
		return
	}

	var model timelineModel
	err = s.withView(c, true, func(v *timeline.View) error {
		if !v.Contains(index) {
			return errUnknownNode
		}
		apply(v.State(), index)
		model = buildTimelineModel(v)
		return nil
	})
	if errors.Is(err, errUnknownNode) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.renderTimeline(c, model)
}

// handleTimelineSVG exports the visitor's current timeline as SVG.
func (s *Server) handleTimelineSVG(c *gin.Context) {
	var svg string
	_ = s.withView(c, false, func(v *timeline.View) error {
		svg = timeline.RenderSVG(v.Layout(), v.State(), v.Options().DisplayMode, timeline.DefaultSVGOptions())
		return nil
	})
	if c.Query("download") != "" {
		c.Header("Content-Disposition", "attachment; filename=timeline.svg")
	}
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(svg))
}

// timelineResponse is the JSON shape of /api/timeline.
type timelineResponse struct {
	Order      string               `json:"order"`
	Mode       string               `json:"mode"`
	Category   string               `json:"category,omitempty"`
	Categories []string             `json:"categories"`
	Ticks      []timeline.MonthTick `json:"ticks"`
	Placements []timeline.Placement `json:"placements"`
	Height     float64              `json:"height"`
}

// handleTimelineJSON lays out the events without touching any session.
// Query: category, order (asc, desc), mode (default, minimal, minimal-left).
func (s *Server) handleTimelineJSON(c *gin.Context) {
	opts := s.cfg.LayoutOptions()
	opts.Diagnostics = s.diag

	if order := c.Query("order"); order != "" {
		d, err := timeline.ParseDirection(order)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opts.Direction = d
	}
	if m := c.Query("mode"); m != "" {
		mode, err := timeline.ParseDisplayMode(m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opts.DisplayMode = mode
	}

	category := strings.TrimSpace(c.Query("category"))
	res := timeline.Layout(timeline.ApplyFilter(s.events, timeline.ByCategory(category)), opts)
	metrics.TimelineLayoutsTotal.Inc()

	categories := timeline.Categories(s.events)
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, timelineResponse{
		Order:      opts.Direction.String(),
		Mode:       string(opts.DisplayMode),
		Category:   category,
		Categories: categories,
		Ticks:      res.Ticks,
		Placements: res.Placements,
		Height:     res.Height,
	})
}
