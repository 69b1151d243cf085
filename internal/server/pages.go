package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/adee/portfolio/internal/scene"
	"github.com/adee/portfolio/internal/slideshow"
)

const (
	photoCacheTTL   = 10 * time.Minute
	maxSceneFrames  = 600
	maxSceneNotes   = 200
	defaultSceneFPS = 60
)

var templateFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"join":  strings.Join,
	"f1": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	// dict builds a map from alternating keys and values for sub-templates.
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict needs an even number of arguments, got %d", len(kv))
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", kv[i])
			}
			m[key] = kv[i+1]
		}
		return m, nil
	},
}

func (s *Server) setupPageRoutes(r *gin.Engine) {
	r.GET("/", s.handleHome)
	r.GET("/music", s.page("music.html", s.strings.Music.Title))
	r.GET("/resume", s.page("resume.html", s.strings.Nav.Resume))
	r.GET("/events", s.page("events.html", s.strings.Nav.Events))
	r.GET("/privacy", s.page("privacy.html", s.strings.Privacy.Title))

	r.GET("/reels", s.handleReels)
	r.GET("/reels/:group/slides/:index", s.handleReelSlide)
	r.GET("/photos", s.handlePhotos)
	r.GET("/photos/slides/:index", s.handlePhotoSlide)

	r.GET("/api/scene", s.handleScene)
}

func (s *Server) page(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, name, gin.H{"title": title})
	}
}

func (s *Server) handleHome(c *gin.Context) {
	s.render(c, http.StatusOK, "index.html", gin.H{
		"title":    s.site.Name,
		"greeting": Greeting,
		"aboutMe":  AboutMe,
	})
}

// slideView is what the slideshow fragment renders.
type slideView struct {
	ID      string
	BaseURL string
	Entry   slideshow.Entry
	Alt     string
	Index   int
	Prev    int
	Next    int
	Count   int
	Dots    []int
}

func newSlideView(id, baseURL string, show *slideshow.Show) slideView {
	entry, _ := show.Current()
	dots := make([]int, show.Len())
	for i := range dots {
		dots[i] = i
	}
	return slideView{
		ID:      id,
		BaseURL: baseURL,
		Entry:   entry,
		Alt:     entry.Alt(show.Index()),
		Index:   show.Index(),
		Prev:    show.PrevIndex(),
		Next:    show.NextIndex(),
		Count:   show.Len(),
		Dots:    dots,
	}
}

func (s *Server) handleReels(c *gin.Context) {
	type group struct {
		Title string
		Slide slideView
	}
	groups := make([]group, 0, len(s.site.Reels))
	for i, g := range s.site.Reels {
		base := fmt.Sprintf("/reels/%d/slides", i)
		groups = append(groups, group{
			Title: g.Title,
			Slide: newSlideView(fmt.Sprintf("reel-%d", i), base, slideshow.New(g.Entries)),
		})
	}
	s.render(c, http.StatusOK, "reels.html", gin.H{
		"title":  s.strings.Nav.Reels,
		"groups": groups,
	})
}

func (s *Server) handleReelSlide(c *gin.Context) {
	gi, err := strconv.Atoi(c.Param("group"))
	if err != nil || gi < 0 || gi >= len(s.site.Reels) {
		c.Status(http.StatusNotFound)
		return
	}
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	show := slideshow.At(s.site.Reels[gi].Entries, i)
	base := fmt.Sprintf("/reels/%d/slides", gi)
	s.render(c, http.StatusOK, "slideshow.html", gin.H{
		"slide": newSlideView(fmt.Sprintf("reel-%d", gi), base, show),
	})
}

func (s *Server) photoEntries(ctx context.Context) ([]slideshow.Entry, error) {
	if s.photos == nil {
		return nil, nil
	}
	urls, err := s.photos.Get(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]slideshow.Entry, 0, len(urls))
	for _, u := range urls {
		entries = append(entries, slideshow.Entry{Kind: slideshow.KindImage, Src: u})
	}
	return entries, nil
}

func (s *Server) handlePhotos(c *gin.Context) {
	data := gin.H{"title": s.strings.Nav.Photos}
	entries, err := s.photoEntries(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("error loading photos")
		data["error"] = s.strings.Errors.Internal
	} else if len(entries) > 0 {
		data["slide"] = newSlideView("photos", "/photos/slides", slideshow.New(entries))
	}
	s.render(c, http.StatusOK, "photos.html", data)
}

func (s *Server) handlePhotoSlide(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	entries, err := s.photoEntries(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("error loading photos")
		c.Status(http.StatusBadGateway)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	s.render(c, http.StatusOK, "slideshow.html", gin.H{
		"slide": newSlideView("photos", "/photos/slides", slideshow.At(entries, i)),
	})
}

// handleScene simulates the background scene and returns its frames.
// Query: kind (notes, orbit), frames, notes, seed, w, h.
func (s *Server) handleScene(c *gin.Context) {
	frames := queryInt(c, "frames", 1, 0, maxSceneFrames)
	opts := scene.Options{
		Count:    queryInt(c, "notes", 24, 1, maxSceneNotes),
		Seed:     uint64(queryInt(c, "seed", int(s.clock.Now().UnixNano()&0x7fffffff), 0, 1<<31-1)),
		Viewport: scene.NewViewport(1, 1, queryInt(c, "w", 1280, 1, 8192), queryInt(c, "h", 720, 1, 8192)),
	}

	sc, err := scene.New(c.Query("kind"), opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fps":    defaultSceneFPS,
		"frames": scene.Simulate(sc, frames, 1.0/defaultSceneFPS),
	})
}

// queryInt reads an integer query parameter, clamped to [lo, hi].
func queryInt(c *gin.Context, key string, def, lo, hi int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return min(max(v, lo), hi)
}

// photoCache remembers a folder listing for a while so page views do not each
// call the Drive API.
type photoCache struct {
	lister PhotoLister
	folder string
	clock  clockwork.Clock
	ttl    time.Duration

	mu      sync.Mutex
	urls    []string
	fetched time.Time
}

func newPhotoCache(lister PhotoLister, folder string, clock clockwork.Clock, ttl time.Duration) *photoCache {
	return &photoCache{lister: lister, folder: folder, clock: clock, ttl: ttl}
}

func (p *photoCache) Get(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.urls != nil && p.clock.Since(p.fetched) < p.ttl {
		return p.urls, nil
	}
	urls, err := p.lister.ListImages(ctx, p.folder)
	if err != nil {
		if p.urls != nil {
			// Serve the stale listing rather than nothing.
			return p.urls, nil
		}
		return nil, err
	}
	p.urls = urls
	p.fetched = p.clock.Now()
	return urls, nil
}
