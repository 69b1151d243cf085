package content

import (
	"fmt"
	"os"

	"github.com/adee/portfolio/internal/slideshow"
	"gopkg.in/yaml.v3"
)

// ReelGroup is one titled carousel on the reels page.
type ReelGroup struct {
	Title   string            `yaml:"title"`
	Entries []slideshow.Entry `yaml:"entries"`
}

// Embeds are the third-party pages shown in frames.
type Embeds struct {
	Resume      string `yaml:"resume"`
	Calendar    string `yaml:"calendar"`
	ContactForm string `yaml:"contact_form"`
}

// Site is the editable content of the static pages.
type Site struct {
	Name     string      `yaml:"name"`
	Headshot string      `yaml:"headshot"`
	Reels    []ReelGroup `yaml:"reels"`
	Embeds   Embeds      `yaml:"embeds"`
}

// DefaultSite returns the site content embedded in the binary.
func DefaultSite() (*Site, error) {
	data, err := dataFS.ReadFile("data/site.yaml")
	if err != nil {
		return nil, err
	}
	return parseSite(data)
}

// LoadSite reads site content from path. Fields missing from the file keep
// their embedded defaults.
func LoadSite(path string) (*Site, error) {
	site, err := DefaultSite()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading site content: %w", err)
	}
	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("error parsing site content: %w", err)
	}
	return site, nil
}

func parseSite(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("error parsing site content: %w", err)
	}
	return &site, nil
}

// Reel returns the named reel group.
func (s *Site) Reel(title string) (ReelGroup, bool) {
	for _, g := range s.Reels {
		if g.Title == title {
			return g, true
		}
	}
	return ReelGroup{}, false
}
