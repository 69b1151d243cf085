// Package locale holds the UI strings. A locale is chosen once at startup and
// never changes afterwards.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
)

// Default is used when a requested locale is not available.
const Default = "en-US"

//go:embed locales/*.json
var localesFS embed.FS

type Nav struct {
	Home     string `json:"home"`
	Music    string `json:"music"`
	Reels    string `json:"reels"`
	Photos   string `json:"photos"`
	Resume   string `json:"resume"`
	Events   string `json:"events"`
	Timeline string `json:"timeline"`
	Contact  string `json:"contact"`
}

type Timeline struct {
	Title         string `json:"title"`
	AllCategories string `json:"all_categories"`
	Order         string `json:"order"`
	NewestFirst   string `json:"newest_first"`
	OldestFirst   string `json:"oldest_first"`
	Display       string `json:"display"`
	Empty         string `json:"empty"`
	DownloadSVG   string `json:"download_svg"`
}

type Slideshow struct {
	Previous string `json:"previous"`
	Next     string `json:"next"`
	Empty    string `json:"empty"`
	Loading  string `json:"loading"`
}

type Music struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Contact struct {
	Title         string `json:"title"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Message       string `json:"message"`
	Send          string `json:"send"`
	Success       string `json:"success"`
	Error         string `json:"error"`
	MissingFields string `json:"missing_fields"`
}

type Privacy struct {
	Title string `json:"title"`
}

type Errors struct {
	NotFound string `json:"not_found"`
	Internal string `json:"internal"`
}

// Strings is the full set of UI strings for one locale.
type Strings struct {
	Tag       string    `json:"-"`
	SiteTitle string    `json:"site_title"`
	Nav       Nav       `json:"nav"`
	Timeline  Timeline  `json:"timeline"`
	Slideshow Slideshow `json:"slideshow"`
	Music     Music     `json:"music"`
	Contact   Contact   `json:"contact"`
	Privacy   Privacy   `json:"privacy"`
	Errors    Errors    `json:"errors"`
}

// Available lists the bundled locale tags.
func Available() []string {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil
	}
	tags := make([]string, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(tags)
	return tags
}

// Load returns the strings for tag. Tags are matched case-insensitively and
// unknown tags fall back to Default. The returned value is a fresh copy.
func Load(tag string) (*Strings, error) {
	resolved := Default
	for _, t := range Available() {
		if strings.EqualFold(t, tag) {
			resolved = t
			break
		}
	}

	data, err := localesFS.ReadFile("locales/" + resolved + ".json")
	if err != nil {
		return nil, fmt.Errorf("error reading locale %s: %w", resolved, err)
	}
	var s Strings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("error parsing locale %s: %w", resolved, err)
	}
	s.Tag = resolved
	return &s, nil
}

// MustLoad is Load for startup code that cannot continue without strings.
func MustLoad(tag string) *Strings {
	s, err := Load(tag)
	if err != nil {
		panic(err)
	}
	return s
}
