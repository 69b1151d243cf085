// Package content loads the data the site renders: career events for the
// timeline, reels and embeds for the static pages, and photo listings.
package content

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adee/portfolio/internal/logging"
	"github.com/adee/portfolio/internal/timeline"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for event files that are neither YAML nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported events file format")

//go:embed data
var dataFS embed.FS

// dateFormats are tried in order when parsing event dates.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"01/02/2006",
	"1/2/2006",
	"Jan 2006",
	"January 2006",
}

// ParseDate parses an event date in any of the accepted layouts. Dates without
// a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", s)
}

// eventRecord is the on-disk shape of an event. Dates stay strings so that
// month-only values like "2023-09" are accepted.
type eventRecord struct {
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	StartDate   string `yaml:"start_date"`
	EndDate     string `yaml:"end_date"`
}

// toEvent converts a record. Unparsable dates are logged and left zero; the
// timeline engine then rejects and reports the event.
func (r eventRecord) toEvent() timeline.Event {
	log := logging.Component("content")
	parse := func(field, value string) time.Time {
		t, err := ParseDate(value)
		if err != nil {
			log.Warn().Err(err).Str("title", r.Title).Str("field", field).Msg("ignoring event date")
		}
		return t
	}
	return timeline.Event{
		Title:       strings.TrimSpace(r.Title),
		Category:    strings.TrimSpace(r.Category),
		Description: strings.TrimSpace(r.Description),
		Date:        parse("date", r.Date),
		StartDate:   parse("start_date", r.StartDate),
		EndDate:     parse("end_date", r.EndDate),
	}
}

// LoadEvents reads events from a .yaml, .yml or .csv file.
func LoadEvents(path string) ([]timeline.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening events file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeEventsYAML(f)
	case ".csv":
		return DecodeEventsCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// DefaultEvents returns the events embedded in the binary.
func DefaultEvents() ([]timeline.Event, error) {
	data, err := dataFS.ReadFile("data/events.yaml")
	if err != nil {
		return nil, err
	}
	return DecodeEventsYAML(bytes.NewReader(data))
}

// DecodeEventsYAML decodes a YAML list of events. The list may also sit under
// an "events" key.
func DecodeEventsYAML(r io.Reader) ([]timeline.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading events: %w", err)
	}

	var records []eventRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		var doc struct {
			Events []eventRecord `yaml:"events"`
		}
		if err2 := yaml.Unmarshal(data, &doc); err2 != nil {
			return nil, fmt.Errorf("error parsing events: %w", err)
		}
		records = doc.Events
	}

	events := make([]timeline.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, rec.toEvent())
	}
	return events, nil
}

// DecodeEventsCSV decodes events from CSV with a header row. Column names are
// matched case-insensitively; startDate and start_date are both accepted.
func DecodeEventsCSV(r io.Reader) ([]timeline.Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []timeline.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return EventsFromRows(rows), nil
}

// EventsFromRows converts header-keyed rows (from CSV or a spreadsheet) into events.
func EventsFromRows(rows []map[string]string) []timeline.Event {
	events := make([]timeline.Event, 0, len(rows))
	for _, row := range rows {
		norm := make(map[string]string, len(row))
		for k, v := range row {
			norm[normalizeColumn(k)] = v
		}
		if isBlank(norm) {
			continue
		}
		rec := eventRecord{
			Title:       norm["title"],
			Category:    norm["category"],
			Description: norm["description"],
			Date:        norm["date"],
			StartDate:   norm["startdate"],
			EndDate:     norm["enddate"],
		}
		events = append(events, rec.toEvent())
	}
	return events
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(name)
}

func isBlank(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
