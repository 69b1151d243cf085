package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adee/portfolio/internal/timeline"
)

const (
	defaultSheetsBaseURL = "https://sheets.googleapis.com/v4"
	defaultDriveBaseURL  = "https://www.googleapis.com/drive/v3"
	defaultGoogleTimeout = 10 * time.Second
)

// imageMimeTypes are the Drive files shown in the photo gallery.
var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// googleClient is the plumbing shared by the Sheets and Drive clients.
type googleClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newGoogleClient(baseURL, apiKey string) googleClient {
	return googleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultGoogleTimeout,
		},
	}
}

func (c googleClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call google api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("google api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode google api response: %w", err)
	}
	return nil
}

// SheetsClient reads spreadsheet ranges with an API key.
type SheetsClient struct {
	googleClient
}

// NewSheetsClient creates a client against the public Sheets API.
func NewSheetsClient(apiKey string) *SheetsClient {
	return NewSheetsClientWithBaseURL(defaultSheetsBaseURL, apiKey)
}

// NewSheetsClientWithBaseURL creates a client against another endpoint, mainly for tests.
func NewSheetsClientWithBaseURL(baseURL, apiKey string) *SheetsClient {
	return &SheetsClient{newGoogleClient(baseURL, apiKey)}
}

// FetchSheet returns the rows of a range keyed by the first row's headers.
// Cells missing at the end of a row come back as empty strings.
func (c *SheetsClient) FetchSheet(ctx context.Context, sheetID, rng string) ([]map[string]string, error) {
	if rng == "" {
		rng = "Sheet1!A:Z"
	}
	var data struct {
		Values [][]string `json:"values"`
	}
	path := "/spreadsheets/" + url.PathEscape(sheetID) + "/values/" + url.PathEscape(rng)
	if err := c.getJSON(ctx, path, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch sheet %s: %w", sheetID, err)
	}
	if len(data.Values) == 0 {
		return []map[string]string{}, nil
	}

	header := data.Values[0]
	rows := make([]map[string]string, 0, len(data.Values)-1)
	for _, values := range data.Values[1:] {
		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(values) {
				row[key] = values[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FetchEvents reads a sheet and converts its rows into timeline events.
func (c *SheetsClient) FetchEvents(ctx context.Context, sheetID, rng string) ([]timeline.Event, error) {
	rows, err := c.FetchSheet(ctx, sheetID, rng)
	if err != nil {
		return nil, err
	}
	return EventsFromRows(rows), nil
}

// DriveFile is the subset of Drive file metadata the gallery uses.
type DriveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// DriveClient lists images in a shared Drive folder.
type DriveClient struct {
	googleClient
}

// NewDriveClient creates a client against the public Drive API.
func NewDriveClient(apiKey string) *DriveClient {
	return NewDriveClientWithBaseURL(defaultDriveBaseURL, apiKey)
}

// NewDriveClientWithBaseURL creates a client against another endpoint, mainly for tests.
func NewDriveClientWithBaseURL(baseURL, apiKey string) *DriveClient {
	return &DriveClient{newGoogleClient(baseURL, apiKey)}
}

// driveQuoteEscaper escapes a value for a single-quoted Drive query string.
var driveQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// ListImages returns thumbnail URLs for the JPEG and PNG files in a folder.
func (c *DriveClient) ListImages(ctx context.Context, folderID string) ([]string, error) {
	var data struct {
		Files []DriveFile `json:"files"`
	}
	query := url.Values{}
	query.Set("q", fmt.Sprintf("'%s' in parents", driveQuoteEscaper.Replace(folderID)))
	query.Set("fields", "files(id,name,mimeType,webContentLink)")
	if err := c.getJSON(ctx, "/files", query, &data); err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", folderID, err)
	}

	urls := make([]string, 0, len(data.Files))
	for _, f := range data.Files {
		if imageMimeTypes[f.MimeType] {
			urls = append(urls, ThumbnailURL(f.ID))
		}
	}
	return urls, nil
}

// StreamURL is the direct media URL of a Drive file.
func (c *DriveClient) StreamURL(fileID string) string {
	return fmt.Sprintf("%s/files/%s?alt=media&key=%s", c.baseURL, url.PathEscape(fileID), url.QueryEscape(c.apiKey))
}

// ThumbnailURL is the 1000px-wide thumbnail of a Drive file.
func ThumbnailURL(fileID string) string {
	return "https://drive.google.com/thumbnail?id=" + url.QueryEscape(fileID) + "&sz=w1000"
}
