// Package assets downloads the template images placed in etc/.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnexpectedType is returned when a download is not the image it claims to be.
var ErrUnexpectedType = errors.New("unexpected content type")

// TemplateBaseURL hosts the template images.
const TemplateBaseURL = "https://raw.githubusercontent.com/refcell/amble/main/etc/template"

// maxAssetSize caps a single download.
const maxAssetSize = 8 << 20

// Asset is one file written to etc/.
type Asset struct {
	Name string
	// MIME is the content type the download must sniff as.
	MIME string
}

// Templates are the assets, in the order they are written.
var Templates = []Asset{
	{Name: "banner.png", MIME: "image/png"},
	{Name: "logo.png", MIME: "image/png"},
	{Name: "favicon.ico", MIME: "image/x-icon"},
}

// Fetcher downloads an asset.
type Fetcher interface {
	Fetch(ctx context.Context, a Asset) ([]byte, error)
}

// HTTPFetcher downloads assets from BaseURL/<name> and verifies their type.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher creates a fetcher for the template images.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: TemplateBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// URL returns where a is downloaded from.
func (f *HTTPFetcher) URL(a Asset) string {
	return f.BaseURL + "/" + a.Name
}

func (f *HTTPFetcher) Fetch(ctx context.Context, a Asset) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(a), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", a.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download %s: %s", a.Name, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", a.Name, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("failed to download %s: larger than %d bytes", a.Name, maxAssetSize)
	}

	if err := Verify(a, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Verify checks that data sniffs as a's content type.
func Verify(a Asset, data []byte) error {
	got := mimetype.Detect(data)
	if !got.Is(a.MIME) {
		return fmt.Errorf("%w: %s is %s, want %s", ErrUnexpectedType, a.Name, got.String(), a.MIME)
	}
	return nil
}
