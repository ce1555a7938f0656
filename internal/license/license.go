// Package license fetches license texts from the SPDX license list and fills
// in their placeholders.
package license

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned for identifiers SPDX does not know, or whose
// record carries no text.
var ErrNotFound = errors.New("license not found")

// Source looks up the full text of a license by SPDX identifier.
type Source interface {
	Text(ctx context.Context, id string) (string, error)
}

// DefaultSPDXURL hosts the machine readable SPDX license list.
const DefaultSPDXURL = "https://spdx.org/licenses"

// SPDX reads license texts from the SPDX JSON API. Identifiers are matched
// case-insensitively against licenses.json before the detail record is fetched.
type SPDX struct {
	BaseURL string
	Client  *http.Client

	once  sync.Once
	ids   map[string]string
	idErr error
}

// NewSPDX creates a client for the public SPDX list.
func NewSPDX() *SPDX {
	return &SPDX{
		BaseURL: DefaultSPDXURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type licenseList struct {
	Licenses []struct {
		LicenseID string `json:"licenseId"`
	} `json:"licenses"`
}

type licenseDetail struct {
	LicenseID   string `json:"licenseId"`
	LicenseText string `json:"licenseText"`
}

// Text returns the license text for id.
func (s *SPDX) Text(ctx context.Context, id string) (string, error) {
	canonical, err := s.canonical(ctx, id)
	if err != nil {
		return "", err
	}

	var detail licenseDetail
	if err := s.get(ctx, "/"+canonical+".json", &detail); err != nil {
		return "", err
	}
	if strings.TrimSpace(detail.LicenseText) == "" {
		return "", fmt.Errorf("%w: %s has no license text", ErrNotFound, canonical)
	}
	return detail.LicenseText, nil
}

func (s *SPDX) canonical(ctx context.Context, id string) (string, error) {
	s.once.Do(func() {
		var list licenseList
		if err := s.get(ctx, "/licenses.json", &list); err != nil {
			s.idErr = err
			return
		}
		s.ids = make(map[string]string, len(list.Licenses))
		for _, l := range list.Licenses {
			s.ids[strings.ToLower(l.LicenseID)] = l.LicenseID
		}
	})
	if s.idErr != nil {
		return "", s.idErr
	}

	canonical, ok := s.ids[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return "", fmt.Errorf("%w: %q is not in the SPDX license list", ErrNotFound, id)
	}
	return canonical, nil
}

func (s *SPDX) get(ctx context.Context, path string, into any) error {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(s.BaseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query SPDX: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("SPDX returned %s for %s", resp.Status, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("failed to decode SPDX response %s: %w", path, err)
	}
	return nil
}

// Static serves texts from memory. Keys are matched case-insensitively.
type Static map[string]string

func (s Static) Text(_ context.Context, id string) (string, error) {
	for k, v := range s {
		if strings.EqualFold(k, id) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

// MIT is the bundled fallback text.
const MIT = `MIT License

Copyright (c) [year] [fullname]

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

var (
	yearPattern   = regexp.MustCompile(`(?i)<year>|\[year\]`)
	holderPattern = regexp.MustCompile(`(?i)<fullname>|\[fullname\]|<copyright holders>`)
)

// Impute replaces year and copyright holder placeholders in text.
func Impute(text string, year int, holder string) string {
	text = yearPattern.ReplaceAllLiteralString(text, strconv.Itoa(year))
	return holderPattern.ReplaceAllLiteralString(text, holder)
}
