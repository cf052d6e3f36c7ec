package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Download fetches a file-download instruction's URL into dir under the
// given filename and returns the written path. Relative URLs resolve
// against the client's base URL. The filename is flattened to its base so a
// backend-supplied name cannot escape dir.
func (c *Client) Download(ctx context.Context, fileURL, filename, dir string) (string, error) {
	if !strings.HasPrefix(fileURL, "http://") && !strings.HasPrefix(fileURL, "https://") {
		fileURL = c.baseURL + "/" + strings.TrimLeft(fileURL, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	if c.sessions != nil {
		token, err := c.sessions.Load()
		if err != nil {
			return "", err
		}
		if token != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", netError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &Error{Kind: kindForStatus(resp.StatusCode), StatusCode: resp.StatusCode}
	}

	if filename == "" {
		filename = "download"
	}
	dest := filepath.Join(dir, filepath.Base(filename))

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}
