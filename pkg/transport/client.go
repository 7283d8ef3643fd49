// Package transport is the HTTP adapter between the list controllers and the
// backend. Credentials are injected, never looked up from globals.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Doer is the part of *http.Client the adapter needs.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues JSON requests against BaseURL.
type Client struct {
	BaseURL     string
	HTTP        Doer
	Credentials CredentialProvider
}

// New builds a client with a 30s request timeout. Redirects are not
// followed: the backend answers an expired session with 302 to its login
// page, which must surface as ErrSessionExpired.
func New(baseURL string, creds CredentialProvider) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Credentials: creds,
	}
}

// File is one part of a multipart upload.
type File struct {
	Field    string
	Name     string
	Content  io.Reader
	MimeType string
}

// GetJSON issues GET path?query and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.url(path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// PostForm posts url-encoded values.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doJSON(req, out)
}

// PostJSON posts body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

// PostMultipart posts fields plus optional files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields url.Values, files []File, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vals := range fields {
		for _, v := range vals {
			if err := mw.WriteField(k, v); err != nil {
				return err
			}
		}
	}
	for _, f := range files {
		if f.Content == nil {
			continue
		}
		w, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, f.Content); err != nil {
			return fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.doJSON(req, out)
}

// Download fetches a binary file. The caller closes the returned body.
// 401 and the login redirect map to ErrSessionExpired, any other non-200 to
// ErrFileNotAccessible.
func (c *Client) Download(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, "", err
	}
	if err := c.authorize(req); err != nil {
		return nil, "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusFound:
		resp.Body.Close()
		return nil, "", ErrSessionExpired
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, "", ErrFileNotAccessible
	}
	name := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return resp.Body, name, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) authorize(req *http.Request) error {
	req.Header.Set("Accept", "application/json")
	if c.Credentials == nil {
		return nil
	}
	tok, err := c.Credentials.Token(req.Context())
	if err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	if err := c.authorize(req); err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Message: backendMessage(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

// backendMessage extracts "message" or "error" from a JSON error body.
func backendMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		return e.Error
	}
	return ""
}
