package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONSendsBearerAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "INV", r.URL.Query().Get("search[value]"))
		w.Write([]byte(`{"draw":1,"recordsTotal":5}`))
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	var out struct {
		Draw         int   `json:"draw"`
		RecordsTotal int64 `json:"recordsTotal"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/api/kas", url.Values{"search[value]": {"INV"}}, &out))
	require.Equal(t, int64(5), out.RecordsTotal)
}

func TestNon2xxBecomesHTTPErrorWithBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":"no","message":"Nominal wajib diisi"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, nil).PostForm(context.Background(), "/x", url.Values{}, nil)
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusUnprocessableEntity, he.StatusCode)
	require.Equal(t, "Nominal wajib diisi", Message(err))
	require.False(t, IsSessionExpired(err))
}

func TestUnauthorizedIsSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, nil).GetJSON(context.Background(), "/x", nil, nil)
	require.True(t, IsSessionExpired(err))
	require.Equal(t, ErrSessionExpired.Error(), Message(err))
}

func TestMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	var out map[string]any
	err := New(srv.URL, nil).GetJSON(context.Background(), "/x", nil, &out)
	require.ErrorContains(t, err, "malformed response")
}

func TestIsSessionExpiredHeuristicForForeignErrors(t *testing.T) {
	require.True(t, IsSessionExpired(errors.New("Request failed with status code 401")))
	require.True(t, IsSessionExpired(errors.New("redirected to /login")))
	require.False(t, IsSessionExpired(errors.New("connection refused")))
	require.False(t, IsSessionExpired(nil))
}

func TestPostMultipartCarriesFieldsAndFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "SB-01", r.FormValue("nomor_setor"))
		f, hdr, err := r.FormFile("bukti")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "bukti.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(b))
		w.Write([]byte(`{"status":"ok","message":"Data berhasil disimpan"}`))
	}))
	defer srv.Close()

	var out struct{ Status string }
	err := New(srv.URL, nil).PostMultipart(context.Background(), "/store",
		url.Values{"nomor_setor": {"SB-01"}},
		[]File{{Field: "bukti", Name: "bukti.png", Content: strings.NewReader("PNGDATA")}}, &out)
	require.NoError(t, err)
	require.Equal(t, "ok", out.Status)
}

func TestDownloadFailureModes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/expired":
			w.WriteHeader(http.StatusUnauthorized)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Header().Set("Content-Disposition", `attachment; filename="bukti.pdf"`)
			w.Write([]byte("%PDF"))
		}
	}))
	defer srv.Close()
	c := New(srv.URL, StaticToken("tok"))
	ctx := context.Background()

	_, _, err := c.Download(ctx, "/expired")
	require.ErrorIs(t, err, ErrSessionExpired)
	_, _, err = c.Download(ctx, "/missing")
	require.ErrorIs(t, err, ErrFileNotAccessible)

	body, name, err := c.Download(ctx, "/ok")
	require.NoError(t, err)
	defer body.Close()
	b, _ := io.ReadAll(body)
	require.Equal(t, "bukti.pdf", name)
	require.Equal(t, "%PDF", string(b))
}

func TestLoginRedirectIsSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	defer srv.Close()
	c := New(srv.URL, StaticToken("old"))
	ctx := context.Background()

	var out map[string]any
	err := c.GetJSON(ctx, "/api/keuangan-kas", nil, &out)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusFound, he.StatusCode)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, IsSessionExpired(err))

	_, _, err = c.Download(ctx, "/api/files/abc")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestFileCredentialsRoundTrip(t *testing.T) {
	fc := &FileCredentials{Path: filepath.Join(t.TempDir(), "sub", "session.json")}
	tok, err := fc.Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)

	require.NoError(t, fc.Save("access", "refresh"))
	tok, err = fc.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access", tok)
	rt, err := fc.RefreshToken()
	require.NoError(t, err)
	require.Equal(t, "refresh", rt)

	require.NoError(t, fc.Clear())
	require.NoError(t, fc.Clear())
	tok, _ = fc.Token(context.Background())
	require.Empty(t, tok)
}
