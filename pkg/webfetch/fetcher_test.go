package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(
		map[string]string{
			"home":        "https://example.edu/",
			"general":     "https://example.edu/about",
			"fees":        "https://example.edu/fees",
			"departments": "https://example.edu/departments",
		},
		map[string]string{
			"cse": "https://example.edu/cse",
			"ece": "https://example.edu/ece",
		},
	)
}

func TestResolveURL(t *testing.T) {
	f := newTestFetcher()

	tests := []struct {
		name     string
		category string
		want     string
	}{
		{"site category", "fees", "https://example.edu/fees"},
		{"department category", "dept_cse", "https://example.edu/cse"},
		{"unknown department falls back to departments page", "dept_unknown", "https://example.edu/departments"},
		{"unknown category falls back to general", "no_such_page", "https://example.edu/about"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ResolveURL(tt.category))
		})
	}
}

func TestExtractText(t *testing.T) {
	html := `<html><head>
		<script>var tracking = "noise";</script>
		<style>.hero { color: red; }</style>
	</head><body>
		<h1>Admissions &amp; Fees</h1>
		<p>B.Tech&nbsp;programme details</p>
	</body></html>`

	text := ExtractText(html)
	assert.Equal(t, "Admissions & Fees B.Tech programme details", text)
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color")
}

func TestExtractTextCapsLength(t *testing.T) {
	text := ExtractText("<p>" + strings.Repeat("a", 10000) + "</p>")
	assert.Len(t, text, maxContentChars)
}

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "admissions-chatbot/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("<html><body><p>Hostel fees are published yearly.</p></body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	text, err := f.FetchText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hostel fees are published yearly.", text)
}

func TestFetchTextNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher()
	_, err := f.FetchText(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchTextEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><script>only_noise()</script></body></html>"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	_, err := f.FetchText(context.Background(), srv.URL)
	assert.Error(t, err)
}
