package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "<html><body>hello</body></html>", result.Body)
	assert.Equal(t, "text/html; charset=utf-8", result.ContentType)
}

func TestURLCustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, &Options{
		UserAgent: "custom-agent",
		Headers:   map[string]string{"Accept": "application/json"},
	})
	require.NoError(t, err)
}

func TestURLNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "404")

	// The result still carries the response for callers that want it.
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Equal(t, "missing", result.Body)
}

func TestURLInvalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"Empty", ""},
		{"No scheme", "news.example/a"},
		{"No host", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := URL(context.Background(), tt.url, nil)
			require.Error(t, err)
			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
		})
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<html>
		<head><title>ignored</title><style>p { color: red }</style></head>
		<body>
			<script>var tracked = true;</script>
			<h1>The Big Story</h1>
			<p>First paragraph.</p>
			<p>Read it at https://news.example/story-1</p>
		</body>
	</html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "The Big Story")
	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "https://news.example/story-1")
	assert.NotContains(t, text, "tracked", "script content must be removed")
	assert.NotContains(t, text, "color: red", "style content must be removed")
	assert.NotContains(t, text, "ignored", "head content must be removed")
}

func TestHTMLToTextEmpty(t *testing.T) {
	text, err := HTMLToText("")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}
