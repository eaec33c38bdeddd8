package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

func TestHTTPExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("plain text document", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("photosynthesis converts light energy into chemical energy"))
		}))
		defer srv.Close()

		e := NewHTTPExtractor(srv.Client())
		text, err := e.Extract(context.Background(), domain.SourceRef{
			Kind:     domain.RefKindHTTP,
			Location: srv.URL + "/notes.txt",
		})

		require.NoError(t, err)
		assert.Equal(t, "photosynthesis converts light energy into chemical energy", text)
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		e := NewHTTPExtractor(srv.Client())
		_, err := e.Extract(context.Background(), domain.SourceRef{
			Kind:     domain.RefKindHTTP,
			Location: srv.URL + "/missing.pdf",
		})

		assert.ErrorIs(t, err, ErrExtraction)
	})

	t.Run("empty body fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("   \n\t "))
		}))
		defer srv.Close()

		e := NewHTTPExtractor(srv.Client())
		_, err := e.Extract(context.Background(), domain.SourceRef{
			Kind:     domain.RefKindHTTP,
			Location: srv.URL,
		})

		assert.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("dropbox link gets direct-download flag", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("dl")
			_, _ = w.Write([]byte("the krebs cycle produces ATP in the mitochondria"))
		}))
		defer srv.Close()

		// The extractor only rewrites the query; the host stays whatever
		// the reference says, which here is the test server.
		e := NewHTTPExtractor(srv.Client())
		_, err := e.Extract(context.Background(), domain.SourceRef{
			Kind:     domain.RefKindDropbox,
			Location: srv.URL + "/s/abc/lecture.txt?dl=0",
		})

		require.NoError(t, err)
		assert.Equal(t, "1", gotQuery)
	})
}

func TestNormalizeDropboxLink(t *testing.T) {
	t.Parallel()

	got, err := normalizeDropboxLink("https://www.dropbox.com/s/abc123/lecture.pdf?dl=0")
	require.NoError(t, err)
	assert.Equal(t, "https://www.dropbox.com/s/abc123/lecture.pdf?dl=1", got)

	got, err = normalizeDropboxLink("https://www.dropbox.com/s/abc123/lecture.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://www.dropbox.com/s/abc123/lecture.pdf?dl=1", got)
}

func TestDocumentText(t *testing.T) {
	t.Parallel()

	t.Run("plain text passes through trimmed", func(t *testing.T) {
		t.Parallel()

		text, err := documentText([]byte("  osmosis is diffusion of water \n"))
		require.NoError(t, err)
		assert.Equal(t, "osmosis is diffusion of water", text)
	})

	t.Run("corrupt PDF fails", func(t *testing.T) {
		t.Parallel()

		_, err := documentText([]byte("%PDF-1.7 this is not really a pdf"))
		assert.ErrorIs(t, err, ErrExtraction)
	})
}

func TestRegistry_Extract(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(domain.RefKindHTTP, extractorFunc(func(
		ctx context.Context, ref domain.SourceRef,
	) (string, error) {
		return "from http strategy", nil
	}))

	text, err := reg.Extract(context.Background(), domain.SourceRef{Kind: domain.RefKindHTTP})
	require.NoError(t, err)
	assert.Equal(t, "from http strategy", text)

	_, err = reg.Extract(context.Background(), domain.SourceRef{Kind: domain.RefKindObject})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

// extractorFunc adapts a function to the Extractor interface for tests.
type extractorFunc func(ctx context.Context, ref domain.SourceRef) (string, error)

func (f extractorFunc) Extract(ctx context.Context, ref domain.SourceRef) (string, error) {
	return f(ctx, ref)
}
