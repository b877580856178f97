package article

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchText_Readability(t *testing.T) {
	para := strings.Repeat("근로자의 업무상 재해 인정 범위가 넓어졌습니다. ", 20)
	srv := serve(t, `<html><head><title>산재</title></head><body>
<nav><a href="/">홈</a></nav>
<article><h1>산재 인정 기준 완화</h1><p>`+para+`</p><p>`+para+`</p></article>
<footer>copyright</footer></body></html>`)

	text, err := New(0).FetchText(context.Background(), domain.Candidate{Key: "L0001", Link: srv.URL})
	require.NoError(t, err)
	assert.Contains(t, text, "업무상 재해")
	assert.NotContains(t, text, "copyright")
}

func TestFetchText_ParagraphFallback(t *testing.T) {
	srv := serve(t, `<html><body><p>짧은 첫 문단</p><div><p>둘째 문단</p></div></body></html>`)

	text, err := New(0).FetchText(context.Background(), domain.Candidate{Key: "L0002", Link: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "짧은 첫 문단\n둘째 문단", text)
}

func TestFetchText_NoLink(t *testing.T) {
	_, err := New(0).FetchText(context.Background(), domain.Candidate{Key: "W0001"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetchText_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(0).FetchText(context.Background(), domain.Candidate{Link: srv.URL})
	require.Error(t, err)
}

func TestFetchText_NoText(t *testing.T) {
	srv := serve(t, `<html><body><div></div></body></html>`)
	_, err := New(0).FetchText(context.Background(), domain.Candidate{Link: srv.URL})
	require.Error(t, err)
}

func TestNormalise(t *testing.T) {
	assert.Equal(t, "a\nb", normalise("  a  \n\n   \n b"))
}
