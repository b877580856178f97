package labortoday

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listPage(start, n int) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><ul>`)
	sb.WriteString(`<li><div class="ad">광고</div></li>`)
	for i := start; i < start+n; i++ {
		fmt.Fprintf(&sb, `<li><div class="view-cont">
<h4 class="titles"><a href="/news/articleView.html?idxno=%d">기사 %d</a></h4>
<p class="lead"><a href="#">요약 %d</a></p>
<span class="byline"><em>2025-09-0%d 10:22</em></span>
</div></li>`, i, i, i, i%9+1)
	}
	sb.WriteString(`</ul></body></html>`)
	return sb.String()
}

func newServer(t *testing.T, pages map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		seen = append(seen, q.Get("page"))
		assert.Equal(t, "/news/articleList.html", r.URL.Path)
		assert.Equal(t, sectionCode, q.Get("sc_section_code"))
		assert.Equal(t, "산재", q.Get("sc_word"))
		body, ok := pages[q.Get("page")]
		if !ok {
			body = `<html><body><ul></ul></body></html>`
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestSearch_ParsesCandidates(t *testing.T) {
	srv, _ := newServer(t, map[string]string{"1": listPage(1, 2)})
	s := New(Config{BaseURL: srv.URL, Limit: 5})

	got, err := s.Search(context.Background(), "산재")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "L0001", got[0].Key)
	assert.Equal(t, "기사 1", got[0].Title)
	assert.Equal(t, "요약 1", got[0].Content)
	assert.Equal(t, "2025-09-02", got[0].Date)
	assert.Equal(t, srv.URL+"/news/articleView.html?idxno=1", got[0].Link)
	assert.Equal(t, SourceName, got[0].Source)
	assert.Equal(t, "L0002", got[1].Key)
}

func TestSearch_PagesUntilLimit(t *testing.T) {
	srv, seen := newServer(t, map[string]string{
		"1": listPage(1, 3),
		"2": listPage(4, 3),
		"3": listPage(7, 3),
	})
	s := New(Config{BaseURL: srv.URL, Limit: 5})

	got, err := s.Search(context.Background(), "산재")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "기사 5", got[4].Title)
	assert.Equal(t, "L0005", got[4].Key)
	assert.Equal(t, []string{"1", "2"}, *seen)
}

func TestSearch_StopsOnEmptyPage(t *testing.T) {
	srv, seen := newServer(t, map[string]string{"1": listPage(1, 1)})
	s := New(Config{BaseURL: srv.URL, Limit: 5, MaxPages: 10})

	got, err := s.Search(context.Background(), "산재")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"1", "2"}, *seen)
}

func TestSearch_FirstPageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Search(context.Background(), "산재")
	require.Error(t, err)
}
