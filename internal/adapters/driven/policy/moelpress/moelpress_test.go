package moelpress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page1 = `<html><body><table><tbody>
<tr><td>1</td><td class="left"><a href="enewsView.do?news_seq=101">중대재해 감축 로드맵 발표</a></td><td>2025.09.01</td></tr>
<tr><td>2</td><td class="left"><a href="/news/enews/report/enewsView.do?news_seq=100">최저임금 고시</a></td><td>2025.08.29</td></tr>
</tbody></table></body></html>`

const page2 = `<html><body><table><tbody>
<tr><td>3</td><td><a href="enewsView.do?news_seq=99">고용동향 발표</a></td></tr>
</tbody></table></body></html>`

func pressServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/news/enews/report/enewsList.do", r.URL.Path)
		switch r.URL.Query().Get("pageIndex") {
		case "1":
			_, _ = w.Write([]byte(page1))
		case "2":
			_, _ = w.Write([]byte(page2))
		default:
			_, _ = w.Write([]byte(`<html><body><table><tbody></tbody></table></body></html>`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSearch(t *testing.T) {
	srv, calls := pressServer(t)
	s := New(Config{BaseURL: srv.URL, Delay: time.Millisecond})

	got, err := s.Search(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "P0001", got[0].Key)
	assert.Equal(t, "중대재해 감축 로드맵 발표", got[0].Title)
	assert.Equal(t, srv.URL+"/news/enews/report/enewsView.do?news_seq=101", got[0].Link)
	assert.Equal(t, SourceName, got[0].Source)
	assert.Equal(t, srv.URL+"/news/enews/report/enewsView.do?news_seq=100", got[1].Link)
	assert.Equal(t, "P0003", got[2].Key)
	assert.Equal(t, 2, *calls)
}

func TestSearch_StopsOnEmptyPage(t *testing.T) {
	srv, calls := pressServer(t)
	s := New(Config{BaseURL: srv.URL, Delay: time.Millisecond})

	got, err := s.Search(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 3, *calls)
}

func TestSearch_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL, Delay: time.Millisecond}).Search(context.Background(), 1)
	require.Error(t, err)
}
