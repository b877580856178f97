package worklaw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	pages  map[int]string
	urls   []string
	err    error
	closed bool
}

func (f *fakePages) HTML(_ context.Context, url, waitSelector string) (string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	for page, body := range f.pages {
		if strings.Contains(url, fmt.Sprintf("&gopage=%d&", page)) {
			return body, nil
		}
	}
	return `<html><body></body></html>`, nil
}

func (f *fakePages) Close() error {
	f.closed = true
	return nil
}

func resultPage(start, n int) string {
	var sb strings.Builder
	sb.WriteString(`<html><body>`)
	for i := start; i < start+n; i++ {
		fmt.Fprintf(&sb, `<div class="list_menu_order" onclick="fn_view('x','/main2022/view/view.asp','','?in_cate=122&amp;bi_pidx=%d')">
<div class="la_text"><p>기사 %d</p><p>본문 %d</p><ul class="ndp"><li>기자</li><li>2025-08-1%d</li></ul></div>
</div>`, i, i, i, i%10)
	}
	sb.WriteString(`<div class="list_menu_order"><div class="other"></div></div>`)
	sb.WriteString(`</body></html>`)
	return sb.String()
}

func TestSearch_ParsesCandidates(t *testing.T) {
	pages := &fakePages{pages: map[int]string{1: resultPage(1, 2)}}
	s := New(Config{Limit: 5}, pages)

	got, err := s.Search(context.Background(), "산재")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "W0001", got[0].Key)
	assert.Equal(t, "기사 1", got[0].Title)
	assert.Equal(t, "본문 1", got[0].Content)
	assert.Equal(t, "2025.08.11", got[0].Date)
	assert.Equal(t, DefaultBaseURL+"/main2022/view/view.asp?in_cate=122&bi_pidx=1", got[0].Link)
	assert.Equal(t, SourceName, got[0].Source)

	require.NotEmpty(t, pages.urls)
	assert.Contains(t, pages.urls[0], "search_Text=%uC0B0%uC7AC")
}

func TestSearch_LimitAcrossPages(t *testing.T) {
	pages := &fakePages{pages: map[int]string{1: resultPage(1, 3), 2: resultPage(4, 3)}}
	s := New(Config{Limit: 4}, pages)

	got, err := s.Search(context.Background(), "해고")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "기사 4", got[3].Title)
	assert.Len(t, pages.urls, 2)
}

func TestSearch_Error(t *testing.T) {
	pages := &fakePages{err: errors.New("chrome missing")}
	_, err := New(Config{}, pages).Search(context.Background(), "x")
	require.Error(t, err)
}

func TestEscapeUnicode(t *testing.T) {
	assert.Equal(t, "%uC0B0%uC7AC", escapeUnicode("산재"))
	assert.Equal(t, "%u0041", escapeUnicode("A"))
}

func TestClose(t *testing.T) {
	pages := &fakePages{}
	require.NoError(t, New(Config{}, pages).Close())
	assert.True(t, pages.closed)
}

func TestBrowserClose_NotStarted(t *testing.T) {
	assert.NoError(t, NewBrowser("").Close())
}
