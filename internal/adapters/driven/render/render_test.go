package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

func sampleNewsletter() domain.Newsletter {
	return domain.Newsletter{
		Title:        "[화안HR] 2025년 9월 1주차 뉴스레터",
		Date:         "2025.09.01",
		NewsTopic:    "산재",
		ConsultTopic: "연차",
		Article: domain.Candidate{
			Key:    "L0001",
			Title:  "산재 인정 기준 완화",
			Date:   "2025-09-01",
			Link:   "https://www.labortoday.co.kr/news/articleView.html?idxno=1",
			Source: "매일노동법률",
		},
		ArticleText: "첫 문단입니다.\n\n둘째 문단 <script>입니다.",
		Consult: domain.Candidate{
			Key:     "iqrs:3",
			Title:   "연차휴가 사용촉진",
			Content: "Title: 연차휴가 사용촉진\nQ: 서면 통보가 필요한가요?\nA: 필요합니다.\nLink: https://labor.moel.go.kr/cmmt/iqrs_detail.do?id=1\nRef_no: 근로기준정책과-1234",
		},
		Policy: []domain.Candidate{
			{Title: "중대재해 감축 로드맵", Link: "https://www.moel.go.kr/a", Source: "고용노동부"},
			{Title: "최저임금 고시", Link: "https://www.moel.go.kr/b"},
		},
	}
}

func TestHTMLRenderer(t *testing.T) {
	doc, err := HTMLRenderer{}.Render(context.Background(), sampleNewsletter())
	require.NoError(t, err)
	assert.Equal(t, "html", doc.Format)
	assert.Equal(t, "[화안HR] 2025년 9월 1주차 뉴스레터", doc.Title)

	out := string(doc.Content)
	assert.Contains(t, out, "<h1>[화안HR] 2025년 9월 1주차 뉴스레터</h1>")
	assert.Contains(t, out, "<p>첫 문단입니다.</p>")
	assert.Contains(t, out, "둘째 문단 &lt;script&gt;입니다.")
	assert.Contains(t, out, "Q. 서면 통보가 필요한가요?")
	assert.Contains(t, out, "(근로기준정책과-1234)")
	assert.Contains(t, out, `■ 중대재해 감축 로드맵 (<a href="https://www.moel.go.kr/a">고용노동부</a>)<br>■ 최저임금 고시 (<a href="https://www.moel.go.kr/b">고용노동부</a>)`)
}

func TestMarkdownRenderer(t *testing.T) {
	doc, err := MarkdownRenderer{}.Render(context.Background(), sampleNewsletter())
	require.NoError(t, err)
	assert.Equal(t, "markdown", doc.Format)

	out := string(doc.Content)
	assert.True(t, strings.HasPrefix(out, "# [화안HR] 2025년 9월 1주차 뉴스레터\n"))
	assert.Contains(t, out, "**Q. 서면 통보가 필요한가요?**")
	assert.Contains(t, out, "- ■ 최저임금 고시 ([고용노동부](https://www.moel.go.kr/b))")
}

func TestRender_FallsBackToSnippetAndEmptyPolicy(t *testing.T) {
	n := sampleNewsletter()
	n.ArticleText = ""
	n.Article.Content = "기사 요약"
	n.Policy = nil

	doc, err := HTMLRenderer{}.Render(context.Background(), n)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Content), "<p>기사 요약</p>")
	assert.Contains(t, string(doc.Content), "선택된 정책 자료가 없습니다.")
}

func TestNew(t *testing.T) {
	r, err := New(domain.OutputFormatMarkdown)
	require.NoError(t, err)
	assert.IsType(t, MarkdownRenderer{}, r)

	r, err = New("")
	require.NoError(t, err)
	assert.IsType(t, HTMLRenderer{}, r)

	_, err = New("pdf")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFileRenderer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := NewFileRenderer(MarkdownRenderer{}, dir)
	r.now = func() time.Time { return time.Date(2025, 9, 1, 9, 30, 0, 0, time.UTC) }
	r.suffix = func() string { return "abcd1234" }

	doc, err := r.Render(context.Background(), sampleNewsletter())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "newsletter-20250901-093000-abcd1234.md"), doc.Path)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, doc.Content, data)
}

func TestFileRenderer_SameSecondDocumentsDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRenderer(HTMLRenderer{}, dir)
	r.now = func() time.Time { return time.Date(2025, 9, 1, 9, 30, 0, 0, time.UTC) }

	first, err := r.Render(context.Background(), sampleNewsletter())
	require.NoError(t, err)
	second, err := r.Render(context.Background(), sampleNewsletter())
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.True(t, strings.HasPrefix(filepath.Base(first.Path), "newsletter-20250901-093000-"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRender_WrittenSections(t *testing.T) {
	n := sampleNewsletter()
	n.ArticleSection = &domain.ArticleSection{Summary: "요약 문단입니다.", Implication: "※ 시사점입니다."}
	n.ConsultSection = &domain.ConsultSection{Question: "서면으로 알려야 하나요?", Answer: "서면 통보가 필요합니다."}

	md, err := MarkdownRenderer{}.Render(context.Background(), n)
	require.NoError(t, err)
	out := string(md.Content)
	assert.Contains(t, out, "요약 문단입니다.")
	assert.NotContains(t, out, "첫 문단입니다.")
	assert.Contains(t, out, "> ※ 시사점입니다.")
	assert.Contains(t, out, "**Q. 서면으로 알려야 하나요?**")
	assert.Contains(t, out, "A. 서면 통보가 필요합니다.")
	assert.Contains(t, out, "(근로기준정책과-1234)")

	html, err := HTMLRenderer{}.Render(context.Background(), n)
	require.NoError(t, err)
	assert.Contains(t, string(html.Content), `<p class="implication">※ 시사점입니다.</p>`)
}

func sampleOpinion() domain.LegalOpinion {
	return domain.LegalOpinion{
		Query:          "수습기간 중 해고할 수 있나요?",
		Date:           "2025.09.01",
		QuerySummary:   "수습 근로자 해고 가능 여부 문의",
		RelatedLaws:    "근로기준법 제26조",
		RelatedCases:   "대법원 2006다1234",
		RelatedQueries: "질의: 수습 해고\n응답: 가능함",
		Answer:         "정당한 이유가 필요하다고 사료됩니다.",
		References: []domain.Candidate{{
			Collection: "iqrs",
			Title:      "수습 해고",
			Content:    "Title: 수습 해고\nQ: q\nA: a\nLink: https://labor.moel.go.kr/cmmt/iqrs_detail.do?id=7",
		}},
	}
}

func TestMarkdownRenderer_RenderOpinion(t *testing.T) {
	doc, err := MarkdownRenderer{}.RenderOpinion(context.Background(), sampleOpinion())
	require.NoError(t, err)
	assert.Equal(t, "markdown", doc.Format)
	assert.Equal(t, OpinionTitle, doc.Title)

	out := string(doc.Content)
	assert.True(t, strings.HasPrefix(out, "# "+OpinionTitle))
	for _, want := range []string{
		"수습 근로자 해고 가능 여부 문의",
		"> 수습기간 중 해고할 수 있나요?",
		"## 법령 근거\n\n근로기준법 제26조",
		"## 검토 의견\n\n정당한 이유가 필요하다고 사료됩니다.",
		"- 수습 해고 (iqrs) · [원문 보기](https://labor.moel.go.kr/cmmt/iqrs_detail.do?id=7)",
		domain.OpinionDisclaimer,
	} {
		assert.Contains(t, out, want)
	}

	op := sampleOpinion()
	op.QuerySummary = ""
	op.References = nil
	doc, err = MarkdownRenderer{}.RenderOpinion(context.Background(), op)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Content), "## 질의 요약\n\n수습기간 중 해고할 수 있나요?")
	assert.NotContains(t, string(doc.Content), "## 참고 자료")
}

func TestFileRenderer_RenderOpinion(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRenderer(HTMLRenderer{}, dir)
	r.now = func() time.Time { return time.Date(2025, 9, 1, 9, 30, 0, 0, time.UTC) }
	r.suffix = func() string { return "0f0f0f0f" }

	doc, err := r.RenderOpinion(context.Background(), sampleOpinion())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "opinion-20250901-093000-0f0f0f0f.md"), doc.Path)
	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), domain.OpinionDisclaimer)
}

func TestParseConsult(t *testing.T) {
	v := parseConsult(domain.Candidate{Content: "Title: 제목\nQ: 질문\nA: 답변\nLink: http://x"})
	assert.Equal(t, consultView{Title: "제목", Question: "질문", Answer: "답변", Link: "http://x"}, v)
}

func TestPreview(t *testing.T) {
	out, err := Preview("# 제목\n\n본문", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "제목")
	assert.Contains(t, out, "본문")
}
