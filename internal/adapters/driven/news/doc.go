// Package news combines the per-outlet news searchers into the single
// NewsSearcher used by the newsletter workflow.
//
// Each subpackage searches one outlet:
//
//   - labortoday: 매일노동뉴스 section search (static HTML)
//   - worklaw: 월간노동법률 search (JavaScript-rendered, headless Chrome)
//   - naver: Naver news search Open API
//   - googlecse: Google Programmable Search, optionally site-restricted
//   - rss: keyword filter over configured RSS/Atom feeds
package news
