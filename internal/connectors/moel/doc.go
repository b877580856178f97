// Package moel implements connectors for the Ministry of Employment and
// Labor (고용노동부) public Q&A boards.
//
// Two boards are supported:
//
//   - moel_iqrs: the formal inquiry-response archive (질의회시) at
//     labor.moel.go.kr. Every published record is already answered, so list
//     records are always complete.
//
//   - moel_fastcounsel: the quick consultation board (빠른상담) at
//     www.moel.go.kr. Records start pending and become complete once the
//     state column reads 답변완료.
//
// Both boards are plain server-rendered HTML. List pages are requested by
// 1-based page index; an empty table marks the end of the archive. Detail
// pages are fetched by the link carried on each list record.
//
// Connectors only parse. Request pacing, change detection and persistence
// belong to the sync orchestrator.
//
// # Configuration
//
//   - base_url: overrides the site root, mainly for tests and mirrors.
package moel
