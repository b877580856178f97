// Package web fetches HTML pages and walks the parsed DOM.
//
// The helpers cover the handful of queries the MOEL and news scrapers need
// (tag, class and attribute matching, text extraction) without pulling in a
// full CSS selector engine.
package web
