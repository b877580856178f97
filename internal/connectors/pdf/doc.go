// Package pdf implements a connector over the PDF files of a local
// directory, such as labour-law manuals and guidelines.
//
// Text is extracted with pdftotext (poppler) and split into overlapping
// chunks. Every chunk is one complete record keyed by file name,
// modification time and chunk number, so an edited file is indexed again
// under new keys while unchanged files are skipped by the sync engine.
//
// The whole directory is reported on list page 1; later pages are empty.
//
// # Configuration
//
//   - path: directory holding the PDF files (required).
//   - chunk_size: characters per chunk (default 1000).
//   - chunk_overlap: characters shared by neighbouring chunks (default 200).
package pdf
