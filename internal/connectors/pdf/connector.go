package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Chunking defaults.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Config holds connector configuration parsed from a source.
type Config struct {
	Dir       string
	ChunkSize int
	Overlap   int
}

// ParseConfig reads the connector configuration from a source.
func ParseConfig(source domain.Source) (Config, error) {
	dir := strings.TrimSpace(source.ConfigValue(domain.SourceConfigPath, ""))
	if dir == "" {
		return Config{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, domain.SourceConfigPath)
	}
	size, err := intConfig(source, domain.SourceConfigChunkSize, DefaultChunkSize)
	if err != nil {
		return Config{}, err
	}
	overlap, err := intConfig(source, domain.SourceConfigChunkOverlap, DefaultChunkOverlap)
	if err != nil {
		return Config{}, err
	}
	if size == 0 {
		size = DefaultChunkSize
	}
	return Config{Dir: dir, ChunkSize: size, Overlap: overlap}, nil
}

func intConfig(source domain.Source, key string, def int) (int, error) {
	v := source.ConfigValue(key, strconv.Itoa(def))
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
	}
	return n, nil
}

// Connector reads the PDF files of one directory.
type Connector struct {
	sourceID string
	cfg      Config
	runner   CommandRunner

	mu     sync.Mutex
	chunks map[string]string
}

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// New creates a PDF connector that runs pdftotext.
func New(source domain.Source) (driven.Connector, error) {
	return NewWithRunner(source, execRunner{})
}

// NewWithRunner creates a PDF connector with a custom command runner.
func NewWithRunner(source domain.Source, runner CommandRunner) (*Connector, error) {
	cfg, err := ParseConfig(source)
	if err != nil {
		return nil, err
	}
	return &Connector{
		sourceID: source.ID,
		cfg:      cfg,
		runner:   runner,
		chunks:   make(map[string]string),
	}, nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string { return domain.ConnectorTypePDF }

// SourceID returns the source this connector reads.
func (c *Connector) SourceID() string { return c.sourceID }

// FetchList extracts and chunks every PDF in the directory on page 1.
// A file that cannot be read is skipped with a warning.
func (c *Connector) FetchList(ctx context.Context, page int) ([]domain.ListRecord, error) {
	if page > 1 {
		return nil, nil
	}

	entries, err := os.ReadDir(c.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.cfg.Dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []domain.ListRecord
	for _, name := range names {
		recs, err := c.listFile(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, ErrPDFToolNotFound) {
				return nil, fmt.Errorf("%w\n%s", err, InstallInstructions())
			}
			logger.Warn("pdf: skipping %s: %v", name, err)
			continue
		}
		records = append(records, recs...)
	}
	logger.Debug("pdf: %d chunks from %d files in %s", len(records), len(names), c.cfg.Dir)
	return records, nil
}

func (c *Connector) listFile(ctx context.Context, name string) ([]domain.ListRecord, error) {
	path := filepath.Join(c.cfg.Dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	text, err := extractText(ctx, c.runner, path)
	if err != nil {
		return nil, err
	}

	title := extractTitle(text, path)
	chunks := chunkText(text, c.cfg.ChunkSize, c.cfg.Overlap)
	mod := info.ModTime()

	c.mu.Lock()
	defer c.mu.Unlock()
	records := make([]domain.ListRecord, len(chunks))
	for i, chunk := range chunks {
		link := fmt.Sprintf("%s#%d", path, i+1)
		c.chunks[link] = chunk
		records[i] = domain.ListRecord{
			Key:   fmt.Sprintf("%s@%d#%d", name, mod.Unix(), i+1),
			Title: fmt.Sprintf("%s (%d/%d)", title, i+1, len(chunks)),
			Link:  link,
			Date:  mod.Format("2006-01-02"),
			State: domain.RecordStateComplete,
		}
	}
	return records, nil
}

// FetchDetail returns the chunk behind a link produced by FetchList.
func (c *Connector) FetchDetail(ctx context.Context, link string) (domain.DetailFields, error) {
	c.mu.Lock()
	chunk, ok := c.chunks[link]
	c.mu.Unlock()
	if ok {
		return domain.DetailFields{Answer: chunk}, nil
	}

	path, n, err := parseLink(link)
	if err != nil {
		return domain.DetailFields{}, err
	}
	text, err := extractText(ctx, c.runner, path)
	if err != nil {
		return domain.DetailFields{}, err
	}
	chunks := chunkText(text, c.cfg.ChunkSize, c.cfg.Overlap)
	if n > len(chunks) {
		return domain.DetailFields{}, fmt.Errorf("%w: %s has %d chunks", domain.ErrNotFound, filepath.Base(path), len(chunks))
	}
	return domain.DetailFields{Answer: chunks[n-1]}, nil
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.chunks)
	return nil
}

func parseLink(link string) (string, int, error) {
	i := strings.LastIndex(link, "#")
	if i < 0 {
		return "", 0, fmt.Errorf("%w: pdf link %q", domain.ErrInvalidInput, link)
	}
	n, err := strconv.Atoi(link[i+1:])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("%w: pdf link %q", domain.ErrInvalidInput, link)
	}
	return link[:i], n, nil
}
