package worklaw

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/custodia-labs/lexbrief/internal/logger"
)

// DefaultWaitTimeout bounds how long a page may take to show results.
const DefaultWaitTimeout = 15 * time.Second

// Browser is a PageSource backed by a lazily launched headless Chrome.
type Browser struct {
	mu          sync.Mutex
	launcher    *launcher.Launcher
	browser     *rod.Browser
	bin         string
	waitTimeout time.Duration
}

// Ensure Browser implements PageSource.
var _ PageSource = (*Browser)(nil)

// NewBrowser creates a Browser. bin may name a Chrome binary; empty lets
// rod find or download one.
func NewBrowser(bin string) *Browser {
	return &Browser{bin: bin, waitTimeout: DefaultWaitTimeout}
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().Headless(true).NoSandbox(true).Set("disable-gpu").Set("disable-dev-shm-usage")
	if b.bin != "" {
		l = l.Bin(b.bin)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	logger.Debug("worklaw: headless browser started")
	b.launcher = l
	b.browser = browser
	return browser, nil
}

// HTML loads url in a new tab and returns the rendered document.
// A page that never shows waitSelector is returned as-is so that an
// empty result page reads as zero results.
func (b *Browser) HTML(ctx context.Context, url, waitSelector string) (string, error) {
	browser, err := b.connect()
	if err != nil {
		return "", err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("open %s: %w", url, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("load %s: %w", url, err)
	}
	if waitSelector != "" {
		if _, err := page.Timeout(b.waitTimeout).Element(waitSelector); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("wait for %s: %w", waitSelector, err)
			}
			logger.Debug("worklaw: %s not found on %s", waitSelector, url)
		}
	}
	return page.HTML()
}

// Close shuts the browser down if it was started.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Cleanup()
	b.browser = nil
	b.launcher = nil
	return err
}
