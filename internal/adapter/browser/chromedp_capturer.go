// Package browser captures rendered notes with a shared headless Chrome.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"studynote-ai/internal/render"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// ErrClosed is returned by captures on a closed Capturer.
var ErrClosed = errors.New("browser capturer is closed")

// A4 in inches for print mode.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

type capturerConfig struct {
	chromePath      string
	downloadBrowser bool
	noSandbox       bool
	scale           float64
	viewportWidth   int64
	timeout         time.Duration
}

func defaultConfig() capturerConfig {
	return capturerConfig{
		scale:         2,
		viewportWidth: 900,
		timeout:       45 * time.Second,
	}
}

// Option configures a Capturer.
type Option func(*capturerConfig)

func WithChromePath(path string) Option {
	return func(c *capturerConfig) { c.chromePath = path }
}

// WithDownloadBrowser fetches a Chromium build when no Chrome path is set.
func WithDownloadBrowser(enabled bool) Option {
	return func(c *capturerConfig) { c.downloadBrowser = enabled }
}

// WithNoSandbox is needed when running as root, e.g. in containers.
func WithNoSandbox(enabled bool) Option {
	return func(c *capturerConfig) { c.noSandbox = enabled }
}

// WithScale sets the device scale factor of screenshots.
func WithScale(scale float64) Option {
	return func(c *capturerConfig) {
		if scale > 0 {
			c.scale = scale
		}
	}
}

func WithViewportWidth(width int) Option {
	return func(c *capturerConfig) {
		if width > 0 {
			c.viewportWidth = int64(width)
		}
	}
}

// WithTimeout bounds a single capture. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *capturerConfig) { c.timeout = d }
}

// Capturer owns one browser process and opens a tab per capture. It is safe
// for concurrent use.
type Capturer struct {
	cfg           capturerConfig
	logger        *zap.Logger
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewCapturer starts the browser. Call Close to release it.
func NewCapturer(logger *zap.Logger, opts ...Option) (*Capturer, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.downloadBrowser {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		logger.Info("Using downloaded Chromium", zap.String("path", path))
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("no-first-run", true),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Capturer{
		cfg:           cfg,
		logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close stops the browser. It is idempotent.
func (c *Capturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// Screenshot returns a PNG of the capture element at the configured scale.
func (c *Capturer) Screenshot(ctx context.Context, document string) ([]byte, error) {
	var shot []byte
	err := c.run(ctx, document,
		chromedp.EmulateViewport(c.cfg.viewportWidth, 1200, chromedp.EmulateScale(c.cfg.scale)),
		chromedp.WaitVisible(render.CaptureSelector, chromedp.ByQuery),
		chromedp.Screenshot(render.CaptureSelector, &shot, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return shot, nil
}

// PrintToPDF returns Chrome's print rendering of the document on A4 paper.
func (c *Capturer) PrintToPDF(ctx context.Context, document string) ([]byte, error) {
	var buf []byte
	err := c.run(ctx, document,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf failed: %w", err)
	}
	return buf, nil
}

// run writes document to a temp file, opens it in a new tab and runs actions.
func (c *Capturer) run(ctx context.Context, document string, actions ...chromedp.Action) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	f, err := os.CreateTemp("", "studynote-*.html")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(document); err != nil {
		f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()

	// The tab belongs to the browser context; tie its lifetime to the request too.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	tasks := chromedp.Tasks{
		chromedp.Navigate("file://" + abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	tasks = append(tasks, actions...)

	start := time.Now()
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return err
	}
	c.logger.Debug("Browser capture finished", zap.Duration("duration", time.Since(start)))
	return nil
}

func (c *Capturer) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// resolveBrowser downloads a Chromium build into rod's cache unless one is
// already there and returns its executable path.
func resolveBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("downloading browser: %w", err)
	}
	return path, nil
}
