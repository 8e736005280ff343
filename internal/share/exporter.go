package share

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const (
	cardWidth   = 600
	pixelRatio  = 2 // retina-quality output
	maxViewport = 4000
)

// Exporter - Turns share cards into PNGs with a headless Chromium. The browser is started on first use
// and reused until Close.
type Exporter struct {
	bin    string
	logger *zap.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewExporter - bin may be empty, in which case rod finds (or downloads) a browser itself
func NewExporter(bin string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{bin: bin, logger: logger}
}

func (e *Exporter) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser != nil {
		return e.browser, nil
	}

	l := launcher.New().Headless(true)
	if e.bin != "" {
		l = l.Bin(e.bin)
	}
	// the browser outlives the request that started it
	controlURL, err := l.Context(context.WithoutCancel(ctx)).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	e.logger.Info("Share exporter browser started", zap.String("control_url", controlURL))
	e.launcher = l
	e.browser = browser
	return browser, nil
}

// Export - Render the card and screenshot it as a PNG
func (e *Exporter) Export(ctx context.Context, card Card) ([]byte, error) {
	html, err := RenderCard(card)
	if err != nil {
		return nil, err
	}

	browser, err := e.ensureBrowser(ctx)
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cardWidth,
		Height:            maxViewport,
		DeviceScaleFactor: pixelRatio,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	el, err := page.Element("#card")
	if err != nil {
		return nil, fmt.Errorf("find card: %w", err)
	}
	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("screenshot card: %w", err)
	}

	e.logger.Debug("Share image exported", zap.Int("hadith", card.Hadith.HadithNum), zap.Int("bytes", len(png)))
	return png, nil
}

func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser == nil {
		return nil
	}
	err := e.browser.Close()
	e.launcher.Cleanup()
	e.browser = nil
	e.launcher = nil
	return err
}
