package fontposter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// How long the page must go without network requests to count as idle.
const networkIdleDuration = 500 * time.Millisecond

type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
}

type CaptureOptions struct {
	Viewport    Viewport
	JPEGQuality int
}

// Screenshotter loads a page and returns a JPEG screenshot of it.
type Screenshotter interface {
	Capture(ctx context.Context, pageURL string, opts CaptureOptions) ([]byte, error)
}

type BrowserOptions struct {
	// Path to a Chrome/Chromium binary, empty lets rod find or download one
	Bin string
	// Needed in most containers
	NoSandbox bool
}

// RodBrowser drives a single headless Chrome page through go-rod. The page is
// reused for every capture, so captures must not run concurrently.
type RodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// The browser process and connection are not bound to ctx, so a cancelled run
// can still close Chrome. ctx only bounds the captures.
func NewRodBrowser(ctx context.Context, opts BrowserOptions) (*RodBrowser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().Headless(true)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = shutdownBrowser(browser, l)
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &RodBrowser{
		launcher: l,
		browser:  browser,
		page:     page,
	}, nil
}

func (b *RodBrowser) Capture(ctx context.Context, pageURL string, opts CaptureOptions) ([]byte, error) {
	page := b.page.Context(ctx)

	// Register before navigating so requests started by the navigation are tracked
	waitRequestIdle := page.WaitRequestIdle(networkIdleDuration, nil, nil, nil)
	if err := page.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for page load: %w", err)
	}
	waitRequestIdle()

	// The font is only usable once document.fonts settles
	if _, err := page.Eval(`() => document.fonts.ready.then(() => true)`); err != nil {
		return nil, fmt.Errorf("failed to wait for fonts: %w", err)
	}

	err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Viewport.Width,
		Height:            opts.Viewport.Height,
		DeviceScaleFactor: opts.Viewport.DeviceScaleFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	quality := opts.JPEGQuality
	img, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	return img, nil
}

// Close the browser and remove its temporary profile.
func (b *RodBrowser) Close() error {
	return shutdownBrowser(b.browser, b.launcher)
}

type browserConn interface {
	Close() error
}

type browserProcess interface {
	Kill()
	Cleanup()
}

// Cleanup waits for the process to exit, so a browser that refused the close
// command has to be killed first or Cleanup never returns.
func shutdownBrowser(conn browserConn, proc browserProcess) error {
	err := conn.Close()
	if err != nil {
		proc.Kill()
	}
	proc.Cleanup()

	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
