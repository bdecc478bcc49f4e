// Package controller implements the download form: platform tabs, a single
// URL submission slot, and the result panel, as an explicit state machine.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/savevid-go/internal/domain"
)

// ErrSubmitDisabled is returned by Submit while a request is in flight
var ErrSubmitDisabled = errors.New("submit is disabled while a request is in flight")

// Backend issues the download request
type Backend interface {
	Download(ctx context.Context, url string) (*domain.DownloadResponse, error)
}

// Surface receives every new screen. Render is called with the controller's
// lock held, so it must not call back into the controller.
type Surface interface {
	Render(screen Screen)
}

// SurfaceFunc adapts a function to Surface
type SurfaceFunc func(Screen)

// Render calls f(screen)
func (f SurfaceFunc) Render(screen Screen) { f(screen) }

// Controller owns the form state
type Controller struct {
	backend Backend
	surface Surface

	mu       sync.Mutex
	platform domain.Platform
	url      string
	state    RequestState
	result   *Result
}

// New creates a controller with TikTok selected and nothing submitted
func New(backend Backend, surface Surface) *Controller {
	c := &Controller{
		backend:  backend,
		surface:  surface,
		platform: domain.PlatformTikTok,
		state:    StateIdle,
	}

	c.mu.Lock()
	c.renderLocked()
	c.mu.Unlock()

	return c
}

// Screen returns the current snapshot
func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screenLocked()
}

// SelectPlatform activates a tab, swaps the placeholder, clears the URL and
// hides the result panel. An in-flight request keeps its loading panel.
func (c *Controller) SelectPlatform(platform domain.Platform) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.platform = platform
	c.url = ""
	if c.state != StateLoading {
		c.state = StateIdle
		c.result = nil
	}
	c.renderLocked()
}

// SetURL records the text typed into the URL input
func (c *Controller) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.url = url
	c.renderLocked()
}

// Submit sends the trimmed URL to the backend and renders the outcome. It
// blocks until the request settles. Backend and transport failures are
// rendered, not returned; the only error is ErrSubmitDisabled.
func (c *Controller) Submit(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)

	if err := c.begin(url); err != nil {
		return err
	}

	var result *Result
	defer func() {
		if r := recover(); r != nil {
			c.settle(RenderTransportError(fmt.Errorf("%v", r)))
			panic(r)
		}
		c.settle(result)
	}()

	resp, err := c.backend.Download(ctx, url)
	switch {
	case err != nil:
		result = RenderTransportError(err)
	case resp == nil:
		result = RenderTransportError(errors.New("empty response"))
	default:
		result = RenderResponse(resp)
	}

	return nil
}

// begin hides the previous result, shows the loading panel and disables submit
func (c *Controller) begin(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoading {
		return ErrSubmitDisabled
	}

	c.url = url
	c.state = StateLoading
	c.result = nil
	c.renderLocked()
	return nil
}

// settle hides the loading panel, shows the result and re-enables submit
func (c *Controller) settle(result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = result
	if result.IsSuccess() {
		c.state = StateSuccess
	} else {
		c.state = StateError
	}
	c.renderLocked()
}

func (c *Controller) screenLocked() Screen {
	screen := Screen{
		ActivePlatform: c.platform,
		Placeholder:    c.platform.Info().Placeholder,
		URL:            c.url,
		State:          c.state,
		Panel:          PanelFor(c.state),
		SubmitEnabled:  c.state != StateLoading,
	}
	if screen.Panel == PanelResult && c.result != nil {
		result := *c.result
		screen.Result = &result
	}
	return screen
}

func (c *Controller) renderLocked() {
	if c.surface == nil {
		return
	}
	c.surface.Render(c.screenLocked())
}
