// Package cdp attaches to a running Chromium over the DevTools protocol and
// turns Network events into finished-request notifications for a single
// registered consumer. The accept/reject decision lives in internal/capture,
// so everything below the consumer callback is testable without a browser.
package cdp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// RequestEvent describes one finished network request.
type RequestEvent struct {
	RequestID    string
	TabID        string
	URL          string
	Method       string
	ResourceType string
	FinishedAt   time.Time
}

// Consumer receives each finished request exactly once, in event order.
type Consumer func(RequestEvent)

// Client manages CDP connections to browser tabs and dispatches finished
// requests to the registered consumer.
type Client struct {
	cdpURL         string
	tabURLFilter   string
	reloadOnAttach bool

	consumer   Consumer
	consumerMu sync.RWMutex

	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabs        map[target.ID]*tabContext
	tabsMu      sync.RWMutex

	pending   map[string]*pendingRequest
	pendingMu sync.Mutex

	done chan struct{}
}

type tabContext struct {
	id     target.ID
	url    string
	cancel context.CancelFunc
}

type pendingRequest struct {
	url          string
	method       string
	resourceType string
	seenAt       time.Time
}

// NewClient creates a disconnected client.
func NewClient(cdpURL, tabURLFilter string, reloadOnAttach bool) *Client {
	c := &Client{
		cdpURL:         cdpURL,
		tabURLFilter:   tabURLFilter,
		reloadOnAttach: reloadOnAttach,
		tabs:           make(map[target.ID]*tabContext),
		pending:        make(map[string]*pendingRequest),
		done:           make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// OnRequestFinished registers the single consumer invoked per finished
// request. Registering replaces any previous consumer.
func (c *Client) OnRequestFinished(fn Consumer) {
	c.consumerMu.Lock()
	c.consumer = fn
	c.consumerMu.Unlock()
}

// Connect attaches to every open page tab matching the URL filter and enables
// network events on each.
func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	slog.Info("Connecting to Chromium", "url", c.cdpURL)

	c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), c.cdpURL)

	tempCtx, tempCancel := chromedp.NewContext(c.allocCtx)
	defer tempCancel()

	if err := chromedp.Run(tempCtx); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	targets, err := chromedp.Targets(tempCtx)
	if err != nil {
		return fmt.Errorf("failed to enumerate targets: %w", err)
	}

	attachedCount := 0
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if !c.matchesTabURL(t.URL) {
			slog.Debug("Skipping tab (url filter)", "url", t.URL)
			continue
		}
		if err := c.attachToTab(t.TargetID, t.URL); err != nil {
			slog.Error("Failed to attach to tab", "target_id", t.TargetID, "url", t.URL, "error", err)
			continue
		}
		attachedCount++
	}

	if attachedCount == 0 {
		return fmt.Errorf("no tabs found matching AGENT_TAB_URL_FILTER=%q", c.tabURLFilter)
	}

	slog.Info("Attached to tabs", "count", attachedCount, "tab_url_filter", c.tabURLFilter)
	return nil
}

func (c *Client) attachToTab(targetID target.ID, url string) error {
	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx, chromedp.WithTargetID(targetID))
	tab := &tabContext{id: targetID, url: url, cancel: tabCancel}

	c.tabsMu.Lock()
	c.tabs[targetID] = tab
	c.tabsMu.Unlock()

	if err := chromedp.Run(tabCtx, network.Enable(), network.SetCacheDisabled(true), page.Enable()); err != nil {
		tabCancel()
		c.tabsMu.Lock()
		delete(c.tabs, targetID)
		c.tabsMu.Unlock()
		return fmt.Errorf("failed to enable network/page domains: %w", err)
	}

	slog.Info("Attached to tab", "target_id", targetID, "url", truncateURL(url))
	chromedp.ListenTarget(tabCtx, c.createEventHandler(string(targetID)))

	if c.reloadOnAttach {
		reloadCtx, reloadCancel := context.WithTimeout(tabCtx, 30*time.Second)
		defer reloadCancel()
		if err := chromedp.Run(reloadCtx, chromedp.Reload()); err != nil {
			slog.Warn("Failed to reload tab (continuing)", "target_id", targetID, "error", err)
		}
	}

	return nil
}

func (c *Client) createEventHandler(tabID string) func(ev interface{}) {
	return func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			c.onRequestWillBeSent(e)
		case *network.EventResponseReceived:
			c.onResponseReceived(e)
		case *network.EventLoadingFinished:
			c.onLoadingFinished(tabID, e)
		case *network.EventLoadingFailed:
			c.onLoadingFailed(e)
		}
	}
}

func (c *Client) onRequestWillBeSent(ev *network.EventRequestWillBeSent) {
	c.pendingMu.Lock()
	c.pending[string(ev.RequestID)] = &pendingRequest{
		url:    ev.Request.URL,
		method: ev.Request.Method,
		seenAt: time.Now(),
	}
	c.pendingMu.Unlock()
}

func (c *Client) onResponseReceived(ev *network.EventResponseReceived) {
	c.pendingMu.Lock()
	if pending, ok := c.pending[string(ev.RequestID)]; ok {
		pending.resourceType = string(ev.Type)
	}
	c.pendingMu.Unlock()
}

func (c *Client) onLoadingFinished(tabID string, ev *network.EventLoadingFinished) {
	c.pendingMu.Lock()
	pending, ok := c.pending[string(ev.RequestID)]
	if ok {
		delete(c.pending, string(ev.RequestID))
	}
	c.pendingMu.Unlock()

	if !ok {
		return
	}

	c.consumerMu.RLock()
	consumer := c.consumer
	c.consumerMu.RUnlock()
	if consumer == nil {
		return
	}

	consumer(RequestEvent{
		RequestID:    string(ev.RequestID),
		TabID:        tabID,
		URL:          pending.url,
		Method:       pending.method,
		ResourceType: pending.resourceType,
		FinishedAt:   time.Now().UTC(),
	})
}

func (c *Client) onLoadingFailed(ev *network.EventLoadingFailed) {
	c.pendingMu.Lock()
	delete(c.pending, string(ev.RequestID))
	c.pendingMu.Unlock()
}

func (c *Client) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupStale()
		case <-c.done:
			return
		}
	}
}

// cleanupStale drops pending entries whose finish event never arrived.
func (c *Client) cleanupStale() {
	threshold := time.Now().Add(-5 * time.Minute)

	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for id, pending := range c.pending {
		if pending.seenAt.Before(threshold) {
			delete(c.pending, id)
		}
	}
}

// TabCount returns the number of attached tabs.
func (c *Client) TabCount() int {
	c.tabsMu.RLock()
	defer c.tabsMu.RUnlock()
	return len(c.tabs)
}

// Close detaches from all tabs and stops the cleanup loop.
func (c *Client) Close() error {
	close(c.done)

	c.tabsMu.Lock()
	for _, tab := range c.tabs {
		tab.cancel()
	}
	c.tabs = make(map[target.ID]*tabContext)
	c.tabsMu.Unlock()

	if c.allocCancel != nil {
		c.allocCancel()
	}

	slog.Info("CDP client closed")
	return nil
}

func (c *Client) matchesTabURL(url string) bool {
	if c.tabURLFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(url), strings.ToLower(c.tabURLFilter))
}

func truncateURL(url string) string {
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}
