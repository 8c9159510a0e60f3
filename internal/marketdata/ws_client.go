package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"trendlab/internal/domain"
	"trendlab/internal/observability"
)

// FeedConfig configures the websocket bar feed client.
type FeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultFeedConfig returns default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// BarMessage is one daily bar received from the feed.
type BarMessage struct {
	Ticker string
	Bar    domain.DailyBar
}

// FeedClient streams daily bars over a websocket connection. Subscriptions
// survive reconnects; bars are never dropped (sends block with a burst buffer).
type FeedClient struct {
	endpoint string
	config   FeedConfig
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// tickers stores subscriptions for resubscription after reconnect
	tickers   map[string]struct{}
	tickersMu sync.RWMutex

	bars chan BarMessage

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewFeedClient creates a new feed client and connects to the endpoint.
func NewFeedClient(ctx context.Context, endpoint string, config *FeedConfig) (*FeedClient, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}

	c := &FeedClient{
		endpoint: endpoint,
		config:   cfg,
		logger:   log.New(os.Stderr, "[feed] ", log.LstdFlags),
		tickers:  make(map[string]struct{}),
		// Blocking send ensures no bar loss; buffer absorbs burst
		bars: make(chan BarMessage, 1024),
		done: make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// connect establishes the websocket connection.
func (c *FeedClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// Subscribe requests bars for a ticker. Idempotent per ticker.
func (c *FeedClient) Subscribe(ctx context.Context, ticker string) error {
	if c.closed.Load() {
		return fmt.Errorf("client closed")
	}
	if ticker == "" {
		return fmt.Errorf("empty ticker")
	}

	if err := c.writeSubscribe(ticker); err != nil {
		return err
	}

	c.tickersMu.Lock()
	c.tickers[ticker] = struct{}{}
	c.tickersMu.Unlock()

	return nil
}

// Bars returns the channel delivering received bars. Closed on Close.
func (c *FeedClient) Bars() <-chan BarMessage {
	return c.bars
}

// Close closes the websocket connection and the bar channel.
func (c *FeedClient) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.wg.Wait()
	close(c.bars)
	return nil
}

func (c *FeedClient) writeSubscribe(ticker string) error {
	req := feedRequest{Type: "subscribe", Ticker: ticker}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// readLoop reads messages and dispatches bars.
func (c *FeedClient) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			// Connection error, reconnect with exponential backoff
			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = c.config.ReconnectDelay

		c.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (c *FeedClient) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	observability.RecordFeedReconnect()
	c.resubscribeAll()
}

// resubscribeAll resubscribes every active ticker after a reconnect.
func (c *FeedClient) resubscribeAll() {
	c.tickersMu.RLock()
	tickers := make([]string, 0, len(c.tickers))
	for t := range c.tickers {
		tickers = append(tickers, t)
	}
	c.tickersMu.RUnlock()

	for _, t := range tickers {
		if err := c.writeSubscribe(t); err != nil {
			c.logger.Printf("resubscribe %s failed: %v", t, err)
		}
	}
}

// handleMessage processes an incoming frame.
func (c *FeedClient) handleMessage(message []byte) {
	var frame feedFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.logger.Printf("malformed frame: %v", err)
		return
	}

	switch frame.Type {
	case "bar":
		c.handleBar(&frame)
	case "error":
		c.logger.Printf("feed error: %s", frame.Message)
	}
}

func (c *FeedClient) handleBar(frame *feedFrame) {
	date, err := time.Parse("2006-01-02", frame.Date)
	if err != nil {
		c.logger.Printf("bad bar date %q: %v", frame.Date, err)
		return
	}

	msg := BarMessage{
		Ticker: frame.Ticker,
		Bar: domain.DailyBar{
			Date:     date.UTC(),
			Open:     frame.Open,
			High:     frame.High,
			Low:      frame.Low,
			Close:    frame.Close,
			AdjClose: frame.AdjClose,
			Volume:   frame.Volume,
		},
	}

	// Block until we can send, never drop bars
	select {
	case c.bars <- msg:
	case <-c.done:
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (c *FeedClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			c.connMu.Unlock()
		}
	}
}

// Wire frame types

type feedRequest struct {
	Type   string `json:"type"`
	Ticker string `json:"ticker"`
}

type feedFrame struct {
	Type     string   `json:"type"`
	Ticker   string   `json:"ticker"`
	Date     string   `json:"date"`
	Open     float64  `json:"open"`
	High     float64  `json:"high"`
	Low      float64  `json:"low"`
	Close    float64  `json:"close"`
	AdjClose *float64 `json:"adj_close,omitempty"`
	Volume   *int64   `json:"volume,omitempty"`
	Message  string   `json:"message,omitempty"`
}
