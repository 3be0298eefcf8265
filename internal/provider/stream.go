package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// StreamConfig configures Stream behavior.
type StreamConfig struct {
	// ReconnectDelay is initial delay before a reconnect attempt.
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

// DefaultStreamConfig returns default stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Notification is one live event from the provider: a new confirmed
// transaction touching a subscribed wallet.
type Notification struct {
	Signature string `json:"signature"`
	Wallet    string `json:"wallet"`
	Timestamp int64  `json:"timestamp"`
}

// subscribeMessage is the wire form of a wallet subscription.
type subscribeMessage struct {
	Action  string   `json:"action"`
	Wallets []string `json:"wallets"`
}

// Stream maintains a WebSocket subscription to the provider's live
// transaction feed for a set of wallets, reconnecting with backoff and
// resubscribing after drops.
type Stream struct {
	endpoint string
	apiKey   string
	config   StreamConfig
	log      zerolog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	wallets   []string
	walletsMu sync.RWMutex

	out  chan Notification
	done chan struct{}
	wg   sync.WaitGroup
}

// NewStream connects to the provider's WebSocket feed and subscribes to
// the given wallets.
func NewStream(ctx context.Context, endpoint, apiKey string, wallets []string, config *StreamConfig, log zerolog.Logger) (*Stream, error) {
	cfg := DefaultStreamConfig()
	if config != nil {
		cfg = *config
	}

	s := &Stream{
		endpoint: endpoint,
		apiKey:   apiKey,
		config:   cfg,
		log:      log,
		wallets:  append([]string(nil), wallets...),
		out:      make(chan Notification, 1024),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	if err := s.subscribe(); err != nil {
		s.Close()
		return nil, err
	}

	s.wg.Add(2)
	go s.readLoop()
	go s.pingLoop()

	return s, nil
}

// Notifications returns the live event channel. It is closed on Close.
func (s *Stream) Notifications() <-chan Notification {
	return s.out
}

// UpdateWallets replaces the subscribed wallet set.
func (s *Stream) UpdateWallets(wallets []string) error {
	s.walletsMu.Lock()
	s.wallets = append([]string(nil), wallets...)
	s.walletsMu.Unlock()
	return s.subscribe()
}

// connect establishes the WebSocket connection.
func (s *Stream) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	header := map[string][]string{}
	if s.apiKey != "" {
		header["x-api-key"] = []string{s.apiKey}
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, header)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	s.conn = conn
	return nil
}

// subscribe sends the current wallet set to the provider.
func (s *Stream) subscribe() error {
	s.walletsMu.RLock()
	msg := subscribeMessage{Action: "subscribe", Wallets: append([]string(nil), s.wallets...)}
	s.walletsMu.RUnlock()

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// Close shuts the stream down and closes the notification channel.
func (s *Stream) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.out)
	return nil
}

// readLoop reads notifications and dispatches them, reconnecting with
// exponential backoff on errors.
func (s *Stream) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}
			s.log.Warn().Err(err).Msg("stream read failed; reconnecting")
			if !s.reconnect(reconnectDelay) {
				return
			}
			reconnectDelay *= 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}
			continue
		}
		reconnectDelay = s.config.ReconnectDelay

		var notif Notification
		if err := json.Unmarshal(message, &notif); err != nil || notif.Signature == "" {
			continue
		}

		select {
		case s.out <- notif:
		case <-s.done:
			return
		}
	}
}

// reconnect re-establishes the connection and resubscribes. Returns false
// when the stream was closed while waiting.
func (s *Stream) reconnect(delay time.Duration) bool {
	select {
	case <-s.done:
		return false
	case <-time.After(delay):
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	if err := s.connect(ctx); err != nil {
		s.log.Warn().Err(err).Msg("stream reconnect failed")
		return !s.closed.Load()
	}
	if err := s.subscribe(); err != nil {
		s.log.Warn().Err(err).Msg("stream resubscribe failed")
	}
	return true
}

// pingLoop keeps the connection alive.
func (s *Stream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				s.conn.WriteMessage(websocket.PingMessage, nil)
			}
			s.connMu.Unlock()
		}
	}
}
