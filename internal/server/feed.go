// Package server publishes the desk to browsers over a websocket feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/deskcheck/internal/core/events/bus"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

var _ round.ScoreDisplay = (*Feed)(nil)

type Config struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Path         string        `yaml:"path"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// SendBuffer is the number of messages queued per client before new
	// ones are dropped for that client.
	SendBuffer int `yaml:"send_buffer"`
}

func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8089",
		Path:         "/ws",
		WriteTimeout: 2 * time.Second,
		SendBuffer:   64,
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" || c.Path == "" {
		return ErrInvalidConfig
	}
	if c.SendBuffer <= 0 || c.WriteTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Message is one JSON frame sent to clients.
type Message struct {
	Type   string    `json:"type"`
	Source string    `json:"source,omitempty"`
	At     time.Time `json:"at"`
	Data   any       `json:"data,omitempty"`
}

// Score is the payload of "score" messages.
type Score struct {
	Correct  int `json:"correct"`
	Mistakes int `json:"mistakes"`
}

const TypeScore = "score"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed fans desk messages out to every connected websocket client. Sends
// never block the caller; slow clients lose messages.
type Feed struct {
	cfg Config
	log log.Log

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	subs    []bus.Subscription

	srv *http.Server
}

func NewFeed(cfg Config, logger log.Log) *Feed {
	return &Feed{
		cfg:     cfg,
		log:     log.OrNop(logger).Named("feed"),
		clients: make(map[*client]struct{}),
	}
}

// ShowScore broadcasts the tally and remembers it for clients that join
// later.
func (f *Feed) ShowScore(correct, mistakes int) {
	data, err := encode(Message{Type: TypeScore, At: time.Now(), Data: Score{Correct: correct, Mistakes: mistakes}})
	if err != nil {
		f.log.Warn("encode score failed", log.Error(err))
		return
	}
	f.mu.Lock()
	f.last = data
	f.mu.Unlock()
	f.broadcast(data)
}

// Attach forwards every event published on the given bus topics.
func (f *Feed) Attach(events bus.EventBus, topics ...string) error {
	for _, topic := range topics {
		sub, err := events.SubscribeTopicAll(topic, f.forward)
		if err != nil {
			return err
		}
		f.mu.Lock()
		f.subs = append(f.subs, sub)
		f.mu.Unlock()
	}
	return nil
}

func (f *Feed) forward(e bus.Event) error {
	data, err := encode(Message{Type: e.Type(), Source: e.Source(), At: e.Timestamp(), Data: e.Data()})
	if err != nil {
		f.log.Warn("encode event failed", log.String("type", e.Type()), log.Error(err))
		return nil
	}
	f.broadcast(data)
	return nil
}

// Clients is the number of connected clients.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) broadcast(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			f.log.Warn("client too slow, message dropped", log.String("remote", c.conn.RemoteAddr().String()))
		}
	}
}

// ServeHTTP upgrades requests on the feed path.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != f.cfg.Path {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn("upgrade failed", log.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, max(f.cfg.SendBuffer, 1))}

	f.mu.Lock()
	f.clients[c] = struct{}{}
	if f.last != nil {
		c.send <- f.last
	}
	f.mu.Unlock()
	f.log.Debug("client connected", log.String("remote", conn.RemoteAddr().String()))

	go f.writeLoop(c)
	f.readLoop(c)
}

// readLoop discards client frames and detects disconnects.
func (f *Feed) readLoop(c *client) {
	defer f.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writeLoop(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(f.cfg.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			f.log.Warn("write failed", log.Error(err))
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}

func (f *Feed) drop(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; !ok {
		return
	}
	delete(f.clients, c)
	close(c.send)
	f.log.Debug("client disconnected", log.String("remote", c.conn.RemoteAddr().String()))
}

// Serve accepts connections on l until ctx is done, then shuts down and
// disconnects every client.
func (f *Feed) Serve(ctx context.Context, l net.Listener) error {
	f.mu.Lock()
	if f.srv != nil {
		f.mu.Unlock()
		return ErrFeedRunning
	}
	f.srv = &http.Server{Handler: f, ReadHeaderTimeout: 5 * time.Second}
	srv := f.srv
	f.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()
	f.log.Info("feed listening", log.String("addr", l.Addr().String()), log.String("path", f.cfg.Path))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), f.cfg.WriteTimeout)
	defer cancel()
	err := srv.Shutdown(shutdown)
	f.closeAll()
	return err
}

// ListenAndServe listens on the configured address and serves until ctx is
// done.
func (f *Feed) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", f.cfg.Addr)
	if err != nil {
		return errors.Join(ErrListen, err)
	}
	return f.Serve(ctx, l)
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	clients := make([]*client, 0, len(f.clients))
	for c := range f.clients {
		clients = append(clients, c)
	}
	subs := f.subs
	f.subs = nil
	f.mu.Unlock()
	for _, s := range subs {
		_ = s.Cancel()
	}
	for _, c := range clients {
		_ = c.conn.Close()
	}
}

func encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}
