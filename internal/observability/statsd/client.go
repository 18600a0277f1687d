package statsd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultService tags every datagram unless Config.Service overrides it.
const DefaultService = "uploader"

const defaultDialTimeout = 2 * time.Second

// Config selects the UDP sink for auth metrics (sign-in, validation, guard
// decisions). An empty Address turns the client into a silent drop.
type Config struct {
	Enabled     bool
	Address     string
	Prefix      string
	Service     string
	Tags        map[string]string
	Logger      *slog.Logger
	DialTimeout time.Duration
}

// datagram is one DogStatsD line before encoding.
type datagram struct {
	name  string
	value string
	kind  string
	tags  map[string]string
}

// encode renders the datagram as "<prefix>.<name>:<value>|<kind>|#k:v,...".
// An unusable name yields "".
func (d datagram) encode(prefix string, base map[string]string) string {
	metric := qualifiedName(prefix, d.name)
	if metric == "" {
		return ""
	}
	out := metric + ":" + d.value + "|" + d.kind

	tags := mergeTags(base, d.tags)
	if len(tags) == 0 {
		return out
	}
	pairs := make([]string, 0, len(tags))
	for _, k := range sortedKeys(tags) {
		pairs = append(pairs, k+":"+tags[k])
	}
	return out + "|#" + strings.Join(pairs, ",")
}

// Client writes auth metrics to a StatsD agent. Write failures never reach
// callers; they are counted and logged once.
type Client struct {
	prefix string
	tags   map[string]string
	logger *slog.Logger

	mu  sync.Mutex
	out io.WriteCloser

	failures atomic.Int64
}

var _ Sink = (*Client)(nil)

// NewClient builds a client for cfg and dials the agent when one is configured.
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = DefaultService
	}
	tags := cleanTags(cfg.Tags)
	if _, ok := tags["service"]; !ok {
		tags["service"] = service
	}

	c := &Client{
		prefix: sanitizePrefix(cfg.Prefix),
		tags:   tags,
		logger: logger.With("component", "statsd", "service", service),
	}

	addr := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || addr == "" {
		return c, nil
	}
	conn, err := dialUDP(addr, cfg.DialTimeout)
	if err != nil {
		return nil, err
	}
	c.out = conn
	return c, nil
}

func dialUDP(addr string, timeout time.Duration) (net.Conn, error) {
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", addr, err)
	}
	return conn, nil
}

// Enabled reports whether metrics currently leave the process.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out != nil
}

// Failures reports how many datagrams could not be written.
func (c *Client) Failures() int64 {
	if c == nil {
		return 0
	}
	return c.failures.Load()
}

func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.emit(datagram{name: name, value: strconv.FormatInt(value, 10), kind: "c", tags: tags})
}

func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	c.emit(datagram{name: name, value: formatFloat(value), kind: "g", tags: tags})
}

// Timing reports d in fractional milliseconds.
func (c *Client) Timing(name string, d time.Duration, tags map[string]string) {
	ms := float64(d) / float64(time.Millisecond)
	c.emit(datagram{name: name, value: formatFloat(ms), kind: "ms", tags: tags})
}

// Close stops emission. Later calls are no-ops.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	out := c.out
	c.out = nil
	c.mu.Unlock()

	if out == nil {
		return nil
	}
	return out.Close()
}

func (c *Client) emit(d datagram) {
	if c == nil {
		return
	}
	payload := d.encode(c.prefix, c.tags)
	if payload == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out == nil {
		return
	}
	if _, err := io.WriteString(c.out, payload); err != nil {
		if c.failures.Add(1) == 1 {
			c.logger.Warn("statsd write failed; further failures are logged at debug", "metric", d.name, "error", err)
			return
		}
		c.logger.Debug("statsd write failed", "metric", d.name, "error", err)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
