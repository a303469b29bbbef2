package etcd

import (
	"crypto/tls"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const (
	// DefaultDialTimeout is the default timeout for connecting to etcd.
	DefaultDialTimeout = 5 * time.Second
	// DefaultKey is the default key, or key prefix, holding hosts data.
	DefaultKey = "/statichosts"
)

// Config holds the configuration for reading hosts data from etcd.
type Config struct {
	Endpoints   []string      // etcd endpoints (required)
	Username    string        // etcd username for authentication
	Password    string        // etcd password for authentication
	TLSConfig   *tls.Config   // TLS configuration for secure connections
	DialTimeout time.Duration // timeout for initial connection (default 5s)
	Key         string        // key or prefix (default /statichosts)
	Mode        Mode          // storage layout (default ModeSingle)
}

// Client owns an etcd connection used by a Storage.
type Client struct {
	cli  *clientv3.Client
	key  string
	mode Mode
}

// NewClient connects to etcd with cfg.
func NewClient(cfg *Config) (*Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = DefaultDialTimeout
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
		TLS:         cfg.TLSConfig,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		cli:  cli,
		key:  normalizeKey(cfg.Key, cfg.Mode),
		mode: cfg.Mode,
	}, nil
}

// Storage returns the hosts Storage for the configured key and mode.
func (c *Client) Storage() Storage {
	return &storage{cli: c.cli, key: c.key, prefix: c.mode == ModePerHost}
}

// Key returns the key, or prefix, the client reads.
func (c *Client) Key() string { return c.key }

// Close releases the etcd connection.
func (c *Client) Close() error {
	return c.cli.Close()
}

// normalizeKey applies the default key, makes it absolute and, for
// ModePerHost, terminates it with a slash so it only matches child keys.
func normalizeKey(key string, mode Mode) string {
	if key == "" {
		key = DefaultKey
	}
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	if mode == ModePerHost && !strings.HasSuffix(key, "/") {
		key += "/"
	}
	return key
}
