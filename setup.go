package statichosts

import (
	"errors"
	"path/filepath"
	"strconv"
	"time"

	"github.com/coredns/caddy"
	"github.com/coredns/coredns/core/dnsserver"
	"github.com/coredns/coredns/plugin"
	"github.com/coredns/coredns/plugin/pkg/fall"
	clog "github.com/coredns/coredns/plugin/pkg/log"
	mwtls "github.com/coredns/coredns/plugin/pkg/tls"

	"github.com/etcdhosts/statichosts/internal/etcd"
)

const (
	pluginName = "statichosts"

	defaultPath   = "/etc/hosts"
	defaultTTL    = 3600
	defaultReload = 5 * time.Second
)

var log = clog.NewWithPlugin(pluginName)

func init() { plugin.Register(pluginName, setup) }

func setup(c *caddy.Controller) error {
	cfg, err := parseConfig(c)
	if err != nil {
		return plugin.Error(pluginName, err)
	}

	if root := dnsserver.GetConfig(c).Root; root != "" && !filepath.IsAbs(cfg.path) {
		cfg.path = filepath.Join(root, cfg.path)
	}

	src, err := cfg.newSource()
	if err != nil {
		return plugin.Error(pluginName, err)
	}

	h := newStaticHosts(cfg, src)
	c.OnStartup(h.start)
	c.OnShutdown(h.stop)

	dnsserver.GetConfig(c).AddPlugin(func(next plugin.Handler) plugin.Handler {
		h.Next = next
		return h
	})

	return nil
}

// config is the parsed statichosts Corefile block.
type config struct {
	path      string
	origins   []string
	ttl       uint32
	reload    time.Duration
	noReverse bool
	fall      fall.F
	timeout   time.Duration

	// etcd is nil unless the etcd property was given.
	etcd *etcd.Config
}

func (cfg *config) newSource() (source, error) {
	if cfg.etcd == nil {
		return &fileSource{path: cfg.path, reload: cfg.reload}, nil
	}

	client, err := etcd.NewClient(cfg.etcd)
	if err != nil {
		return nil, err
	}
	return &etcdSource{
		storage: client.Storage(),
		key:     client.Key(),
		timeout: cfg.timeout,
		closer:  client,
	}, nil
}

func parseConfig(c *caddy.Controller) (*config, error) {
	cfg := &config{
		path:    defaultPath,
		ttl:     defaultTTL,
		reload:  defaultReload,
		timeout: etcd.DefaultDialTimeout,
	}
	etcdCfg := etcd.Config{}
	etcdOpts := false

	i := 0
	for c.Next() {
		if i > 0 {
			return nil, plugin.ErrOnce
		}
		i++

		args := c.RemainingArgs()
		if len(args) >= 1 {
			cfg.path = args[0]
			args = args[1:]
		}
		cfg.origins = plugin.OriginsFromArgsOrServerBlock(args, c.ServerBlockKeys)

		for c.NextBlock() {
			switch c.Val() {
			case "ttl":
				args := c.RemainingArgs()
				if len(args) != 1 {
					return nil, c.ArgErr()
				}
				ttl, err := strconv.Atoi(args[0])
				if err != nil {
					return nil, c.Errf("ttl needs a number of seconds: %s", args[0])
				}
				if ttl <= 0 || ttl > 65535 {
					return nil, c.Errf("ttl provided is invalid: %d", ttl)
				}
				cfg.ttl = uint32(ttl)
			case "reload":
				d, err := durationArg(c)
				if err != nil {
					return nil, err
				}
				cfg.reload = d
			case "no_reverse":
				if c.NextArg() {
					return nil, c.ArgErr()
				}
				cfg.noReverse = true
			case "fallthrough":
				cfg.fall.SetZonesFromArgs(c.RemainingArgs())
			case "etcd":
				args := c.RemainingArgs()
				if len(args) == 0 {
					return nil, c.ArgErr()
				}
				etcdCfg.Endpoints = args
			case "etcd_key":
				if !c.NextArg() {
					return nil, c.ArgErr()
				}
				etcdCfg.Key = c.Val()
				etcdOpts = true
			case "etcd_mode":
				if !c.NextArg() {
					return nil, c.ArgErr()
				}
				mode, err := etcd.ParseMode(c.Val())
				if err != nil {
					return nil, c.Err(err.Error())
				}
				etcdCfg.Mode = mode
				etcdOpts = true
			case "credentials":
				args := c.RemainingArgs()
				if len(args) != 2 {
					return nil, c.Errf("credentials requires 2 arguments, username and password")
				}
				etcdCfg.Username, etcdCfg.Password = args[0], args[1]
				etcdOpts = true
			case "tls": // cert key cacertfile
				tlsConfig, err := mwtls.NewTLSConfigFromArgs(c.RemainingArgs()...)
				if err != nil {
					return nil, err
				}
				etcdCfg.TLSConfig = tlsConfig
				etcdOpts = true
			case "timeout":
				d, err := durationArg(c)
				if err != nil {
					return nil, err
				}
				if d == 0 {
					return nil, c.Errf("timeout must be positive")
				}
				cfg.timeout = d
				etcdOpts = true
			default:
				return nil, c.Errf("unknown property '%s'", c.Val())
			}
		}
	}

	if len(etcdCfg.Endpoints) > 0 {
		etcdCfg.DialTimeout = cfg.timeout
		cfg.etcd = &etcdCfg
	} else if etcdOpts {
		return nil, errors.New("etcd options given without etcd endpoints")
	}

	return cfg, nil
}

// durationArg reads a single non-negative duration argument.
func durationArg(c *caddy.Controller) (time.Duration, error) {
	args := c.RemainingArgs()
	if len(args) != 1 {
		return 0, c.ArgErr()
	}
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return 0, c.Errf("invalid duration %q: %s", args[0], err)
	}
	if d < 0 {
		return 0, c.Errf("duration must not be negative: %s", d)
	}
	return d, nil
}
