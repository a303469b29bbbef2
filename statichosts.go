// Package statichosts is a CoreDNS plugin that answers A, AAAA and PTR
// queries from a hosts file, or hosts formatted text kept in etcd. Only
// loopback and private addresses are served; other lines are skipped.
package statichosts

import (
	"context"

	"github.com/coredns/coredns/plugin"
	"github.com/coredns/coredns/plugin/pkg/fall"

	"github.com/etcdhosts/statichosts/internal/hosts"
)

// StaticHosts is the plugin handler for statichosts.
type StaticHosts struct {
	Next    plugin.Handler
	Origins []string
	Fall    fall.F
	TTL     uint32

	noReverse bool
	store     *hosts.Store
	src       source

	cancel context.CancelFunc
	done   chan struct{}
}

// newStaticHosts returns a handler serving records from src.
func newStaticHosts(cfg *config, src source) *StaticHosts {
	return &StaticHosts{
		Origins:   cfg.origins,
		Fall:      cfg.fall,
		TTL:       cfg.ttl,
		noReverse: cfg.noReverse,
		store:     hosts.NewStore(),
		src:       src,
	}
}

// start loads the records once and keeps following the source.
func (h *StaticHosts) start() error {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})

	h.refresh(ctx)
	go h.run(ctx)
	return nil
}

func (h *StaticHosts) stop() error {
	if h.cancel != nil {
		h.cancel()
		<-h.done
		h.cancel = nil
	}
	return h.src.close()
}

func (h *StaticHosts) run(ctx context.Context) {
	defer close(h.done)

	notify := h.src.changes(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-notify:
			if !ok {
				return
			}
			h.refresh(ctx)
		}
	}
}

// refresh reloads the store when the source content changed. On error the
// previously loaded records stay in service.
func (h *StaticHosts) refresh(ctx context.Context) {
	records, changed, err := h.src.load(ctx)
	if err != nil {
		reloadsTotal.WithLabelValues(reloadError).Inc()
		log.Errorf("Failed to load hosts: %s", err)
		return
	}
	if !changed {
		return
	}

	h.store.Update(records)
	hostsEntries.Set(float64(len(records)))
	reloadsTotal.WithLabelValues(reloadSuccess).Inc()
	log.Debugf("Loaded %d hosts records", len(records))
}
