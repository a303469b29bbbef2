package statichosts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/etcdhosts/statichosts/internal/etcd"
	"github.com/etcdhosts/statichosts/internal/hosts"
)

// source supplies hosts records to the plugin.
type source interface {
	// load returns the current records. changed is false when the content
	// is known to be unchanged since the last successful load.
	load(ctx context.Context) (records []hosts.Record, changed bool, err error)

	// changes signals when load should be called again. A nil channel
	// means the source never changes.
	changes(ctx context.Context) <-chan struct{}

	close() error
}

// newParser returns a parser that logs and counts discarded lines.
func newParser(origin string) *hosts.Parser {
	return hosts.NewParser(hosts.WithDropHandler(func(d hosts.Drop) {
		reason := dropParse
		if errors.Is(d.Err, hosts.ErrInvalidAddress) {
			reason = dropInvalid
		}
		droppedLines.WithLabelValues(reason).Inc()
		log.Debugf("Skipping %s line %d %q: %s", origin, d.Line, d.Text, d.Err)
	}))
}

// fileSource reads a hosts file and polls it for modifications.
type fileSource struct {
	path   string
	reload time.Duration

	// only accessed by the goroutine calling load
	mtime  time.Time
	size   int64
	loaded bool
}

func (s *fileSource) load(_ context.Context) ([]hosts.Record, bool, error) {
	st, err := os.Stat(s.path)
	if err == nil && s.loaded && st.ModTime().Equal(s.mtime) && st.Size() == s.size {
		return nil, false, nil
	}

	records, err := newParser(s.path).Parse(s.path)
	if err != nil {
		s.loaded = false
		return nil, false, err
	}
	if st != nil {
		s.mtime, s.size = st.ModTime(), st.Size()
	}
	s.loaded = true
	return records, true, nil
}

func (s *fileSource) changes(ctx context.Context) <-chan struct{} {
	if s.reload == 0 {
		return nil
	}

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.reload)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch
}

func (s *fileSource) close() error { return nil }

// etcdSource reads hosts formatted text from etcd and follows its changes.
type etcdSource struct {
	storage etcd.Storage
	key     string
	timeout time.Duration
	closer  io.Closer

	revision int64
	loaded   bool
}

// rewatchDelay is how long to wait before re-establishing a failed watch.
const rewatchDelay = time.Second

func (s *etcdSource) load(ctx context.Context) ([]hosts.Record, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, rev, err := s.storage.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	if s.loaded && rev == s.revision {
		return nil, false, nil
	}

	records, err := newParser(s.key).ParseReader(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	s.revision, s.loaded = rev, true
	return records, true, nil
}

func (s *etcdSource) changes(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		rewatch := false
		for {
			events := s.storage.Watch(ctx)
			// Writes made while no watch was active are only picked up by a load.
			if rewatch && !notify(ctx, ch) {
				return
			}
			for ev := range events {
				if ev.Err != nil {
					log.Warningf("Watch on %s failed: %s", s.key, ev.Err)
					continue
				}
				if !notify(ctx, ch) {
					return
				}
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(rewatchDelay):
			}
			rewatch = true
		}
	}()
	return ch
}

// notify sends on ch unless ctx is done first.
func notify(ctx context.Context, ch chan<- struct{}) bool {
	select {
	case ch <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *etcdSource) close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
