package etcd

import (
	"bytes"
	"context"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Mode selects how hosts data is laid out in etcd.
type Mode int

const (
	// ModeSingle keeps the whole hosts file in one key.
	ModeSingle Mode = iota
	// ModePerHost keeps hosts lines in separate keys below a prefix.
	ModePerHost
)

// ParseMode maps a Corefile mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single":
		return ModeSingle, nil
	case "per_host":
		return ModePerHost, nil
	default:
		return 0, fmt.Errorf("unknown etcd mode %q", s)
	}
}

// Storage reads hosts formatted text from etcd.
type Storage interface {
	// Load returns the current hosts text and the etcd revision it was read at.
	// A missing key yields empty data and no error.
	Load(ctx context.Context) ([]byte, int64, error)

	// Watch reports the revision of every change. The channel is closed when
	// ctx is done or after an event carrying an error.
	Watch(ctx context.Context) <-chan Event
}

// Event is a change notification. Callers reload with Storage.Load.
type Event struct {
	Revision int64
	Err      error
}

type storage struct {
	cli    *clientv3.Client
	key    string
	prefix bool
}

func (s *storage) opts() []clientv3.OpOption {
	if s.prefix {
		return []clientv3.OpOption{clientv3.WithPrefix()}
	}
	return nil
}

func (s *storage) Load(ctx context.Context) ([]byte, int64, error) {
	resp, err := s.cli.Get(ctx, s.key, s.opts()...)
	if err != nil {
		return nil, 0, err
	}

	switch len(resp.Kvs) {
	case 0:
		return nil, resp.Header.Revision, nil
	case 1:
		return resp.Kvs[0].Value, resp.Header.Revision, nil
	}

	// Per-host values are joined line by line in key order.
	var buf bytes.Buffer
	for i, kv := range resp.Kvs {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(kv.Value)
	}
	return buf.Bytes(), resp.Header.Revision, nil
}

func (s *storage) Watch(ctx context.Context) <-chan Event {
	ch := make(chan Event, 1)

	go func() {
		defer close(ch)

		watcher := s.cli.Watch(clientv3.WithRequireLeader(ctx), s.key, s.opts()...)
		for {
			select {
			case <-ctx.Done():
				return
			case resp, ok := <-watcher:
				if !ok {
					return
				}
				if err := resp.Err(); err != nil {
					select {
					case ch <- Event{Err: err}:
					case <-ctx.Done():
					}
					return
				}
				// One event per response, however many keys changed.
				if len(resp.Events) == 0 {
					continue
				}
				select {
				case ch <- Event{Revision: resp.Header.Revision}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch
}
