package transport

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"

	"github.com/keel-web/keel/config"
	"github.com/keel-web/keel/diag"
)

// OnConn runs on the connection's own goroutine and owns the accepted
// connection for its whole lifetime.
type OnConn func(client Client)

// TCP owns the listening socket and keeps track of every connection accepted
// from it, so a shutdown can reach all of them.
type TCP struct {
	log *diag.Logger

	mu    sync.Mutex
	l     net.Listener
	conns map[net.Conn]struct{}

	wg       sync.WaitGroup
	stopping atomic.Bool
}

func NewTCP(log *diag.Logger) *TCP {
	return &TCP{
		log:   log,
		conns: map[net.Conn]struct{}{},
	}
}

// Bind acquires the listening socket. The listener is IPv4-only. A failure
// here leaves nothing to serve, so the caller must treat it as fatal.
func (t *TCP) Bind(addr string) error {
	l, err := net.Listen("tcp4", addr)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.l = l
	t.mu.Unlock()

	return nil
}

// Addr reports the bound address, nil before Bind.
func (t *TCP) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

// Serve accepts connections until the listener goes away, handing each one
// to cb on its own goroutine. A failed accept drops that attempt only: the
// loop pauses briefly and keeps going, with the pause growing while failures
// persist. Serve returns nil once a requested shutdown drained all handlers,
// and the listener's error if it broke on its own.
func (t *TCP) Serve(cfg config.NET, cb OnConn) error {
	delay := &backoff.Backoff{
		Min:    cfg.AcceptRetryMin,
		Max:    cfg.AcceptRetryMax,
		Factor: 2,
		Jitter: true,
	}

	for {
		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				t.wg.Wait()

				if t.stopping.Load() {
					return nil
				}

				return err
			}

			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				d := delay.Duration()
				t.log.Debugf("tcp: accept failed: %v; retrying in %s", err, d)
				time.Sleep(d)
				continue
			}

			return err
		}

		delay.Reset()
		t.track(conn)
		t.wg.Add(1)

		go func() {
			defer t.wg.Done()

			cb(NewClient(conn))
			_ = conn.Close()
			t.untrack(conn)
		}()
	}
}

// Stop shuts the listener and ALL the connections down. Serve returns once
// the handlers have drained.
func (t *TCP) Stop() {
	t.stopping.Store(true)
	t.closeListener()

	t.mu.Lock()
	for conn := range t.conns {
		_ = conn.Close()
	}
	t.mu.Unlock()
}

// GracefulStop shuts the listener down, leaving all the connections free to
// end their lives peacefully. Serve returns once the last of them did.
func (t *TCP) GracefulStop() {
	t.stopping.Store(true)
	t.closeListener()
}

func (t *TCP) closeListener() {
	t.mu.Lock()
	if t.l != nil {
		_ = t.l.Close()
	}
	t.mu.Unlock()
}

func (t *TCP) track(conn net.Conn) {
	t.mu.Lock()
	t.conns[conn] = struct{}{}
	t.mu.Unlock()
}

func (t *TCP) untrack(conn net.Conn) {
	t.mu.Lock()
	delete(t.conns, conn)
	t.mu.Unlock()
}
