package conn

import (
	"errors"
	"net"
	"sync"

	"github.com/dchest/uniuri"

	"github.com/keel-web/keel/bufpool"
	"github.com/keel-web/keel/diag"
	"github.com/keel-web/keel/stat"
	"github.com/keel-web/keel/transport"
)

// ErrClosed is reported by operations on a connection that already began to
// close.
var ErrClosed = errors.New("connection is closed")

// Conn drives one accepted connection: it owns the socket, pumps read events
// out of it and feeds them to the parser, keeping at most one request in
// progress at a time.
type Conn struct {
	id     string
	client transport.Client
	parser Parser
	pool   *bufpool.Pool
	log    *diag.Logger
	stats  *stat.Counters

	mu      sync.Mutex
	state   State
	phase   phase
	pending Handle

	wmu sync.Mutex
}

func New(
	client transport.Client, parser Parser, pool *bufpool.Pool,
	log *diag.Logger, stats *stat.Counters,
) *Conn {
	return &Conn{
		id:     uniuri.NewLen(8),
		client: client,
		parser: parser,
		pool:   pool,
		log:    log,
		stats:  stats,
		state:  Open,
	}
}

// ID identifies the connection in diagnostics.
func (c *Conn) ID() string {
	return c.id
}

// Remote returns the peer's address.
func (c *Conn) Remote() net.Addr {
	return c.client.Remote()
}

// State reports where in its lifecycle the connection currently is.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Pending reports whether a request is mid-accumulation.
func (c *Conn) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.phase == phaseInProgress
}

// Run pumps the socket until the peer goes away or the connection is torn
// down, then completes the teardown. It blocks for the connection's whole
// lifetime and must be called exactly once.
func (c *Conn) Run() {
	c.stats.ConnsActive.Add(1)
	c.log.Debugf("conn %s: %s connected", c.id, c.client.Remote())

	for {
		buf := c.pool.Get()
		n, err := c.client.Read(buf.B)
		if err != nil {
			c.pool.Put(buf)
			c.readFailed(err)
			break
		}

		c.stats.BytesRead.Add(uint64(n))
		c.receive(buf.B[:n])
		c.pool.Put(buf)
	}

	c.finish()
}

// SendResponse writes one complete response over the socket. A failed or
// partial write is unrecoverable: the connection is torn down and the error
// handed back.
func (c *Conn) SendResponse(b []byte) error {
	c.mu.Lock()
	if c.state != Open {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	c.wmu.Lock()
	n, err := c.client.Write(b)
	c.wmu.Unlock()

	if err != nil {
		c.stats.WriteFailures.Add(1)
		c.log.Errorf("conn %s: write failed: %v", c.id, err)
		c.close()

		return err
	}

	c.stats.BytesWritten.Add(uint64(n))

	return nil
}

// EndResponse asks for the connection to be closed without anything going
// out. The closing settles once the pump observes the dead socket.
func (c *Conn) EndResponse() {
	c.close()
}

// receive hands one delivered chunk to the parser. Zero-length chunks go
// through like any other.
func (c *Conn) receive(chunk []byte) {
	if c.phase == phaseInProgress {
		if c.parser.Continue(c.pending, chunk) {
			return
		}

		c.clearPending()
		c.stats.RequestsCompleted.Add(1)

		return
	}

	c.stats.RequestsBegun.Add(1)

	if h := c.parser.Begin(c, chunk); h != nil {
		c.setPending(h)
		return
	}

	c.stats.RequestsCompleted.Add(1)
}

// readFailed starts the teardown after a failed read delivery: a request
// still accumulating is finalized abnormally, the socket is killed unless
// something already killed it. EOF takes this very path, too.
func (c *Conn) readFailed(err error) {
	c.mu.Lock()
	h := c.takePendingLocked()
	requested := c.requestCloseLocked()
	c.mu.Unlock()

	if h != nil {
		c.parser.Abort(h)
		c.stats.RequestsAborted.Add(1)
	}

	if requested {
		c.log.Debugf("conn %s: read interrupted: %v", c.id, err)
		_ = c.client.Close()
	}
}

// finish is the close completion: the pump has stopped, nothing will touch
// the socket anymore.
func (c *Conn) finish() {
	c.mu.Lock()
	c.state = Closed
	c.mu.Unlock()

	c.stats.ConnsActive.Add(-1)
	c.stats.ConnsClosed.Add(1)
	c.log.Debugf("conn %s: closed", c.id)
}

// close moves Open to Closing and kills the socket, exactly once no matter
// how many paths race into it.
func (c *Conn) close() {
	c.mu.Lock()
	requested := c.requestCloseLocked()
	c.mu.Unlock()

	if requested {
		_ = c.client.Close()
	}
}

func (c *Conn) requestCloseLocked() bool {
	if c.state != Open {
		return false
	}

	c.state = Closing

	return true
}

func (c *Conn) takePendingLocked() Handle {
	if c.phase != phaseInProgress {
		return nil
	}

	h := c.pending
	c.phase, c.pending = phaseNone, nil

	return h
}

func (c *Conn) setPending(h Handle) {
	c.mu.Lock()
	c.phase, c.pending = phaseInProgress, h
	c.mu.Unlock()
}

func (c *Conn) clearPending() {
	c.mu.Lock()
	c.phase, c.pending = phaseNone, nil
	c.mu.Unlock()
}
