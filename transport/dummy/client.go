package dummy

import (
	"io"
	"net"
	"sync"

	"github.com/keel-web/keel/transport"
)

var _ transport.Client = new(Client)

// Client replays a script of read chunks and records everything written into
// it. Once the script drains, reads report io.EOF unless another finishing
// error was set, or block until Close if Hang was called. Reads on a closed
// client always report net.ErrClosed, like a real socket would.
type Client struct {
	mu     sync.Mutex
	chunks [][]byte
	finErr error
	hang   bool

	writes   [][]byte
	writeErr error

	closed     chan struct{}
	closeCalls int
}

func NewClient(chunks ...[]byte) *Client {
	return &Client{
		chunks: chunks,
		finErr: io.EOF,
		closed: make(chan struct{}),
	}
}

// Hang makes reads past the script block until Close instead of finishing
// with an error.
func (c *Client) Hang() *Client {
	c.hang = true
	return c
}

// FinishWith replaces io.EOF as the error reported once the script drains.
func (c *Client) FinishWith(err error) *Client {
	c.finErr = err
	return c
}

// FailWrites makes every subsequent Write report err.
func (c *Client) FailWrites(err error) *Client {
	c.mu.Lock()
	c.writeErr = err
	c.mu.Unlock()

	return c
}

func (c *Client) Read(p []byte) (int, error) {
	c.mu.Lock()

	if c.isClosed() {
		c.mu.Unlock()
		return 0, net.ErrClosed
	}

	if len(c.chunks) > 0 {
		chunk := c.chunks[0]
		n := copy(p, chunk)
		if n < len(chunk) {
			c.chunks[0] = chunk[n:]
		} else {
			c.chunks = c.chunks[1:]
		}
		c.mu.Unlock()

		return n, nil
	}

	if !c.hang {
		err := c.finErr
		c.mu.Unlock()
		return 0, err
	}

	c.mu.Unlock()
	<-c.closed

	return 0, net.ErrClosed
}

func (c *Client) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeErr != nil {
		return 0, c.writeErr
	}

	c.writes = append(c.writes, append([]byte(nil), b...))

	return len(b), nil
}

// Close unblocks hanging reads and fails all following ones. Every call is
// counted, so tests can assert it happened exactly once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeCalls++
	if c.closeCalls == 1 {
		close(c.closed)
	}

	return nil
}

func (c *Client) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 1337}
}

// Written is everything the client received, squashed together.
func (c *Client) Written() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	var all []byte
	for _, w := range c.writes {
		all = append(all, w...)
	}

	return all
}

func (c *Client) Writes() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([][]byte(nil), c.writes...)
}

func (c *Client) CloseCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closeCalls
}

func (c *Client) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
