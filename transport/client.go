package transport

import "net"

// Client is the socket handle one connection owns: blocking reads into a
// caller-supplied buffer, blocking writes, and a close that is safe to race
// with either.
type Client interface {
	Read(p []byte) (n int, err error)
	Write(b []byte) (n int, err error)
	Remote() net.Addr
	Close() error
}

type client struct {
	conn net.Conn
}

func NewClient(conn net.Conn) Client {
	return &client{conn: conn}
}

// Read fills p with whatever the socket has, blocking until at least one
// byte arrived, the peer finished or the connection broke.
func (c *client) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

// Write pushes b into the socket, reporting an error unless all of it went
// through.
func (c *client) Write(b []byte) (int, error) {
	return c.conn.Write(b)
}

// Remote returns the remote address of the connection.
func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the connection.
func (c *client) Close() error {
	return c.conn.Close()
}
