package httphead

import (
	"bytes"
	"sync"

	"github.com/indigo-web/utils/buffer"
	"github.com/indigo-web/utils/uf"

	"github.com/keel-web/keel/conn"
)

// Handler receives every completed request head, through the terminating
// blank line. The head is borrowed: it lives until the handler returns.
// Responding, if any, happens right here through the connection.
type Handler func(c *conn.Conn, head []byte)

const (
	defaultHeadSpace = 1024
	maxHeadSpace     = 8 * 1024
)

var marker = []byte("\r\n\r\n")

// Reader is a deliberately thin request reader: it accumulates bytes until
// the end-of-head marker and hands the whole head to the handler. It does
// not validate nor interpret anything, and a head that outgrows its staging
// space simply costs the peer its connection.
type Reader struct {
	handler Handler
	pool    sync.Pool
}

var _ conn.Parser = new(Reader)

func New(handler Handler) *Reader {
	return &Reader{handler: handler}
}

// pending is one request head mid-accumulation.
type pending struct {
	c     *conn.Conn
	buf   *buffer.Buffer
	match int
}

func (r *Reader) Begin(c *conn.Conn, chunk []byte) conn.Handle {
	end, match := scan(chunk, 0)
	if end >= 0 {
		// whatever follows the head in the same chunk is dropped, requests
		// are not pipelined
		r.handler(c, chunk[:end])
		return nil
	}

	p := r.acquire(c)
	p.match = match

	if !p.buf.Append(chunk) {
		c.EndResponse()
		r.release(p)

		return nil
	}

	return p
}

func (r *Reader) Continue(h conn.Handle, chunk []byte) bool {
	p := h.(*pending)

	end, match := scan(chunk, p.match)
	if end >= 0 {
		if !p.buf.Append(chunk[:end]) {
			p.c.EndResponse()
			r.release(p)

			return false
		}

		r.handler(p.c, p.buf.Finish())
		r.release(p)

		return false
	}

	p.match = match

	if !p.buf.Append(chunk) {
		p.c.EndResponse()
		r.release(p)

		return false
	}

	return true
}

func (r *Reader) Abort(h conn.Handle) {
	r.release(h.(*pending))
}

func (r *Reader) acquire(c *conn.Conn) *pending {
	v := r.pool.Get()
	if v == nil {
		v = &pending{buf: buffer.New(defaultHeadSpace, maxHeadSpace)}
	}

	p := v.(*pending)
	p.c = c
	p.match = 0

	return p
}

func (r *Reader) release(p *pending) {
	p.c = nil
	p.buf.Clear()
	r.pool.Put(p)
}

// scan advances the end-of-head match state across data. end is the index
// right past the marker once it completes, -1 otherwise, with newMatch
// carrying the partial match into the next chunk.
func scan(data []byte, match int) (end, newMatch int) {
	for i, b := range data {
		switch {
		case b == marker[match]:
			match++
			if match == len(marker) {
				return i + 1, 0
			}
		case b == marker[0]:
			match = 1
		default:
			match = 0
		}
	}

	return -1, match
}

// RequestLine splits the first line of a head into its first two fields,
// conventionally the method and the target. Both alias the head's memory,
// so they obey the same borrowing rules.
func RequestLine(head []byte) (method, target string) {
	line := head
	if i := bytes.IndexByte(line, '\r'); i >= 0 {
		line = line[:i]
	}

	method, rest := field(line)
	target, _ = field(rest)

	return method, target
}

func field(line []byte) (string, []byte) {
	for i, b := range line {
		if b == ' ' {
			return uf.B2S(line[:i]), line[i+1:]
		}
	}

	return uf.B2S(line), nil
}
