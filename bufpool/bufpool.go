package bufpool

import (
	"sync/atomic"

	"github.com/valyala/bytebufferpool"
)

// Pool hands out fixed-size read buffers. Buffers come back from the
// underlying pool with arbitrary length, so every Get restores the
// configured one before lending the buffer out.
type Pool struct {
	size int
	pool bytebufferpool.Pool

	gets   atomic.Uint64
	puts   atomic.Uint64
	leased atomic.Int64
}

func New(size int) *Pool {
	return &Pool{size: size}
}

// Get leases a buffer whose B is exactly Size() bytes long. Every lease must
// end with a Put once the contents are consumed.
func (p *Pool) Get() *bytebufferpool.ByteBuffer {
	b := p.pool.Get()
	if cap(b.B) < p.size {
		b.B = make([]byte, p.size)
	} else {
		b.B = b.B[:p.size]
	}

	p.gets.Add(1)
	p.leased.Add(1)

	return b
}

// Put ends the lease. The buffer must not be touched afterwards.
func (p *Pool) Put(b *bytebufferpool.ByteBuffer) {
	p.puts.Add(1)
	p.leased.Add(-1)
	p.pool.Put(b)
}

func (p *Pool) Size() int {
	return p.size
}

// Leased is the number of buffers currently out. Zero means every Get was
// matched by a Put.
func (p *Pool) Leased() int64 {
	return p.leased.Load()
}

func (p *Pool) Gets() uint64 {
	return p.gets.Load()
}

func (p *Pool) Puts() uint64 {
	return p.puts.Load()
}
