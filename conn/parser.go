package conn

// Handle is an opaque reference to a request the parser keeps accumulating
// across read events.
type Handle any

// Parser consumes raw read events and assembles requests out of them. It
// reports nothing back beyond accumulation state: whatever responding is to
// happen, the parser arranges itself through the connection it was handed.
//
// All three operations are called on the connection's own goroutine, one at
// a time. Chunks are borrowed: they are valid strictly for the duration of
// the call and must be copied to survive it.
type Parser interface {
	// Begin consumes the first chunk of a fresh request cycle. A non-nil
	// Handle means the request wants more bytes, which will arrive through
	// Continue. nil means the chunk already carried the whole request.
	Begin(c *Conn, chunk []byte) Handle

	// Continue feeds one more chunk to an accumulating request. Returning
	// false means the request is finished and the handle is dead.
	Continue(h Handle, chunk []byte) (needsMore bool)

	// Abort finalizes an accumulating request that will never complete.
	// The handle is dead afterwards.
	Abort(h Handle)
}
