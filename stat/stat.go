package stat

import "sync/atomic"

// Counters is the tally block shared by one App instance and everything it
// owns. All fields are monotonic except ConnsActive, which moves both ways.
type Counters struct {
	ConnsAccepted atomic.Uint64
	ConnsActive   atomic.Int64
	ConnsClosed   atomic.Uint64

	RequestsBegun     atomic.Uint64
	RequestsCompleted atomic.Uint64
	RequestsAborted   atomic.Uint64

	BytesRead     atomic.Uint64
	BytesWritten  atomic.Uint64
	WriteFailures atomic.Uint64
}
