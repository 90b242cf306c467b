package distributed

import (
	"context"

	"github.com/tamirms/extsort"
)

// Transport moves index entries between ranks. It abstracts the underlying
// process-launching and networking layer, which is out of scope here — a
// deployment supplies its own Transport (e.g. one backed by a real network
// connection per rank pair); the transports returned by NewChannelNetwork
// are the in-process implementation used for testing and for
// single-machine fan-out.
//
// A round's tag distinguishes concurrent exchanges (mirroring how a
// message-passing merge tree tags each round and the initial scatter
// differently so replies can't be confused with each other).
type Transport interface {
	// Send blocks until the entries have been handed off to rank at tag, or
	// ctx is canceled. Sending zero entries is legal and is a no-op some
	// implementations may skip, matching a merge round where a peer's
	// subtree is empty.
	Send(ctx context.Context, to int, tag int, entries []extsort.IndexEntry) error

	// Recv blocks until exactly want entries have arrived from rank at tag,
	// or ctx is canceled. want == 0 returns an empty slice immediately.
	Recv(ctx context.Context, from int, tag int, want int) ([]extsort.IndexEntry, error)
}
