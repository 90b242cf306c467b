package distributed

import (
	"context"
	"fmt"
	"sync"

	"github.com/tamirms/extsort"
	sorterrors "github.com/tamirms/extsort/errors"
)

// ChannelNetwork wires a fixed number of ranks together with in-process
// channels, standing in for a real network fabric so the pairwise-merge and
// scatter algorithms can run and be tested on one machine without a process
// launcher or MPI binding.
type ChannelNetwork struct {
	worldSize int

	mu    sync.Mutex
	links map[linkKey]chan []extsort.IndexEntry
}

type linkKey struct {
	from, to, tag int
}

// NewChannelNetwork returns a network for worldSize ranks and a Transport
// bound to each rank, indexed by rank number.
func NewChannelNetwork(worldSize int) (*ChannelNetwork, []Transport) {
	net := &ChannelNetwork{
		worldSize: worldSize,
		links:     make(map[linkKey]chan []extsort.IndexEntry),
	}
	transports := make([]Transport, worldSize)
	for r := 0; r < worldSize; r++ {
		transports[r] = &channelTransport{net: net, rank: r}
	}
	return net, transports
}

// link returns the (creating if absent) channel carrying messages from
// rank "from" to rank "to" tagged tag. Buffered to 1 so a send that races
// ahead of its matching receive doesn't deadlock the sender.
func (n *ChannelNetwork) link(from, to, tag int) chan []extsort.IndexEntry {
	key := linkKey{from, to, tag}
	n.mu.Lock()
	defer n.mu.Unlock()
	ch, ok := n.links[key]
	if !ok {
		ch = make(chan []extsort.IndexEntry, 1)
		n.links[key] = ch
	}
	return ch
}

type channelTransport struct {
	net  *ChannelNetwork
	rank int
}

func (t *channelTransport) Send(ctx context.Context, to int, tag int, entries []extsort.IndexEntry) error {
	if to < 0 || to >= t.net.worldSize {
		return fmt.Errorf("%w: %d", sorterrors.ErrRankOutOfSize, to)
	}
	if len(entries) == 0 {
		return nil
	}
	ch := t.net.link(t.rank, to, tag)
	select {
	case ch <- entries:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", sorterrors.ErrSendFailed, ctx.Err())
	}
}

func (t *channelTransport) Recv(ctx context.Context, from int, tag int, want int) ([]extsort.IndexEntry, error) {
	if from < 0 || from >= t.net.worldSize {
		return nil, fmt.Errorf("%w: %d", sorterrors.ErrRankOutOfSize, from)
	}
	if want == 0 {
		return nil, nil
	}
	ch := t.net.link(from, t.rank, tag)
	select {
	case entries := <-ch:
		if len(entries) != want {
			return nil, fmt.Errorf("%w: got %d, want %d", sorterrors.ErrCountMismatch, len(entries), want)
		}
		return entries, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", sorterrors.ErrRecvFailed, ctx.Err())
	}
}
