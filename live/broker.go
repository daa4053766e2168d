package live

import "context"

// Broker abstracts the host message bus and key-value store so that
// LiveService can be exercised without a real broker attached: request/
// response RPC, event publish/subscribe, and the key-value put/commit/
// watch operations the hello handshake and config watch depend on.
//
// Design principle: Broker is a narrow collaborator interface, not a
// general transport. LiveService owns no connection state; it only
// calls out through Broker when a handler needs to reach outside the
// service.
type Broker interface {
	// SelfURI returns the request URI this rank advertises to its
	// children during the hello handshake.
	SelfURI() string

	// Call issues a synchronous request/response RPC to topic and
	// decodes the response into result (a pointer). Used only for the
	// startup-phase live.hello round trip.
	Call(ctx context.Context, topic string, request, result any) error

	// PublishEvent emits payload as an event on topic (e.g.
	// "live.cstate").
	PublishEvent(ctx context.Context, topic string, payload any) error

	// Subscribe subscribes the local service to topic (e.g. "hb"); it
	// is idempotent.
	Subscribe(ctx context.Context, topic string) error

	// KVSPutInt stages an integer value at key for the next commit.
	KVSPutInt(ctx context.Context, key string, value int) error

	// KVSCommit flushes staged key-value writes.
	KVSCommit(ctx context.Context) error

	// WatchInt registers fn to be invoked with the current value of
	// key and on every subsequent change. err carries errkind.NotFound
	// when the key is absent, is nil on a normal update, and is any
	// other error on a transient fault that should be ignored by the
	// caller (the previous value is retained).
	WatchInt(ctx context.Context, key string, fn func(value int, err error)) error

	// PeerIdle returns the idle tick, keyed by rank, for every peer the
	// transport currently tracks. A rank absent from the map has
	// unbounded idle time.
	PeerIdle(ctx context.Context) (map[uint32]int, error)
}
