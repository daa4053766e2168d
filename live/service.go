package live

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/flux-framework/flux-broker-go/internal/errkind"
)

// HelloRequest is the payload for a live.hello request.
type HelloRequest struct {
	Rank uint32 `json:"rank"`
}

// HelloResponse is the live.hello response: the requester's parent chain,
// ordered from the immediate parent outward.
type HelloResponse []Parent

// HBEvent is the heartbeat event payload.
type HBEvent struct {
	Epoch uint64 `json:"epoch"`
}

// CStateEvent is the live.cstate event payload, emitted once per
// edge-triggered state transition.
type CStateEvent struct {
	Rank   uint32 `json:"rank"`
	OState CState `json:"ostate"`
	NState CState `json:"nstate"`
	Parent uint32 `json:"parent"`
	Epoch  uint64 `json:"epoch"`
}

const (
	topicHello  = "live.hello"
	topicHB     = "hb"
	topicCState = "live.cstate"

	keyMaxIdle = "conf.live.max-idle"
)

// Service is the per-broker liveness collaborator: hello bootstrap,
// parent/child bookkeeping, heartbeat-driven state transitions, and
// cstate event emission. All state is owned exclusively by the caller's
// single reactor thread; Service performs no internal locking.
type Service struct {
	rank   uint32
	isRoot bool
	epoch  uint64

	maxIdle int
	slow    int

	parents  []Parent
	children map[uint32]*Child
	order    []uint32 // insertion order of children ranks, for deterministic tick processing

	broker Broker
	log    *slog.Logger
}

// NewService constructs a Service for the given rank. The root rank never
// issues a hello request.
func NewService(rank uint32, isRoot bool, broker Broker, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		rank:     rank,
		isRoot:   isRoot,
		maxIdle:  defaultMaxIdle,
		slow:     defaultSlow,
		children: make(map[uint32]*Child),
		broker:   broker,
		log:      log,
	}
}

// Start performs the startup-phase hello round trip (skipped for the
// root) and registers the max_idle configuration watch. It must be
// called once, before the reactor begins dispatching hb/live.hello
// messages.
func (s *Service) Start(ctx context.Context) error {
	if !s.isRoot {
		if err := s.Hello(ctx); err != nil {
			return err
		}
	}
	return s.broker.WatchInt(ctx, keyMaxIdle, s.handleMaxIdle)
}

// Hello issues the single synchronous live.hello request to the parent,
// supplying this rank, and stores the returned parent chain.
func (s *Service) Hello(ctx context.Context) error {
	req := HelloRequest{Rank: s.rank}
	var resp HelloResponse
	if err := s.broker.Call(ctx, topicHello, req, &resp); err != nil {
		return errkind.Wrap(errkind.Transport, "live.hello", err)
	}
	s.parents = resp
	return nil
}

// Parents returns the current parent chain, closest first.
func (s *Service) Parents() []Parent {
	return append([]Parent(nil), s.parents...)
}

// Children returns a snapshot of the current child table.
func (s *Service) Children() map[uint32]Child {
	out := make(map[uint32]Child, len(s.children))
	for rank, c := range s.children {
		out[rank] = *c
	}
	return out
}

// MaxIdle returns the currently configured max_idle threshold.
func (s *Service) MaxIdle() int { return s.maxIdle }

// HandleHello processes an incoming live.hello request from rank,
// grounded on the parent's bootstrap responsibilities in §4.5: it
// inserts (or idempotently reuses) a child record, subscribes to hb on
// the first child, records the receipt under conf.live.hello.<rank>, and
// responds with this rank's own parent chain prepended with {rank, uri}
// so the child sees its chain from its immediate parent outward.
func (s *Service) HandleHello(ctx context.Context, rank uint32) (HelloResponse, error) {
	if len(s.children) == 0 {
		if err := s.broker.Subscribe(ctx, topicHB); err != nil {
			s.log.Error("hb subscribe failed", "error", err)
		}
	}
	if _, exists := s.children[rank]; !exists {
		s.children[rank] = &Child{Rank: rank, State: StateOK}
		s.order = append(s.order, rank)
	}

	key := "conf.live.hello." + strconv.FormatUint(uint64(rank), 10)
	if err := s.broker.KVSPutInt(ctx, key, int(s.epoch)); err != nil {
		s.log.Error("kvs put failed", "key", key, "error", err)
	} else if err := s.broker.KVSCommit(ctx); err != nil {
		s.log.Error("kvs commit failed", "error", err)
	}

	resp := make(HelloResponse, 0, len(s.parents)+1)
	resp = append(resp, Parent{Rank: s.rank, URI: s.broker.SelfURI()})
	resp = append(resp, s.parents...)
	return resp, nil
}

// HandleHeartbeat processes the hb event: updates the service epoch,
// fetches the peer idle directory, and runs the transition function for
// every child in ascending rank order. A failed peer-directory
// lookup aborts the tick cleanly without advancing any state.
func (s *Service) HandleHeartbeat(ctx context.Context, ev HBEvent) error {
	s.epoch = ev.Epoch

	peers, err := s.broker.PeerIdle(ctx)
	if err != nil {
		s.log.Error("peer idle lookup failed", "error", err)
		return nil
	}

	ranks := append([]uint32(nil), s.order...)
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })

	for _, rank := range ranks {
		c := s.children[rank]
		idle, ok := peers[rank]
		if !ok {
			idle = int(s.epoch)
		}
		next, changed := Transition(c.State, idle, s.slow, s.maxIdle)
		if !changed {
			continue
		}
		ostate := c.State
		c.State = next
		ev := CStateEvent{
			Rank:   rank,
			OState: ostate,
			NState: next,
			Parent: s.rank,
			Epoch:  s.epoch,
		}
		if err := s.broker.PublishEvent(ctx, topicCState, ev); err != nil {
			s.log.Error("cstate publish failed", "rank", rank, "error", err)
		}
	}
	return nil
}

// handleMaxIdle is the conf.live.max-idle watch callback: an absent key
// reverts to the default, any other error is silently ignored so
// transient key-value faults do not mutate the threshold.
func (s *Service) handleMaxIdle(value int, err error) {
	if err != nil {
		if errkind.Is(err, errkind.NotFound) {
			s.maxIdle = defaultMaxIdle
		}
		return
	}
	s.maxIdle = value
}
