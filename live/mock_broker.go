package live

import (
	"context"
	"encoding/json"
	"sync"
)

// MockBroker is a test Broker that records every operation and lets the
// test configure responses, so that code calling out through the Broker
// interface can be exercised without a live backend.
type MockBroker struct {
	mu sync.Mutex

	uri string

	callResponses map[string]any
	callErr       map[string]error
	calls         []CallRecord

	events []EventRecord

	subscriptions []string

	kvInts   map[string]int
	kvCommit int

	watches map[string]func(int, error)

	peerIdle    map[uint32]int
	peerIdleErr error
}

// CallRecord records a single Call invocation.
type CallRecord struct {
	Topic   string
	Request any
}

// EventRecord records a single PublishEvent invocation.
type EventRecord struct {
	Topic   string
	Payload any
}

// NewMockBroker creates a mock broker with no configured responses.
func NewMockBroker(uri string) *MockBroker {
	return &MockBroker{
		uri:           uri,
		callResponses: make(map[string]any),
		callErr:       make(map[string]error),
		kvInts:        make(map[string]int),
		watches:       make(map[string]func(int, error)),
		peerIdle:      make(map[uint32]int),
	}
}

func (m *MockBroker) SelfURI() string { return m.uri }

// SetCallResponse configures the result Call decodes into result for the
// given topic.
func (m *MockBroker) SetCallResponse(topic string, response any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callResponses[topic] = response
}

func (m *MockBroker) SetCallError(topic string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callErr[topic] = err
}

func (m *MockBroker) Call(ctx context.Context, topic string, request, result any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, CallRecord{Topic: topic, Request: request})
	if err := m.callErr[topic]; err != nil {
		return err
	}
	resp, ok := m.callResponses[topic]
	if !ok {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}

func (m *MockBroker) Calls() []CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CallRecord(nil), m.calls...)
}

func (m *MockBroker) PublishEvent(ctx context.Context, topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, EventRecord{Topic: topic, Payload: payload})
	return nil
}

func (m *MockBroker) Events() []EventRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EventRecord(nil), m.events...)
}

func (m *MockBroker) Subscribe(ctx context.Context, topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.subscriptions {
		if t == topic {
			return nil
		}
	}
	m.subscriptions = append(m.subscriptions, topic)
	return nil
}

func (m *MockBroker) Subscriptions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.subscriptions...)
}

func (m *MockBroker) KVSPutInt(ctx context.Context, key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kvInts[key] = value
	return nil
}

func (m *MockBroker) KVSCommit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kvCommit++
	return nil
}

func (m *MockBroker) KVInt(key string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kvInts[key]
	return v, ok
}

func (m *MockBroker) CommitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kvCommit
}

func (m *MockBroker) WatchInt(ctx context.Context, key string, fn func(value int, err error)) error {
	m.mu.Lock()
	m.watches[key] = fn
	m.mu.Unlock()
	return nil
}

// FireWatch invokes the registered watch callback for key, simulating a
// key-value store update (or error) arriving asynchronously.
func (m *MockBroker) FireWatch(key string, value int, err error) {
	m.mu.Lock()
	fn := m.watches[key]
	m.mu.Unlock()
	if fn != nil {
		fn(value, err)
	}
}

func (m *MockBroker) SetPeerIdle(idle map[uint32]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peerIdle = idle
}

func (m *MockBroker) SetPeerIdleError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peerIdleErr = err
}

func (m *MockBroker) PeerIdle(ctx context.Context) (map[uint32]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.peerIdleErr != nil {
		return nil, m.peerIdleErr
	}
	out := make(map[uint32]int, len(m.peerIdle))
	for k, v := range m.peerIdle {
		out[k] = v
	}
	return out, nil
}
