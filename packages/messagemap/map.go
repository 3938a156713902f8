package messagemap

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Reserved keys seeded or intercepted by Map.
const (
	KeyUUID        = "uuid"
	KeyDynamicUUID = "dynamic_uuid"
	KeyCurrentTS   = "current_ts"
	KeyInitialTS   = "initial_ts"
	KeyTimestamp   = "timestamp"
)

// IDFunc returns a new unique identifier.
type IDFunc func() string

// ClockFunc returns the current time.
type ClockFunc func() time.Time

// NewUUID returns a random (v4) UUID in canonical form.
func NewUUID() string {
	return uuid.New().String()
}

// Option configures a Map.
type Option func(*Map)

// WithIDFunc overrides the identifier source used for uuid and dynamic_uuid.
func WithIDFunc(fn IDFunc) Option {
	return func(m *Map) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithClock overrides the clock used for current_ts and initial_ts.
func WithClock(fn ClockFunc) Option {
	return func(m *Map) {
		if fn != nil {
			m.now = fn
		}
	}
}

// Map is a key-value container whose reserved keys are computed at read time.
// All methods are safe for concurrent use.
type Map struct {
	mu     sync.Mutex
	values map[string]any
	newID  IDFunc
	now    ClockFunc
}

// New returns a Map seeded with uuid, dynamic_uuid, current_ts and initial_ts.
func New(opts ...Option) *Map {
	m := &Map{
		values: make(map[string]any),
		newID:  NewUUID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.values[KeyUUID] = m.newID()
	m.values[KeyDynamicUUID] = m.newID()
	m.values[KeyCurrentTS] = m.millis()
	m.values[KeyInitialTS] = m.millis()
	return m
}

func (m *Map) millis() int64 {
	return m.now().UnixMilli()
}

// Get returns the value for key. Reading dynamic_uuid or current_ts stores and
// returns a fresh value; reading timestamp returns the initial_ts entry.
// Absent keys return (nil, false).
func (m *Map) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch key {
	case KeyDynamicUUID:
		m.values[KeyDynamicUUID] = m.newID()
	case KeyCurrentTS:
		m.values[KeyCurrentTS] = m.millis()
	case KeyTimestamp:
		key = KeyInitialTS
	}

	v, ok := m.values[key]
	return v, ok
}

// Put stores value under key. Reserved keys are not intercepted.
func (m *Map) Put(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// PutAll stores every entry of values.
func (m *Map) PutAll(values map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
}

// Remove deletes key. Removing an absent key is a no-op.
func (m *Map) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Peek returns the stored value for key without refreshing live keys or
// redirecting timestamp.
func (m *Map) Peek(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether Get would find key.
func (m *Map) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == KeyTimestamp {
		key = KeyInitialTS
	}
	_, ok := m.values[key]
	return ok
}

// Len returns the number of stored entries.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// Keys returns the stored keys in sorted order.
func (m *Map) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedKeys()
}

func (m *Map) sortedKeys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the backing store.
func (m *Map) Snapshot() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent Map holding a copy of the stored entries and
// sharing the identifier and clock sources. No new values are generated.
func (m *Map) Clone() *Map {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &Map{
		values: make(map[string]any, len(m.values)),
		newID:  m.newID,
		now:    m.now,
	}
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// Range calls fn for each stored entry in key order until fn returns false.
// Live keys are not refreshed. fn runs on a snapshot, so it may call back into
// the map.
func (m *Map) Range(fn func(key string, value any) bool) {
	snap := m.Snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !fn(k, snap[k]) {
			return
		}
	}
}

// Strings resolves every stored key, plus timestamp, through Get and formats
// the values with %v.
func (m *Map) Strings() map[string]string {
	keys := m.Keys()
	out := make(map[string]string, len(keys)+1)
	for _, k := range keys {
		if v, ok := m.Get(k); ok {
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	if v, ok := m.Get(KeyTimestamp); ok {
		out[KeyTimestamp] = fmt.Sprintf("%v", v)
	}
	return out
}

// ReservedKeys returns the reserved keys.
func ReservedKeys() []string {
	return []string{KeyUUID, KeyDynamicUUID, KeyCurrentTS, KeyInitialTS, KeyTimestamp}
}

// IsReserved reports whether key has special meaning to Map.
func IsReserved(key string) bool {
	switch key {
	case KeyUUID, KeyDynamicUUID, KeyCurrentTS, KeyInitialTS, KeyTimestamp:
		return true
	}
	return false
}

// IsLive reports whether reading key regenerates its value.
func IsLive(key string) bool {
	return key == KeyDynamicUUID || key == KeyCurrentTS
}
