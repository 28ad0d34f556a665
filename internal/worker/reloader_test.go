package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/playpredict/forecast-api/internal/models"
)

// MockStore implements Reloadable for testing
type MockStore struct {
	ReloadFunc func(ctx context.Context) (models.SnapshotInfo, error)

	mu    sync.Mutex
	calls int
	done  chan struct{}
}

func NewMockStore(fn func(ctx context.Context) (models.SnapshotInfo, error)) *MockStore {
	return &MockStore{ReloadFunc: fn, done: make(chan struct{}, 16)}
}

func (m *MockStore) Reload(ctx context.Context) (models.SnapshotInfo, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	defer func() {
		select {
		case m.done <- struct{}{}:
		default:
		}
	}()
	return m.ReloadFunc(ctx)
}

func (m *MockStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockStore) waitReload(t *testing.T) {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	mu        sync.Mutex
	Published []PublishedMessage
	Hashes    map[string][]interface{}
	Err       error
}

type PublishedMessage struct {
	Channel string
	Message interface{}
}

func (m *MockNotifier) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedMessage{Channel: channel, Message: message})
	cmd := redis.NewIntCmd(ctx)
	cmd.SetErr(m.Err)
	return cmd
}

func (m *MockNotifier) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Hashes == nil {
		m.Hashes = make(map[string][]interface{})
	}
	m.Hashes[key] = values
	cmd := redis.NewIntCmd(ctx)
	cmd.SetErr(m.Err)
	return cmd
}

func okReload(context.Context) (models.SnapshotInfo, error) {
	return models.SnapshotInfo{Version: "v2", Source: "csv", Plays: 42, LoadedAt: time.Now()}, nil
}

func TestReloaderRunsQueuedReload(t *testing.T) {
	store := NewMockStore(okReload)
	notifier := &MockNotifier{}
	r := NewReloader(ReloaderConfig{Store: store, Notifier: notifier, Logger: zap.NewNop()})
	r.Start(context.Background())

	id, ok := r.Enqueue("api")
	if !ok || id == "" {
		t.Fatalf("Enqueue() = %q, %v", id, ok)
	}
	store.waitReload(t)
	r.Stop()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.Published) != 1 || notifier.Published[0].Channel != EventsChannel {
		t.Fatalf("published = %+v", notifier.Published)
	}
	var event ReloadEvent
	if err := json.Unmarshal(notifier.Published[0].Message.([]byte), &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if len(event.RequestIDs) != 1 || event.RequestIDs[0] != id || event.Snapshot.Plays != 42 {
		t.Errorf("event = %+v", event)
	}
	if _, ok := notifier.Hashes[SnapshotKey]; !ok {
		t.Error("snapshot metadata was not stored")
	}
}

func TestReloaderCoalescesPendingRequests(t *testing.T) {
	store := NewMockStore(okReload)
	r := NewReloader(ReloaderConfig{Store: store, QueueSize: 3, Logger: zap.NewNop()})

	for _, reason := range []string{"api", "redis", "interval"} {
		if _, ok := r.Enqueue(reason); !ok {
			t.Fatalf("Enqueue(%q) shed unexpectedly", reason)
		}
	}

	r.Start(context.Background())
	store.waitReload(t)
	r.Stop()

	if got := store.Calls(); got != 1 {
		t.Errorf("reload calls = %d, want 1", got)
	}
	if r.QueueDepth() != 0 {
		t.Errorf("queue depth = %d, want 0", r.QueueDepth())
	}
}

func TestReloaderShedsWhenFull(t *testing.T) {
	r := NewReloader(ReloaderConfig{Store: NewMockStore(okReload), QueueSize: 1})

	if _, ok := r.Enqueue("first"); !ok {
		t.Fatal("first Enqueue should succeed")
	}
	if _, ok := r.Enqueue("second"); ok {
		t.Fatal("second Enqueue should be shed")
	}
	if r.QueueDepth() != 1 {
		t.Errorf("queue depth = %d, want 1", r.QueueDepth())
	}
}

func TestReloaderFailureSkipsAnnouncement(t *testing.T) {
	store := NewMockStore(func(context.Context) (models.SnapshotInfo, error) {
		return models.SnapshotInfo{}, errors.New("source unavailable")
	})
	notifier := &MockNotifier{}
	r := NewReloader(ReloaderConfig{Store: store, Notifier: notifier, Logger: zap.NewNop()})
	r.Start(context.Background())

	r.Enqueue("api")
	store.waitReload(t)
	r.Stop()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.Published) != 0 || len(notifier.Hashes) != 0 {
		t.Errorf("failed reload should not be announced: %+v %+v", notifier.Published, notifier.Hashes)
	}
}

func TestReloaderNotifierErrorsAreNotFatal(t *testing.T) {
	store := NewMockStore(okReload)
	notifier := &MockNotifier{Err: errors.New("redis down")}
	r := NewReloader(ReloaderConfig{Store: store, Notifier: notifier, Logger: zap.NewNop()})
	r.Start(context.Background())

	r.Enqueue("api")
	store.waitReload(t)
	r.Enqueue("api")
	store.waitReload(t)
	r.Stop()

	if got := store.Calls(); got != 2 {
		t.Errorf("reload calls = %d, want 2", got)
	}
}

func TestReloaderInterval(t *testing.T) {
	store := NewMockStore(okReload)
	r := NewReloader(ReloaderConfig{Store: store, Interval: 10 * time.Millisecond, Logger: zap.NewNop()})
	r.Start(context.Background())
	defer r.Stop()

	store.waitReload(t)
}

func TestStopWithoutStart(t *testing.T) {
	r := NewReloader(ReloaderConfig{Store: NewMockStore(okReload)})
	r.Stop()
}

func TestTriggerReason(t *testing.T) {
	if got := triggerReason(""); got != "redis" {
		t.Errorf("triggerReason(\"\") = %q", got)
	}
	if got := triggerReason("deploy"); got != "redis:deploy" {
		t.Errorf("triggerReason(deploy) = %q", got)
	}
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	if got := triggerReason(string(long)); len(got) != len("redis:")+64 {
		t.Errorf("long payload not truncated: %d", len(got))
	}
}
