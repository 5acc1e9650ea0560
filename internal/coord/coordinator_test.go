package coord

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/query"
	"github.com/abelbrown/storefront/internal/ui"
)

// mockLoader implements the loader interface for testing.
type mockLoader struct {
	mu          sync.Mutex
	returnErr   error
	loadCount   atomic.Int32
	invalidated [][]string
}

func (m *mockLoader) LoadCatalog(ctx context.Context) (query.Catalog, error) {
	m.loadCount.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.returnErr != nil {
		return query.Catalog{}, m.returnErr
	}
	return query.Catalog{
		Products:   []model.Product{{ID: 1, Title: "Laptop"}},
		Categories: []model.Category{"electronics"},
		LoadedAt:   time.Unix(1700000000, 0),
	}, nil
}

func (m *mockLoader) Invalidate(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, keys)
	return nil
}

// mockSender records delivered messages.
type mockSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *mockSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *mockSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

func TestLoadCmd(t *testing.T) {
	mock := &mockLoader{}
	c := NewCoordinatorWithLoader(mock, 0)

	msg := c.LoadCmd(context.Background())()()
	loaded, ok := msg.(ui.CatalogLoaded)
	if !ok {
		t.Fatalf("expected ui.CatalogLoaded, got %T", msg)
	}
	if loaded.Err != nil || loaded.Refresh {
		t.Errorf("unexpected message: %+v", loaded)
	}
	if len(loaded.Products) != 1 || len(loaded.Categories) != 1 {
		t.Errorf("catalog not passed through: %+v", loaded)
	}
	if len(mock.invalidated) != 0 {
		t.Error("initial load should not invalidate")
	}
}

func TestLoadCmdError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCoordinatorWithLoader(&mockLoader{returnErr: boom}, 0)

	msg := c.LoadCmd(context.Background())()().(ui.CatalogLoaded)
	if !errors.Is(msg.Err, boom) {
		t.Errorf("Err = %v, want boom", msg.Err)
	}
}

func TestRetryCmdInvalidates(t *testing.T) {
	mock := &mockLoader{}
	c := NewCoordinatorWithLoader(mock, 0)

	msg := c.RetryCmd(context.Background())()().(ui.CatalogLoaded)
	if msg.Err != nil {
		t.Fatalf("unexpected error: %v", msg.Err)
	}
	if len(mock.invalidated) != 1 || len(mock.invalidated[0]) != 2 {
		t.Errorf("invalidated = %v, want products and categories", mock.invalidated)
	}
	if mock.loadCount.Load() != 1 {
		t.Errorf("loads = %d, want 1", mock.loadCount.Load())
	}
}

func TestDefaultInterval(t *testing.T) {
	c := NewCoordinatorWithLoader(&mockLoader{}, 0)
	if c.interval != DefaultRefreshInterval {
		t.Errorf("interval = %v, want %v", c.interval, DefaultRefreshInterval)
	}
}

func TestStartRefreshesPeriodically(t *testing.T) {
	mock := &mockLoader{}
	c := NewCoordinatorWithLoader(mock, 10*time.Millisecond)
	program := &mockSender{}

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, program)

	deadline := time.Now().Add(2 * time.Second)
	for program.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	c.Wait()

	if program.count() < 2 {
		t.Fatalf("expected at least 2 refreshes, got %d", program.count())
	}
	for _, m := range program.msgs {
		if msg, ok := m.(ui.CatalogLoaded); !ok || !msg.Refresh {
			t.Errorf("expected refresh CatalogLoaded, got %#v", m)
		}
	}
}

func TestRefreshFailureNotDelivered(t *testing.T) {
	mock := &mockLoader{returnErr: errors.New("offline")}
	c := NewCoordinatorWithLoader(mock, time.Hour)
	program := &mockSender{}

	c.refresh(context.Background(), program)
	if program.count() != 0 {
		t.Error("failed refresh should not be sent")
	}
	if mock.loadCount.Load() != 1 {
		t.Errorf("loads = %d, want 1", mock.loadCount.Load())
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	c := NewCoordinatorWithLoader(&mockLoader{}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, nil)

	done := make(chan struct{})
	go func() {
		cancel()
		c.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}
