package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/raulponte3/dashboard-cashflow/internal/amqp"
	"github.com/raulponte3/dashboard-cashflow/internal/core"
	"github.com/raulponte3/dashboard-cashflow/internal/storage"
)

type fakeStore struct {
	rows       map[int64]*storage.StoredAnalysis
	markErrors []int64
}

func newFakeStore(rows ...*storage.StoredAnalysis) *fakeStore {
	s := &fakeStore{rows: make(map[int64]*storage.StoredAnalysis)}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func (s *fakeStore) GetAnalysis(_ context.Context, id int64) (*storage.StoredAnalysis, error) {
	r, ok := s.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (s *fakeStore) GetPendingSync(_ context.Context, limit int) ([]storage.PendingSyncAnalysis, error) {
	var pending []storage.PendingSyncAnalysis
	for _, r := range s.rows {
		if r.SyncStatus == "pending" && len(pending) < limit {
			pending = append(pending, storage.PendingSyncAnalysis{ID: r.ID, Version: r.Version})
		}
	}
	return pending, nil
}

func (s *fakeStore) MarkSynced(_ context.Context, id int64) error {
	s.rows[id].SyncStatus = "synced"
	return nil
}

func (s *fakeStore) MarkSyncError(_ context.Context, id int64) error {
	if r, ok := s.rows[id]; ok {
		r.SyncStatus = "error"
	}
	s.markErrors = append(s.markErrors, id)
	return nil
}

type fakeAppender struct {
	appended []core.Analysis
	fail     bool
}

func (a *fakeAppender) AppendAnalysis(_ context.Context, analysis core.Analysis) (string, error) {
	if a.fail {
		return "", errors.New("sheet unavailable")
	}
	a.appended = append(a.appended, analysis)
	return fmt.Sprintf("row:%d", len(a.appended)), nil
}

func pendingRow(id int64) *storage.StoredAnalysis {
	return &storage.StoredAnalysis{
		ID:         id,
		Model:      "claude-sonnet-4-20250514",
		Content:    fmt.Sprintf("analisis %d", id),
		CreatedAt:  time.Now(),
		Version:    1,
		SyncStatus: "pending",
	}
}

func TestHandleSyncMessage(t *testing.T) {
	store := newFakeStore(pendingRow(1))
	appender := &fakeAppender{}
	w := NewSyncWorker(store, appender, 10)

	msg := amqp.NewAnalysisSyncMessage(1, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if len(appender.appended) != 1 {
		t.Fatalf("appended = %d, want 1", len(appender.appended))
	}
	if store.rows[1].SyncStatus != "synced" {
		t.Errorf("status = %q, want synced", store.rows[1].SyncStatus)
	}
}

func TestHandleSyncMessageSkipsAlreadySynced(t *testing.T) {
	row := pendingRow(1)
	row.SyncStatus = "synced"
	store := newFakeStore(row)
	appender := &fakeAppender{}
	w := NewSyncWorker(store, appender, 10)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewAnalysisSyncMessage(1, 1)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Fatal("synced analysis should not be appended again")
	}
}

func TestHandleSyncMessageAppendFailure(t *testing.T) {
	store := newFakeStore(pendingRow(1))
	appender := &fakeAppender{fail: true}
	w := NewSyncWorker(store, appender, 10)

	err := w.HandleSyncMessage(context.Background(), amqp.NewAnalysisSyncMessage(1, 1))
	if err == nil {
		t.Fatal("expected error when append fails")
	}
	if store.rows[1].SyncStatus != "error" {
		t.Errorf("status = %q, want error", store.rows[1].SyncStatus)
	}
}

func TestProcessPending(t *testing.T) {
	store := newFakeStore(pendingRow(1), pendingRow(2))
	appender := &fakeAppender{}
	w := NewSyncWorker(store, appender, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(appender.appended) != 2 {
		t.Fatalf("appended = %d, want 2", len(appender.appended))
	}
	for id, r := range store.rows {
		if r.SyncStatus != "synced" {
			t.Errorf("row %d status = %q, want synced", id, r.SyncStatus)
		}
	}
}

func TestStartupSyncCheckEmpty(t *testing.T) {
	w := NewSyncWorker(newFakeStore(), &fakeAppender{}, 10)
	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
}
