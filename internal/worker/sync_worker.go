// Package worker writes locally stored AI analyses back to the spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raulponte3/dashboard-cashflow/internal/amqp"
	"github.com/raulponte3/dashboard-cashflow/internal/core"
	"github.com/raulponte3/dashboard-cashflow/internal/sheets"
	"github.com/raulponte3/dashboard-cashflow/internal/storage"
)

// AnalysisStore is the slice of the repository the worker needs.
type AnalysisStore interface {
	GetAnalysis(ctx context.Context, id int64) (*storage.StoredAnalysis, error)
	GetPendingSync(ctx context.Context, limit int) ([]storage.PendingSyncAnalysis, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

type SyncWorker struct {
	store     AnalysisStore
	appender  sheets.AnalysisAppender
	batchSize int
}

func NewSyncWorker(store AnalysisStore, appender sheets.AnalysisAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single analysis sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.AnalysisSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	stored, err := w.store.GetAnalysis(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get analysis from storage: %w", err)
	}

	if stored.SyncStatus == "synced" {
		slog.InfoContext(ctx, "Analysis already synced, skipping", "id", msg.ID)
		return nil
	}

	return w.syncToSheet(ctx, stored)
}

// ProcessPending writes back analyses whose sync messages were lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending analyses: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending analyses", "count", len(pending))

	for _, p := range pending {
		stored, err := w.store.GetAnalysis(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get analysis", "id", p.ID, "error", err)
			if err := w.store.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.syncToSheet(ctx, stored); err != nil {
			slog.ErrorContext(ctx, "Failed to sync analysis", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck recovers analyses left pending across worker downtime.
// Uses a larger batch than the periodic pass.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending analyses for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending analyses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending analyses on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		stored, err := w.store.GetAnalysis(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get analysis for startup sync",
				"id", p.ID, "error", err)
			if err := w.store.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.syncToSheet(ctx, stored); err != nil {
			slog.ErrorContext(ctx, "Failed to sync analysis during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncToSheet(ctx context.Context, stored *storage.StoredAnalysis) error {
	analysis := core.Analysis{
		Model:     stored.Model,
		Content:   stored.Content,
		CreatedAt: stored.CreatedAt,
	}

	ref, err := w.appender.AppendAnalysis(ctx, analysis)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, stored.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", stored.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkSynced(ctx, stored.ID); err != nil {
		// The write-back itself succeeded, so don't fail the message.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", stored.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced analysis",
		"id", stored.ID,
		"sheet_ref", ref,
		"model", stored.Model)

	return nil
}
