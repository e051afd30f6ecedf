package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/valdezmx/wms-traceability/internal/traceability/app/config"
	"github.com/valdezmx/wms-traceability/internal/traceability/app/router"
	"github.com/valdezmx/wms-traceability/internal/traceability/infras/directory"
	"github.com/valdezmx/wms-traceability/internal/traceability/infras/repo"
	"github.com/valdezmx/wms-traceability/internal/traceability/infras/webhook"
	"github.com/valdezmx/wms-traceability/internal/traceability/usecase"
)

type app struct {
	logger *slog.Logger
	config *config.WorkerConfig
	sqlDB  *sql.DB
	server *http.Server
}

func New(
	ctx context.Context,
	config *config.Config,
	sqlDB *sql.DB,
	logger *slog.Logger,
) *app {
	repo := repo.NewRepo(sqlDB, logger)
	directory := directory.NewDirectory(sqlDB, logger)
	publisher := webhook.NewPublisher(config.WebhookEndpoint, time.Duration(config.WebhookTimeout)*time.Second, logger)

	usecase := usecase.NewUseCase(repo, directory, publisher, logger)

	router := router.NewRouter(usecase, logger)
	server := &http.Server{
		Addr:    config.HTTPAddr,
		Handler: router,
	}

	return &app{
		logger: logger,
		config: &config.WorkerConfig,
		sqlDB:  sqlDB,
		server: server,
	}
}

func (a *app) StartServer() {
	a.logger.Info("Starting server", slog.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		a.logger.Error("Failed to listen and serve", slog.String("addr", a.server.Addr), slog.Any("error", err))
	}
}

func (a *app) ShutdownServer(ctx context.Context) {
	a.logger.Info("Shutting down server")
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Failed to shutdown server", slog.Any("error", err))
	}
}

// StartStatusSyncWorker periodically folds each shipment's latest checkpoint
// status into shipments.status. Best-effort derivation: checkpoints remain
// the source of truth and a missed cycle is picked up by the next one.
func (a *app) StartStatusSyncWorker(ctx context.Context, interval time.Duration) error {
	a.logger.Info("Starting status sync worker")

	logger := a.logger.With(slog.String("worker", "status_sync"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := ctx.Err(); err != nil {
		logger.Error("ctx have error", slog.Any("error", err))
		return err
	}

	if err := a.runStatusSyncWorker(ctx, logger); err != nil {
		a.logger.Error("Running status sync worker failed", slog.Any("error", err))
		return err
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Status sync worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := a.runStatusSyncWorker(ctx, logger); err != nil {
				a.logger.Error("Running status sync worker failed", slog.Any("error", err))
				return err
			}
		}
	}
}

type staleShipment struct {
	id     uuid.UUID
	status string
}

func (a *app) runStatusSyncWorker(ctx context.Context, logger *slog.Logger) error {
	for {
		tx, err := a.sqlDB.Begin()
		if err != nil {
			logger.Error("failed to begin transaction", slog.Any("error", err))
			return err
		}

		query := `
	SELECT s.id, latest.status_code
	FROM shipments s
	JOIN (
		SELECT DISTINCT ON (shipment_id) shipment_id, status_code
		FROM shipment_checkpoints
		ORDER BY shipment_id, timestamp DESC
	) latest ON latest.shipment_id = s.id
	WHERE s.status IS DISTINCT FROM latest.status_code
	  AND NOT s.is_deleted
	LIMIT $1
	FOR UPDATE OF s SKIP LOCKED;
	`

		rows, err := tx.Query(query, a.config.StatusSyncBatchSize)
		if err != nil {
			tx.Rollback()
			logger.Error("failed to query stale shipments", slog.Any("error", err))
			return err
		}

		stale := make([]staleShipment, 0, a.config.StatusSyncBatchSize)
		for rows.Next() {
			var s staleShipment
			if err := rows.Scan(&s.id, &s.status); err != nil {
				logger.Error("error scanning stale shipment", slog.Any("error", err))
				continue
			}
			stale = append(stale, s)
		}
		rows.Close()

		if len(stale) == 0 {
			logger.Debug("No more shipments to sync in this cycle.")

			if err := tx.Commit(); err != nil {
				logger.Error("transaction commit failed", slog.Any("error", err))
				return err
			}

			break
		}

		staleIDs := lo.Map(stale, func(s staleShipment, _ int) uuid.UUID { return s.id })

		query = `
	UPDATE shipments s
	SET status = latest.status_code
	FROM (
		SELECT DISTINCT ON (shipment_id) shipment_id, status_code
		FROM shipment_checkpoints
		ORDER BY shipment_id, timestamp DESC
	) latest
	WHERE s.id = latest.shipment_id
	  AND s.id = ANY($1)
	RETURNING s.id;
	`

		rows, err = tx.Query(query, pq.Array(staleIDs))
		if err != nil {
			tx.Rollback()
			logger.Error("failed to execute batch update", slog.Any("error", err))
			return err
		}

		var updatedCount int
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				logger.Error("error scanning id", slog.Any("error", err))
				continue
			}
			updatedCount++
		}
		rows.Close()

		if err := tx.Commit(); err != nil {
			logger.Error("transaction commit failed", slog.Any("error", err))
			return err
		}

		logger.Info("Successfully synced batch shipment statuses", slog.Int("batch_length", updatedCount))
	}

	return nil
}
