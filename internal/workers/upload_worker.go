package workers

import (
	"context"
	"time"

	"webstarter/internal/logger"
	"webstarter/internal/repositories"
	"webstarter/internal/storage"
)

const cleanupBatch = 100

// UploadWorker подтверждает или удаляет presigned загрузки, которые
// клиент так и не завершил.
type UploadWorker struct {
	uploads  repositories.UploadRepository
	storage  storage.Storage
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

func NewUploadWorker(uploads repositories.UploadRepository, st storage.Storage) *UploadWorker {
	return &UploadWorker{
		uploads:  uploads,
		storage:  st,
		interval: time.Hour,
		maxAge:   24 * time.Hour,
		now:      time.Now,
	}
}

// Start запускает проверку раз в час до отмены ctx.
func (w *UploadWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Upload worker stopped")
				return
			case <-ticker.C:
				if _, _, err := w.RunOnce(ctx); err != nil {
					logger.Error("Error cleaning pending uploads", "error", err)
				}
			}
		}
	}()
}

// RunOnce handles one batch: objects that exist are confirmed, records
// without an object are removed.
func (w *UploadWorker) RunOnce(ctx context.Context) (confirmed, removed int, err error) {
	pending, err := w.uploads.ListPendingBefore(ctx, w.now().Add(-w.maxAge), cleanupBatch)
	if err != nil {
		return 0, 0, err
	}

	for _, u := range pending {
		exists, err := w.storage.Exists(ctx, u.Key)
		if err != nil {
			// попробуем в следующий раз
			logger.Warn("Failed to check pending upload", "key", u.Key, "error", err)
			continue
		}

		if exists {
			if err := w.uploads.MarkUploaded(ctx, u.Key); err != nil {
				return confirmed, removed, err
			}
			confirmed++
			continue
		}
		if err := w.uploads.DeleteByKey(ctx, u.Key); err != nil {
			return confirmed, removed, err
		}
		removed++
	}

	if confirmed > 0 || removed > 0 {
		logger.Info("Pending uploads processed", "confirmed", confirmed, "removed", removed)
	}
	return confirmed, removed, nil
}
