package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/folio-labs/portfolio-server/internal/logging"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/storage"
)

// BlobSweepJob removes stored blobs that no media record references. A media
// delete drops the row before the blob, so a failed blob delete leaves an
// orphan that this job collects. Blobs younger than grace are skipped to avoid
// racing an upload whose row is not written yet.
type BlobSweepJob struct {
	mediaRepo repository.MediaRepository
	blobs     storage.BlobStore
	interval  time.Duration
	grace     time.Duration
	now       func() time.Time
	logger    zerolog.Logger
	done      chan struct{}
}

func NewBlobSweepJob(
	mediaRepo repository.MediaRepository,
	blobs storage.BlobStore,
	interval time.Duration,
	grace time.Duration,
) *BlobSweepJob {
	return &BlobSweepJob{
		mediaRepo: mediaRepo,
		blobs:     blobs,
		interval:  interval,
		grace:     grace,
		now:       time.Now,
		logger:    logging.NewLogger("blob_sweep"),
		done:      make(chan struct{}),
	}
}

func (j *BlobSweepJob) Start() {
	go j.run()
	j.logger.Info().Dur("interval", j.interval).Dur("grace", j.grace).Msg("blob sweep job started")
}

func (j *BlobSweepJob) Stop() {
	close(j.done)
	j.logger.Info().Msg("blob sweep job stopped")
}

func (j *BlobSweepJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *BlobSweepJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.Sweep(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to sweep orphaned blobs")
	} else if count > 0 {
		j.logger.Info().Int64("count", count).Msg("swept orphaned blobs")
	}
}

// Sweep runs one pass and returns how many blobs were removed.
func (j *BlobSweepJob) Sweep(ctx context.Context) (int64, error) {
	keys, err := j.mediaRepo.StorageKeys(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		referenced[k] = struct{}{}
	}

	blobs, err := j.blobs.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.grace)
	var removed int64
	for _, b := range blobs {
		if _, ok := referenced[b.Key]; ok {
			continue
		}
		if b.ModTime.After(cutoff) || strings.HasPrefix(b.Key, "external/") {
			continue
		}
		if err := j.blobs.Delete(ctx, b.Key); err != nil {
			j.logger.Warn().Err(err).Str("key", b.Key).Msg("failed to delete orphaned blob")
			continue
		}
		removed++
	}
	return removed, nil
}
