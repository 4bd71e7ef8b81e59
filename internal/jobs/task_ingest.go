package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/JustinTDCT/pifindex/internal/ffmpeg"
	"github.com/JustinTDCT/pifindex/internal/fingerprint"
	"github.com/JustinTDCT/pifindex/internal/repository"
	"github.com/JustinTDCT/pifindex/internal/scanner"
	"github.com/JustinTDCT/pifindex/internal/watcher"
)

// IngestPayload is the asynq task body for TaskIngestFile.
type IngestPayload struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// IngestHandler hashes one corpus file and stores the result.
type IngestHandler struct {
	fp      *fingerprint.Fingerprinter
	probe   *ffmpeg.FFprobe
	repo    *repository.Repository
}

// NewIngestHandler builds an IngestHandler.
func NewIngestHandler(fp *fingerprint.Fingerprinter, probe *ffmpeg.FFprobe, repo *repository.Repository) *IngestHandler {
	return &IngestHandler{fp: fp, probe: probe, repo: repo}
}

// ProcessTask fingerprints the file named in the task payload and
// inserts the resulting hash(es) into the repository.
func (h *IngestHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p IngestPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal ingest payload: %w", err)
	}
	return h.ingestOne(ctx, p.Path, watcher.Kind(p.Kind))
}

func (h *IngestHandler) ingestOne(ctx context.Context, path string, kind watcher.Kind) error {
	if kind == watcher.KindImage {
		res, err := h.fp.HashImageFile(path)
		if err != nil {
			return fmt.Errorf("hash image %s: %w", path, err)
		}
		return h.repo.Insert(ctx, repository.Record{
			ID:          uuid.New(),
			Fingerprint: res.Hash,
			Quality:     res.Quality,
			SourcePath:  path,
			MediaKind:   repository.MediaImage,
			CreatedAt:   time.Now(),
		})
	}

	probeResult, err := h.probe.Probe(path)
	if err != nil {
		return fmt.Errorf("probe video %s: %w", path, err)
	}
	frames, err := h.fp.HashVideoFile(path, probeResult.DurationSeconds())
	if err != nil {
		return fmt.Errorf("hash video %s: %w", path, err)
	}
	for _, frame := range frames {
		frameNumber := frame.FrameNumber
		timestamp := frame.Timestamp
		if err := h.repo.Insert(ctx, repository.Record{
			ID:             uuid.New(),
			Fingerprint:    frame.Hash,
			Quality:        frame.Quality,
			SourcePath:     path,
			MediaKind:      repository.MediaFrame,
			FrameNumber:    &frameNumber,
			FrameTimestamp: &timestamp,
			CreatedAt:      time.Now(),
		}); err != nil {
			return fmt.Errorf("insert frame hash for %s: %w", path, err)
		}
	}
	return nil
}

// RescanHandler walks the corpus directory for files not yet indexed
// and hashes them with bounded concurrency.
type RescanHandler struct {
	corpusDir string
	maxConcurrent int
	ingest    *IngestHandler
	repo      *repository.Repository
}

// NewRescanHandler builds a RescanHandler.
func NewRescanHandler(corpusDir string, maxConcurrent int, ingest *IngestHandler, repo *repository.Repository) *RescanHandler {
	return &RescanHandler{corpusDir: corpusDir, maxConcurrent: maxConcurrent, ingest: ingest, repo: repo}
}

// ProcessTask walks the corpus directory and hashes every file not
// already represented in the repository, bounding concurrent PIF
// transforms with an errgroup limit rather than a hand-rolled worker
// pool.
func (h *RescanHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	known := h.repo.KnownSourcePaths()
	files, err := scanner.Walk(h.corpusDir, known)
	if err != nil {
		return fmt.Errorf("walk corpus: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	log.Printf("rescan: hashing %s new files under %s", humanize.Comma(int64(len(files))), h.corpusDir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.maxConcurrent)
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := h.ingest.ingestOne(gctx, f.Path, f.Kind); err != nil {
				log.Printf("rescan: %v", err)
			}
			return nil
		})
	}
	return g.Wait()
}
