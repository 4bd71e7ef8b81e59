// Command pifserve runs the pifindex HTTP API, background ingest
// worker, corpus filesystem watcher, and periodic rescan scheduler.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JustinTDCT/pifindex/internal/api"
	"github.com/JustinTDCT/pifindex/internal/auth"
	"github.com/JustinTDCT/pifindex/internal/config"
	"github.com/JustinTDCT/pifindex/internal/db"
	"github.com/JustinTDCT/pifindex/internal/ffmpeg"
	"github.com/JustinTDCT/pifindex/internal/fingerprint"
	"github.com/JustinTDCT/pifindex/internal/jobs"
	"github.com/JustinTDCT/pifindex/internal/repository"
	"github.com/JustinTDCT/pifindex/internal/scheduler"
	"github.com/JustinTDCT/pifindex/internal/version"
	"github.com/JustinTDCT/pifindex/internal/watcher"
)

const bannerArt = `
  _____ _  __ ___           _
 |  __ (_)/ _|_ _|_ __   __| | _____  __
 | |__) | | |_ | || '_ \ / _' |/ _ \ \/ /
 |  ___/| |  _|| || | | | (_| |  __/>  <
 |_|    |_|_| |___|_| |_|\__,_|\___/_/\_\
`

func main() {
	v := version.Load()
	fmt.Println(bannerArt)
	fmt.Printf("  Perceptual Fingerprint Index\n  Version %s\n\n", v.Version)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, "migrations"); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	cfg.MergeFromDB(database)

	repo := repository.New(database)
	if err := repo.LoadAll(context.Background()); err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}
	log.Printf("loaded %s corpus hashes", humanize.Comma(int64(repo.Len())))

	checker, err := auth.NewChecker(cfg.APIKey)
	if err != nil {
		log.Fatalf("failed to initialize auth: %v", err)
	}
	authMW := auth.NewMiddleware(checker)

	fp := fingerprint.New(cfg.FFmpegPath)
	probe := ffmpeg.NewFFprobe(cfg.FFprobePath)
	ingest := jobs.NewIngestHandler(fp, probe, repo)
	rescan := jobs.NewRescanHandler(cfg.CorpusDir, cfg.MaxIngestJobs, ingest, repo)

	queue := jobs.NewQueue(cfg.RedisAddr)
	queue.RegisterHandler(jobs.TaskIngestFile, ingest)
	queue.RegisterHandler(jobs.TaskRescanCorpus, rescan)

	go func() {
		if err := queue.Start(context.Background()); err != nil {
			log.Printf("job queue worker error: %v", err)
		}
	}()
	defer queue.Stop()

	fsWatcher, err := watcher.New(cfg.CorpusDir, func(path string, kind watcher.Kind, isCreate bool) {
		if !isCreate {
			return
		}
		if _, err := queue.EnqueueUnique(jobs.TaskIngestFile,
			jobs.IngestPayload{Path: path, Kind: string(kind)}, "ingest:"+path); err != nil {
			log.Printf("[watcher] enqueue ingest error for %s: %v", path, err)
		}
	})
	if err != nil {
		log.Printf("filesystem watcher failed to start: %v", err)
	} else {
		if err := fsWatcher.Start(); err != nil {
			log.Printf("filesystem watcher failed to start: %v", err)
		} else {
			defer fsWatcher.Stop()
		}
	}

	rescanScheduler := scheduler.New(5*time.Minute, func() {
		if _, err := queue.EnqueueUnique(jobs.TaskRescanCorpus, struct{}{}, "scheduled-rescan"); err != nil {
			log.Printf("[scheduler] enqueue rescan error: %v", err)
		}
	})
	rescanScheduler.Start()
	defer rescanScheduler.Stop()

	server := api.NewServer(repo, authMW)
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("pifserve listening on %s", addr)
	if err := http.ListenAndServe(addr, server); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
