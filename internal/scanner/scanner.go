// Package scanner walks the corpus directory to find files that have
// not yet been ingested, for the initial sweep and for periodic
// rescans driven by the scheduler.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/JustinTDCT/pifindex/internal/watcher"
)

// File is one file found under the corpus root.
type File struct {
	Path string
	Kind watcher.Kind
}

// Walk returns every image/video file under root whose path is not
// already present in known. known holds source paths already recorded
// in the repository, so a rescan only surfaces new arrivals.
func Walk(root string, known map[string]bool) ([]File, error) {
	var found []File
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if known[path] {
			return nil
		}
		kind, ok := classify(path)
		if !ok {
			return nil
		}
		found = append(found, File{Path: path, Kind: kind})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true, ".m4v": true,
	".wmv": true, ".flv": true, ".webm": true, ".ts": true, ".m2ts": true,
	".mpg": true, ".mpeg": true,
}

func classify(path string) (watcher.Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if imageExtensions[ext] {
		return watcher.KindImage, true
	}
	if videoExtensions[ext] {
		return watcher.KindVideo, true
	}
	return "", false
}
