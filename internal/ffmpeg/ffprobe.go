// Package ffmpeg wraps the ffprobe binary for the one thing pifindex's
// video ingest path needs from it: duration, to turn frame-sample
// percentages into seek offsets.
package ffmpeg

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// FFprobe invokes a configured ffprobe binary.
type FFprobe struct{ Path string }

// ProbeResult is the subset of ffprobe's JSON output pifindex consumes.
type ProbeResult struct {
	Format  FormatInfo   `json:"format"`
	Streams []StreamInfo `json:"streams"`
}

// FormatInfo carries the container-level duration.
type FormatInfo struct {
	Duration string `json:"duration"`
}

// StreamInfo carries per-stream codec type and dimensions.
type StreamInfo struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// NewFFprobe builds an FFprobe that shells out to the binary at path.
func NewFFprobe(path string) *FFprobe { return &FFprobe{Path: path} }

// Probe runs ffprobe against filePath and parses its JSON output.
func (f *FFprobe) Probe(filePath string) (*ProbeResult, error) {
	cmd := exec.Command(f.Path, "-v", "quiet", "-print_format", "json",
		"-show_format", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &result, nil
}

// DurationSeconds returns the container duration, 0 if unparseable.
func (r *ProbeResult) DurationSeconds() float64 {
	duration, _ := strconv.ParseFloat(r.Format.Duration, 64)
	return duration
}

// Resolution returns width and height of the first video stream, or
// (0, 0) if none is present.
func (r *ProbeResult) Resolution() (width, height int) {
	for _, s := range r.Streams {
		if s.CodecType == "video" {
			return s.Width, s.Height
		}
	}
	return 0, 0
}
