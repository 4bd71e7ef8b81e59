// Command vpdqhash samples frames from a video and prints a video
// fingerprint stream in the frameNumber/hash/quality/timestamp line
// format vpdqmatch consumes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JustinTDCT/pifindex/internal/ffmpeg"
	"github.com/JustinTDCT/pifindex/internal/fingerprint"
)

func main() {
	var ffmpegPath, ffprobePath string

	root := &cobra.Command{
		Use:   "vpdqhash <video>",
		Short: "Compute a perceptual video fingerprint stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			probe := ffmpeg.NewFFprobe(ffprobePath)
			result, err := probe.Probe(args[0])
			if err != nil {
				return fmt.Errorf("probe: %w", err)
			}

			fp := fingerprint.New(ffmpegPath)
			frames, err := fp.HashVideoFile(args[0], result.DurationSeconds())
			if err != nil {
				return fmt.Errorf("hash video: %w", err)
			}

			for _, f := range frames {
				fmt.Printf("%d %s %d %.3f\n", f.FrameNumber, f.Hash.Format(), f.Quality, f.Timestamp)
			}
			return nil
		},
	}
	root.Flags().StringVar(&ffmpegPath, "ffmpeg", "ffmpeg", "path to the ffmpeg binary")
	root.Flags().StringVar(&ffprobePath, "ffprobe", "ffprobe", "path to the ffprobe binary")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
