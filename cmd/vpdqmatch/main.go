// Command vpdqmatch compares two equal-length video fingerprint streams
// line by line and reports what percentage of frames match within a
// Hamming distance tolerance, skipping frames below a quality floor.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JustinTDCT/pifindex/internal/hash256"
)

type frameHash struct {
	frameNumber int
	hash        hash256.Hash256
	quality     int
	timestamp   float64
}

func loadFrames(path string) ([]frameHash, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var frames []frameHash
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed line %q: want 4 fields, got %d", line, len(fields))
		}
		frameNumber, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("parse frame number %q: %w", fields[0], err)
		}
		h, err := hash256.Parse(fields[1])
		if err != nil {
			return nil, fmt.Errorf("parse hash %q: %w", fields[1], err)
		}
		quality, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("parse quality %q: %w", fields[2], err)
		}
		timestamp, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", fields[3], err)
		}
		frames = append(frames, frameHash{frameNumber: frameNumber, hash: h, quality: quality, timestamp: timestamp})
	}
	return frames, scanner.Err()
}

// compareStreams walks two equal-length frame streams index by index,
// skipping frames below qualityTolerance, and counts how many of the
// remaining frames match within distanceTolerance (strict less-than,
// matching the reference matcher's convention).
func compareStreams(frames1, frames2 []frameHash, distanceTolerance, qualityTolerance int, verbose bool) (matched, compared int) {
	for i := range frames1 {
		a, b := frames1[i], frames2[i]
		if a.quality < qualityTolerance || b.quality < qualityTolerance {
			if verbose {
				fmt.Printf("skipping line %d (low quality %d/%d)\n", i, a.quality, b.quality)
			}
			continue
		}
		compared++
		if hash256.Distance(a.hash, b.hash) < distanceTolerance {
			matched++
			if verbose {
				fmt.Printf("line %d match\n", i)
			}
		} else if verbose {
			fmt.Printf("line %d no match\n", i)
		}
	}
	return matched, compared
}

func main() {
	var verbose bool

	root := &cobra.Command{
		Use:   "vpdqmatch <file1> <file2> <distanceTolerance> <qualityTolerance>",
		Short: "Compare two video fingerprint streams line by line",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			distanceTolerance, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("distanceTolerance: %w", err)
			}
			qualityTolerance, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("qualityTolerance: %w", err)
			}

			frames1, err := loadFrames(args[0])
			if err != nil {
				return err
			}
			frames2, err := loadFrames(args[1])
			if err != nil {
				return err
			}
			if len(frames1) != len(frames2) {
				return fmt.Errorf("stream sizes differ: %d vs %d", len(frames1), len(frames2))
			}

			matched, compared := compareStreams(frames1, frames2, distanceTolerance, qualityTolerance, verbose)
			if compared == 0 {
				fmt.Println("0.000000 percentage matches")
				return nil
			}
			fmt.Printf("%3f percentage matches\n", float64(matched)*100/float64(compared))
			return nil
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "show all hash matching information")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
