// Command pifhash computes the perceptual fingerprint of one or more
// image files and prints it in hash line format.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JustinTDCT/pifindex/internal/fingerprint"
)

func main() {
	var all bool

	root := &cobra.Command{
		Use:   "pifhash <image> [image...]",
		Short: "Compute perceptual image fingerprints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp := fingerprint.New("ffmpeg")
			for _, path := range args {
				if all {
					printAllVariants(fp, path)
					continue
				}
				res, err := fp.HashImageFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "pifhash: %s: %v\n", path, err)
					continue
				}
				fmt.Printf("%s %d %s\n", res.Hash.Format(), res.Quality, path)
			}
			return nil
		},
	}
	root.Flags().BoolVar(&all, "all", false, "print all eight dihedral variants")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func printAllVariants(fp *fingerprint.Fingerprinter, path string) {
	results, quality, err := fp.HashImageFileDihedral(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pifhash: %s: %v\n", path, err)
		return
	}
	for _, r := range results {
		fmt.Printf("%s %s %d %s\n", r.Variant, r.Hash.Format(), quality, path)
	}
}
