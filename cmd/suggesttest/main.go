// Command suggesttest runs bounding-box suggestion on an image and prints
// the proposals.
package main

import (
	"flag"
	"fmt"
	"os"

	annotimage "image-annotator/internal/image"
	"image-annotator/internal/suggest"
)

func main() {
	imagePath := flag.String("image", "", "Path to image (TIFF, PNG, or JPEG)")
	minSize := flag.Float64("min-size", 10, "Minimum proposal side in pixels")
	maxCount := flag.Int("max", 25, "Maximum number of proposals")
	sigma := flag.Float64("sigma", 3, "Area outlier cutoff in standard deviations (0 disables)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: suggesttest -image <path> [-min-size 10] [-max 25] [-sigma 3]")
		os.Exit(1)
	}

	src, err := annotimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s: %dx%d pixels\n", *imagePath, src.Width(), src.Height())

	opts := suggest.DefaultOptions()
	opts.MinBoxSize = *minSize
	opts.MaxProposals = *maxCount
	opts.AreaOutlierSigma = *sigma

	proposals, err := suggest.BoxesFromImage(src.Image, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Suggestion failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d proposals:\n", len(proposals))
	fmt.Printf("%10s %10s %10s %10s %8s\n", "X", "Y", "Width", "Height", "Score")
	for _, p := range proposals {
		fmt.Printf("%10.1f %10.1f %10.1f %10.1f %8.2f\n",
			p.Bounds.X, p.Bounds.Y, p.Bounds.Width, p.Bounds.Height, p.Score)
	}
}
