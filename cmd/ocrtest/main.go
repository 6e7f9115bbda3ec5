// Command ocrtest runs text recognition on a region of an image.
package main

import (
	"flag"
	"fmt"
	"os"

	annotimage "image-annotator/internal/image"
	"image-annotator/internal/ocr"
	"image-annotator/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to image (TIFF, PNG, or JPEG)")
	x := flag.Float64("x", 0, "Region x")
	y := flag.Float64("y", 0, "Region y")
	w := flag.Float64("w", 0, "Region width (0 = full image)")
	h := flag.Float64("h", 0, "Region height (0 = full image)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: ocrtest -image <path> [-x 0 -y 0 -w 100 -h 40]")
		os.Exit(1)
	}

	src, err := annotimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}

	engine, err := ocr.NewEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start OCR engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	bounds := geometry.Rect{X: *x, Y: *y, Width: *w, Height: *h}
	if *w == 0 || *h == 0 {
		bounds = geometry.Rect{Width: float64(src.Width()), Height: float64(src.Height())}
	}

	text, err := engine.RecognizeInImage(src.Image, bounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OCR failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Recognized text: %q\n", text)
}
