// Package suggest proposes bounding boxes for objects in an image using
// contour detection. Proposals are hints only; the user still draws or
// accepts each annotation.
package suggest

import (
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"

	"image-annotator/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Options control the proposal pipeline.
type Options struct {
	// Canny edge thresholds.
	CannyLow  float32
	CannyHigh float32

	// Gaussian blur kernel size (odd).
	BlurSize int

	// Proposals smaller than this on either side are dropped.
	MinBoxSize float64

	// Maximum number of proposals returned.
	MaxProposals int

	// Proposals whose area is more than this many standard deviations
	// from the mean area are dropped. Zero disables the filter.
	AreaOutlierSigma float64
}

// DefaultOptions returns the tuning that works for typical photos.
func DefaultOptions() Options {
	return Options{
		CannyLow:         50,
		CannyHigh:        150,
		BlurSize:         5,
		MinBoxSize:       10,
		MaxProposals:     25,
		AreaOutlierSigma: 3,
	}
}

// Proposal is one suggested bounding box with a crude confidence score.
type Proposal struct {
	Bounds geometry.Rect `json:"bounds"`
	Score  float64       `json:"score"`
}

// BoxesFromImage runs the proposal pipeline on a Go image.
func BoxesFromImage(src image.Image, opts Options) ([]Proposal, error) {
	mat, err := imageToMat(src)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	return Boxes(mat, opts)
}

// Boxes runs the proposal pipeline on an OpenCV Mat: grayscale, blur,
// Canny edges, external contours, then bounding rects filtered by size
// and area outliers.
func Boxes(src gocv.Mat, opts Options) ([]Proposal, error) {
	if src.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := opts.BlurSize
	if k < 3 {
		k = 3
	}
	if k%2 == 0 {
		k++
	}
	gocv.GaussianBlur(gray, &blurred, image.Point{k, k}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, opts.CannyLow, opts.CannyHigh)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	imgW := float64(src.Cols())
	imgH := float64(src.Rows())

	proposals := make([]Proposal, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		r := gocv.BoundingRect(contours.At(i))
		rect := geometry.Rect{
			X:      float64(r.Min.X),
			Y:      float64(r.Min.Y),
			Width:  float64(r.Dx()),
			Height: float64(r.Dy()),
		}.ClampToImage(imgW, imgH)

		if rect.Width < opts.MinBoxSize || rect.Height < opts.MinBoxSize {
			continue
		}

		area := gocv.ContourArea(contours.At(i))
		boxArea := rect.Width * rect.Height
		score := 0.0
		if boxArea > 0 {
			// How well the contour fills its bounding box.
			score = area / boxArea
		}
		proposals = append(proposals, Proposal{Bounds: rect, Score: score})
	}

	proposals = filterAreaOutliers(proposals, opts.AreaOutlierSigma)

	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].Score > proposals[j].Score
	})
	if opts.MaxProposals > 0 && len(proposals) > opts.MaxProposals {
		proposals = proposals[:opts.MaxProposals]
	}
	return proposals, nil
}

// filterAreaOutliers drops proposals whose box area is more than sigma
// standard deviations from the mean. Needs at least three proposals for
// the statistics to mean anything.
func filterAreaOutliers(proposals []Proposal, sigma float64) []Proposal {
	if sigma <= 0 || len(proposals) < 3 {
		return proposals
	}

	areas := make([]float64, len(proposals))
	for i, p := range proposals {
		areas[i] = p.Bounds.Width * p.Bounds.Height
	}
	mean, std := stat.MeanStdDev(areas, nil)
	if std == 0 {
		return proposals
	}

	kept := proposals[:0]
	for i, p := range proposals {
		if (areas[i]-mean) <= sigma*std && (mean-areas[i]) <= sigma*std {
			kept = append(kept, p)
		}
	}
	return kept
}

// imageToMat converts a Go image.Image to a BGR gocv.Mat, parallelized by
// horizontal stripes.
func imageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := w * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= height {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				for x := 0; x < width; x++ {
					r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
					// OpenCV uses BGR format
					mat.SetUCharAt(y, x*3+0, uint8(b>>8))
					mat.SetUCharAt(y, x*3+1, uint8(g>>8))
					mat.SetUCharAt(y, x*3+2, uint8(r>>8))
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return mat, nil
}
