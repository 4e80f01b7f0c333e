//go:build opencv

package roi

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
)

// OpenCVAvailable reports whether the OpenCV backend was compiled in.
const OpenCVAvailable = true

// opencvExtractor mirrors Locate and Rectify on top of OpenCV. It is kept
// as a cross-check for the native implementation on real photos.
type opencvExtractor struct{}

func newOpenCVExtractor() (Extractor, error) {
	return opencvExtractor{}, nil
}

func (opencvExtractor) Locate(photo image.Image, opts LocateOptions) (*Location, error) {
	if photo == nil || photo.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	annotated := imaging.Clone(photo)
	bgr, err := gocv.ImageToMatRGB(annotated)
	if err != nil {
		return nil, fmt.Errorf("failed to convert photo: %w", err)
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(gray, &binary, 255, gocv.AdaptiveThresholdMean,
		gocv.ThresholdBinaryInv, opts.BlockSize, float32(opts.C))

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(binary, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	var candidates []Candidate
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		eps := opts.Candidates.EpsilonRatio * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, eps, true)
		quad := toContour(approx.ToPoints())
		approx.Close()

		if len(quad) != 4 || !quad.IsConvex() {
			continue
		}
		area := gocv.ContourArea(contour)
		if area <= opts.Candidates.MinArea {
			continue
		}
		candidates = append(candidates, Candidate{
			Index:   i,
			Contour: toContour(contour.ToPoints()),
			Quad:    quad,
			Area:    area,
		})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Area > candidates[b].Area
	})

	loc := &Location{Annotated: annotated, Candidates: len(candidates)}
	if opts.CandidateIndex < 0 || opts.CandidateIndex >= len(candidates) {
		return loc, nil
	}
	selected := candidates[opts.CandidateIndex]
	loc.Contour = selected.Contour
	loc.Corners = IdentifyCorners(selected.Contour)
	annotate(annotated, loc, opts)
	return loc, nil
}

func (opencvExtractor) Rectify(photo image.Image, corners *Corners, opts RectifyOptions) (*Rectified, error) {
	if photo == nil || photo.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if corners == nil {
		return nil, ErrNoCorners
	}

	bgr, err := gocv.ImageToMatRGB(imaging.Normalize(photo))
	if err != nil {
		return nil, fmt.Errorf("failed to convert photo: %w", err)
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	pts := corners.Ordered()
	cm := gocv.NewMatWithSize(4, 1, gocv.MatTypeCV32FC2)
	defer cm.Close()
	for i, p := range pts {
		cm.SetFloatAt(i, 0, float32(p.X))
		cm.SetFloatAt(i, 1, float32(p.Y))
	}
	win := opts.SubPix.HalfWindow
	criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, opts.SubPix.MaxIterations, opts.SubPix.Epsilon)
	gocv.CornerSubPix(gray, &cm, image.Pt(win, win), image.Pt(-1, -1), criteria)
	for i := range pts {
		pts[i] = PointF{X: float64(cm.GetFloatAt(i, 0)), Y: float64(cm.GetFloatAt(i, 1))}
	}

	adjusted := FromOrdered(pts).Inset(opts.Margin)
	w, h := adjusted.OutputSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: output size %dx%d", ErrDegenerateGeometry, w, h)
	}

	src := toPoint2f(adjusted.Ordered())
	defer src.Close()
	dst := toPoint2f(Rectangle(w, h))
	defer dst.Close()

	m := gocv.GetPerspectiveTransform2f(src, dst)
	defer m.Close()

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(bgr, &warped, m, image.Pt(w, h))

	out, err := warped.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert rectified window: %w", err)
	}

	var hom Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			hom[r*3+c] = m.GetDoubleAt(r, c)
		}
	}

	return &Rectified{
		Image:      imaging.Normalize(out),
		Width:      w,
		Height:     h,
		Corners:    adjusted,
		Homography: hom,
	}, nil
}

func toContour(pts []image.Point) Contour {
	c := make(Contour, len(pts))
	for i, p := range pts {
		c[i] = Point{X: p.X, Y: p.Y}
	}
	return c
}

func toPoint2f(pts [4]PointF) gocv.Point2fVector {
	v := make([]gocv.Point2f, len(pts))
	for i, p := range pts {
		v[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
	}
	return gocv.NewPoint2fVectorFromPoints(v)
}
