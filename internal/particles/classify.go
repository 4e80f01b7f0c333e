package particles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"math"
)

// DefaultAssumedAreaUm2 is the physical area, in µm², a sampling window is
// assumed to cover.
const DefaultAssumedAreaUm2 = 36e6

// DefaultDensityDivisor turns the count of particles above 10 µm into the
// per-unit-area density the pollution bands are defined on.
const DefaultDensityDivisor = 36

// Bin is a particle size class.
type Bin int

const (
	BinUpTo1um Bin = iota
	Bin1To2_5um
	Bin2_5To10um
	BinAbove10um
)

// String returns the report key for the bin.
func (b Bin) String() string {
	switch b {
	case BinUpTo1um:
		return "<=1um"
	case Bin1To2_5um:
		return "1-2.5um"
	case Bin2_5To10um:
		return "2.5-10um"
	case BinAbove10um:
		return ">10um"
	default:
		return fmt.Sprintf("Bin(%d)", int(b))
	}
}

// MarshalText encodes the bin as its report key.
func (b Bin) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// BinFor returns the bin a diameter in micrometres falls into.
func BinFor(diameterUm float64) Bin {
	switch {
	case diameterUm <= 1:
		return BinUpTo1um
	case diameterUm <= 2.5:
		return Bin1To2_5um
	case diameterUm <= 10:
		return Bin2_5To10um
	default:
		return BinAbove10um
	}
}

// Level is a pollution level.
type Level string

const (
	LevelVeryHigh Level = "Very High"
	LevelHigh     Level = "High"
	LevelMedium   Level = "Medium"
	LevelLow      Level = "Low"
)

// LevelFor maps a density of particles above 10 µm to a pollution level.
// Bands are (50, ∞) Very High, [26, 50] High, [11, 26) Medium, and below 11
// Low, so the gap between 25 and 26 belongs to Medium.
func LevelFor(density float64) Level {
	switch {
	case density > 50:
		return LevelVeryHigh
	case density >= 26:
		return LevelHigh
	case density >= 11:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Scale relates mask pixels to physical size.
type Scale struct {
	PixelsPerMicron float64 `json:"pixels_per_micron"`
	TotalPixels     int     `json:"total_pixels"`
	AssumedAreaUm2  float64 `json:"assumed_area_um2"`
}

// NewScale returns the scale for a w x h mask covering areaUm2.
func NewScale(w, h int, areaUm2 float64) (Scale, error) {
	total := w * h
	if total <= 0 {
		return Scale{}, ErrEmptyMask
	}
	if areaUm2 <= 0 {
		return Scale{}, fmt.Errorf("invalid assumed area %v: must be positive", areaUm2)
	}
	return Scale{
		PixelsPerMicron: math.Sqrt(float64(total) / areaUm2),
		TotalPixels:     total,
		AssumedAreaUm2:  areaUm2,
	}, nil
}

// Particle is one measured external region.
type Particle struct {
	AreaPx     float64         `json:"area_px"`
	DiameterPx float64         `json:"diameter_px"`
	DiameterUm float64         `json:"diameter_um"`
	Bin        Bin             `json:"bin"`
	Bounds     image.Rectangle `json:"bounds"`
}

// Report is the per-window result in its published JSON shape.
type Report struct {
	UpTo1um   int   `json:"<=1um"`
	From1     int   `json:"1-2.5um"`
	From2_5   int   `json:"2.5-10um"`
	Above10um int   `json:">10um"`
	Total     int   `json:"Total"`
	Level     Level `json:"Pollution Level"`
}

// Count returns the count for bin b.
func (r Report) Count(b Bin) int {
	switch b {
	case BinUpTo1um:
		return r.UpTo1um
	case Bin1To2_5um:
		return r.From1
	case Bin2_5To10um:
		return r.From2_5
	case BinAbove10um:
		return r.Above10um
	}
	return 0
}

func (r *Report) add(b Bin) {
	switch b {
	case BinUpTo1um:
		r.UpTo1um++
	case Bin1To2_5um:
		r.From1++
	case Bin2_5To10um:
		r.From2_5++
	case BinAbove10um:
		r.Above10um++
	}
	r.Total++
}

// JSON encodes the report with its bin keys left unescaped.
func (r Report) JSON() ([]byte, error) {
	return EncodeJSON(r, "")
}

// EncodeJSON marshals v without HTML escaping so that keys such as "<=1um"
// stay readable. A non-empty indent pretty-prints the output.
func EncodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ClassifyOptions configures Classify.
type ClassifyOptions struct {
	// AssumedAreaUm2 is the physical area the mask covers.
	AssumedAreaUm2 float64

	// DensityDivisor converts the >10 µm count into a density.
	DensityDivisor float64
}

// DefaultClassifyOptions returns a 36e6 µm² window and a density divisor of
// 36.
func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{AssumedAreaUm2: DefaultAssumedAreaUm2, DensityDivisor: DefaultDensityDivisor}
}

// Analysis is the full result of Classify.
type Analysis struct {
	Report    Report     `json:"report"`
	Particles []Particle `json:"particles,omitempty"`
	Scale     Scale      `json:"scale"`
	Density   float64    `json:"density"`
	Stats     Stats      `json:"stats"`
}

// Classify measures every external region of mask and summarizes them.
//
// Each region's diameter is that of the circle with the same area as its
// outer border polygon, so an isolated pixel has diameter 0. A mask
// without foreground yields a valid report with Total 0 and level Low; a
// mask without pixels is an error because the scale is undefined.
func Classify(mask *image.Gray, opts ClassifyOptions) (*Analysis, error) {
	if mask == nil {
		return nil, ErrEmptyMask
	}
	b := mask.Bounds()
	scale, err := NewScale(b.Dx(), b.Dy(), opts.AssumedAreaUm2)
	if err != nil {
		return nil, err
	}
	divisor := opts.DensityDivisor
	if divisor <= 0 {
		return nil, fmt.Errorf("invalid density divisor %v: must be positive", divisor)
	}

	regions := ExternalRegions(mask)
	particles := make([]Particle, 0, len(regions))
	diameters := make([]float64, 0, len(regions))

	var report Report
	for _, r := range regions {
		dpx := math.Sqrt(4 * r.Area / math.Pi)
		dum := dpx / scale.PixelsPerMicron
		bin := BinFor(dum)
		report.add(bin)
		particles = append(particles, Particle{
			AreaPx:     r.Area,
			DiameterPx: dpx,
			DiameterUm: dum,
			Bin:        bin,
			Bounds:     r.Bounds,
		})
		diameters = append(diameters, dum)
	}

	density := float64(report.Above10um) / divisor
	report.Level = LevelFor(density)

	return &Analysis{
		Report:    report,
		Particles: particles,
		Scale:     scale,
		Density:   density,
		Stats:     ComputeStats(diameters),
	}, nil
}
