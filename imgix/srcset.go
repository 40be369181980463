package imgix

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Source set defaults. A tolerance of 8 means a rendered image is never more
// than 8% larger or smaller than the closest generated width.
const (
	MinWidth  = 100.
	MaxWidth  = 8192.
	Tolerance = 8.

	// MinTolerance bounds the number of generated widths.
	MinTolerance = 1.
)

var (
	// DefaultDPRs are the pixel densities of a fixed size image.
	DefaultDPRs = []int{1, 2, 3, 4, 5}
	// DefaultDPRQualities are the qualities matching DefaultDPRs.
	DefaultDPRQualities = []int{75, 50, 35, 23, 20}
)

// SourceSetOptions tweaks the generated candidates. The zero value uses the
// defaults.
type SourceSetOptions struct {
	MinWidth               float64
	MaxWidth               float64
	Tolerance              float64
	Widths                 []int
	DPRs                   []int
	Qualities              []int
	DisableVariableQuality bool
}

// TargetWidths computes the widths between min and max so that two
// consecutive ones are at most twice the tolerance (in percent) apart. The
// last width is always max. Both bounds must be valid values of w.
func TargetWidths(min, max, tolerance float64) ([]int, error) {
	for _, v := range []float64{min, max, tolerance} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &BuildError{
				Err:    ErrInvalidSourceSet,
				Reason: fmt.Sprintf("min %v, max %v and tolerance %v must be finite", min, max, tolerance),
			}
		}
	}

	if min < dimension.Min || max > dimension.Max || max < min || tolerance < MinTolerance {
		return nil, &BuildError{
			Err:    ErrInvalidSourceSet,
			Reason: fmt.Sprintf("min %v, max %v and tolerance %v cannot generate widths", min, max, tolerance),
		}
	}

	var widths []int
	for w := min; w <= max; w *= 1 + tolerance/100*2 {
		widths = append(widths, int(math.Round(w)))
	}

	if last := int(math.Round(max)); widths[len(widths)-1] != last {
		widths = append(widths, last)
	}

	return widths, nil
}

// SourceSet generates the value of a srcset attribute, one candidate per
// line.
//
// An image with a fixed size (w, or both h and ar) gets pixel density
// candidates (1x, 2x, ...). Any other image gets width candidates
// (100w, 116w, ...).
func (b *Builder) SourceSet(opts SourceSetOptions) (string, error) {
	if err := b.params.Check(); err != nil {
		return "", err
	}

	var candidates []string
	var err error
	if b.isFixed() {
		candidates, err = b.densitySet(opts)
	} else {
		candidates, err = b.widthSet(opts)
	}
	if err != nil {
		return "", err
	}

	return strings.Join(candidates, ",\n"), nil
}

func (b *Builder) isFixed() bool {
	_, w := b.params.Get("w")
	_, h := b.params.Get("h")
	_, ar := b.params.Get("ar")
	return w || (h && ar)
}

func (b *Builder) densitySet(opts SourceSetOptions) ([]string, error) {
	dprs := opts.DPRs
	if len(dprs) == 0 {
		dprs = DefaultDPRs
	}

	qualities := opts.Qualities
	if len(qualities) == 0 {
		qualities = DefaultDPRQualities
	}

	_, hasQuality := b.params.Get("q")
	variable := !opts.DisableVariableQuality && !hasQuality
	if variable && len(qualities) < len(dprs) {
		return nil, &BuildError{
			Err:    ErrInvalidSourceSet,
			Reason: fmt.Sprintf("%d qualities for %d pixel densities", len(qualities), len(dprs)),
		}
	}

	candidates := make([]string, 0, len(dprs))
	for i, dpr := range dprs {
		c := b.Clone()
		if _, err := c.WithParam("dpr", strconv.Itoa(dpr)); err != nil {
			return nil, err
		}
		if variable {
			if _, err := c.WithParam("q", strconv.Itoa(qualities[i])); err != nil {
				return nil, err
			}
		}

		u, err := c.Render()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, fmt.Sprintf("%s %dx", u, dpr))
	}

	return candidates, nil
}

func (b *Builder) widthSet(opts SourceSetOptions) ([]string, error) {
	widths := opts.Widths
	if len(widths) == 0 {
		min, max, tolerance := opts.MinWidth, opts.MaxWidth, opts.Tolerance
		if min == 0 {
			min = MinWidth
		}
		if max == 0 {
			max = MaxWidth
		}
		if tolerance == 0 {
			tolerance = Tolerance
		}

		var err error
		widths, err = TargetWidths(min, max, tolerance)
		if err != nil {
			return nil, err
		}
	}

	candidates := make([]string, 0, len(widths))
	for _, width := range widths {
		c := b.Clone()
		if _, err := c.WithParam("w", strconv.Itoa(width)); err != nil {
			return nil, err
		}

		u, err := c.Render()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, fmt.Sprintf("%s %dw", u, width))
	}

	debug("Generated %d width candidates", len(candidates))
	return candidates, nil
}
