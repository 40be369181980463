package imgix

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetWidths(t *testing.T) {
	widths, err := TargetWidths(MinWidth, MaxWidth, Tolerance)
	require.NoError(t, err)

	assert.Equal(t, []int{
		100, 116, 135, 156, 181, 210, 244, 283, 328, 380, 441, 512, 594, 689,
		799, 927, 1075, 1247, 1446, 1678, 1946, 2257, 2619, 3038, 3524, 4087,
		4741, 5500, 6380, 7401, 8192,
	}, widths)
}

func TestTargetWidthsBounds(t *testing.T) {
	var tests = []struct {
		min, max, tolerance float64
		expected            []int
	}{
		{100, 100, 8, []int{100}},
		{500, 600, 8, []int{500, 580, 600}},
		{100, 200, 50, []int{100, 200}},
	}

	for _, test := range tests {
		widths, err := TargetWidths(test.min, test.max, test.tolerance)
		require.NoError(t, err)
		assert.Equal(t, test.expected, widths, "%v-%v (%v%%)", test.min, test.max, test.tolerance)
	}
}

func TestTargetWidthsInvalid(t *testing.T) {
	var tests = []struct {
		min, max, tolerance float64
	}{
		{0, 100, 8},
		{200, 100, 8},
		{100, 200, 0},
		{100, 200, -1},
		{100, 200, 0.5},
		{100, 200, 1e-300},
		{100, 8193, 8},
		{math.NaN(), 8192, 8},
		{100, math.NaN(), 8},
		{100, 8192, math.NaN()},
		{100, math.Inf(1), 8},
		{math.Inf(-1), 8192, 8},
		{100, 8192, math.Inf(1)},
	}

	for _, test := range tests {
		_, err := TargetWidths(test.min, test.max, test.tolerance)
		if !errors.Is(err, ErrInvalidSourceSet) {
			t.Errorf("TargetWidths(%v, %v, %v) got %v want %v", test.min, test.max, test.tolerance, err, ErrInvalidSourceSet)
		}
	}
}

func TestSourceSetWidths(t *testing.T) {
	b := newBuilder(t, "image.jpg", "auto", "format")

	s, err := b.SourceSet(SourceSetOptions{})
	require.NoError(t, err)

	lines := strings.Split(s, ",\n")
	assert.Len(t, lines, 31)
	assert.Equal(t, "https://demo.imgix.net/image.jpg?auto=format&w=100 100w", lines[0])
	assert.Equal(t, "https://demo.imgix.net/image.jpg?auto=format&w=8192 8192w", lines[30])

	// the builder itself is left alone.
	_, ok := b.Params().Get("w")
	assert.False(t, ok)
}

func TestSourceSetExplicitWidths(t *testing.T) {
	b := newBuilder(t, "image.jpg")
	b.WithSigningKey("FOO123bar")

	s, err := b.SourceSet(SourceSetOptions{Widths: []int{100, 200}})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"https://demo.imgix.net/image.jpg?w=100&s=15f6c4f3fe810f2dea4047b81fbfa516 100w",
		"https://demo.imgix.net/image.jpg?w=200&s=" + Sign("FOO123bar", "image.jpg", "w=200") + " 200w",
	}, ",\n"), s)
}

func TestSourceSetDensities(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "320")

	s, err := b.SourceSet(SourceSetOptions{})
	require.NoError(t, err)

	lines := strings.Split(s, ",\n")
	require.Len(t, lines, len(DefaultDPRs))
	for i, dpr := range DefaultDPRs {
		expected := fmt.Sprintf("https://demo.imgix.net/image.jpg?dpr=%d&q=%d&w=320 %dx", dpr, DefaultDPRQualities[i], dpr)
		assert.Equal(t, expected, lines[i])
	}
}

func TestSourceSetDensitiesKeepQuality(t *testing.T) {
	var tests = []struct {
		params  []string
		opts    SourceSetOptions
		quality string
	}{
		{[]string{"w", "320", "q", "90"}, SourceSetOptions{}, "q=90"},
		{[]string{"h", "200", "ar", "16:9", "fit", "crop"}, SourceSetOptions{DisableVariableQuality: true}, ""},
	}

	for _, test := range tests {
		b := newBuilder(t, "image.jpg", test.params...)

		s, err := b.SourceSet(test.opts)
		require.NoError(t, err)

		lines := strings.Split(s, ",\n")
		require.Len(t, lines, len(DefaultDPRs))
		for _, line := range lines {
			if test.quality == "" {
				assert.NotContains(t, line, "q=")
			} else {
				assert.Contains(t, line, test.quality)
			}
		}
		assert.True(t, strings.HasSuffix(lines[4], " 5x"))
	}
}

func TestSourceSetInvalid(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "320")
	_, err := b.SourceSet(SourceSetOptions{DPRs: []int{1, 2, 3}, Qualities: []int{80}})
	assert.True(t, errors.Is(err, ErrInvalidSourceSet))

	b = newBuilder(t, "image.jpg", "txt", "a", "txt64", "YQ")
	_, err = b.SourceSet(SourceSetOptions{})
	assert.True(t, errors.Is(err, ErrConflictingParams))

	b = newBuilder(t, "image.jpg")
	_, err = b.SourceSet(SourceSetOptions{MinWidth: 500, MaxWidth: 100})
	assert.True(t, errors.Is(err, ErrInvalidSourceSet))

	_, err = b.SourceSet(SourceSetOptions{MinWidth: math.NaN()})
	assert.True(t, errors.Is(err, ErrInvalidSourceSet))

	_, err = b.SourceSet(SourceSetOptions{MaxWidth: math.Inf(1)})
	assert.True(t, errors.Is(err, ErrInvalidSourceSet))
}
