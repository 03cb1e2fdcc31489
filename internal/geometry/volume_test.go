package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolume_FlatSegment(t *testing.T) {
	for _, h := range []float64{0, 0.1, 0.4} {
		v, err := Volume(h)
		require.NoError(t, err)
		assert.Equal(t, 350.0, v)
	}
}

func TestVolume_Segments(t *testing.T) {
	tests := []struct {
		name string
		h    float64
		want float64
	}{
		{"mid_segment_start", 0.4, 350},
		{"mid_segment_point", 6.0, ((1000*(5.6*5.6))/2)*5 + 350},
		{"upper_segment_point", 8.7, 5500*(8.7-5.9)*5 + 75975},
		{"top_segment_point", 14.1, ((5.5*5500/2)-((5.5-(14.1-8.6))*(5.5-(14.1-8.6))*1000/2))*5 + 150225},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Volume(tt.h)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v, 1e-6)
		})
	}
}

func TestVolume_OutOfRange(t *testing.T) {
	_, err := Volume(-0.01)
	assert.Error(t, err)

	_, err = Volume(14.2)
	assert.Error(t, err)
}

func TestVolume_StrictlyIncreasingAboveFlat(t *testing.T) {
	prev, _ := Volume(0.4)
	for h := 0.41; h <= 14.1; h += 0.01 {
		v, err := Volume(h)
		require.NoError(t, err)
		assert.Greater(t, v, prev)
		prev = v
	}
}

func TestHeight_RoundTrip(t *testing.T) {
	for h := 0.0; h <= 14.1; h += 0.37 {
		v, err := Volume(h)
		require.NoError(t, err)
		got := Height(v)
		if h <= flatUpper {
			// V is flat at 350 here, so every such level maps back to 0.
			assert.Equal(t, 0.0, got, "h=%v on the flat segment", h)
			continue
		}
		assert.LessOrEqual(t, math.Abs(got-h), 1e-3, "h=%v roundtrip got %v", h, got)
	}
}

func TestHeight_BelowFlatShortcut(t *testing.T) {
	assert.Equal(t, 0.0, Height(350))
	assert.Equal(t, 0.0, Height(100))
}

func TestOperatingBounds(t *testing.T) {
	vMin, err := Volume(OperatingMin)
	require.NoError(t, err)
	assert.Equal(t, 350.0, vMin)

	vMax, err := Volume(OperatingMax)
	require.NoError(t, err)
	assert.Greater(t, vMax, vMin)
}
