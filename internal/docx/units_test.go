package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTwipsToMM(t *testing.T) {
	tests := []struct {
		name  string
		twips int
		want  float64
	}{
		{"one inch", 1440, 25.4},
		{"top margin", 1134, 20.0},
		{"side margin", 850, 15.0},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TwipsToMM(tt.twips))
		})
	}
}

func TestMMToTwips(t *testing.T) {
	assert.Equal(t, 1440, MMToTwips(25.4))
	assert.Equal(t, 1134, MMToTwips(20))
}

func TestEMUToMM(t *testing.T) {
	assert.Equal(t, 25.4, EMUToMM(914400))
	assert.Equal(t, 12.7, EMUToMM(457200))
}

func TestHalfPointsToPoints(t *testing.T) {
	assert.Equal(t, 14.0, HalfPointsToPoints(28))
	assert.Equal(t, 11.0, HalfPointsToPoints(22))
}

func TestTwentiethsToPoints(t *testing.T) {
	assert.Equal(t, 12.0, TwentiethsToPoints(240))
	assert.Equal(t, 6.0, TwentiethsToPoints(120))
}
