package docx

import "math"

// OOXML length units: twentieths of a point (twips) for page geometry and
// indentation, English Metric Units (EMU) for drawing extents, half-points
// for font sizes.
const (
	twipsPerInch = 1440
	emuPerInch   = 914400
	mmPerInch    = 25.4
)

// TwipsToMM converts twentieths-of-a-point to millimetres, rounded to 0.1mm.
func TwipsToMM(twips int) float64 {
	return math.Round(float64(twips)*mmPerInch/twipsPerInch*10) / 10
}

// MMToTwips converts millimetres to twentieths-of-a-point.
func MMToTwips(mm float64) int {
	return int(math.Round(mm * twipsPerInch / mmPerInch))
}

// EMUToMM converts English Metric Units to millimetres, rounded to 0.1mm.
func EMUToMM(emu int64) float64 {
	return math.Round(float64(emu)*mmPerInch/emuPerInch*10) / 10
}

// HalfPointsToPoints converts an OOXML font size (half-points) to points.
func HalfPointsToPoints(halfPoints int) float64 {
	return float64(halfPoints) / 2
}

// TwentiethsToPoints converts spacing values (twentieths of a point) to points.
func TwentiethsToPoints(v int) float64 {
	return float64(v) / 20
}
