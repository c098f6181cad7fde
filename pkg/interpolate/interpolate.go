package interpolate

import (
	"fmt"
)

// Func samples a row-major grid at one point. Implementations return the
// fractional grid position (x, y) and the sampled value.
type Func func(xAxis, yAxis, data []float64, xValue, yValue float64) (float64, float64, float64, error)

// Helper function to clamp offset values
func clamp(offset, max int) int {
	if offset < 0 {
		return 0
	}
	if offset >= max {
		return max - 1
	}
	return offset
}

// Finds the index and fraction of the nearest value in the given ascending axis
func findIndexAndFrac(arr []float64, value float64) (int, float64) {
	idx := len(arr) - 1
	frac := 0.0

	for i, v := range arr {
		if v >= value {
			idx = i
			break
		}
	}

	if idx > 0 {
		delta := arr[idx] - arr[idx-1]
		frac = (value - arr[idx-1]) / delta
	}

	return idx, frac
}

// Bilinear samples data (row-major, rows along yAxis) at (xValue, yValue)
// by bilinear interpolation between the four surrounding grid points.
// Values outside the axes clamp to the edge cells.
// returns x, y, value, err
func Bilinear(xAxis, yAxis, data []float64, xValue, yValue float64) (float64, float64, float64, error) {
	if len(xAxis) == 0 || len(yAxis) == 0 || len(data) == 0 {
		return 0, 0, 0, fmt.Errorf("xAxis, yAxis or data is empty")
	}

	xIdx, xFrac := findIndexAndFrac(xAxis, xValue)
	yIdx, yFrac := findIndexAndFrac(yAxis, yValue)

	dataLen := len(data)
	// Calculate the offsets in the data array for the four surrounding data
	// points, clamping row and column separately so edge samples stay on
	// their own row instead of wrapping to the start of the grid.
	getOffset := func(i, j int) int {
		i = clamp(i, len(yAxis))
		j = clamp(j, len(xAxis))
		return clamp(i*len(xAxis)+j, dataLen)
	}

	offsets := [4]int{
		getOffset(yIdx-1, xIdx-1),
		getOffset(yIdx-1, xIdx),
		getOffset(yIdx, xIdx-1),
		getOffset(yIdx, xIdx),
	}

	values := [4]float64{
		data[offsets[0]],
		data[offsets[1]],
		data[offsets[2]],
		data[offsets[3]],
	}

	// Perform bilinear interpolation
	interpolatedX0 := (1.0-xFrac)*values[0] + xFrac*values[1]
	interpolatedX1 := (1.0-xFrac)*values[2] + xFrac*values[3]
	interpolatedValue := (1.0-yFrac)*interpolatedX0 + yFrac*interpolatedX1
	return float64(xIdx-1) + xFrac, float64(yIdx-1) + yFrac, interpolatedValue, nil
}

// Nearest samples data at the grid point closest to (xValue, yValue).
func Nearest(xAxis, yAxis, data []float64, xValue, yValue float64) (float64, float64, float64, error) {
	if len(xAxis) == 0 || len(yAxis) == 0 || len(data) == 0 {
		return 0, 0, 0, fmt.Errorf("xAxis, yAxis or data is empty")
	}

	xIdx, xFrac := findIndexAndFrac(xAxis, xValue)
	yIdx, yFrac := findIndexAndFrac(yAxis, yValue)

	if xFrac < 0.5 {
		xIdx--
	}
	if yFrac < 0.5 {
		yIdx--
	}
	xIdx = clamp(xIdx, len(xAxis))
	yIdx = clamp(yIdx, len(yAxis))

	value := data[clamp(yIdx*len(xAxis)+xIdx, len(data))]
	return float64(xIdx), float64(yIdx), value, nil
}
