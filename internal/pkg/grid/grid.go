// Package grid decomposes a territory's bounding box into the raster of
// query cells that the discovery phase walks through.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// BoundingBox is a geographic viewport expressed in degrees.
type BoundingBox struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains return true if the point is inside the box or on its edges
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// Region is one bounded query scope, either a named place or a generated
// grid cell. Index is 1-based and Total is the size of the generation the
// region belongs to, both are used for progress reporting only.
type Region struct {
	Label     string
	CenterLat float64
	CenterLng float64
	Viewport  BoundingBox
	Index     int
	Total     int
}

var (
	ErrInvalidBounds   = errors.New("grid: north must be greater than south and east greater than west")
	ErrInvalidCellSize = errors.New("grid: cell size must be positive")
)

// Rows return the number of latitude strips a generation covers
func Rows(bounds BoundingBox, cellSize float64) int {
	return int(math.Ceil((bounds.North - bounds.South) / cellSize))
}

// Cols return the number of longitude strips a generation covers
func Cols(bounds BoundingBox, cellSize float64) int {
	return int(math.Ceil((bounds.East - bounds.West) / cellSize))
}

// Generate raster the bounding box into cells of cellSize degrees, south to
// north then west to east. The last row and column may be partial cells when
// the span is not an exact multiple of cellSize, that's accepted as-is.
func Generate(bounds BoundingBox, cellSize float64) ([]Region, error) {
	if bounds.North <= bounds.South || bounds.East <= bounds.West {
		return nil, ErrInvalidBounds
	}

	if cellSize <= 0 {
		return nil, ErrInvalidCellSize
	}

	rows := Rows(bounds, cellSize)
	cols := Cols(bounds, cellSize)

	cells := make([]Region, 0, rows*cols)
	for row := 0; row < rows; row++ {
		lat := bounds.South + float64(row)*cellSize
		for col := 0; col < cols; col++ {
			lng := bounds.West + float64(col)*cellSize

			viewport := BoundingBox{
				North: lat + cellSize,
				South: lat,
				East:  lng + cellSize,
				West:  lng,
			}

			cells = append(cells, Region{
				Label:     fmt.Sprintf("cell-%d-%d", row, col),
				CenterLat: lat + cellSize/2,
				CenterLng: lng + cellSize/2,
				Viewport:  viewport,
				Index:     len(cells) + 1,
			})
		}
	}

	// Total is only known once the whole raster is generated
	for i := range cells {
		cells[i].Total = len(cells)
	}

	return cells, nil
}
