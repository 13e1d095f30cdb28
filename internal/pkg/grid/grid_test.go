package grid

import (
	"math"
	"testing"
)

func TestGenerateCellCount(t *testing.T) {
	bounds := BoundingBox{North: 2, South: 0, East: 3, West: 0}

	cells, err := Generate(bounds, 0.5)
	if err != nil {
		t.Fatalf("Cannot generate grid: %v", err)
	}

	rows := Rows(bounds, 0.5)
	cols := Cols(bounds, 0.5)
	if rows*cols != len(cells) {
		t.Fatalf("Expected rows*cols == len(cells), got %d*%d != %d", rows, cols, len(cells))
	}

	expected := int(math.Ceil(2/0.5) * math.Ceil(3/0.5))
	if len(cells) != expected {
		t.Fatalf("Expected %d cells, got %d", expected, len(cells))
	}
}

func TestGenerateSquareTerritory(t *testing.T) {
	// 1x1 degree box split in 4 cells of 0.5x0.5
	cells, err := Generate(BoundingBox{North: 1, South: 0, East: 0, West: -1}, 0.5)
	if err != nil {
		t.Fatalf("Cannot generate grid: %v", err)
	}

	if len(cells) != 4 {
		t.Fatalf("Expected 4 cells, got %d", len(cells))
	}

	for _, cell := range cells {
		if height := cell.Viewport.North - cell.Viewport.South; height != 0.5 {
			t.Errorf("Cell %s has height %f, expected 0.5", cell.Label, height)
		}
		if width := cell.Viewport.East - cell.Viewport.West; width != 0.5 {
			t.Errorf("Cell %s has width %f, expected 0.5", cell.Label, width)
		}
		if cell.Total != 4 {
			t.Errorf("Cell %s has total %d, expected 4", cell.Label, cell.Total)
		}
	}

	// Raster order is south->north, west->east
	first := cells[0]
	if first.Index != 1 || first.Viewport.South != 0 || first.Viewport.West != -1 {
		t.Errorf("Unexpected first cell: %+v", first)
	}

	last := cells[3]
	if last.Index != 4 || last.Viewport.North != 1 || last.Viewport.East != 0 {
		t.Errorf("Unexpected last cell: %+v", last)
	}
}

func TestGenerateCoverage(t *testing.T) {
	bounds := BoundingBox{North: 0.9, South: 0, East: -50, West: -50.7}

	cells, err := Generate(bounds, 0.25)
	if err != nil {
		t.Fatalf("Cannot generate grid: %v", err)
	}

	// Every point sampled inside the bounding box must fall in at least
	// one cell's viewport, partial edge cells included.
	for lat := bounds.South; lat <= bounds.North; lat += 0.05 {
		for lng := bounds.West; lng <= bounds.East; lng += 0.05 {
			covered := false
			for _, cell := range cells {
				if cell.Viewport.Contains(lat, lng) {
					covered = true
					break
				}
			}
			if !covered {
				t.Fatalf("Point %f,%f is not covered by any cell", lat, lng)
			}
		}
	}
}

func TestGenerateCenters(t *testing.T) {
	cells, err := Generate(BoundingBox{North: 1, South: 0, East: 1, West: 0}, 1)
	if err != nil {
		t.Fatalf("Cannot generate grid: %v", err)
	}

	if len(cells) != 1 {
		t.Fatalf("Expected 1 cell, got %d", len(cells))
	}

	if cells[0].CenterLat != 0.5 || cells[0].CenterLng != 0.5 {
		t.Fatalf("Expected center 0.5,0.5, got %f,%f", cells[0].CenterLat, cells[0].CenterLng)
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	if _, err := Generate(BoundingBox{North: 0, South: 1, East: 1, West: 0}, 0.5); err != ErrInvalidBounds {
		t.Errorf("Expected ErrInvalidBounds, got %v", err)
	}

	if _, err := Generate(BoundingBox{North: 1, South: 0, East: 0, West: 1}, 0.5); err != ErrInvalidBounds {
		t.Errorf("Expected ErrInvalidBounds, got %v", err)
	}

	if _, err := Generate(BoundingBox{North: 1, South: 0, East: 1, West: 0}, 0); err != ErrInvalidCellSize {
		t.Errorf("Expected ErrInvalidCellSize, got %v", err)
	}
}
