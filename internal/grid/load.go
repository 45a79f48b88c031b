package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"unicode"
)

var (
	ErrBadTile   = errors.New("unknown tile")
	ErrTruncated = errors.New("map truncated")
	ErrOversized = errors.New("map larger than grid")
	ErrRagged    = errors.New("rows of different length")
	ErrBadSize   = errors.New("grid dimensions must be positive")
)

// Map text tiles.
const (
	TileFloor = '0'
	TileWall  = '1'
	TileRock  = '2'
)

func parseTile(r rune) (Kind, error) {
	switch r {
	case TileFloor:
		return Floor, nil
	case TileWall:
		return Wall, nil
	case TileRock:
		return Rock, nil
	}
	return Floor, fmt.Errorf("%w %q", ErrBadTile, r)
}

func isTileRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Load reads a text grid of exactly width*height tiles in row-major order.
// Non-alphanumeric characters (newlines, spaces) are skipped without
// advancing the column. A short, oversized or malformed map is an error;
// no partially built grid is returned.
func Load(r io.Reader, width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("read map: %dx%d: %w", width, height, ErrBadSize)
	}
	g := New(width, height)
	br := bufio.NewReader(r)
	total := width * height
	n := 0

	for {
		ch, _, err := br.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read map: %w", err)
		}
		if !isTileRune(ch) {
			continue
		}
		if n == total {
			return nil, fmt.Errorf("read map: %dx%d: %w", width, height, ErrOversized)
		}
		k, err := parseTile(ch)
		if err != nil {
			return nil, fmt.Errorf("read map: tile %d: %w", n, err)
		}
		g.mustSetKind(n%width, n/width, k)
		n++
	}

	if n < total {
		return nil, fmt.Errorf("read map: got %d of %d tiles: %w", n, total, ErrTruncated)
	}
	return g, nil
}

// FromLayout builds a grid from literal rows; dimensions are inferred.
func FromLayout(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout: %w", ErrTruncated)
	}

	parsed := make([][]Kind, 0, len(rows))
	for y, row := range rows {
		var line []Kind
		for _, ch := range row {
			if !isTileRune(ch) {
				continue
			}
			k, err := parseTile(ch)
			if err != nil {
				return nil, fmt.Errorf("layout row %d: %w", y, err)
			}
			line = append(line, k)
		}
		if len(line) == 0 {
			return nil, fmt.Errorf("layout row %d is empty: %w", y, ErrTruncated)
		}
		if len(parsed) > 0 && len(line) != len(parsed[0]) {
			return nil, fmt.Errorf("layout row %d has %d tiles, want %d: %w", y, len(line), len(parsed[0]), ErrRagged)
		}
		parsed = append(parsed, line)
	}

	g := New(len(parsed[0]), len(parsed))
	for y, line := range parsed {
		for x, k := range line {
			g.mustSetKind(x, y, k)
		}
	}
	return g, nil
}

// Classic generates the classic arena layout.
//
// Layout rules:
//   - Border is all Wall
//   - Wall at every interior position where both X and Y are even
//   - Random Rock fill at the given density
//   - Spawn corners (and their adjacent tiles) are kept clear
func Classic(width, height int, density float64, rng *rand.Rand) *Grid {
	g := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case x == 0 || y == 0 || x == width-1 || y == height-1:
				g.mustSetKind(x, y, Wall)
			case x%2 == 0 && y%2 == 0:
				g.mustSetKind(x, y, Wall)
			}
		}
	}

	safe := safeSet(SpawnPositions(width, height))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if g.KindAt(x, y) != Floor || safe[[2]int{x, y}] {
				continue
			}
			if rng.Float64() < density {
				g.mustSetKind(x, y, Rock)
			}
		}
	}
	return g
}

// SpawnPositions returns the four corner spawn cells inside the border.
func SpawnPositions(width, height int) [][2]int {
	return [][2]int{
		{1, 1},                  // top-left
		{width - 2, 1},          // top-right
		{1, height - 2},         // bottom-left
		{width - 2, height - 2}, // bottom-right
	}
}

// safeSet returns each spawn plus its four neighbours.
func safeSet(spawns [][2]int) map[[2]int]bool {
	safe := make(map[[2]int]bool)
	for _, sp := range spawns {
		x, y := sp[0], sp[1]
		safe[[2]int{x, y}] = true
		safe[[2]int{x + 1, y}] = true
		safe[[2]int{x, y + 1}] = true
		safe[[2]int{x - 1, y}] = true
		safe[[2]int{x, y - 1}] = true
	}
	return safe
}
