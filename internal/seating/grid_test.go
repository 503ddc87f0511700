package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func TestGenerateGrid_DimensionsAndUniqueness(t *testing.T) {
	committed := []model.Ticket{{SessionID: 1, Row: 2, Col: 3}, {SessionID: 1, Row: 5, Col: 8}}
	selected := []model.Seat{{Row: 2, Col: 3, Status: model.SeatSelected}, {Row: 1, Col: 1, Status: model.SeatSelected}}

	grid := GenerateGrid(5, 8, committed, selected)

	require.Len(t, grid, 5)
	seen := map[model.SeatPosition]bool{}
	for r, line := range grid {
		require.Len(t, line, 8)
		for c, s := range line {
			assert.Equal(t, r+1, s.Row)
			assert.Equal(t, c+1, s.Col)
			assert.False(t, seen[s.Position()], "duplicate seat %v", s.Position())
			seen[s.Position()] = true
		}
	}
	assert.Len(t, seen, 40)

	assert.Equal(t, model.SeatOccupied, grid[1][2].Status, "occupied wins over selected")
	assert.Equal(t, model.SeatOccupied, grid[4][7].Status)
	assert.Equal(t, model.SeatSelected, grid[0][0].Status)
	assert.Equal(t, model.SeatAvailable, grid[3][3].Status)
}

func TestGenerateGrid_Empty(t *testing.T) {
	assert.Empty(t, GenerateGrid(0, 10, nil, nil))
	assert.Empty(t, GenerateGrid(3, -1, nil, nil))
}

func TestStatusOf(t *testing.T) {
	committed := []model.Ticket{{Row: 3, Col: 5}}
	selected := []model.Seat{{Row: 3, Col: 5}, {Row: 1, Col: 2}}

	assert.Equal(t, model.SeatOccupied, StatusOf(3, 5, committed, selected))
	assert.Equal(t, model.SeatSelected, StatusOf(1, 2, committed, selected))
	assert.Equal(t, model.SeatAvailable, StatusOf(9, 9, committed, selected))
}

func TestToggleSelection_TwiceIsIdentity(t *testing.T) {
	start := []model.Seat{
		{Row: 1, Col: 1, Status: model.SeatSelected},
		{Row: 4, Col: 2, Status: model.SeatSelected},
	}

	once := ToggleSelection(2, 7, start)
	require.Len(t, once, 3)
	assert.Equal(t, model.Seat{Row: 2, Col: 7, Status: model.SeatSelected}, once[2])
	assert.Len(t, start, 2, "input must not be modified")

	twice := ToggleSelection(2, 7, once)
	assert.Equal(t, start, twice)
}

func TestToggleSelection_RemovePreservesOrder(t *testing.T) {
	start := []model.Seat{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}}

	out := ToggleSelection(1, 2, start)

	assert.Equal(t, []model.Seat{{Row: 1, Col: 1}, {Row: 1, Col: 3}}, out)
	assert.Equal(t, model.SeatPosition{Row: 1, Col: 2}, start[1].Position())
}

func TestIsSelectedAndPositions(t *testing.T) {
	sel := []model.Seat{{Row: 3, Col: 4, Status: model.SeatSelected}}

	assert.True(t, IsSelected(3, 4, sel))
	assert.False(t, IsSelected(4, 3, sel))
	assert.Equal(t, []model.SeatPosition{{Row: 3, Col: 4}}, Positions(sel))
	assert.Equal(t, sel, FromPositions(Positions(sel)))
}

func TestRowLabel(t *testing.T) {
	cases := map[int]string{0: "", -3: "", 1: "A", 3: "C", 26: "Z", 27: "AA", 28: "AB", 52: "AZ", 53: "BA", 702: "ZZ", 703: "AAA"}
	for row, want := range cases {
		assert.Equal(t, want, RowLabel(row), "row %d", row)
	}
	assert.Equal(t, "C5", SeatLabel(3, 5))
}

func TestParseSeatLabel(t *testing.T) {
	for _, pos := range [][2]int{{1, 1}, {3, 5}, {26, 12}, {27, 3}, {703, 40}} {
		row, col, err := ParseSeatLabel(SeatLabel(pos[0], pos[1]))
		require.NoError(t, err)
		assert.Equal(t, pos, [2]int{row, col})
	}
	row, col, err := ParseSeatLabel(" c5 ")
	require.NoError(t, err)
	assert.Equal(t, 3, row)
	assert.Equal(t, 5, col)

	for _, bad := range []string{"", "5", "C", "C0", "C-1", "5C"} {
		_, _, err := ParseSeatLabel(bad)
		assert.Error(t, err, bad)
	}
}
