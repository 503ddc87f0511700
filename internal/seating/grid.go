// Package seating derives the seat grid of a session.  Seat status is
// never stored: it is recomputed on every call from the committed tickets
// of the session and the caller's in-memory selection.  All functions are
// pure and safe for concurrent use.
package seating

import "github.com/iliyamo/cinema-booking/internal/model"

// positionSet indexes seat coordinates so that status lookups stay O(1)
// per seat instead of scanning the ticket list for every cell.
type positionSet map[model.SeatPosition]struct{}

func (s positionSet) has(row, col int) bool {
	_, ok := s[model.SeatPosition{Row: row, Col: col}]
	return ok
}

func ticketSet(tickets []model.Ticket) positionSet {
	set := make(positionSet, len(tickets))
	for _, t := range tickets {
		set[t.Position()] = struct{}{}
	}
	return set
}

func seatSet(seats []model.Seat) positionSet {
	set := make(positionSet, len(seats))
	for _, s := range seats {
		set[s.Position()] = struct{}{}
	}
	return set
}

// GenerateGrid builds a rows×cols grid.  A seat is occupied when a
// committed ticket holds it, otherwise selected when it appears in the
// selection, otherwise available.  Occupied wins over selected.  A
// non-positive dimension yields an empty grid.
func GenerateGrid(rows, cols int, committed []model.Ticket, selected []model.Seat) [][]model.Seat {
	if rows <= 0 || cols <= 0 {
		return [][]model.Seat{}
	}
	occupied := ticketSet(committed)
	chosen := seatSet(selected)

	grid := make([][]model.Seat, 0, rows)
	for row := 1; row <= rows; row++ {
		line := make([]model.Seat, 0, cols)
		for col := 1; col <= cols; col++ {
			line = append(line, model.Seat{Row: row, Col: col, Status: status(row, col, occupied, chosen)})
		}
		grid = append(grid, line)
	}
	return grid
}

// StatusOf derives the status of a single seat.
func StatusOf(row, col int, committed []model.Ticket, selected []model.Seat) model.SeatStatus {
	return status(row, col, ticketSet(committed), seatSet(selected))
}

func status(row, col int, occupied, chosen positionSet) model.SeatStatus {
	if occupied.has(row, col) {
		return model.SeatOccupied
	}
	if chosen.has(row, col) {
		return model.SeatSelected
	}
	return model.SeatAvailable
}

// IsSelected reports whether (row, col) is part of the selection.
func IsSelected(row, col int, selected []model.Seat) bool {
	for _, s := range selected {
		if s.Row == row && s.Col == col {
			return true
		}
	}
	return false
}

// ToggleSelection removes (row, col) from the selection when present and
// appends it with status selected otherwise.  The input slice is not
// modified and the relative order of the remaining seats is preserved.
// Callers must not toggle an occupied seat; that check belongs to the
// caller.
func ToggleSelection(row, col int, selected []model.Seat) []model.Seat {
	out := make([]model.Seat, 0, len(selected)+1)
	removed := false
	for _, s := range selected {
		if s.Row == row && s.Col == col {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		out = append(out, model.Seat{Row: row, Col: col, Status: model.SeatSelected})
	}
	return out
}

// Positions strips statuses from a selection.
func Positions(seats []model.Seat) []model.SeatPosition {
	out := make([]model.SeatPosition, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.Position())
	}
	return out
}

// FromPositions turns positions into a selection with status selected.
func FromPositions(positions []model.SeatPosition) []model.Seat {
	out := make([]model.Seat, 0, len(positions))
	for _, p := range positions {
		out = append(out, model.Seat{Row: p.Row, Col: p.Col, Status: model.SeatSelected})
	}
	return out
}
