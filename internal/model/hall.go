package model

// Hall represents a screening hall.  Rows and Cols define the bounds of
// the seat grid generated for every session shown in the hall; both are
// positive for a usable hall.  A hall is treated as immutable for the
// lifetime of a booking.
//
// Fields:
//  ID   – primary key identifier.
//  Name – display name of the hall.
//  Rows – number of seat rows (1-based addressing).
//  Cols – number of seats per row (1-based addressing).
type Hall struct {
	ID   uint64 `json:"id"`   // halls.id
	Name string `json:"name"` // halls.name
	Rows int    `json:"rows"` // halls.seat_rows
	Cols int    `json:"cols"` // halls.seat_cols
}

// Contains reports whether the 1-based position lies inside the hall grid.
func (h Hall) Contains(row, col int) bool {
	return row >= 1 && col >= 1 && row <= h.Rows && col <= h.Cols
}
