package model

// Session represents a scheduled showtime of a movie in a hall.  Price is
// the per-seat price in whole UAH; the total for a booking is always the
// number of selected seats multiplied by Price before any promocode
// adjustment.
//
// Fields:
//  ID      – primary key identifier.
//  MovieID – movie being shown.
//  HallID  – hall where the session takes place.
//  Date    – calendar date (YYYY-MM-DD).
//  Time    – local start time (HH:MM).
//  Format  – projection format, e.g. 2D or 3D.
//  Price   – per-seat price, positive.
type Session struct {
	ID      uint64 `json:"id"`      // sessions.id
	MovieID uint64 `json:"movieId"` // sessions.movie_id
	HallID  uint64 `json:"hallId"`  // sessions.hall_id
	Date    string `json:"date"`    // sessions.show_date
	Time    string `json:"time"`    // sessions.show_time
	Format  string `json:"format"`  // sessions.format
	Price   int64  `json:"price"`   // sessions.price
}
