package seating

import (
	"fmt"
	"strconv"
	"strings"
)

// RowLabel converts a 1-based row number to its display letter: 1 -> A,
// 26 -> Z.  Past Z the label continues in bijective base 26 (27 -> AA,
// 28 -> AB) the same way spreadsheet columns do.  Non-positive rows give
// an empty label.
func RowLabel(row int) string {
	if row <= 0 {
		return ""
	}
	i := row - 1
	res := []rune{}
	for {
		res = append(res, rune('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// SeatLabel formats a seat as row letter followed by seat number, e.g. C5.
func SeatLabel(row, col int) string {
	return RowLabel(row) + strconv.Itoa(col)
}

// ParseSeatLabel is the inverse of SeatLabel.  Letters are case
// insensitive; "aa3" is row 27, seat 3.
func ParseSeatLabel(label string) (row, col int, err error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		row = row*26 + int(s[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(s) {
		return 0, 0, fmt.Errorf("seat label %q: want row letters followed by a seat number", label)
	}
	col, err = strconv.Atoi(s[i:])
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("seat label %q: invalid seat number", label)
	}
	return row, col, nil
}
