package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-booking/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY, raised by the unique seat index.
const mysqlDuplicateEntry = 1062

// TicketRepo stores tickets in MySQL.  The tickets table carries a unique
// index on (session_id, seat_row, seat_col), so two concurrent inserts for
// the same seat cannot both succeed.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// ListBySession returns all tickets of a session ordered by id.
func (r *TicketRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Ticket, error) {
	const q = `SELECT id, session_id, seat_row, seat_col, user_id, order_id
               FROM tickets
               WHERE session_id = ?
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Ticket
	for rows.Next() {
		var (
			t       model.Ticket
			id      uint64
			userID  sql.NullString
			orderID sql.NullString
		)
		if err := rows.Scan(&id, &t.SessionID, &t.Row, &t.Col, &userID, &orderID); err != nil {
			return nil, err
		}
		t.ID = model.FromUint(id)
		t.UserID = nullable(userID)
		t.OrderID = nullable(orderID)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts t and sets its ID.  A second ticket for the same seat of
// the session returns ErrConflict.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets (session_id, seat_row, seat_col, user_id, order_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.SessionID, t.Row, t.Col, t.UserID, t.OrderID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = model.FromUint(uint64(id))
	return nil
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
