package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables the MySQL driver reads and writes.  The
// unique seat index on tickets is what turns a lost booking race into a
// duplicate-key error instead of a double sale.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS halls (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name      VARCHAR(100) NOT NULL,
		seat_rows INT NOT NULL,
		seat_cols INT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_id  BIGINT UNSIGNED NOT NULL,
		hall_id   BIGINT UNSIGNED NOT NULL,
		show_date DATE NOT NULL,
		show_time TIME NOT NULL,
		format    VARCHAR(16) NOT NULL DEFAULT '2D',
		price     INT UNSIGNED NOT NULL,
		CONSTRAINT fk_sessions_hall FOREIGN KEY (hall_id) REFERENCES halls(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		session_id BIGINT UNSIGNED NOT NULL,
		seat_row   INT NOT NULL,
		seat_col   INT NOT NULL,
		user_id    VARCHAR(64) NULL,
		order_id   VARCHAR(64) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_tickets_seat (session_id, seat_row, seat_col),
		KEY idx_tickets_order (order_id),
		CONSTRAINT fk_tickets_session FOREIGN KEY (session_id) REFERENCES sessions(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS promocodes (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		code       VARCHAR(64) NOT NULL,
		value      INT NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		starts_at  DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		UNIQUE KEY uq_promocodes_code (code)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates missing tables.  It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
