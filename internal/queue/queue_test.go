package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
)

func TestNewTicketsBookedEvent(t *testing.T) {
	user, order := "u1", "order_1_2"
	at := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{ID: "10", SessionID: 4, Row: 3, Col: 5, UserID: &user},
		{ID: "11", SessionID: 4, Row: 28, Col: 1, UserID: &user},
	}

	ev := NewTicketsBookedEvent(4, tickets, &order, at)

	assert.Equal(t, uint64(4), ev.SessionID)
	assert.Equal(t, "order_1_2", ev.OrderID)
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, []string{"10", "11"}, ev.TicketIDs)
	assert.Equal(t, []string{"C5", "AB1"}, ev.SeatLabels)
	assert.Equal(t, "2025-06-01T18:00:00Z", ev.BookedAt)
}

func TestConsumer_HandleAppendsLines(t *testing.T) {
	c := NewConsumer("amqp://unused", nil)
	c.LogPath = filepath.Join(t.TempDir(), "logs", "booking.log")

	ev := TicketsBookedEvent{SessionID: 4, TicketIDs: []string{"10"}, SeatLabels: []string{"C5"}, BookedAt: "2025-06-01T18:00:00Z"}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	require.NoError(t, c.Handle(body))
	require.NoError(t, c.Handle(body))

	raw, err := os.ReadFile(c.LogPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2025-06-01T18:00:00Z] Tickets booked | session_id=4 | order_id=- | user_id=anonymous | tickets=[10] | seats=[C5]", lines[0])
}

func TestConsumer_HandleRejectsGarbage(t *testing.T) {
	c := NewConsumer("amqp://unused", nil)
	c.LogPath = filepath.Join(t.TempDir(), "booking.log")

	assert.Error(t, c.Handle([]byte("{not json")))
	_, err := os.Stat(c.LogPath)
	assert.True(t, os.IsNotExist(err))
}
