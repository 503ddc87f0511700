package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

func TestFinalizer_FreshOrder(t *testing.T) {
	store := &stubStore{}
	f := NewFinalizer(NewResolver(store, nil, nil))

	res, err := f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(2, 2, 2, 3), OrderID: strp("order_1")})

	require.NoError(t, err)
	assert.False(t, res.Replayed)
	require.Len(t, res.Tickets, 2)
	assert.Equal(t, "order_1", *res.Tickets[1].OrderID)
}

func TestFinalizer_ReplayReturnsExisting(t *testing.T) {
	store := &stubStore{}
	f := NewFinalizer(NewResolver(store, nil, nil))
	req := Request{SessionID: 1, Seats: seats(2, 2, 2, 3), OrderID: strp("order_1")}

	first, err := f.Finalize(context.Background(), req)
	require.NoError(t, err)
	second, err := f.Finalize(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Tickets, second.Tickets)
	assert.Len(t, store.tickets, 2)
}

func TestFinalizer_CompletesPartialBatch(t *testing.T) {
	store := &stubStore{tickets: []model.Ticket{
		{ID: "1", SessionID: 1, Row: 2, Col: 2, OrderID: strp("order_1")},
	}}
	f := NewFinalizer(NewResolver(store, nil, nil))

	res, err := f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(2, 2, 2, 3), OrderID: strp("order_1")})

	require.NoError(t, err)
	assert.False(t, res.Replayed)
	require.Len(t, res.Tickets, 2)
	assert.Equal(t, model.ID("1"), res.Tickets[0].ID)
	assert.Equal(t, model.SeatPosition{Row: 2, Col: 3}, res.Tickets[1].Position())
	assert.Equal(t, 1, store.creates)
}

func TestFinalizer_SeatTakenByAnotherOrder(t *testing.T) {
	store := &stubStore{tickets: []model.Ticket{
		{SessionID: 1, Row: 2, Col: 3, OrderID: strp("order_other")},
	}}
	f := NewFinalizer(NewResolver(store, nil, nil))

	_, err := f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(2, 2, 2, 3), OrderID: strp("order_1")})

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, seats(2, 3), ce.Seats)
	assert.Equal(t, 0, store.creates)
}

func TestFinalizer_DirectBookingIsNotOrderReplay(t *testing.T) {
	store := &stubStore{tickets: []model.Ticket{{ID: "7", SessionID: 1, Row: 3, Col: 5}}}
	f := NewFinalizer(NewResolver(store, nil, nil))

	res, err := f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(3, 5), OrderID: strp("order_B")})

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, seats(3, 5), ce.Seats)
	assert.Empty(t, res.Tickets)

	_, err = f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(3, 5), UserID: strp("alice"), OrderID: strp("order_B")})
	assert.ErrorAs(t, err, &ce)
}

func TestFinalizer_OwnershipByUser(t *testing.T) {
	store := &stubStore{tickets: []model.Ticket{{SessionID: 1, Row: 1, Col: 1, UserID: strp("alice")}}}
	f := NewFinalizer(NewResolver(store, nil, nil))

	res, err := f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(1, 1), UserID: strp("alice")})
	require.NoError(t, err)
	assert.True(t, res.Replayed)

	_, err = f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(1, 1), UserID: strp("bob")})
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)

	_, err = f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(1, 1)})
	assert.ErrorAs(t, err, &ce, "anonymous requester does not own a user's ticket")
}

func TestFinalizer_AnonymousReplay(t *testing.T) {
	store := &stubStore{tickets: []model.Ticket{{SessionID: 1, Row: 1, Col: 1}}}
	f := NewFinalizer(NewResolver(store, nil, nil))

	res, err := f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(1, 1)})

	require.NoError(t, err)
	assert.True(t, res.Replayed)
}

func TestFinalizer_LostRaceToSameOrderIsReplay(t *testing.T) {
	// The first create finds the seat taken by a concurrent finalization
	// of the same order, which committed it just before.
	store := &stubStore{}
	store.createFn = func(n int, t *model.Ticket) error {
		if n == 0 {
			store.tickets = append(store.tickets, model.Ticket{ID: "99", SessionID: t.SessionID, Row: t.Row, Col: t.Col, OrderID: t.OrderID})
			return repository.ErrConflict
		}
		return nil
	}
	f := NewFinalizer(NewResolver(store, nil, nil))

	res, err := f.Finalize(context.Background(), Request{SessionID: 1, Seats: seats(4, 4), OrderID: strp("order_1")})

	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, model.ID("99"), res.Tickets[0].ID)
}
