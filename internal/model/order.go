package model

import "time"

// PendingOrder records a checkout that was handed to the payment gateway
// but has not been finalized into tickets yet.  It is keyed by OrderID and
// lets the gateway's server callback finalize tickets without relying on
// the browser redirect.  Pending orders expire automatically.
//
// Fields:
//  OrderID     – opaque order identifier embedded in the payment payload.
//  SessionID   – session being booked.
//  Seats       – seats in the order, in the order the customer chose them.
//  Amount      – final amount charged, after any promocode.
//  Description – payment description shown on the gateway page.
//  UserID      – customer, nil when anonymous.
//  CreatedAt   – when the payload was generated.
type PendingOrder struct {
	OrderID     string         `json:"orderId"`
	SessionID   uint64         `json:"sessionId"`
	Seats       []SeatPosition `json:"seats"`
	Amount      int64          `json:"amount"`
	Description string         `json:"description"`
	UserID      *string        `json:"userId,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
