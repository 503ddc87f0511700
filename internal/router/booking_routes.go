package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/handler"
)

// RegisterCatalog registers the session and hall lookups.  They change
// rarely and go through the response cache.
func RegisterCatalog(g *echo.Group, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g.GET("/sessions/:id", h.GetSession, cache)
	g.GET("/halls/:id", h.GetHall, cache)
}

// RegisterBooking registers the seat map, price and ticket routes.  The
// seat map reflects live bookings and is never cached.
func RegisterBooking(g *echo.Group, h *handler.BookingHandler, p *handler.PromocodeHandler) {
	g.GET("/sessions/:id/seats", h.Seats)
	g.POST("/sessions/:id/seats/toggle", h.ToggleSeat)
	g.POST("/sessions/:id/quote", h.Quote)
	g.POST("/tickets", h.CreateTickets)
	g.POST("/promocodes/validate", p.Validate)
}

// RegisterPayments registers the LiqPay checkout flow.
func RegisterPayments(g *echo.Group, h *handler.PaymentHandler) {
	g.GET("/payments/checkout", h.Checkout)
	g.POST("/payments/generate", h.Generate)
	g.POST("/payments/callback", h.Callback)
	g.GET("/payments/success", h.Success)
}
