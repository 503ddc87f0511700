package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/pricing"
)

// PromocodeHandler validates promocodes for the checkout sidebar.
type PromocodeHandler struct {
	Promos *pricing.Validator
	Log    *zap.Logger
}

func NewPromocodeHandler(promos *pricing.Validator, log *zap.Logger) *PromocodeHandler {
	if promos == nil {
		panic("nil validator passed to NewPromocodeHandler")
	}
	return &PromocodeHandler{Promos: promos, Log: orNop(log)}
}

// Validate handles POST /v1/promocodes/validate.  An empty code is a bad
// request; any other lookup answers 200 with valid set accordingly.
func (h *PromocodeHandler) Validate(c echo.Context) error {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&body); err != nil || pricing.NormalizeCode(body.Code) == "" {
		return c.JSON(http.StatusBadRequest, pricing.Result{Message: pricing.MsgNotFound})
	}
	res, err := h.Promos.Validate(c.Request().Context(), body.Code)
	if err != nil {
		h.Log.Error("promocode lookup", zap.String("code", body.Code), zap.Error(err))
		return message(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
