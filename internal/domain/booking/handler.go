package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/genelab/genelab/internal/domain/kit"
	"github.com/genelab/genelab/internal/domain/staff"
	"github.com/genelab/genelab/internal/platform/status"
	"github.com/genelab/genelab/pkg/pagination"
)

type Handler struct {
	svc   *Service
	codec *status.Codec
}

func NewHandler(svc *Service, codec *status.Codec) *Handler {
	return &Handler{svc: svc, codec: codec}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/bookings", h.ListBookings)
	api.GET("/bookings/:id", h.GetBooking)
	api.POST("/bookings", h.CreateBooking)
	api.PUT("/bookings/:id", h.UpdateBooking)
	api.DELETE("/bookings/:id", h.DeleteBooking)
	api.GET("/bookings/:id/kit-state", h.KitState)
	api.POST("/bookings/:id/transition", h.Transition)
}

func (h *Handler) CreateBooking(c echo.Context) error {
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBooking(c.Request().Context(), &b); err != nil {
		if errors.Is(err, staff.ErrNoStaffAvailable) {
			return echo.NewHTTPError(http.StatusConflict, "no staff available")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		b, berr := h.svc.GetBookingByCode(c.Request().Context(), c.Param("id"))
		if berr != nil {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return c.JSON(http.StatusOK, b)
	}
	b, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBookings(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		items []*Booking
		total int
		err   error
	)
	if staffID := c.QueryParam("staff_id"); staffID != "" {
		items, total, err = h.svc.ListBookingsByStaff(ctx, staffID, pg.Limit, pg.Offset)
	} else {
		items, total, err = h.svc.ListBookings(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id
	if err := h.svc.UpdateBooking(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteBooking(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// KitState reports the kit lifecycle state for a booking, with the display
// label alongside the internal token.
func (h *Handler) KitState(c echo.Context) error {
	state, err := h.svc.KitState(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, kit.ErrNoKit) {
			return echo.NewHTTPError(http.StatusNotFound, "no kit registered for booking")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	label, err := h.codec.ToDisplay(status.KindKit, state)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"booking_id": c.Param("id"),
		"state":      string(state),
		"display":    label,
	})
}

// Transition applies one workflow transition. Guard rejections map to 422 so
// the caller can distinguish "fix your request" from "not found".
func (h *Handler) Transition(c echo.Context) error {
	var input TransitionInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if input.Target == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "target is required")
	}

	b, err := h.svc.RequestTransition(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		var gv *GuardViolation
		if errors.As(err, &gv) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, gv.Error())
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}
