package kit

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/genelab/genelab/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/kits", h.ListKits)
	api.GET("/kits/:id", h.GetKit)
	api.POST("/kits", h.RegisterKit)
	api.PUT("/kits/:id", h.UpdateKit)
	api.PUT("/kits/:id/status", h.UpdateKitStatus)
	api.DELETE("/kits/:id", h.DeleteKit)
}

func (h *Handler) RegisterKit(c echo.Context) error {
	var k Kit
	if err := c.Bind(&k); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RegisterKit(c.Request().Context(), &k); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, k)
}

func (h *Handler) GetKit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		k, kerr := h.svc.GetKitByCode(c.Request().Context(), c.Param("id"))
		if kerr != nil {
			return echo.NewHTTPError(http.StatusNotFound, "kit not found")
		}
		return c.JSON(http.StatusOK, k)
	}
	k, err := h.svc.GetKit(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "kit not found")
	}
	return c.JSON(http.StatusOK, k)
}

func (h *Handler) ListKits(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListKits(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateKit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var k Kit
	if err := c.Bind(&k); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	k.ID = id
	if err := h.svc.UpdateKit(c.Request().Context(), &k); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, k)
}

// UpdateKitStatus applies one lifecycle transition. The body carries the
// requested status in any alphabet the codec accepts.
func (h *Handler) UpdateKitStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	k, err := h.svc.UpdateKitState(c.Request().Context(), id, body.Status)
	if err != nil {
		var ite *InvalidTransitionError
		if errors.As(err, &ite) {
			return echo.NewHTTPError(http.StatusConflict, ite.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "kit not found")
	}
	return c.JSON(http.StatusOK, k)
}

func (h *Handler) DeleteKit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteKit(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
