// Package graph exposes the reference-preserving payload resolver over HTTP.
// Legacy exports arrive with $id/$ref/$values wrappers and no stable top
// level shape; this surface flattens them into typed entity buckets.
package graph

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/genelab/genelab/internal/domain/booking"
	"github.com/genelab/genelab/internal/domain/customer"
	"github.com/genelab/genelab/internal/domain/kit"
	"github.com/genelab/genelab/internal/domain/staff"
	"github.com/genelab/genelab/internal/domain/testresult"
	"github.com/genelab/genelab/internal/platform/legacy"
	"github.com/genelab/genelab/internal/platform/refjson"
	"github.com/genelab/genelab/internal/platform/status"
)

// Fetcher pulls a booking's raw graph from the legacy backend.
type Fetcher interface {
	FetchBookingGraph(ctx context.Context, bookingID string) (any, error)
}

type Handler struct {
	fetcher Fetcher
	codec   *status.Codec
	logger  zerolog.Logger
}

func NewHandler(fetcher Fetcher, codec *status.Codec, logger zerolog.Logger) *Handler {
	return &Handler{fetcher: fetcher, codec: codec, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/graph/resolve", h.ResolvePayload)
	api.GET("/graph/bookings/:id", h.ResolveBookingGraph)
}

// Result buckets every recognized entity shape found in a payload. Nodes
// whose $ref target never appeared are listed, not fatal.
type Result struct {
	Customers  []*customer.Customer     `json:"customers"`
	Staff      []*staff.Member          `json:"staff"`
	Kits       []*kit.Kit               `json:"kits"`
	Bookings   []*booking.Booking       `json:"bookings"`
	Results    []*testresult.TestResult `json:"results"`
	Unresolved []string                 `json:"unresolved,omitempty"`
}

// ResolvePayload resolves a caller-supplied raw payload.
func (h *Handler) ResolvePayload(c echo.Context) error {
	var root any
	if err := c.Bind(&root); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "body is not valid JSON")
	}
	return c.JSON(http.StatusOK, h.bucket(root))
}

// ResolveBookingGraph fetches a booking's graph from the legacy backend and
// resolves it.
func (h *Handler) ResolveBookingGraph(c echo.Context) error {
	root, err := h.fetcher.FetchBookingGraph(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, legacy.ErrNotConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, h.bucket(root))
}

func (h *Handler) bucket(root any) *Result {
	resolved, missing := refjson.Resolve(root)

	out := &Result{
		Customers:  []*customer.Customer{},
		Staff:      []*staff.Member{},
		Kits:       []*kit.Kit{},
		Bookings:   []*booking.Booking{},
		Results:    []*testresult.TestResult{},
		Unresolved: missing,
	}

	for _, node := range refjson.Collect(resolved, kit.IsKitRecord) {
		k := kit.FromRecord(refjson.Record(node))
		k.Status = h.codec.ToInternal(status.KindKit, string(k.Status))
		out.Kits = append(out.Kits, k)
	}
	for _, node := range refjson.Collect(resolved, booking.IsBookingRecord) {
		b := booking.FromRecord(refjson.Record(node))
		b.Status = h.codec.ToInternal(status.KindBooking, string(b.Status))
		out.Bookings = append(out.Bookings, b)
	}
	for _, node := range refjson.Collect(resolved, testresult.IsResultRecord) {
		out.Results = append(out.Results, testresult.FromRecord(refjson.Record(node)))
	}
	for _, node := range refjson.Collect(resolved, staff.IsStaffRecord) {
		out.Staff = append(out.Staff, staff.FromRecord(refjson.Record(node)))
	}
	for _, node := range refjson.Collect(resolved, customer.IsCustomerRecord) {
		out.Customers = append(out.Customers, customer.FromRecord(refjson.Record(node)))
	}

	if len(missing) > 0 {
		h.logger.Warn().
			Strs("unresolved_refs", missing).
			Msg("payload contained unresolved references")
	}
	return out
}
