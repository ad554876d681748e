package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/post-office-sim/internal/model"
	"github.com/iliyamo/post-office-sim/internal/repository"
	"github.com/iliyamo/post-office-sim/internal/sim"
)

// ReportArchive is the read side of the day-report archive, satisfied by
// repository.ReportRepo.  Lookups that find nothing return
// repository.ErrReportNotFound.
type ReportArchive interface {
	ListByRun(ctx context.Context, run string) ([]model.DayReport, error)
	GetByRunAndDay(ctx context.Context, run string, day int) (*model.DayReport, error)
}

// SimHandler exposes the read-only views of a running simulation plus the
// admin operation that grows the customer population.  When an archive is
// attached the daily reports are read from it, with the in-memory reports
// as fallback; a nil archive serves memory only.
type SimHandler struct {
	Sim     *sim.Simulation
	Archive ReportArchive
	Run     string
}

func NewSimHandler(s *sim.Simulation, archive ReportArchive, run string) *SimHandler {
	return &SimHandler{Sim: s, Archive: archive, Run: run}
}

// GetStats returns the cumulative and current-day counters together with the
// simulated clock and the service catalog.
func (h *SimHandler) GetStats(c echo.Context) error {
	stats := h.Sim.Stats()
	operators, customers := h.Sim.Population()
	return c.JSON(http.StatusOK, echo.Map{
		"stats":     stats,
		"services":  h.Sim.Services(),
		"operators": operators,
		"customers": customers,
	})
}

// GetDailyStats returns the end-of-day reports emitted so far, oldest first.
// An optional ?day=N query narrows the response to a single day.  With an
// archive attached the reports come from MySQL; the in-memory reports cover
// archive misses, since inserts are asynchronous.
func (h *SimHandler) GetDailyStats(c echo.Context) error {
	if raw := c.QueryParam("day"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid day"})
		}
		if rep, ok := h.archivedDay(c, day); ok {
			return c.JSON(http.StatusOK, echo.Map{"reports": []model.DayReport{rep}})
		}
		for _, rep := range h.Sim.Reports() {
			if rep.Day == day {
				return c.JSON(http.StatusOK, echo.Map{"reports": []model.DayReport{rep}})
			}
		}
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no report for day"})
	}
	if h.Archive != nil {
		ctx, cancel := archiveContext(c)
		defer cancel()
		if reports, err := h.Archive.ListByRun(ctx, h.Run); err == nil && len(reports) > 0 {
			return c.JSON(http.StatusOK, echo.Map{"reports": reports})
		} else if err != nil {
			c.Logger().Warnf("archive list failed, serving memory: %v", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": h.Sim.Reports()})
}

// archivedDay looks a single day up in the archive.  Misses and archive
// failures both report false so the caller falls back.
func (h *SimHandler) archivedDay(c echo.Context, day int) (model.DayReport, bool) {
	if h.Archive == nil {
		return model.DayReport{}, false
	}
	ctx, cancel := archiveContext(c)
	defer cancel()
	rep, err := h.Archive.GetByRunAndDay(ctx, h.Run, day)
	if err != nil {
		if !errors.Is(err, repository.ErrReportNotFound) {
			c.Logger().Warnf("archive lookup for day %d failed: %v", day, err)
		}
		return model.DayReport{}, false
	}
	return *rep, true
}

func archiveContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// GetSeats returns the current seat table: which counters are staffed, by
// whom, for which service, and whether a customer is being served there.
func (h *SimHandler) GetSeats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"seats": h.Sim.Seats()})
}

// GetClock returns the simulated day and minute of day.
func (h *SimHandler) GetClock(c echo.Context) error {
	day, minute := h.Sim.Clock()
	return c.JSON(http.StatusOK, echo.Map{
		"day":    day,
		"minute": minute,
		"hhmm":   sim.ClockHHMM(minute),
	})
}

type addCustomersReq struct {
	Count int `json:"count"`
}

// AddCustomers spawns new customer agents that join at the next day start.
// Admin-only; requires the JWT and role middleware on its route.
func (h *SimHandler) AddCustomers(c echo.Context) error {
	var req addCustomersReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	total, err := h.Sim.AddCustomers(req.Count)
	if err != nil {
		if errors.Is(err, sim.ErrSimulationDone) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "simulation finished"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"added": req.Count,
		"total": total,
	})
}
