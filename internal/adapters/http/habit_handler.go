package http

import (
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/habitmaster/core/internal/domain/entities"
	"github.com/habitmaster/core/internal/infrastructure/logger"
	"github.com/habitmaster/core/internal/ports"
)

// ErrorResponse is the body returned for failed requests
type ErrorResponse struct {
	Message string `json:"message"`
}

// HabitHandler exposes the habit service over HTTP. The service is
// single-threaded, so every call goes through mu.
type HabitHandler struct {
	mu           sync.Mutex
	habitService ports.HabitService
	logger       *logger.Logger
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habitService ports.HabitService, logger *logger.Logger) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
		logger:       logger.WithComponent("habit_handler"),
	}
}

// ListHabits godoc
// @Summary List habits
// @Tags habits
// @Produce json
// @Success 200 {array} entities.HabitSummary
// @Router /habits [get]
func (h *HabitHandler) ListHabits(c echo.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	habits, err := h.habitService.ListHabits(c.Request().Context())
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusOK, habits)
}

// CreateHabit godoc
// @Summary Add a habit
// @Tags habits
// @Accept json
// @Produce json
// @Param request body ports.AddHabitRequest true "Habit data"
// @Success 201 {object} entities.HabitSummary
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /habits [post]
func (h *HabitHandler) CreateHabit(c echo.Context) error {
	var req ports.AddHabitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	habit, err := h.habitService.AddHabit(c.Request().Context(), req)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, habit)
}

// GetHabit godoc
// @Summary Get a habit by name
// @Tags habits
// @Produce json
// @Param name path string true "Habit name"
// @Success 200 {object} entities.HabitSummary
// @Failure 404 {object} ErrorResponse
// @Router /habits/{name} [get]
func (h *HabitHandler) GetHabit(c echo.Context) error {
	name, err := habitName(c)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	habit, err := h.habitService.GetHabit(c.Request().Context(), name)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusOK, habit)
}

// MarkCompleted godoc
// @Summary Mark a habit completed for a day (today by default)
// @Tags habits
// @Accept json
// @Produce json
// @Param name path string true "Habit name"
// @Success 200 {object} ports.MarkCompletedResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /habits/{name}/completions [post]
func (h *HabitHandler) MarkCompleted(c echo.Context) error {
	name, err := habitName(c)
	if err != nil {
		return err
	}

	var body struct {
		Date string `json:"date"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	req := ports.MarkCompletedRequest{Name: name, Date: body.Date}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := h.habitService.MarkCompleted(c.Request().Context(), req)
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetStreaks godoc
// @Summary Current and longest streak for every habit
// @Tags streaks
// @Produce json
// @Param as_of query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {array} entities.HabitStreak
// @Failure 400 {object} ErrorResponse
// @Router /streaks [get]
func (h *HabitHandler) GetStreaks(c echo.Context) error {
	asOfParam := c.QueryParam("as_of")

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := c.Request().Context()
	var (
		streaks []entities.HabitStreak
		err     error
	)
	if asOfParam == "" {
		streaks, err = h.habitService.ViewStreaks(ctx)
	} else {
		asOf, parseErr := entities.ParseDate(asOfParam)
		if parseErr != nil {
			return h.toHTTPError(parseErr)
		}
		streaks, err = h.habitService.StreaksAsOf(ctx, asOf)
	}
	if err != nil {
		return h.toHTTPError(err)
	}

	return c.JSON(http.StatusOK, streaks)
}

// habitName returns the decoded :name parameter. echo routes on RawPath when
// the request carries one, and only then is the parameter still escaped.
func habitName(c echo.Context) (string, error) {
	name := c.Param("name")
	if c.Request().URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid habit name")
		}
		name = unescaped
	}
	if name == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid habit name")
	}
	return name, nil
}

func (h *HabitHandler) toHTTPError(err error) error {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrHabitNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrDuplicateHabit):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		h.logger.Errorw("Habit operation failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}
