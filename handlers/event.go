package handlers

import (
	"errors"
	"net/http"
	"strconv"

	jwtmw "github.com/arman-dehghani/campushub/middleware/jwt"
	"github.com/arman-dehghani/campushub/services/event"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	eventService *event.Service
}

func NewEventHandler(eventService *event.Service) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) List(c echo.Context) error {
	events, err := h.eventService.List()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	ev, err := h.eventService.Get(id)
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) Create(c echo.Context) error {
	var ev event.Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if ev.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	ev.ID = 0
	ev.CreatedBy = jwtmw.GetUserID(c)
	if err := h.eventService.Create(&ev); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	var ev event.Event
	if err := c.Bind(&ev); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ev.ID = id
	if err := h.eventService.Update(&ev); err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	if err := h.eventService.Delete(id); err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) Join(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	err = h.eventService.Join(id, jwtmw.GetUserID(c))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{"message": "joined event"})
	case errors.Is(err, event.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	case errors.Is(err, event.ErrAlreadyJoined):
		return echo.NewHTTPError(http.StatusConflict, "already joined this event")
	case errors.Is(err, event.ErrEventFull):
		return echo.NewHTTPError(http.StatusConflict, "event has reached capacity")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *EventHandler) Leave(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	err = h.eventService.Leave(id, jwtmw.GetUserID(c))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{"message": "left event"})
	case errors.Is(err, event.ErrNotParticipant):
		return echo.NewHTTPError(http.StatusNotFound, "not a participant of this event")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func eventID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}
	return uint(id), nil
}
