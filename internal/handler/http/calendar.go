package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
	calendarSvc "github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	ListHolidays(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
	GetDayKind(w http.ResponseWriter, r *http.Request)
	UpdateSetting(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	holidayRepo calendar.HolidayRepository
	settings    calendar.SettingRepository
	resolver    *calendarSvc.Resolver
}

func NewCalendarHandler(
	holidayRepo calendar.HolidayRepository,
	settings calendar.SettingRepository,
	resolver *calendarSvc.Resolver,
) CalendarHandler {
	return &calendarHandlerImpl{
		holidayRepo: holidayRepo,
		settings:    settings,
		resolver:    resolver,
	}
}

type createHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type updateSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ListHolidays implements CalendarHandler.
func (h *calendarHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			year = parsed
		}
	}

	result, err := h.holidayRepo.ListByYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateHoliday implements CalendarHandler. Admin only.
func (h *calendarHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req createHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, ok := validator.IsValidDate(req.Date)
	if !ok || req.Name == "" {
		response.BadRequest(w, "date (YYYY-MM-DD) and name are required", nil)
		return
	}

	result, err := h.holidayRepo.Create(r.Context(), calendar.HolidayEntry{
		Date: date,
		Name: req.Name,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", result)
}

// DeleteHoliday implements CalendarHandler. Admin only.
func (h *calendarHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.holidayRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

// GetDayKind implements CalendarHandler. Classifies a date as workday,
// weekend or holiday.
func (h *calendarHandlerImpl) GetDayKind(w http.ResponseWriter, r *http.Request) {
	date, ok := validator.IsValidDate(chi.URLParam(r, "date"))
	if !ok {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	kind, err := h.resolver.DayKind(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"date": date.Format("2006-01-02"),
		"kind": string(kind),
	})
}

// UpdateSetting implements CalendarHandler. Admin only. Accepts the
// documented keys only, so a typo cannot create a dead setting row.
func (h *calendarHandlerImpl) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req updateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	switch req.Key {
	case calendar.SettingWeekendDays, calendar.SettingFullDayHours, calendar.SettingHalfDayHours:
	default:
		response.BadRequest(w, "Unknown setting key", nil)
		return
	}
	if req.Value == "" {
		response.BadRequest(w, "value is required", nil)
		return
	}

	if err := h.settings.Set(r.Context(), req.Key, req.Value); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Setting updated", map[string]string{req.Key: req.Value})
}
