package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Validate(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	MyBalance(w http.ResponseWriter, r *http.Request)
	AdjustBalance(w http.ResponseWriter, r *http.Request)
	ListPolicies(w http.ResponseWriter, r *http.Request)
	UpsertPolicy(w http.ResponseWriter, r *http.Request)
	RunAccrual(w http.ResponseWriter, r *http.Request)
	RunCarryForward(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	requestService leave.RequestService
	balanceService leave.BalanceService
	accrualService leave.AccrualService
	policyRepo     leave.LeavePolicyRepository
}

func NewLeaveHandler(
	requestService leave.RequestService,
	balanceService leave.BalanceService,
	accrualService leave.AccrualService,
	policyRepo leave.LeavePolicyRepository,
) LeaveHandler {
	return &leaveHandlerImpl{
		requestService: requestService,
		balanceService: balanceService,
		accrualService: accrualService,
		policyRepo:     policyRepo,
	}
}

// Validate implements LeaveHandler. Dry-run of the policy checks.
func (h *leaveHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	q := r.URL.Query()
	leaveType := q.Get("leave_type")
	start, startOK := validator.IsValidDate(q.Get("start_date"))
	end, endOK := validator.IsValidDate(q.Get("end_date"))
	if leaveType == "" || !startOK || !endOK {
		response.BadRequest(w, "leave_type, start_date and end_date query parameters are required", nil)
		return
	}

	result, err := h.requestService.ValidateRequest(r.Context(), identity.EmployeeID, leaveType, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Submit implements LeaveHandler.
func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = identity.EmployeeID

	result, err := h.requestService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// ListMine implements LeaveHandler.
func (h *leaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			year = parsed
		}
	}

	result, err := h.requestService.ListMine(r.Context(), identity.EmployeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPending implements LeaveHandler. Admin only.
func (h *leaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements LeaveHandler. Admin only.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.ReviewLeaveRequestRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewerID = identity.UserID

	result, err := h.requestService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// Reject implements LeaveHandler. Admin only.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.RejectLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewerID = identity.UserID

	result, err := h.requestService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// MyBalance implements LeaveHandler.
func (h *leaveHandlerImpl) MyBalance(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			year = parsed
		}
	}

	result, err := h.balanceService.ComputeBalance(r.Context(), identity.EmployeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AdjustBalance implements LeaveHandler. Admin only.
func (h *leaveHandlerImpl) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req leave.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ActorID = identity.UserID

	result, err := h.balanceService.Adjust(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Balance adjusted", result)
}

// ListPolicies implements LeaveHandler. Admin only.
func (h *leaveHandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	result, err := h.policyRepo.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpsertPolicy implements LeaveHandler. Admin only.
func (h *leaveHandlerImpl) UpsertPolicy(w http.ResponseWriter, r *http.Request) {
	var req leave.UpsertPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.policyRepo.Upsert(r.Context(), leave.LeavePolicy{
		LeaveType:          req.LeaveType,
		AnnualAllocation:   req.AnnualAllocation,
		MonthlyAccrual:     req.MonthlyAccrual,
		MaxCarryForward:    req.MaxCarryForward,
		MaxConsecutiveDays: req.MaxConsecutiveDays,
		NoticePeriodDays:   req.NoticePeriodDays,
		RequiresDocument:   req.RequiresDocument,
		IsActive:           req.IsActive,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave policy saved", result)
}

// RunAccrual implements LeaveHandler. Admin trigger for the monthly accrual;
// the run is idempotent so repeated triggers are safe.
func (h *leaveHandlerImpl) RunAccrual(w http.ResponseWriter, r *http.Request) {
	report, err := h.accrualService.MonthlyAccrual(r.Context(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Accrual run finished", report)
}

// RunCarryForward implements LeaveHandler. Admin trigger for the year-end
// rollover.
func (h *leaveHandlerImpl) RunCarryForward(w http.ResponseWriter, r *http.Request) {
	fromYear := time.Now().Year() - 1
	if v := r.URL.Query().Get("from_year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			fromYear = parsed
		}
	}

	report, err := h.accrualService.CarryForward(r.Context(), fromYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Carry-forward run finished", report)
}
