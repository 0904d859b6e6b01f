package http

import (
	"net/http"
	"strconv"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/clockwise-hr/attendance-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	ListMine(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	repo notification.Repository
}

func NewNotificationHandler(repo notification.Repository) NotificationHandler {
	return &notificationHandlerImpl{repo: repo}
}

// ListMine implements NotificationHandler.
func (h *notificationHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	recipient := identity.UserID
	if recipient == "" {
		recipient = identity.EmployeeID
	}

	result, err := h.repo.ListByRecipient(r.Context(), recipient, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
