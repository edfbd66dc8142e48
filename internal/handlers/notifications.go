package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/techstore/api/internal/platform/httpx"
	"github.com/techstore/api/internal/services"
)

const maxNotificationRequestBody = 4 * 1024

// NotificationHandlers exposes the email configuration test endpoint.
type NotificationHandlers struct {
	notifier services.NotificationService
}

// NewNotificationHandlers constructs notification handlers backed by the dispatcher.
func NewNotificationHandlers(notifier services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notifier: notifier}
}

// Routes registers notification endpoints under the provided router.
func (h *NotificationHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/test", h.sendTest)
}

type sendTestRequest struct {
	Email string `json:"email"`
}

func (h *NotificationHandlers) sendTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.notifier == nil {
		httpx.WriteError(ctx, w, httpx.NewError("notifications_unavailable", "notification service unavailable", http.StatusInternalServerError))
		return
	}

	body, err := readLimitedBody(r, maxNotificationRequestBody)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), status))
		return
	}

	var req sendTestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	recipient := strings.TrimSpace(req.Email)
	if recipient == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "email is required", http.StatusBadRequest))
		return
	}

	outcome := h.notifier.SendTest(ctx, recipient)
	if !outcome.Success {
		httpx.WriteError(ctx, w, httpx.NewError("email_failed", "failed to send test email", http.StatusInternalServerError))
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Test email sent successfully",
		"messageId": outcome.MessageID,
	})
}
