package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"ordering-system/internal/services"
	"ordering-system/pkg/logger"
)

// NotificationHandler is the internal trigger surface the ordering web app
// calls when an order changes: it re-queries counts and fans the appropriate
// events out to the connected dashboards, customers and printers.
type NotificationHandler struct {
	notifications *services.NotificationService
	log           logger.Logger
}

type NotifyCustomerRequest struct {
	Message string `json:"message"`
}

type PrintJobRequest struct {
	Data map[string]any `json:"data"`
}

func NewNotificationHandler(notifications *services.NotificationService, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		log:           log,
	}
}

func (h *NotificationHandler) RefreshCounts(c echo.Context) error {
	unseen, pending, err := h.notifications.BroadcastOwnerCounts(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to broadcast owner counts", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to refresh counts"})
	}

	return c.JSON(http.StatusOK, map[string]int{
		"unseen_count":  unseen,
		"pending_count": pending,
	})
}

func (h *NotificationHandler) NotifyCustomer(c echo.Context) error {
	// Echo captures path params un-decoded, so "a%40b.com" arrives verbatim;
	// decode it or the event targets the wrong customer group.
	email, err := url.PathUnescape(c.Param("email"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid email encoding"})
	}
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email required"})
	}

	var req NotifyCustomerRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message required"})
	}

	count, err := h.notifications.NotifyCustomer(c.Request().Context(), email, req.Message)
	if err != nil {
		h.log.Error("Failed to notify customer", "email", email, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to notify customer"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"customer_count": count,
	})
}

func (h *NotificationHandler) SendPrintJob(c echo.Context) error {
	var req PrintJobRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Data == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Print data required"})
	}

	if err := h.notifications.SendPrintJob(c.Request().Context(), req.Data); err != nil {
		h.log.Error("Failed to send print job", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send print job"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}
