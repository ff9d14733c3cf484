package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskly/taskly-api/internal/core/ports"
)

// NotificationHandler serves the caller's notification feed.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /notifications.
//
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query     bool  false  "Only unread notifications"
// @Success      200     {object}  notificationListResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var filter ports.ListNotificationsFilter
	if raw := c.QueryParam("unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unread must be a boolean")
		}
		filter.UnreadOnly = unread
	}

	ctx := c.Request().Context()
	items, err := h.service.ListForUser(ctx, userID, filter)
	if err != nil {
		return err
	}
	unread, err := h.service.UnreadCount(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNotificationList(items, unread))
}

// MarkRead handles PATCH /notifications/:id.
//
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  notificationResponse
// @Failure      404  {object}  errorResponse
// @Router       /notifications/{id} [patch]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	n, err := h.service.MarkRead(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNotificationResponse(n))
}

// MarkAllRead handles POST /notifications/read-all.
//
// @Summary      Mark every notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  markAllReadResponse
// @Failure      401  {object}  errorResponse
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	n, err := h.service.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, markAllReadResponse{Updated: n})
}
