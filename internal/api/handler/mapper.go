package handler

import (
	"github.com/taskly/taskly-api/internal/core/domain"
)

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func toTaskResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		EndAt:       t.EndAt.UTC(),
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.StartAt != nil {
		start := t.StartAt.UTC()
		resp.StartAt = &start
	}
	return resp
}

func toTaskList(tasks []domain.Task) taskListResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return taskListResponse{Tasks: out}
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RichText:  n.RichText,
		TaskID:    n.TaskID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC(),
	}
}

func toNotificationList(ns []domain.Notification, unread int) notificationListResponse {
	out := make([]notificationResponse, 0, len(ns))
	for i := range ns {
		out = append(out, toNotificationResponse(&ns[i]))
	}
	return notificationListResponse{Notifications: out, UnreadCount: unread}
}
