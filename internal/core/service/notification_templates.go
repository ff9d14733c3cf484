package service

import (
	"fmt"
	"html"
	"math"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

type renderedNotification struct {
	title    string
	message  string
	richText bool
}

// renderNotification fills the fixed template for typ.
func renderNotification(typ domain.NotificationType, nctx ports.NotificationContext) (renderedNotification, bool) {
	switch typ {
	case domain.NotificationWelcome:
		return renderedNotification{
			title:    "Welcome to Taskly!",
			message:  fmt.Sprintf("Hi <strong>%s</strong>, your account is ready. Start by adding your first task.", html.EscapeString(nctx.FullName)),
			richText: true,
		}, true
	case domain.NotificationTaskCreated:
		return renderedNotification{
			title:   "New task created",
			message: fmt.Sprintf("Your task %q has been created.", nctx.TaskTitle),
		}, true
	case domain.NotificationTaskCompleted:
		return renderedNotification{
			title:   "Task completed",
			message: fmt.Sprintf("Great job! You completed %q.", nctx.TaskTitle),
		}, true
	case domain.NotificationTaskDue:
		return renderedNotification{
			title:   "Task due soon",
			message: fmt.Sprintf("%q is due in %s.", nctx.TaskTitle, formatHours(nctx.HoursLeft)),
		}, true
	case domain.NotificationTaskOverdue:
		return renderedNotification{
			title:   "Task overdue",
			message: fmt.Sprintf("%q is past its due date.", nctx.TaskTitle),
		}, true
	case domain.NotificationTaskUpdated:
		msg := fmt.Sprintf("%q has been updated.", nctx.TaskTitle)
		if nctx.TaskStatus != "" {
			msg = fmt.Sprintf("%q is now %s.", nctx.TaskTitle, nctx.TaskStatus)
		}
		return renderedNotification{title: "Task updated", message: msg}, true
	case domain.NotificationDailySummary:
		var msg string
		switch nctx.PendingCount {
		case 0:
			msg = "You have no pending tasks today."
		case 1:
			msg = "You have 1 pending task today."
		default:
			msg = fmt.Sprintf("You have %d pending tasks today.", nctx.PendingCount)
		}
		return renderedNotification{title: "Your daily summary", message: msg}, true
	}
	return renderedNotification{}, false
}

func formatHours(h float64) string {
	if h < 1 {
		return "less than an hour"
	}
	n := int(math.Ceil(h))
	if n == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", n)
}
