package service

import (
	"fmt"
	"html"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
)

func welcomeMail(u domain.User) ports.Mail {
	name := html.EscapeString(u.FullName)
	body := fmt.Sprintf(`<h1>Welcome to Taskly, %s!</h1>
<p>Your account <strong>%s</strong> is ready.</p>
<p>Add your first task and we will remind you before it is due.</p>`, name, html.EscapeString(u.ID))

	return ports.Mail{
		To:       u.Email,
		Subject:  "Welcome to Taskly",
		HTMLBody: body,
	}
}
