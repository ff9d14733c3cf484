package handler

import (
	"time"

	"github.com/taskly/taskly-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	FullName    string `json:"full_name"    validate:"required,max=120"`
	Email       string `json:"email"        validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"max=32"`
	Password    string `json:"password"     validate:"required"`
}

type loginRequest struct {
	Email      string `json:"email"       validate:"required"`
	Password   string `json:"password"    validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type profileImageRequest struct {
	ProfileImage string `json:"profile_image" validate:"required,max=2048"`
}

// userResponse is the public view of a user. The password hash never leaves
// the service.
type userResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"      validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
}

type taskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	StartAt     *time.Time        `json:"start_at,omitempty"`
	EndAt       time.Time         `json:"end_at"`
	Status      domain.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
}

// --- Notifications ---

type notificationResponse struct {
	ID        string                  `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	RichText  bool                    `json:"rich_text"`
	TaskID    string                  `json:"task_id,omitempty"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"created_at"`
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	UnreadCount   int                     `json:"unread_count"`
}

type markAllReadResponse struct {
	Updated int `json:"updated"`
}
