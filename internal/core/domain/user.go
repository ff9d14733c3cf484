package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserIDPrefix is prepended to the zero-padded sequence number of every user.
const UserIDPrefix = "taskly-"

// User models a registered account.
type User struct {
	ID           string    `json:"id" bson:"id"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Email        string    `json:"email" bson:"email"`
	PhoneNumber  string    `json:"phone_number" bson:"phone_number"`
	PasswordHash string    `json:"password" bson:"password"`
	ProfileImage string    `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// FormatUserID renders seq as taskly-NNN (at least three digits).
func FormatUserID(seq int) string {
	return fmt.Sprintf("%s%03d", UserIDPrefix, seq)
}

// ParseUserSeq extracts the numeric suffix of a user ID.
func ParseUserSeq(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, UserIDPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NormalizeEmail is the comparison key for e-mail uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
