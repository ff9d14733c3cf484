package domain

// Snapshot is the full persisted state. It is always loaded and saved as a
// single unit.
type Snapshot struct {
	Users         []User         `json:"users" bson:"users"`
	Tasks         []Task         `json:"tasks" bson:"tasks"`
	Notifications []Notification `json:"notifications" bson:"notifications"`
	// UserSeq is the last sequence number handed out to a user.
	UserSeq int `json:"user_seq" bson:"user_seq"`
}

// NewSnapshot returns an empty snapshot with non-nil collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:         []User{},
		Tasks:         []Task{},
		Notifications: []Notification{},
	}
}

// Normalize replaces nil collections and raises UserSeq to the highest
// sequence number present, so IDs never regress even if the counter was
// missing or the user list was reordered.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	for _, u := range s.Users {
		if n, ok := ParseUserSeq(u.ID); ok && n > s.UserSeq {
			s.UserSeq = n
		}
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Users:         append([]User(nil), s.Users...),
		Tasks:         make([]Task, len(s.Tasks)),
		Notifications: append([]Notification(nil), s.Notifications...),
		UserSeq:       s.UserSeq,
	}
	for i, t := range s.Tasks {
		if t.StartAt != nil {
			start := *t.StartAt
			t.StartAt = &start
		}
		out.Tasks[i] = t
	}
	out.Normalize()
	return out
}

// UserByEmail returns the index of the user with the given e-mail, or -1.
func (s *Snapshot) UserByEmail(email string) int {
	key := NormalizeEmail(email)
	for i := range s.Users {
		if NormalizeEmail(s.Users[i].Email) == key {
			return i
		}
	}
	return -1
}

// UserByID returns the index of the user with the given ID, or -1.
func (s *Snapshot) UserByID(id string) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// OwnedTask returns the index of the task matching both id and owner, or -1.
func (s *Snapshot) OwnedTask(taskID, userID string) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == taskID && s.Tasks[i].UserID == userID {
			return i
		}
	}
	return -1
}

// OwnedNotification returns the index of the notification matching both id
// and owner, or -1.
func (s *Snapshot) OwnedNotification(notificationID, userID string) int {
	for i := range s.Notifications {
		if s.Notifications[i].ID == notificationID && s.Notifications[i].UserID == userID {
			return i
		}
	}
	return -1
}
