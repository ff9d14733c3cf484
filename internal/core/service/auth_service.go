package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskly/taskly-api/internal/core/domain"
	"github.com/taskly/taskly-api/internal/core/ports"
	"github.com/taskly/taskly-api/internal/pkg/metrics"
)

const (
	sessionTTL    = time.Hour
	rememberMeTTL = 7 * 24 * time.Hour
)

// AuthService implements the user directory: registration, login and the
// profile image update.
type AuthService struct {
	state         *State
	hasher        ports.PasswordHasher
	tokens        ports.TokenIssuer
	notifications *NotificationService
	mail          ports.MailQueue
	log           zerolog.Logger
	now           func() time.Time
}

// NewAuthService wires the directory. mail may be nil, in which case no
// welcome e-mail is sent.
func NewAuthService(
	state *State,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	notifications *NotificationService,
	mail ports.MailQueue,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		state:         state,
		hasher:        hasher,
		tokens:        tokens,
		notifications: notifications,
		mail:          mail,
		log:           log,
		now:           utcNow,
	}
}

// Register creates a user with the next taskly-NNN identifier, stores a
// welcome notification in the same write and queues a welcome e-mail.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	switch {
	case in.FullName == "":
		return nil, fmt.Errorf("%w: full_name", domain.ErrMissingField)
	case in.Email == "":
		return nil, fmt.Errorf("%w: email", domain.ErrMissingField)
	case in.Password == "":
		return nil, fmt.Errorf("%w: password", domain.ErrMissingField)
	}

	// Cheap pre-check so duplicates skip the bcrypt cost; the authoritative
	// check runs again under the write lock.
	if s.emailTaken(in.Email) {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	var created domain.User
	err = s.state.Update(ctx, func(snap *domain.Snapshot) error {
		if snap.UserByEmail(in.Email) >= 0 {
			return domain.ErrDuplicateEmail
		}
		seq := snap.UserSeq + 1
		created = domain.User{
			ID:           domain.FormatUserID(seq),
			FullName:     in.FullName,
			Email:        in.Email,
			PhoneNumber:  in.PhoneNumber,
			PasswordHash: hash,
			CreatedAt:    s.now(),
		}
		welcome, err := s.notifications.Build(created.ID, domain.NotificationWelcome, ports.NotificationContext{
			FullName: created.FullName,
		})
		if err != nil {
			return err
		}

		snap.Users = append(snap.Users, created)
		snap.UserSeq = seq
		s.notifications.record(snap, welcome)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")

	if s.mail != nil {
		s.mail.Enqueue(welcomeMail(created))
	}
	return &created, nil
}

func (s *AuthService) emailTaken(email string) bool {
	taken := false
	s.state.View(func(snap *domain.Snapshot) {
		taken = snap.UserByEmail(email) >= 0
	})
	return taken
}

// Login verifies credentials and issues a token carrying the user's ID and
// e-mail. RememberMe extends the token lifetime from one hour to seven days.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	var (
		user  domain.User
		found bool
	)
	s.state.View(func(snap *domain.Snapshot) {
		if idx := snap.UserByEmail(in.Email); idx >= 0 {
			user = snap.Users[idx]
			found = true
		}
	})
	if !found {
		return nil, domain.ErrEmailNotFound
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrBadPassword
	}

	ttl := sessionTTL
	if in.RememberMe {
		ttl = rememberMeTTL
	}
	token, expiresAt, err := s.tokens.Issue(ports.TokenClaims{UserID: user.ID, Email: user.Email}, ttl)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Bool("remember_me", in.RememberMe).Msg("user logged in")
	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Profile returns the user with the given ID.
func (s *AuthService) Profile(_ context.Context, userID string) (*domain.User, error) {
	var (
		user  domain.User
		found bool
	)
	s.state.View(func(snap *domain.Snapshot) {
		if idx := snap.UserByID(userID); idx >= 0 {
			user = snap.Users[idx]
			found = true
		}
	})
	if !found {
		return nil, domain.ErrNotFoundOrUnauthorized
	}
	return &user, nil
}

// SetProfileImage stores a reference to the user's profile image. An empty
// reference clears it.
func (s *AuthService) SetProfileImage(ctx context.Context, userID, ref string) (*domain.User, error) {
	var updated domain.User
	err := s.state.Update(ctx, func(snap *domain.Snapshot) error {
		idx := snap.UserByID(userID)
		if idx < 0 {
			return domain.ErrNotFoundOrUnauthorized
		}
		snap.Users[idx].ProfileImage = strings.TrimSpace(ref)
		updated = snap.Users[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
