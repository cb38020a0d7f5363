package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GFattehallah/cmhe-manager/internal/domain"
	"github.com/GFattehallah/cmhe-manager/internal/store"
	"github.com/GFattehallah/cmhe-manager/pkg/auth"
)

type AuthService struct {
	users      *store.Collection[domain.User]
	jwtManager *auth.JWTManager
	log        *zap.Logger
}

func NewAuthService(users *store.Collection[domain.User], jwtManager *auth.JWTManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, jwtManager: jwtManager, log: log}
}

// Login checks credentials against the user collection. Email matching is
// case-insensitive. Accounts without a stored password accept any
// credential; that is the bootstrap path for freshly seeded installs.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, ok := s.findByEmail(ctx, email)
	if !ok {
		// Burn a hash anyway so response timing does not reveal whether
		// the email exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, nil, ErrInvalidCredentials
	}

	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			s.log.Warn("failed login attempt", zap.String("email", user.EmailKey()))
			return nil, nil, ErrInvalidCredentials
		}
	}

	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID:      user.ID,
		Email:       user.EmailKey(),
		Role:        user.Role,
		Permissions: user.Permissions,
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return &user, pair, nil
}

// SaveUser validates and upserts an account. New accounts (empty id) get a
// fresh UUID. A non-empty plain password is hashed here; an empty one keeps
// the stored record's hash.
func (s *AuthService) SaveUser(ctx context.Context, u domain.User, plainPassword string) (domain.User, error) {
	var errs []string
	if strings.TrimSpace(u.Name) == "" {
		errs = append(errs, "name is required")
	}
	if u.EmailKey() == "" {
		errs = append(errs, "email is required")
	}
	if !u.Role.IsValid() {
		errs = append(errs, "role is invalid")
	}
	for _, p := range u.Permissions {
		if !p.IsValid() {
			errs = append(errs, "unknown permission tag: "+string(p))
		}
	}
	if len(errs) > 0 {
		return domain.User{}, &ValidationError{Fields: errs}
	}

	u.Email = u.EmailKey()
	if u.Permissions == nil {
		u.Permissions = []domain.Permission{}
	}
	if u.Initials == "" {
		u.Initials = initialsOf(u.Name)
	}

	// The stored hash is never taken from the payload: it is carried over
	// from the existing record or derived from the plain password here.
	u.PasswordHash = ""
	if existing, ok := s.findByID(ctx, u.ID); ok {
		u.PasswordHash = existing.PasswordHash
	}
	if plainPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, err
		}
		u.PasswordHash = string(hash)
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
		u.CreatedAt = time.Now()
	}

	if err := s.users.Save(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// ListUsers returns every account with the password hash stripped, sorted
// by display name.
func (s *AuthService) ListUsers(ctx context.Context) []domain.User {
	users := s.users.List(ctx)
	for i := range users {
		users[i].PasswordHash = ""
	}
	sort.Slice(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
	return users
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *AuthService) GetUser(ctx context.Context, id string) (domain.User, error) {
	if u, ok := s.findByID(ctx, id); ok {
		return u, nil
	}
	return domain.User{}, ErrUserNotFound
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (domain.User, bool) {
	key := strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users.List(ctx) {
		if u.EmailKey() == key {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s *AuthService) findByID(ctx context.Context, id string) (domain.User, bool) {
	for _, u := range s.users.List(ctx) {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

func initialsOf(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteString(strings.ToUpper(string(r[0])))
		if len([]rune(b.String())) >= 2 {
			break
		}
	}
	return b.String()
}
