package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/nao1215/stressband/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Storage keys.
const (
	UsersKey       = "sbqvt_users"
	CurrentUserKey = "sbqvt_current_user"
)

// defaultCredentials are the demonstration accounts.
var defaultCredentials = []struct {
	email    string
	password string
	role     Role
}{
	{"patient@example.com", "patient123", RolePatient},
	{"pro@example.com", "pro123", RolePro},
}

// Accounts manages users kept in a storage.Store.
type Accounts struct {
	store  storage.Store
	cost   int
	logger *slog.Logger

	// mu serializes read-modify-write cycles on the user list.
	mu sync.Mutex

	defaultsOnce sync.Once
	defaults     []User
	defaultsErr  error
}

// Option configures Accounts.
type Option func(*Accounts)

// WithCost sets the bcrypt cost used for new hashes.
func WithCost(cost int) Option {
	return func(a *Accounts) {
		a.cost = cost
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Accounts) {
		a.logger = logger
	}
}

// New returns Accounts backed by store.
func New(store storage.Store, opts ...Option) *Accounts {
	a := &Accounts{
		store: store,
		cost:  bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// SignUp registers a new user and signs them in.
func (a *Accounts) SignUp(ctx context.Context, email, password string, role Role) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	normalized := NormalizeEmail(email)

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(users, func(u User) bool { return u.Email == normalized }) {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{Email: normalized, PasswordHash: string(hash), Role: role}
	if err := a.saveUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}
	if err := a.store.Set(ctx, CurrentUserKey, normalized); err != nil {
		return nil, fmt.Errorf("failed to record current user: %w", err)
	}

	a.logger.Debug("account created", "email", normalized, "role", string(role))
	return &user, nil
}

// SignIn checks the credentials and signs the user in.
func (a *Accounts) SignIn(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	normalized := NormalizeEmail(email)

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(users, func(u User) bool { return u.Email == normalized })
	if i < 0 {
		return nil, ErrInvalidCredentials
	}
	user := users[i]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := a.store.Set(ctx, CurrentUserKey, normalized); err != nil {
		return nil, fmt.Errorf("failed to record current user: %w", err)
	}

	a.logger.Debug("signed in", "email", normalized)
	return &user, nil
}

// SignOut forgets the signed-in user.
func (a *Accounts) SignOut(ctx context.Context) error {
	if err := a.store.Delete(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil when nobody is signed in
// or the recorded e-mail no longer matches a user.
func (a *Accounts) CurrentUser(ctx context.Context) (*User, error) {
	email, ok, err := a.store.Get(ctx, CurrentUserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read current user: %w", err)
	}
	if !ok || email == "" {
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	users, err := a.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// Users returns the registered users.
func (a *Accounts) Users(ctx context.Context) ([]User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.loadUsers(ctx)
}

// loadUsers reads the user list. A missing or empty value yields the
// demonstration accounts, as does a value that is not valid JSON. Valid JSON
// that is not a list of users yields no users.
func (a *Accounts) loadUsers(ctx context.Context) ([]User, error) {
	raw, ok, err := a.store.Get(ctx, UsersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	if !ok || raw == "" {
		return a.defaultUsers()
	}

	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		if !json.Valid([]byte(raw)) {
			a.logger.Warn("stored users are corrupt, using the demonstration accounts", "error", err)
			return a.defaultUsers()
		}
		a.logger.Warn("stored users are not a list", "error", err)
		return []User{}, nil
	}
	if users == nil {
		// JSON null.
		return []User{}, nil
	}
	return users, nil
}

func (a *Accounts) saveUsers(ctx context.Context, users []User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := a.store.Set(ctx, UsersKey, string(data)); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// defaultUsers hashes the demonstration accounts once per Accounts.
func (a *Accounts) defaultUsers() ([]User, error) {
	a.defaultsOnce.Do(func() {
		users := make([]User, 0, len(defaultCredentials))
		for _, c := range defaultCredentials {
			hash, err := bcrypt.GenerateFromPassword([]byte(c.password), a.cost)
			if err != nil {
				a.defaultsErr = fmt.Errorf("failed to hash default password: %w", err)
				return
			}
			users = append(users, User{Email: c.email, PasswordHash: string(hash), Role: c.role})
		}
		a.defaults = users
	})
	if a.defaultsErr != nil {
		return nil, a.defaultsErr
	}
	return slices.Clone(a.defaults), nil
}
