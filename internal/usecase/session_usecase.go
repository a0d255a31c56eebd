package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/pkg/logger"
	"github.com/Moses2004/JobX/pkg/supabase"

	"github.com/go-playground/validator/v10"
)

// sessionController owns the authentication state: current user, session,
// profile and the loading flag. All mutation happens here; everyone else
// reads snapshots.
type sessionController struct {
	auth      domain.AuthGateway
	profiles  domain.ProfileRepository
	appOrigin string
	validate  *validator.Validate

	sub       *supabase.Subscription
	closeOnce sync.Once

	mu      sync.RWMutex
	session *supabase.Session
	user    *supabase.User
	profile *domain.Profile
	loading bool
}

// NewSessionController wires the controller to its auth gateway and profile
// store. The controller starts in the bootstrapping state with the loading
// flag set, and subscribes to auth-state events immediately so nothing is
// missed between construction and Run.
func NewSessionController(auth domain.AuthGateway, profiles domain.ProfileRepository, appOrigin string, validate *validator.Validate) domain.SessionUsecase {
	return &sessionController{
		auth:      auth,
		profiles:  profiles,
		appOrigin: appOrigin,
		validate:  validate,
		sub:       auth.Subscribe(),
		loading:   true,
	}
}

func (c *sessionController) Bootstrap(ctx context.Context) {
	session, err := c.auth.CurrentSession(ctx)
	if err != nil {
		logger.Log.Error("session bootstrap failed", "error", err)
	}

	if session == nil || session.User == nil {
		c.mu.Lock()
		c.session = nil
		c.user = nil
		c.loading = false
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.session = session
	c.user = session.User
	c.loading = true
	c.mu.Unlock()

	c.fetchProfile(ctx, session.User.ID)
}

func (c *sessionController) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.sub.C:
			if !ok {
				return
			}
			c.handleAuthEvent(ctx, ev)
		}
	}
}

func (c *sessionController) Close() {
	c.closeOnce.Do(c.sub.Cancel)
}

// handleAuthEvent replaces the held session and user atomically. A nil
// session means an external sign-out; anything else triggers a profile
// re-fetch.
func (c *sessionController) handleAuthEvent(ctx context.Context, ev supabase.AuthEvent) {
	c.mu.Lock()
	c.session = ev.Session
	if ev.Session != nil {
		c.user = ev.Session.User
	} else {
		c.user = nil
	}

	if ev.Session == nil || ev.Session.User == nil {
		c.profile = nil
		c.loading = false
		c.mu.Unlock()
		return
	}

	c.loading = true
	userID := ev.Session.User.ID
	c.mu.Unlock()

	c.fetchProfile(ctx, userID)
}

// fetchProfile looks the profile up by user id. A missing row is an
// expected condition: a default profile is synthesized so the application
// is never blocked on profile absence. The loading flag clears on every
// branch.
func (c *sessionController) fetchProfile(ctx context.Context, userID string) {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	profile, err := c.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.mu.Lock()
			email, name := "", ""
			if c.user != nil {
				email = c.user.Email
				name = c.user.Name()
			}
			c.profile = &domain.Profile{
				ID:    userID,
				Email: email,
				Name:  name,
				Role:  domain.RoleJobSeeker,
			}
			c.mu.Unlock()
			return
		}
		logger.Log.Error("profile fetch failed", "user_id", userID, "error", err)
		return
	}

	c.mu.Lock()
	c.profile = profile
	c.mu.Unlock()
}

func (c *sessionController) Snapshot() domain.SessionSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.SessionSnapshot{
		User:            c.user,
		Session:         c.session,
		Profile:         c.profile,
		Loading:         c.loading,
		IsAuthenticated: c.user != nil,
	}
}

// SignUp creates credentials and, only when an account object came back,
// writes the initial profile row. A failed profile write is logged and does
// not fail the call: the row is healed later by the lazy fetch-or-create.
func (c *sessionController) SignUp(ctx context.Context, email, password string, fields domain.SignUpFields) (*supabase.User, error) {
	if err := c.validate.Struct(fields); err != nil {
		return nil, err
	}

	role := fields.Role
	if role == "" {
		role = domain.RoleJobSeeker
	}

	metadata := map[string]interface{}{
		"name":     fields.Name,
		"location": fields.Location,
		"role":     string(role),
	}

	user, _, err := c.auth.SignUp(ctx, email, password, metadata)
	if err != nil {
		logger.Log.Warn("sign up failed", "error", err)
		return nil, err
	}

	if user != nil {
		profile := &domain.Profile{
			ID:         user.ID,
			Email:      email,
			Name:       fields.Name,
			Location:   fields.Location,
			Role:       role,
			Industries: emptyIfNil(fields.Industries),
			Skills:     emptyIfNil(fields.Skills),
			Goal:       fields.Goal,
		}
		if err := c.profiles.Create(ctx, profile); err != nil {
			logger.Log.Error("initial profile write failed", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

// SignIn delegates to the auth service. Local state is not touched here:
// the auth-state subscription propagates the new session, so callers must
// not assume a synchronous state update.
func (c *sessionController) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	session, err := c.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		logger.Log.Warn("sign in failed", "error", err)
		return nil, err
	}
	return session, nil
}

// SignOut delegates to the auth service and eagerly clears the local user
// and profile without waiting for the subscription echo.
func (c *sessionController) SignOut(ctx context.Context) error {
	if err := c.auth.SignOut(ctx); err != nil {
		logger.Log.Warn("sign out failed", "error", err)
		return err
	}

	c.mu.Lock()
	c.user = nil
	c.profile = nil
	c.mu.Unlock()
	return nil
}

func (c *sessionController) ResetPassword(ctx context.Context, email string) error {
	redirectTo := c.appOrigin + "/reset-password"
	if err := c.auth.SendPasswordReset(ctx, email, redirectTo); err != nil {
		logger.Log.Warn("password reset failed", "error", err)
		return err
	}
	return nil
}

// UpdateProfile performs a partial-field merge keyed by the current user id
// and replaces the held profile with the returned row.
func (c *sessionController) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.Profile, error) {
	c.mu.RLock()
	user := c.user
	c.mu.RUnlock()
	if user == nil {
		return nil, domain.ErrNoActiveUser
	}

	if err := c.validate.Struct(upd); err != nil {
		return nil, err
	}

	profile, err := c.profiles.UpdatePartial(ctx, user.ID, upd)
	if err != nil {
		logger.Log.Warn("profile update failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	c.mu.Lock()
	c.profile = profile
	c.mu.Unlock()
	return profile, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
