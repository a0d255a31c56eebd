package domain

import (
	"context"

	"github.com/Moses2004/JobX/pkg/supabase"
)

// AuthGateway is the slice of the external auth service the session
// controller consumes. Implemented by pkg/supabase, mocked in tests.
type AuthGateway interface {
	Configured() bool
	CurrentSession(ctx context.Context) (*supabase.Session, error)
	Subscribe() *supabase.Subscription
	SignUp(ctx context.Context, email, password string, metadata map[string]interface{}) (*supabase.User, *supabase.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email, redirectTo string) error
}

// SessionSnapshot is a point-in-time copy of the controller state. The
// loading flag distinguishes "still bootstrapping or fetching the profile"
// from "settled, possibly with no data".
type SessionSnapshot struct {
	User            *supabase.User
	Session         *supabase.Session
	Profile         *Profile
	Loading         bool
	IsAuthenticated bool
}

// SignUpFields seed the initial profile row written after credential
// creation. Zero values fall back to the documented defaults.
type SignUpFields struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Role       Role     `json:"role" validate:"omitempty,oneof=job_seeker employer both"`
	Industries []string `json:"industries"`
	Skills     []string `json:"skills"`
	Goal       string   `json:"goal"`
}

// SessionUsecase is the single source of truth for who is logged in and
// what their profile is, and the sole owner of external auth calls.
type SessionUsecase interface {
	// Bootstrap restores a persisted session on startup. If one exists the
	// controller becomes authenticated and fetches the profile; otherwise
	// it settles anonymous.
	Bootstrap(ctx context.Context)

	// Run consumes auth-state events until ctx is done. The subscription is
	// the authoritative state source; direct call results are advisory.
	Run(ctx context.Context)

	// Close cancels the auth-state subscription. Safe to call repeatedly.
	Close()

	Snapshot() SessionSnapshot

	SignUp(ctx context.Context, email, password string, fields SignUpFields) (*supabase.User, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (*Profile, error)
}

// RouterUsecase owns the current view and the UI-visible shell state, and
// enforces cross-view preconditions at navigation time. It performs no
// asynchronous work and cannot fail.
type RouterUsecase interface {
	CurrentView() View
	// ResolvedView applies the structural auth gate to the current view.
	ResolvedView() View

	Navigate(target View)
	CompleteAuth(seed Profile)
	CompleteEmployerOnboarding(company CompanyData)
	SaveCompanyProfile(partial CompanyData)
	Logout()

	ApplyForJob(app Application) Application
	WithdrawApplication(jobID string) bool
	Applications() []Application

	OpenMessages()
	CloseMessages()
	MessagesOpen() bool

	IsAuthenticated() bool
	UserData() *Profile
	Role() Role
}
