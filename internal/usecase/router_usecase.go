package usecase

import (
	"sync"
	"time"

	"github.com/Moses2004/JobX/internal/domain"

	"github.com/google/uuid"
)

// viewRouter decides which screen is shown and enforces cross-view
// preconditions. It holds its own snapshot of user data handed over at
// authentication completion; that copy may diverge from the session
// controller after a later profile update and is reconciled by the
// composing layer re-reading controller state.
type viewRouter struct {
	mu            sync.RWMutex
	current       domain.View
	authenticated bool
	userData      *domain.Profile
	role          domain.Role
	applications  []domain.Application
	messagesOpen  bool
}

// NewViewRouter derives the initial view from the startup address fragment:
// the three showcase fragments select their views, everything else lands on
// the landing view.
func NewViewRouter(fragment string) domain.RouterUsecase {
	return &viewRouter{current: domain.InitialView(fragment)}
}

func (r *viewRouter) CurrentView() domain.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *viewRouter) ResolvedView() domain.View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.ResolveView(r.current, r.authenticated)
}

// Navigate sets the current view. The one precondition checked here is the
// employer capability: posting a job without company data silently lands on
// employer onboarding instead. Authentication gating happens structurally
// in ResolvedView, not per navigation.
func (r *viewRouter) Navigate(target domain.View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if target == domain.ViewPostOpportunity && !r.userData.HasCompanyData() {
		r.current = domain.ViewEmployerOnboarding
		return
	}
	r.current = target
}

// CompleteAuth is the single entry point by which the router learns that
// sign-in succeeded. The role is always reset to job seeker, whatever was
// selected before, and the user lands on the feed.
func (r *viewRouter) CompleteAuth(seed domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.authenticated = true
	r.userData = &seed
	r.role = domain.RoleJobSeeker
	r.current = domain.ViewFeed
}

// CompleteEmployerOnboarding records the company data and moves to the
// employer dashboard.
func (r *viewRouter) CompleteEmployerOnboarding(company domain.CompanyData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.userData == nil {
		r.userData = &domain.Profile{}
	}
	merged := company
	if r.userData.CompanyData != nil {
		merged = r.userData.CompanyData.Merge(company)
	}
	r.userData.CompanyData = &merged
	r.current = domain.ViewEmployer
}

// SaveCompanyProfile overlays partial company fields onto the held data
// without navigating, the company-profile page's save path.
func (r *viewRouter) SaveCompanyProfile(partial domain.CompanyData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.userData == nil {
		r.userData = &domain.Profile{}
	}
	var merged domain.CompanyData
	if r.userData.CompanyData != nil {
		merged = r.userData.CompanyData.Merge(partial)
	} else {
		merged = partial
	}
	r.userData.CompanyData = &merged
}

// Logout clears the shell's authentication state and returns to the
// landing view. It deliberately does not call the session controller's
// SignOut; the composing layer invokes both together.
func (r *viewRouter) Logout() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.authenticated = false
	r.userData = nil
	r.role = ""
	r.current = domain.ViewLanding
}

// ApplyForJob appends the application, preserving insertion order.
// Duplicates for the same job are not prevented here.
func (r *viewRouter) ApplyForJob(app domain.Application) domain.Application {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications = append(r.applications, app)
	return app
}

// WithdrawApplication removes every application for the given job id,
// reporting whether anything was removed.
func (r *viewRouter) WithdrawApplication(jobID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.applications[:0]
	removed := false
	for _, app := range r.applications {
		if app.JobID == jobID {
			removed = true
			continue
		}
		kept = append(kept, app)
	}
	r.applications = kept
	return removed
}

func (r *viewRouter) Applications() []domain.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Application, len(r.applications))
	copy(out, r.applications)
	return out
}

func (r *viewRouter) OpenMessages() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messagesOpen = true
}

func (r *viewRouter) CloseMessages() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messagesOpen = false
}

func (r *viewRouter) MessagesOpen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.messagesOpen
}

func (r *viewRouter) IsAuthenticated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.authenticated
}

func (r *viewRouter) UserData() *domain.Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.userData == nil {
		return nil
	}
	copied := *r.userData
	return &copied
}

func (r *viewRouter) Role() domain.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.role
}
