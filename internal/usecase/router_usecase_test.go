package usecase_test

import (
	"testing"

	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestInitialViewFromFragment(t *testing.T) {
	cases := map[string]domain.View{
		"":            domain.ViewLanding,
		"#showcase":   domain.ViewShowcase,
		"#feedback":   domain.ViewFeedback,
		"#navigation": domain.ViewNavigation,
		"#feed":       domain.ViewLanding,
		"#garbage":    domain.ViewLanding,
	}
	for fragment, want := range cases {
		r := usecase.NewViewRouter(fragment)
		assert.Equal(t, want, r.CurrentView(), "fragment %q", fragment)
	}
}

func TestViewResolution(t *testing.T) {
	t.Run("Unauthenticated users cannot see app views", func(t *testing.T) {
		r := usecase.NewViewRouter("")
		r.Navigate(domain.ViewDashboard)

		assert.Equal(t, domain.ViewDashboard, r.CurrentView())
		assert.Equal(t, domain.ViewLanding, r.ResolvedView())
	})

	t.Run("Showcase views pass regardless of auth state", func(t *testing.T) {
		r := usecase.NewViewRouter("#showcase")
		assert.Equal(t, domain.ViewShowcase, r.ResolvedView())

		r.CompleteAuth(domain.Profile{ID: "u1"})
		r.Navigate(domain.ViewFeedback)
		assert.Equal(t, domain.ViewFeedback, r.ResolvedView())
	})

	t.Run("Guest-only views flip to feed once authenticated", func(t *testing.T) {
		r := usecase.NewViewRouter("")
		r.CompleteAuth(domain.Profile{ID: "u1"})
		r.Navigate(domain.ViewAuth)

		assert.Equal(t, domain.ViewFeed, r.ResolvedView())
	})
}

func TestCompleteAuth(t *testing.T) {
	r := usecase.NewViewRouter("")
	r.CompleteAuth(domain.Profile{ID: "u1", Name: "Alex", Role: domain.RoleEmployer})

	assert.True(t, r.IsAuthenticated())
	assert.Equal(t, domain.ViewFeed, r.CurrentView())
	// Completing auth always restarts from the job seeker role, whatever
	// the profile says; role selection happens afterwards.
	assert.Equal(t, domain.RoleJobSeeker, r.Role())
	if assert.NotNil(t, r.UserData()) {
		assert.Equal(t, "Alex", r.UserData().Name)
	}

	// Repeating the call changes nothing.
	r.CompleteAuth(domain.Profile{ID: "u1", Name: "Alex", Role: domain.RoleEmployer})
	assert.Equal(t, domain.ViewFeed, r.CurrentView())
	assert.Equal(t, domain.RoleJobSeeker, r.Role())
}

func TestNavigatePostOpportunityGate(t *testing.T) {
	t.Run("Redirects to onboarding without company data", func(t *testing.T) {
		r := usecase.NewViewRouter("")
		r.CompleteAuth(domain.Profile{ID: "u1"})

		r.Navigate(domain.ViewPostOpportunity)

		assert.Equal(t, domain.ViewEmployerOnboarding, r.CurrentView())
	})

	t.Run("Passes through once company data exists", func(t *testing.T) {
		r := usecase.NewViewRouter("")
		r.CompleteAuth(domain.Profile{ID: "u1"})
		r.CompleteEmployerOnboarding(domain.CompanyData{Name: "Acme"})

		r.Navigate(domain.ViewPostOpportunity)

		assert.Equal(t, domain.ViewPostOpportunity, r.CurrentView())
	})
}

func TestEmployerOnboarding(t *testing.T) {
	r := usecase.NewViewRouter("")
	r.CompleteAuth(domain.Profile{ID: "u1"})

	r.CompleteEmployerOnboarding(domain.CompanyData{Name: "Acme", Industry: "Robotics"})

	assert.Equal(t, domain.ViewEmployer, r.CurrentView())
	if assert.True(t, r.UserData().HasCompanyData()) {
		assert.Equal(t, "Acme", r.UserData().CompanyData.Name)
	}
}

func TestSaveCompanyProfile(t *testing.T) {
	r := usecase.NewViewRouter("")
	r.CompleteAuth(domain.Profile{ID: "u1"})
	r.CompleteEmployerOnboarding(domain.CompanyData{Name: "Acme", Industry: "Robotics"})
	before := r.CurrentView()

	r.SaveCompanyProfile(domain.CompanyData{Website: "https://acme.example"})

	// Partial saves merge without navigating.
	assert.Equal(t, before, r.CurrentView())
	company := r.UserData().CompanyData
	assert.Equal(t, "Acme", company.Name)
	assert.Equal(t, "Robotics", company.Industry)
	assert.Equal(t, "https://acme.example", company.Website)
}

func TestLogout(t *testing.T) {
	r := usecase.NewViewRouter("")
	r.CompleteAuth(domain.Profile{ID: "u1"})
	r.Navigate(domain.ViewSettings)

	r.Logout()

	assert.False(t, r.IsAuthenticated())
	assert.Nil(t, r.UserData())
	assert.Equal(t, domain.Role(""), r.Role())
	assert.Equal(t, domain.ViewLanding, r.CurrentView())
	assert.Equal(t, domain.ViewLanding, r.ResolvedView())
}

func TestApplications(t *testing.T) {
	t.Run("Preserves submission order and assigns IDs", func(t *testing.T) {
		r := usecase.NewViewRouter("")

		first := r.ApplyForJob(domain.Application{JobID: "job-1"})
		second := r.ApplyForJob(domain.Application{JobID: "job-2"})

		assert.NotEmpty(t, first.ID)
		assert.NotEmpty(t, second.ID)
		assert.NotEqual(t, first.ID, second.ID)
		assert.False(t, first.AppliedAt.IsZero())

		apps := r.Applications()
		if assert.Len(t, apps, 2) {
			assert.Equal(t, "job-1", apps[0].JobID)
			assert.Equal(t, "job-2", apps[1].JobID)
		}
	})

	t.Run("Allows duplicate applications for the same job", func(t *testing.T) {
		r := usecase.NewViewRouter("")
		r.ApplyForJob(domain.Application{JobID: "job-1"})
		r.ApplyForJob(domain.Application{JobID: "job-1"})

		assert.Len(t, r.Applications(), 2)
	})

	t.Run("Withdraw removes every application for the job", func(t *testing.T) {
		r := usecase.NewViewRouter("")
		r.ApplyForJob(domain.Application{JobID: "job-1"})
		r.ApplyForJob(domain.Application{JobID: "job-2"})
		r.ApplyForJob(domain.Application{JobID: "job-1"})

		assert.True(t, r.WithdrawApplication("job-1"))

		apps := r.Applications()
		if assert.Len(t, apps, 1) {
			assert.Equal(t, "job-2", apps[0].JobID)
		}
	})

	t.Run("Withdraw reports false when nothing matches", func(t *testing.T) {
		r := usecase.NewViewRouter("")
		assert.False(t, r.WithdrawApplication("job-404"))
	})
}

func TestMessagesDrawer(t *testing.T) {
	r := usecase.NewViewRouter("")
	assert.False(t, r.MessagesOpen())

	r.OpenMessages()
	assert.True(t, r.MessagesOpen())

	r.CloseMessages()
	assert.False(t, r.MessagesOpen())
}
