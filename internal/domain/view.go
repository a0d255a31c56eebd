package domain

import "strings"

// View identifies the single screen the application shell shows.
// Exactly one is active at a time.
type View string

const (
	ViewLanding            View = "landing"
	ViewAuth               View = "auth"
	ViewRoleSelection      View = "role-selection"
	ViewFeed               View = "feed"
	ViewDashboard          View = "dashboard"
	ViewNetwork            View = "network"
	ViewCommunity          View = "community"
	ViewProjects           View = "projects"
	ViewOpportunities      View = "opportunities"
	ViewApplications       View = "applications"
	ViewEmployer           View = "employer"
	ViewEmployerOnboarding View = "employer-onboarding"
	ViewPostOpportunity    View = "post-opportunity"
	ViewPayments           View = "payments"
	ViewPremium            View = "premium"
	ViewCompanyProfile     View = "company-profile"
	ViewTalentPool         View = "talent-pool"
	ViewProfile            View = "profile"
	ViewSettings           View = "settings"

	// Standalone showcase screens, reachable without authentication and
	// selectable only via the startup address fragment.
	ViewShowcase   View = "showcase"
	ViewFeedback   View = "feedback"
	ViewNavigation View = "navigation"
)

// viewAccess classifies who can see a view. Using a table instead of a
// per-view switch keeps the gate exhaustive over the enum.
type viewAccess int

const (
	accessPublic    viewAccess = iota // reachable regardless of auth state
	accessGuestOnly                   // only while unauthenticated
	accessAuthOnly                    // requires authentication
)

var viewTable = map[View]viewAccess{
	ViewShowcase:   accessPublic,
	ViewFeedback:   accessPublic,
	ViewNavigation: accessPublic,

	ViewLanding: accessGuestOnly,
	ViewAuth:    accessGuestOnly,

	ViewRoleSelection:      accessAuthOnly,
	ViewFeed:               accessAuthOnly,
	ViewDashboard:          accessAuthOnly,
	ViewNetwork:            accessAuthOnly,
	ViewCommunity:          accessAuthOnly,
	ViewProjects:           accessAuthOnly,
	ViewOpportunities:      accessAuthOnly,
	ViewApplications:       accessAuthOnly,
	ViewEmployer:           accessAuthOnly,
	ViewEmployerOnboarding: accessAuthOnly,
	ViewPostOpportunity:    accessAuthOnly,
	ViewPayments:           accessAuthOnly,
	ViewPremium:            accessAuthOnly,
	ViewCompanyProfile:     accessAuthOnly,
	ViewTalentPool:         accessAuthOnly,
	ViewProfile:            accessAuthOnly,
	ViewSettings:           accessAuthOnly,
}

// IsValid checks if the view is part of the enumerated set.
func (v View) IsValid() bool {
	_, ok := viewTable[v]
	return ok
}

// ResolveView is the structural auth gate: a pure function of the stored
// view and the authentication flag deciding what is actually shown.
// Showcase views pass unconditionally. Guest-only views flip to the feed
// once authenticated. Everything else falls back to the landing view while
// unauthenticated, regardless of what the stored view holds.
func ResolveView(current View, authenticated bool) View {
	access, ok := viewTable[current]
	if !ok {
		if authenticated {
			return ViewFeed
		}
		return ViewLanding
	}

	switch access {
	case accessPublic:
		return current
	case accessGuestOnly:
		if authenticated {
			return ViewFeed
		}
		return current
	default: // accessAuthOnly
		if !authenticated {
			return ViewLanding
		}
		return current
	}
}

// InitialView derives the startup view from the address fragment.
// Only the three showcase fragments are recognized; anything else,
// including an empty fragment, lands on the landing view.
func InitialView(fragment string) View {
	switch View(strings.TrimPrefix(fragment, "#")) {
	case ViewShowcase:
		return ViewShowcase
	case ViewFeedback:
		return ViewFeedback
	case ViewNavigation:
		return ViewNavigation
	default:
		return ViewLanding
	}
}
