package domain

import (
	"context"
	"time"
)

// Role is the marketplace-facing role stored on a profile.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
	RoleBoth      Role = "both"
)

// ValidRoles returns all roles a profile may carry.
func ValidRoles() []Role {
	return []Role{RoleJobSeeker, RoleEmployer, RoleBoth}
}

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	for _, valid := range ValidRoles() {
		if r == valid {
			return true
		}
	}
	return false
}

// CompanyData is the subset of profile fields that establishes employer
// capability. Its presence gates job posting at navigation time.
type CompanyData struct {
	Name        string `json:"name"`
	Industry    string `json:"industry,omitempty"`
	Location    string `json:"location,omitempty"`
	Website     string `json:"website,omitempty"`
	Size        string `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
}

// Merge overlays the non-empty fields of partial onto c and returns the result.
func (c CompanyData) Merge(partial CompanyData) CompanyData {
	if partial.Name != "" {
		c.Name = partial.Name
	}
	if partial.Industry != "" {
		c.Industry = partial.Industry
	}
	if partial.Location != "" {
		c.Location = partial.Location
	}
	if partial.Website != "" {
		c.Website = partial.Website
	}
	if partial.Size != "" {
		c.Size = partial.Size
	}
	if partial.Description != "" {
		c.Description = partial.Description
	}
	if partial.LogoURL != "" {
		c.LogoURL = partial.LogoURL
	}
	return c
}

// Profile is the application-owned record of user-facing attributes,
// keyed by the Supabase user UUID. Distinct from the identity record.
type Profile struct {
	ID          string       `json:"id"` // Supabase UUID
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	Role        Role         `json:"role"`
	Industries  []string     `json:"industries"`
	Skills      []string     `json:"skills"`
	Goal        string       `json:"goal"`
	CompanyData *CompanyData `json:"company_data,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasCompanyData reports whether employer onboarding has completed.
func (p *Profile) HasCompanyData() bool {
	return p != nil && p.CompanyData != nil && p.CompanyData.Name != ""
}

// ProfileUpdate carries a partial-field merge. Nil fields are left untouched.
type ProfileUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Location    *string      `json:"location,omitempty"`
	Role        *Role        `json:"role,omitempty" validate:"omitempty,oneof=job_seeker employer both"`
	Industries  *[]string    `json:"industries,omitempty"`
	Skills      *[]string    `json:"skills,omitempty"`
	Goal        *string      `json:"goal,omitempty"`
	CompanyData *CompanyData `json:"company_data,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Location == nil && u.Role == nil &&
		u.Industries == nil && u.Skills == nil && u.Goal == nil &&
		u.CompanyData == nil
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	Create(ctx context.Context, profile *Profile) error
	UpdatePartial(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error)
}
