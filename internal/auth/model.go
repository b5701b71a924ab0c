package auth

import (
	"strings"
	"time"
)

// RoleDoctor is the only role handed out at registration.
const RoleDoctor = "doctor"

type Account struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Specialty     string
	LicenseNumber string
	Role          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicAccount is what the API returns for an account. It never carries the
// password hash.
type PublicAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"licenseNumber"`
	Role          string `json:"role"`
}

func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Specialty:     a.Specialty,
		LicenseNumber: a.LicenseNumber,
		Role:          a.Role,
	}
}

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Specialty     string
	LicenseNumber string
}

// ProfilePatch is a partial profile update. Email, password and role are not
// editable here.
type ProfilePatch struct {
	Name          *string
	Specialty     *string
	LicenseNumber *string
}

func (p ProfilePatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Specialty != nil {
		a.Specialty = *p.Specialty
	}
	if p.LicenseNumber != nil {
		a.LicenseNumber = *p.LicenseNumber
	}
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
