package patient

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCritical  Status = "critical"
	StatusRecovered Status = "recovered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusCritical, StatusRecovered:
		return true
	}
	return false
}

// Fields is everything a client can set on a patient record.
type Fields struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	DateOfBirth           string `json:"dateOfBirth"`
	Gender                string `json:"gender"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Address               string `json:"address"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	Zip                   string `json:"zip"`
	EmergencyContactName  string `json:"emergencyContactName"`
	EmergencyContactPhone string `json:"emergencyContactPhone"`
	BloodType             string `json:"bloodType"`
	Allergies             string `json:"allergies"`
	MedicalConditions     string `json:"medicalConditions"`
	CurrentMedications    string `json:"currentMedications"`
}

type Patient struct {
	ID string `json:"id"`
	Fields
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	FirstName             *string
	LastName              *string
	DateOfBirth           *string
	Gender                *string
	Email                 *string
	Phone                 *string
	Address               *string
	City                  *string
	State                 *string
	Zip                   *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	BloodType             *string
	Allergies             *string
	MedicalConditions     *string
	CurrentMedications    *string
	Status                *Status
}

// Apply shallow-merges the patch over p.
func (pt Patch) Apply(p *Patient) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&p.FirstName, pt.FirstName)
	set(&p.LastName, pt.LastName)
	set(&p.DateOfBirth, pt.DateOfBirth)
	set(&p.Gender, pt.Gender)
	set(&p.Email, pt.Email)
	set(&p.Phone, pt.Phone)
	set(&p.Address, pt.Address)
	set(&p.City, pt.City)
	set(&p.State, pt.State)
	set(&p.Zip, pt.Zip)
	set(&p.EmergencyContactName, pt.EmergencyContactName)
	set(&p.EmergencyContactPhone, pt.EmergencyContactPhone)
	set(&p.BloodType, pt.BloodType)
	set(&p.Allergies, pt.Allergies)
	set(&p.MedicalConditions, pt.MedicalConditions)
	set(&p.CurrentMedications, pt.CurrentMedications)

	if pt.Status != nil {
		p.Status = *pt.Status
	}
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status Status
	Search string // case-insensitive match on "first last"
}

func (f Filter) Matches(p Patient) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Search != "" {
		name := strings.ToLower(p.FirstName + " " + p.LastName)
		if !strings.Contains(name, strings.ToLower(strings.TrimSpace(f.Search))) {
			return false
		}
	}
	return true
}
