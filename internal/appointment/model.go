package appointment

import (
	"time"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Conventional appointment types. Type is free text; these are only what the
// console offers in its picker.
const (
	TypeFollowUp     = "Follow-up"
	TypeCheckUp      = "Check-up"
	TypeEmergency    = "Emergency"
	TypeConsultation = "Consultation"
)

type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patientId"`
	PatientName string            `json:"patientName"`
	Date        time.Time         `json:"date"`
	EndTime     *time.Time        `json:"endTime,omitempty"`
	Type        string            `json:"type"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// Ends returns the end of the appointment, falling back to its start when no
// end time was recorded.
func (a Appointment) Ends() time.Time {
	if a.EndTime != nil {
		return *a.EndTime
	}
	return a.Date
}

// Input carries the client supplied fields of a new appointment.
type Input struct {
	PatientID   string
	PatientName string
	Date        time.Time
	EndTime     *time.Time
	Type        string
	Notes       string
}

// Patch is a partial update. Nil fields are left untouched. ClearEndTime
// drops a recorded end time and wins over EndTime.
type Patch struct {
	PatientID    *string
	PatientName  *string
	Date         *time.Time
	EndTime      *time.Time
	ClearEndTime bool
	Type         *string
	Status       *AppointmentStatus
	Notes        *string
}

// Apply shallow-merges the patch over a.
func (p Patch) Apply(a *Appointment) {
	if p.PatientID != nil {
		a.PatientID = *p.PatientID
	}
	if p.PatientName != nil {
		a.PatientName = *p.PatientName
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.EndTime != nil {
		end := *p.EndTime
		a.EndTime = &end
	}
	if p.ClearEndTime {
		a.EndTime = nil
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
}

// Filter narrows List results. Zero values match everything. From is
// inclusive and To exclusive, both compared against Date.
type Filter struct {
	Status    AppointmentStatus
	PatientID string
	From      time.Time
	To        time.Time
}

func (f Filter) Matches(a Appointment) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.PatientID != "" && a.PatientID != f.PatientID {
		return false
	}
	if !f.From.IsZero() && a.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !a.Date.Before(f.To) {
		return false
	}
	return true
}
