package api

import (
	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/auth"
	"github.com/hackgods/medai-console/internal/patient"
	"github.com/hackgods/medai-console/internal/validate"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Errors []validate.FieldError `json:"errors"`
}

type RegisterRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	Specialty     string `json:"specialty" validate:"required"`
	LicenseNumber string `json:"licenseNumber" validate:"required"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":          "Name is required",
		"email":         "Please include a valid email",
		"password":      "Please enter a password with 8 or more characters",
		"password.max":  msgPasswordTooLong,
		"specialty":     "Specialty is required",
		"licenseNumber": "License number is required",
	}
}

func (req RegisterRequest) toInput() auth.RegisterInput {
	return auth.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Specialty:     req.Specialty,
		LicenseNumber: req.LicenseNumber,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email":    "Please include a valid email",
		"password": "Password is required",
	}
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  auth.PublicAccount `json:"user"`
}

type UserResponse struct {
	User auth.PublicAccount `json:"user"`
}

type ProfileRequest struct {
	Name          *string `json:"name" validate:"omitnil,min=1"`
	Specialty     *string `json:"specialty" validate:"omitnil,min=1"`
	LicenseNumber *string `json:"licenseNumber" validate:"omitnil,min=1"`
}

func (ProfileRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":          "Name cannot be empty",
		"specialty":     "Specialty cannot be empty",
		"licenseNumber": "License number cannot be empty",
	}
}

func (req ProfileRequest) toPatch() auth.ProfilePatch {
	return auth.ProfilePatch{
		Name:          req.Name,
		Specialty:     req.Specialty,
		LicenseNumber: req.LicenseNumber,
	}
}

type CreatePatientRequest struct {
	FirstName             string `json:"firstName" validate:"required"`
	LastName              string `json:"lastName" validate:"required"`
	DateOfBirth           string `json:"dateOfBirth" validate:"required"`
	Gender                string `json:"gender" validate:"required"`
	Email                 string `json:"email" validate:"omitempty,email"`
	Phone                 string `json:"phone" validate:"required"`
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

var patientMessages = map[string]string{
	"firstName":   "First name is required",
	"lastName":    "Last name is required",
	"dateOfBirth": "Date of birth is required",
	"gender":      "Gender is required",
	"phone":       "Phone number is required",
	"email":       "Please include a valid email",
	"status":      "Status must be one of: active, inactive, critical, recovered",
}

func (CreatePatientRequest) ValidationMessages() map[string]string { return patientMessages }

func (req CreatePatientRequest) toFields() patient.Fields {
	return patient.Fields{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		City:                  req.City,
		State:                 req.State,
		Zip:                   req.Zip,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		Allergies:             req.Allergies,
		MedicalConditions:     req.MedicalConditions,
		CurrentMedications:    req.CurrentMedications,
	}
}

// UpdatePatientRequest is a partial update. id and the timestamps are not
// accepted from clients.
type UpdatePatientRequest struct {
	FirstName             *string `json:"firstName" validate:"omitnil,min=1"`
	LastName              *string `json:"lastName" validate:"omitnil,min=1"`
	DateOfBirth           *string `json:"dateOfBirth" validate:"omitnil,min=1"`
	Gender                *string `json:"gender" validate:"omitnil,min=1"`
	Email                 *string `json:"email" validate:"omitnil,email"`
	Phone                 *string `json:"phone" validate:"omitnil,min=1"`
	Address               *string `json:"address"`
	City                  *string `json:"city"`
	State                 *string `json:"state"`
	Zip                   *string `json:"zip"`
	EmergencyContactName  *string `json:"emergencyContactName"`
	EmergencyContactPhone *string `json:"emergencyContactPhone"`
	BloodType             *string `json:"bloodType"`
	Allergies             *string `json:"allergies"`
	MedicalConditions     *string `json:"medicalConditions"`
	CurrentMedications    *string `json:"currentMedications"`
	Status                *string `json:"status" validate:"omitnil,oneof=active inactive critical recovered"`
}

func (UpdatePatientRequest) ValidationMessages() map[string]string { return patientMessages }

func (req UpdatePatientRequest) toPatch() patient.Patch {
	p := patient.Patch{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		City:                  req.City,
		State:                 req.State,
		Zip:                   req.Zip,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		Allergies:             req.Allergies,
		MedicalConditions:     req.MedicalConditions,
		CurrentMedications:    req.CurrentMedications,
	}
	if req.Status != nil {
		s := patient.Status(*req.Status)
		p.Status = &s
	}
	return p
}

type CreateAppointmentRequest struct {
	PatientID   string `json:"patientId" validate:"required"`
	PatientName string `json:"patientName" validate:"required"`
	Date        string `json:"date" validate:"required,timestamp"`
	EndTime     string `json:"endTime" validate:"omitempty,timestamp"`
	Type        string `json:"type" validate:"required"`
	Notes       string `json:"notes"`
}

var appointmentMessages = map[string]string{
	"patientId":       "Patient ID is required",
	"patientName":     "Patient name is required",
	"date":            "Appointment date is required",
	"date.timestamp":  "Appointment date must be a valid date and time",
	"endTime":         "End time must be a valid date and time",
	"type":            "Appointment type is required",
	"status":          "Status must be one of: scheduled, completed, cancelled, no_show",
	"patientId.min":   "Patient ID cannot be empty",
	"patientName.min": "Patient name cannot be empty",
	"type.min":        "Appointment type cannot be empty",
}

func (CreateAppointmentRequest) ValidationMessages() map[string]string { return appointmentMessages }

// toInput expects a validated request.
func (req CreateAppointmentRequest) toInput() appointment.Input {
	in := appointment.Input{
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Type:        req.Type,
		Notes:       req.Notes,
	}
	in.Date, _ = validate.ParseTimestamp(req.Date)
	if req.EndTime != "" {
		end, _ := validate.ParseTimestamp(req.EndTime)
		in.EndTime = &end
	}
	return in
}

type UpdateAppointmentRequest struct {
	PatientID   *string `json:"patientId" validate:"omitnil,min=1"`
	PatientName *string `json:"patientName" validate:"omitnil,min=1"`
	Date        *string `json:"date" validate:"omitnil,timestamp"`
	EndTime     *string `json:"endTime" validate:"omitnil,timestamp_or_empty"`
	Type        *string `json:"type" validate:"omitnil,min=1"`
	Status      *string `json:"status" validate:"omitnil,oneof=scheduled completed cancelled no_show"`
	Notes       *string `json:"notes"`
}

func (UpdateAppointmentRequest) ValidationMessages() map[string]string { return appointmentMessages }

// toPatch expects a validated request.
func (req UpdateAppointmentRequest) toPatch() appointment.Patch {
	p := appointment.Patch{
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Type:        req.Type,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		d, _ := validate.ParseTimestamp(*req.Date)
		p.Date = &d
	}
	switch {
	case req.EndTime == nil:
	case *req.EndTime == "":
		p.ClearEndTime = true
	default:
		e, _ := validate.ParseTimestamp(*req.EndTime)
		p.EndTime = &e
	}
	if req.Status != nil {
		s := appointment.AppointmentStatus(*req.Status)
		p.Status = &s
	}
	return p
}
