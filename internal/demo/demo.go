// Package demo holds the fixed records a fresh in-memory install starts
// with: one doctor account, two patients and a day of appointments.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/patient"
)

var namespace = uuid.MustParse("5b0f3c3e-8f0e-4d8a-9a51-0d6f4c7e2a10")

// ID derives a stable identifier so demo records keep the same ids across
// restarts.
func ID(kind, key string) string {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key)).String()
}

type AccountSeeder interface {
	SeedDemo(ctx context.Context) error
}

type PatientSeeder interface {
	Seed(ctx context.Context, patients []patient.Patient) error
}

type AppointmentSeeder interface {
	Seed(ctx context.Context, appointments []appointment.Appointment) error
}

// Load inserts every demo record that is not already present.
func Load(ctx context.Context, accounts AccountSeeder, patients PatientSeeder, appointments AppointmentSeeder) error {
	if err := accounts.SeedDemo(ctx); err != nil {
		return err
	}
	if err := patients.Seed(ctx, Patients()); err != nil {
		return fmt.Errorf("demo patients: %w", err)
	}
	if err := appointments.Seed(ctx, Appointments()); err != nil {
		return fmt.Errorf("demo appointments: %w", err)
	}
	return nil
}

func at(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func Patients() []patient.Patient {
	return []patient.Patient{
		{
			ID: ID("patient", "1"),
			Fields: patient.Fields{
				FirstName:             "Emma",
				LastName:              "Johnson",
				DateOfBirth:           "1980-05-15",
				Gender:                "female",
				Email:                 "emma.johnson@example.com",
				Phone:                 "(555) 123-4567",
				Address:               "123 Main St",
				City:                  "Boston",
				State:                 "MA",
				Zip:                   "02108",
				EmergencyContactName:  "John Johnson",
				EmergencyContactPhone: "(555) 987-6543",
				BloodType:             "A+",
				Allergies:             "Penicillin",
				MedicalConditions:     "Hypertension, Asthma",
				CurrentMedications:    "Lisinopril 10mg, Albuterol inhaler",
			},
			Status:    patient.StatusActive,
			CreatedAt: at("2025-01-15T08:30:00"),
			UpdatedAt: at("2025-05-10T14:45:00"),
		},
		{
			ID: ID("patient", "2"),
			Fields: patient.Fields{
				FirstName:             "Robert",
				LastName:              "Smith",
				DateOfBirth:           "1963-07-15",
				Gender:                "male",
				Email:                 "robert.smith@example.com",
				Phone:                 "(555) 123-4567",
				Address:               "456 Oak Ave",
				City:                  "Springfield",
				State:                 "IL",
				Zip:                   "62704",
				EmergencyContactName:  "Mary Smith",
				EmergencyContactPhone: "(555) 987-6543",
				BloodType:             "B+",
				Allergies:             "Penicillin, Sulfa drugs",
				MedicalConditions:     "Hypertension, Type 2 Diabetes",
				CurrentMedications:    "Lisinopril 10mg, Metformin 500mg",
			},
			Status:    patient.StatusCritical,
			CreatedAt: at("2025-02-20T10:15:00"),
			UpdatedAt: at("2025-05-12T09:30:00"),
		},
	}
}

// Appointments includes one for a patient that is not in Patients();
// appointment patient references are not checked.
func Appointments() []appointment.Appointment {
	appt := func(key, patientKey, name, start, end, kind, notes, created string) appointment.Appointment {
		e := at(end)
		return appointment.Appointment{
			ID:          ID("appointment", key),
			PatientID:   ID("patient", patientKey),
			PatientName: name,
			Date:        at(start),
			EndTime:     &e,
			Type:        kind,
			Status:      appointment.StatusScheduled,
			Notes:       notes,
			CreatedAt:   at(created),
			UpdatedAt:   at(created),
		}
	}

	return []appointment.Appointment{
		appt("1", "1", "Emma Johnson", "2025-05-15T10:30:00", "2025-05-15T11:00:00",
			appointment.TypeFollowUp, "", "2025-05-01T09:15:00"),
		appt("2", "5", "Michael Davis", "2025-05-15T11:45:00", "2025-05-15T12:15:00",
			appointment.TypeConsultation, "New patient consultation for chronic back pain", "2025-05-02T14:30:00"),
		appt("3", "2", "Robert Smith", "2025-05-15T14:00:00", "2025-05-15T15:00:00",
			appointment.TypeEmergency, "Patient reporting severe chest pain and shortness of breath", "2025-05-15T08:45:00"),
	}
}
