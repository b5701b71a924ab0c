package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/auth"
	"github.com/hackgods/medai-console/internal/config"
	"github.com/hackgods/medai-console/internal/db"
	"github.com/hackgods/medai-console/internal/demo"
	"github.com/hackgods/medai-console/internal/logging"
	"github.com/hackgods/medai-console/internal/patient"
	redisclient "github.com/hackgods/medai-console/internal/redis"
)

type seedOptions struct {
	doctors      int
	patients     int
	appointments int
	days         int
	withDemo     bool
}

func main() {
	opts := seedOptions{}

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill PostgreSQL with fake doctors, patients and appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.IntVar(&opts.doctors, "doctors", 10, "doctor accounts to register")
	flags.IntVar(&opts.patients, "patients", 500, "patients to create")
	flags.IntVar(&opts.appointments, "appointments", 2000, "appointments to create")
	flags.IntVar(&opts.days, "days", 30, "spread appointments over this many days around today")
	flags.BoolVar(&opts.withDemo, "demo", true, "also load the fixed demo account and records")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts seedOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.UsePostgres() {
		return fmt.Errorf("POSTGRES_DSN is required")
	}

	logger := logging.New(cfg.Env, cfg.LogLevel).With().Str("service", "seed").Logger()
	logger.Info().Msg("seed starting")

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := db.Open(connCtx, cfg.PostgresDSN)
	cancel()
	if err != nil {
		return err
	}
	defer pool.Close()

	// services log every write; keep the seed output readable
	quiet := logger.Level(zerolog.WarnLevel)

	authSvc := auth.NewService(
		auth.NewPgRepository(pool),
		redisclient.NewLocalLocker(cfg.LockTTL),
		auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		quiet,
	)
	patientSvc := patient.NewService(patient.NewPgRepository(pool), quiet)
	apptSvc := appointment.NewService(appointment.NewPgRepository(pool), quiet)

	faker := gofakeit.New(0)

	if opts.withDemo {
		if err := demo.Load(ctx, authSvc, patientSvc, apptSvc); err != nil {
			return err
		}
		logger.Info().Str("email", auth.DemoEmail).Msg("demo data loaded")
	}

	if err := seedDoctors(ctx, authSvc, faker, opts.doctors, logger); err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}

	patients, err := seedPatients(ctx, patientSvc, faker, opts.patients, logger)
	if err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}

	if err := seedAppointments(ctx, apptSvc, faker, patients, opts, logger); err != nil {
		return fmt.Errorf("seed appointments: %w", err)
	}

	logger.Info().Msg("seed complete")
	return nil
}

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func seedDoctors(ctx context.Context, svc *auth.Service, faker *gofakeit.Faker, count int, logger zerolog.Logger) error {
	logger.Info().Int("count", count).Msg("seeding doctors")

	for i := 0; i < count; i++ {
		_, err := svc.Register(ctx, auth.RegisterInput{
			Name:          "Dr. " + faker.Name(),
			Email:         fmt.Sprintf("doctor%03d@example.com", i+1),
			Password:      auth.DemoPassword,
			Specialty:     faker.RandomString(specialties),
			LicenseNumber: faker.Numerify("MD#####"),
		})
		if err != nil && !errors.Is(err, auth.ErrEmailTaken) {
			return err
		}
	}

	logger.Info().Str("password", auth.DemoPassword).Msg("doctors seeded")
	return nil
}

var (
	bloodTypes  = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	allergies   = []string{"", "", "Penicillin", "Sulfa drugs", "Peanuts", "Latex", "Shellfish"}
	conditions  = []string{"", "Hypertension", "Asthma", "Type 2 Diabetes", "Hypothyroidism", "Migraine"}
	medications = []string{"", "Lisinopril 10mg", "Metformin 500mg", "Albuterol inhaler", "Levothyroxine 50mcg"}
	statuses    = []patient.Status{
		patient.StatusActive, patient.StatusActive, patient.StatusActive,
		patient.StatusInactive, patient.StatusCritical, patient.StatusRecovered,
	}
)

func seedPatients(ctx context.Context, svc *patient.Service, faker *gofakeit.Faker, count int, logger zerolog.Logger) ([]patient.Patient, error) {
	logger.Info().Int("count", count).Msg("seeding patients")

	const progressEvery = 100

	out := make([]patient.Patient, 0, count)
	now := time.Now()
	for i := 0; i < count; i++ {
		addr := faker.Address()
		first, last := faker.FirstName(), faker.LastName()

		p, err := svc.Create(ctx, patient.Fields{
			FirstName:             first,
			LastName:              last,
			DateOfBirth:           faker.DateRange(now.AddDate(-95, 0, 0), now.AddDate(-1, 0, 0)).Format("2006-01-02"),
			Gender:                faker.RandomString([]string{"female", "male", "other"}),
			Email:                 faker.Email(),
			Phone:                 faker.Phone(),
			Address:               addr.Street,
			City:                  addr.City,
			State:                 addr.State,
			Zip:                   addr.Zip,
			EmergencyContactName:  faker.FirstName() + " " + last,
			EmergencyContactPhone: faker.Phone(),
			BloodType:             faker.RandomString(bloodTypes),
			Allergies:             faker.RandomString(allergies),
			MedicalConditions:     faker.RandomString(conditions),
			CurrentMedications:    faker.RandomString(medications),
		})
		if err != nil {
			return nil, err
		}

		if st := statuses[faker.Number(0, len(statuses)-1)]; st != patient.StatusActive {
			if p, err = svc.Update(ctx, p.ID, patient.Patch{Status: &st}); err != nil {
				return nil, err
			}
		}
		out = append(out, *p)

		if (i+1)%progressEvery == 0 {
			logger.Info().Msgf("patients seeded: %d/%d", i+1, count)
		}
	}

	logger.Info().Msg("patients seeded")
	return out, nil
}

var (
	appointmentTypes = []string{
		appointment.TypeFollowUp,
		appointment.TypeCheckUp,
		appointment.TypeEmergency,
		appointment.TypeConsultation,
	}
	appointmentNotes = []string{
		"",
		"",
		"Review latest lab results",
		"Medication adjustment",
		"Patient reports persistent headaches",
		"Annual physical",
	}
	slotLengths = []time.Duration{15 * time.Minute, 30 * time.Minute, 45 * time.Minute, time.Hour}
)

func seedAppointments(ctx context.Context, svc *appointment.Service, faker *gofakeit.Faker, patients []patient.Patient, opts seedOptions, logger zerolog.Logger) error {
	if len(patients) == 0 || opts.appointments == 0 {
		return nil
	}
	logger.Info().Int("count", opts.appointments).Msg("seeding appointments")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < opts.appointments; i++ {
		p := patients[faker.Number(0, len(patients)-1)]

		// working hours 08:00-17:45 on 15 minute boundaries
		day := today.AddDate(0, 0, faker.Number(-opts.days/2, opts.days/2))
		start := day.Add(8*time.Hour + time.Duration(faker.Number(0, 39))*15*time.Minute)
		end := start.Add(slotLengths[faker.Number(0, len(slotLengths)-1)])

		_, err := svc.Create(ctx, appointment.Input{
			PatientID:   p.ID,
			PatientName: p.FullName(),
			Date:        start,
			EndTime:     &end,
			Type:        faker.RandomString(appointmentTypes),
			Notes:       faker.RandomString(appointmentNotes),
		})
		if err != nil {
			return err
		}
	}

	logger.Info().Msg("appointments seeded")
	return nil
}
