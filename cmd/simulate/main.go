package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"

	"github.com/hackgods/medai-console/internal/config"
	"github.com/hackgods/medai-console/internal/logging"
)

type SimConfig struct {
	APIBaseURL     string
	Duration       time.Duration
	Workers        int
	WriteRatio     float64
	UpdateRatio    float64
	ReadRatio      float64
	InitialPatient int
}

type DataPool struct {
	mu           sync.RWMutex
	patients     []patientRef
	appointments []string
}

type patientRef struct {
	ID   string
	Name string
}

func (dp *DataPool) AddPatient(p patientRef) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.patients = append(dp.patients, p)
}

func (dp *DataPool) RandomPatient(rng *rand.Rand) (patientRef, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.patients) == 0 {
		return patientRef{}, false
	}
	return dp.patients[rng.Intn(len(dp.patients))], true
}

func (dp *DataPool) AddAppointment(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return "", false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Rejected  int64 // 4xx
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, status int, err error) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case err == nil && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case err == nil && status < 500:
		atomic.AddInt64(&om.Rejected, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]

	return avg, min, max, p50, p95
}

func percentileIndex(n, pct int) int {
	idx := n * pct / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	CreatePatient     OperationMetrics
	CreateAppointment OperationMetrics
	UpdateAppointment OperationMetrics
	GetPatient        OperationMetrics
	ListByPatient     OperationMetrics
	Dashboard         OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	token   string
	faker   *gofakeit.Faker
	fakerMu sync.Mutex
	metrics Metrics
	log     zerolog.Logger
}

func main() {
	cfg, baseCfg := loadConfig()
	logger := logging.New(baseCfg.Env, baseCfg.LogLevel).With().Str("service", "simulate").Logger()

	if err := validateConfig(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	logger.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("write", cfg.WriteRatio).
		Float64("update", cfg.UpdateRatio).
		Float64("read", cfg.ReadRatio).
		Msg("simulator starting")

	sim := &Simulator{
		config: cfg,
		pool:   &DataPool{},
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		faker: gofakeit.New(0),
		log:   logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sim.authenticate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("authenticate")
	}
	if err := sim.warmUp(ctx); err != nil {
		logger.Fatal().Err(err).Msg("warm up")
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() (SimConfig, config.Config) {
	baseCfg, err := config.Load()
	if err != nil {
		fallback := logging.New("dev", "info")
		fallback.Fatal().Err(err).Msg("failed to load base config")
	}

	cfg := SimConfig{
		APIBaseURL:     getEnv("SIM_API_BASE_URL", "http://localhost:"+baseCfg.HTTPPort),
		Duration:       getDuration("SIM_DURATION", 30*time.Second),
		Workers:        getInt("SIM_WORKERS", 10),
		WriteRatio:     getFloat("SIM_WRITE_RATIO", 0.3),
		UpdateRatio:    getFloat("SIM_UPDATE_RATIO", 0.2),
		ReadRatio:      getFloat("SIM_READ_RATIO", 0.5),
		InitialPatient: getInt("SIM_INITIAL_PATIENTS", 50),
	}

	// Normalize ratios
	total := cfg.WriteRatio + cfg.UpdateRatio + cfg.ReadRatio
	if total > 0 {
		cfg.WriteRatio /= total
		cfg.UpdateRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg, baseCfg
}

func validateConfig(cfg SimConfig) error {
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("SIM_API_BASE_URL is not a valid URL: %w", err)
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

// authenticate registers a throwaway doctor and logs in with it.
func (s *Simulator) authenticate(ctx context.Context) error {
	email := fmt.Sprintf("sim-%d@example.com", time.Now().UnixNano())
	password := "simulate-" + strconv.Itoa(rand.Intn(1_000_000))

	status, _, err := s.call(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":          "Dr. " + s.fake(func(f *gofakeit.Faker) string { return f.Name() }),
		"email":         email,
		"password":      password,
		"specialty":     "General Practice",
		"licenseNumber": "SIM0001",
	}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("register returned %d", status)
	}

	var resp struct {
		Token string `json:"token"`
	}
	status, _, err = s.call(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	if status != http.StatusOK || resp.Token == "" {
		return fmt.Errorf("login returned %d", status)
	}

	s.token = resp.Token
	s.log.Info().Str("email", email).Msg("authenticated")
	return nil
}

func (s *Simulator) warmUp(ctx context.Context) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < s.config.InitialPatient; i++ {
		s.doCreatePatient(ctx, rng)
	}
	if _, ok := s.pool.RandomPatient(rng); !ok {
		return fmt.Errorf("no patients could be created")
	}
	s.log.Info().Int("patients", s.config.InitialPatient).Msg("warm up complete")
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.log.Info().Dur("duration", s.config.Duration).Int("workers", s.config.Workers).Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			// Select operation based on ratios
			r := rng.Float64()
			switch {
			case r < s.config.WriteRatio:
				if rng.Intn(4) == 0 {
					s.doCreatePatient(ctx, rng)
				} else {
					s.doCreateAppointment(ctx, rng)
				}
			case r < s.config.WriteRatio+s.config.UpdateRatio:
				s.doUpdateAppointment(ctx, rng)
			default:
				switch rng.Intn(3) {
				case 0:
					s.doGetPatient(ctx, rng)
				case 1:
					s.doListByPatient(ctx, rng)
				case 2:
					s.doDashboard(ctx)
				}
			}
		}
	}
}

func (s *Simulator) doCreatePatient(ctx context.Context, rng *rand.Rand) {
	var first, last, phone string
	s.fake(func(f *gofakeit.Faker) string {
		first, last, phone = f.FirstName(), f.LastName(), f.Phone()
		return ""
	})

	var created struct {
		ID string `json:"id"`
	}
	start := time.Now()
	status, _, err := s.call(ctx, http.MethodPost, "/api/patients", map[string]string{
		"firstName":   first,
		"lastName":    last,
		"dateOfBirth": fmt.Sprintf("%d-%02d-%02d", 1940+rng.Intn(80), 1+rng.Intn(12), 1+rng.Intn(28)),
		"gender":      []string{"female", "male"}[rng.Intn(2)],
		"phone":       phone,
	}, &created)
	s.metrics.CreatePatient.Record(time.Since(start), status, err)

	if err == nil && status == http.StatusCreated && created.ID != "" {
		s.pool.AddPatient(patientRef{ID: created.ID, Name: first + " " + last})
	}
}

func (s *Simulator) doCreateAppointment(ctx context.Context, rng *rand.Rand) {
	p, ok := s.pool.RandomPatient(rng)
	if !ok {
		return
	}

	startAt := time.Now().UTC().Truncate(15 * time.Minute).Add(time.Duration(rng.Intn(14*24*4)) * 15 * time.Minute)

	var created struct {
		ID string `json:"id"`
	}
	start := time.Now()
	status, _, err := s.call(ctx, http.MethodPost, "/api/appointments", map[string]string{
		"patientId":   p.ID,
		"patientName": p.Name,
		"date":        startAt.Format(time.RFC3339),
		"endTime":     startAt.Add(30 * time.Minute).Format(time.RFC3339),
		"type":        []string{"Follow-up", "Check-up", "Emergency", "Consultation"}[rng.Intn(4)],
	}, &created)
	s.metrics.CreateAppointment.Record(time.Since(start), status, err)

	if err == nil && status == http.StatusCreated && created.ID != "" {
		s.pool.AddAppointment(created.ID)
	}
}

func (s *Simulator) doUpdateAppointment(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, _, err := s.call(ctx, http.MethodPut, "/api/appointments/"+id, map[string]string{
		"status": []string{"completed", "cancelled", "scheduled"}[rng.Intn(3)],
	}, nil)
	s.metrics.UpdateAppointment.Record(time.Since(start), status, err)
}

func (s *Simulator) doGetPatient(ctx context.Context, rng *rand.Rand) {
	p, ok := s.pool.RandomPatient(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, _, err := s.call(ctx, http.MethodGet, "/api/patients/"+p.ID, nil, nil)
	s.metrics.GetPatient.Record(time.Since(start), status, err)
}

func (s *Simulator) doListByPatient(ctx context.Context, rng *rand.Rand) {
	p, ok := s.pool.RandomPatient(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, _, err := s.call(ctx, http.MethodGet, "/api/appointments?patientId="+url.QueryEscape(p.ID), nil, nil)
	s.metrics.ListByPatient.Record(time.Since(start), status, err)
}

func (s *Simulator) doDashboard(ctx context.Context) {
	start := time.Now()
	status, _, err := s.call(ctx, http.MethodGet, "/api/dashboard/stats", nil, nil)
	s.metrics.Dashboard.Record(time.Since(start), status, err)
}

// call sends a JSON request and decodes a 2xx body into out when out is not
// nil.
func (s *Simulator) call(ctx context.Context, method, path string, body, out any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if out != nil && resp.StatusCode < 300 && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, raw, err
		}
	}
	return resp.StatusCode, raw, nil
}

// fake serializes access to the shared faker, which is not safe for
// concurrent use.
func (s *Simulator) fake(fn func(f *gofakeit.Faker) string) string {
	s.fakerMu.Lock()
	defer s.fakerMu.Unlock()
	return fn(s.faker)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Create patient", &s.metrics.CreatePatient)
	printOperationReport("Create appointment", &s.metrics.CreateAppointment)
	printOperationReport("Update appointment", &s.metrics.UpdateAppointment)
	printOperationReport("Get patient", &s.metrics.GetPatient)
	printOperationReport("List by patient", &s.metrics.ListByPatient)
	printOperationReport("Dashboard", &s.metrics.Dashboard)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	rejected := atomic.LoadInt64(&om.Rejected)
	failed := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if rejected > 0 {
		fmt.Printf("  Rejected: %d (%.1f%%)\n", rejected, float64(rejected)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}
