package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/auth"
	"github.com/hackgods/medai-console/internal/dashboard"
	"github.com/hackgods/medai-console/internal/diagnostic"
	"github.com/hackgods/medai-console/internal/patient"
	redisclient "github.com/hackgods/medai-console/internal/redis"
)

const testSecret = "test-secret"

var testNow = time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	patients := patient.NewService(patient.NewMemoryRepository(), logger)
	appointments := appointment.NewService(appointment.NewMemoryRepository(), logger)

	return NewRouter(RouterConfig{
		Auth: auth.NewService(
			auth.NewMemoryRepository(),
			redisclient.NewLocalLocker(time.Second),
			auth.NewTokens(testSecret, 24*time.Hour),
			logger,
		),
		Patients:       patients,
		Appointments:   appointments,
		Diagnostics:    diagnostic.NewService(diagnostic.NewStubBackend(0, 0), logger),
		Dashboard:      dashboard.NewService(patients, appointments),
		Logger:         logger,
		MaxUploadBytes: 1 << 20,
		Env:            "test",
		Now:            func() time.Time { return testNow },
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

var doctor = map[string]string{
	"name":          "Dr. Ann Lee",
	"email":         "ann@example.com",
	"password":      "correct-horse",
	"specialty":     "Neurology",
	"licenseNumber": "MD777",
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/api/auth/register", doctor, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    doctor["email"],
		"password": doctor["password"],
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decode[LoginResponse](t, rec).Token
}

func TestRootAndHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MedAI API is running", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodGet, "/health/ready", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[ReadinessResponse](t, rec)
	assert.Equal(t, "ok", ready.Status)
	assert.Equal(t, "disabled", ready.Dependencies["postgres"])
}

func TestRegister(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/auth/register", doctor, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", decode[MessageResponse](t, rec).Message)

	rec = do(t, h, http.MethodPost, "/api/auth/register", doctor, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode[ErrorResponse](t, rec).Message)

	short := map[string]string{}
	for k, v := range doctor {
		short[k] = v
	}
	short["email"] = "other@example.com"
	short["password"] = "1234567"

	rec = do(t, h, http.MethodPost, "/api/auth/register", short, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	verr := decode[ValidationErrorResponse](t, rec)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "password", verr.Errors[0].Param)
	assert.Equal(t, "Please enter a password with 8 or more characters", verr.Errors[0].Msg)
	assert.Equal(t, "body", verr.Errors[0].Location)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	h := newTestRouter(t)

	for _, pw := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		long := map[string]string{}
		for k, v := range doctor {
			long[k] = v
		}
		long["password"] = pw

		rec := do(t, h, http.MethodPost, "/api/auth/register", long, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		verr := decode[ValidationErrorResponse](t, rec)
		require.Len(t, verr.Errors, 1)
		assert.Equal(t, "password", verr.Errors[0].Param)
		assert.Equal(t, "Please enter a password of at most 72 characters", verr.Errors[0].Msg)
	}

	// nothing was stored, so the normal registration still goes through
	rec := do(t, h, http.MethodPost, "/api/auth/register", doctor, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDecodeJSON_RejectsTrailingData(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	for _, body := range []string{`{"symptoms":[]} trailing`, `{"symptoms":[]}{}`} {
		rec := do(t, h, http.MethodPost, "/api/ai/analyze-symptoms", body, token)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid JSON body", decode[ErrorResponse](t, rec).Message)
	}

	rec := do(t, h, http.MethodPost, "/api/ai/analyze-symptoms", "{\"symptoms\":[]}\n", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_SameMessageForUnknownEmailAndWrongPassword(t *testing.T) {
	h := newTestRouter(t)
	login(t, h)

	wrong := do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "nope-nope"}, "")
	unknown := do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@example.com", "password": "correct-horse"}, "")

	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, "Invalid credentials", decode[ErrorResponse](t, wrong).Message)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestMe(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	rec := do(t, h, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/auth/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := auth.NewTokens(testSecret, -time.Hour).Issue(auth.Account{ID: "whoever", Role: auth.RoleDoctor})
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/auth/me", nil, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// well signed but for an account that does not exist
	orphan, err := auth.NewTokens(testSecret, time.Hour).Issue(auth.Account{ID: "ghost", Role: auth.RoleDoctor})
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/auth/me", nil, orphan)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[UserResponse](t, rec).User
	assert.Equal(t, "ann@example.com", me.Email)
	assert.Equal(t, "Dr. Ann Lee", me.Name)
	assert.Equal(t, auth.RoleDoctor, me.Role)
	assert.NotContains(t, rec.Body.String(), "correct-horse")
	assert.NotContains(t, rec.Body.String(), "asswordHash")
}

func TestUpdateProfile(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	rec := do(t, h, http.MethodPut, "/api/auth/profile", map[string]string{"specialty": "Cardiology"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[UserResponse](t, rec).User
	assert.Equal(t, "Cardiology", user.Specialty)
	assert.Equal(t, "Dr. Ann Lee", user.Name)

	rec = do(t, h, http.MethodPut, "/api/auth/profile", map[string]string{"name": ""}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/api/patients", "/api/appointments", "/api/dashboard/stats"} {
		rec := do(t, h, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestCreatePatient(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	rec := do(t, h, http.MethodPost, "/api/patients", map[string]string{
		"firstName":   "Ann",
		"lastName":    "Lee",
		"dateOfBirth": "1990-01-01",
		"gender":      "female",
		"phone":       "555-0100",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	p := decode[patient.Patient](t, rec)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, patient.StatusActive, p.Status)
	assert.False(t, p.CreatedAt.IsZero())
	assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
	assert.Equal(t, "Ann", p.FirstName)

	rec = do(t, h, http.MethodGet, "/api/patients/"+p.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p, decode[patient.Patient](t, rec))
}

func TestCreatePatient_Validation(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	rec := do(t, h, http.MethodPost, "/api/patients", map[string]string{"firstName": "Ann"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	verr := decode[ValidationErrorResponse](t, rec)
	params := make([]string, 0, len(verr.Errors))
	for _, e := range verr.Errors {
		params = append(params, e.Param)
	}
	assert.Equal(t, []string{"lastName", "dateOfBirth", "gender", "phone"}, params)
	assert.Equal(t, "Last name is required", verr.Errors[0].Msg)

	rec = do(t, h, http.MethodPost, "/api/patients", `{"firstName":`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decode[ErrorResponse](t, rec).Message)
}

func TestPatientUpdateAndDelete(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	rec := do(t, h, http.MethodPost, "/api/patients", map[string]string{
		"firstName":   "Ann",
		"lastName":    "Lee",
		"dateOfBirth": "1990-01-01",
		"gender":      "female",
		"phone":       "555-0100",
		"city":        "Boston",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[patient.Patient](t, rec)

	rec = do(t, h, http.MethodPut, "/api/patients/"+created.ID, map[string]string{
		"status": "critical",
		"phone":  "555-0199",
		"id":     "hijack",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[patient.Patient](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, patient.StatusCritical, updated.Status)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "Boston", updated.City)
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	rec = do(t, h, http.MethodPut, "/api/patients/"+created.ID, map[string]string{"status": "asleep"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/patients/nope", map[string]string{"city": "Paris"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/patients?status=critical", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]patient.Patient](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/api/patients/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patient deleted successfully", decode[MessageResponse](t, rec).Message)

	rec = do(t, h, http.MethodGet, "/api/patients/"+created.ID, nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient not found", decode[ErrorResponse](t, rec).Message)

	rec = do(t, h, http.MethodGet, "/api/patients", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestAppointments(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	rec := do(t, h, http.MethodPost, "/api/appointments", map[string]string{
		"patientId":   "p-1",
		"patientName": "Emma Johnson",
		"date":        "2025-05-15T10:30",
		"endTime":     "2025-05-15T11:00:00",
		"type":        "Follow-up",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appt := decode[appointment.Appointment](t, rec)
	assert.Equal(t, appointment.StatusScheduled, appt.Status)
	assert.True(t, time.Date(2025, 5, 15, 10, 30, 0, 0, time.UTC).Equal(appt.Date))

	rec = do(t, h, http.MethodPost, "/api/appointments", map[string]string{
		"patientId":   "p-1",
		"patientName": "Emma Johnson",
		"date":        "next tuesday",
		"type":        "Follow-up",
	}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Appointment date must be a valid date and time", decode[ValidationErrorResponse](t, rec).Errors[0].Msg)

	rec = do(t, h, http.MethodPut, "/api/appointments/"+appt.ID, map[string]string{"status": "completed", "notes": "all good"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[appointment.Appointment](t, rec)
	assert.Equal(t, appointment.StatusCompleted, updated.Status)
	assert.Equal(t, "Emma Johnson", updated.PatientName)

	rec = do(t, h, http.MethodPut, "/api/appointments/"+appt.ID, map[string]string{"endTime": ""}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[appointment.Appointment](t, rec).EndTime)
	assert.NotContains(t, rec.Body.String(), "endTime")

	rec = do(t, h, http.MethodPut, "/api/appointments/"+appt.ID, map[string]string{"endTime": "later"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "End time must be a valid date and time", decode[ValidationErrorResponse](t, rec).Errors[0].Msg)

	rec = do(t, h, http.MethodGet, "/api/appointments?patientId=p-1&from=2025-05-15T00:00:00Z&to=2025-05-16T00:00:00Z", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]appointment.Appointment](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/appointments?from=yesterday", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/appointments/999", nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Appointment not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/appointments/"+appt.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Appointment deleted successfully", decode[MessageResponse](t, rec).Message)
}

func TestAnalyzeSymptoms_IgnoresInput(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	rec := do(t, h, http.MethodPost, "/api/ai/analyze-symptoms", map[string]any{"symptoms": []string{}, "patientAge": 40}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[diagnostic.SymptomAnalysis](t, rec)
	assert.Len(t, first.PossibleConditions, 3)
	assert.Equal(t, 85, first.ConfidenceScore)

	rec = do(t, h, http.MethodPost, "/api/ai/analyze-symptoms", map[string]any{"symptoms": "fever and cough", "patientGender": "male"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, decode[diagnostic.SymptomAnalysis](t, rec))

	rec = do(t, h, http.MethodPost, "/api/ai/analyze-symptoms", "{not json", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeImage(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "chest.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("imageType", "xray"))
	require.NoError(t, mw.WriteField("bodyPart", "chest"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ai/analyze-image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[diagnostic.ImageAnalysis](t, rec)
	assert.Len(t, out.Findings, 3)
	assert.Equal(t, 78, out.ConfidenceScore)

	// multipart without the image field
	var empty bytes.Buffer
	mw = multipart.NewWriter(&empty)
	require.NoError(t, mw.WriteField("imageType", "xray"))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/ai/analyze-image", &empty)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No image file provided", decode[ErrorResponse](t, rec).Message)

	rec = do(t, h, http.MethodPost, "/api/ai/analyze-image", map[string]string{}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No image file provided", decode[ErrorResponse](t, rec).Message)
}

func TestDashboardStats(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h)

	for _, status := range []string{"", "critical"} {
		rec := do(t, h, http.MethodPost, "/api/patients", map[string]string{
			"firstName": "A", "lastName": "B", "dateOfBirth": "1990-01-01", "gender": "x", "phone": "1",
		}, token)
		require.Equal(t, http.StatusCreated, rec.Code)
		if status != "" {
			id := decode[patient.Patient](t, rec).ID
			rec = do(t, h, http.MethodPut, "/api/patients/"+id, map[string]string{"status": status}, token)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	}

	rec := do(t, h, http.MethodPost, "/api/appointments", map[string]string{
		"patientId": "p", "patientName": "A B", "date": "2025-05-15T13:00:00Z", "type": "Check-up",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/dashboard/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dashboard.Stats{
		TotalPatients:     2,
		ActivePatients:    1,
		CriticalPatients:  1,
		AppointmentsToday: 1,
	}, decode[dashboard.Stats](t, rec))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decode[ErrorResponse](t, rec).Message)
}
