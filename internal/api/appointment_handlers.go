package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/medai-console/internal/appointment"
	"github.com/hackgods/medai-console/internal/validate"
)

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, verr := appointmentFilter(r.URL.Query())
		if verr != nil {
			writeValidationError(w, verr)
			return
		}

		appointments, err := svc.List(r.Context(), f)
		if err != nil {
			handleAppointmentError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, appointments)
	}
}

func appointmentFilter(q url.Values) (appointment.Filter, *validate.Error) {
	f := appointment.Filter{
		Status:    appointment.AppointmentStatus(q.Get("status")),
		PatientID: q.Get("patientId"),
	}

	var fields []validate.FieldError
	if f.Status != "" && !f.Status.Valid() {
		fields = append(fields, validate.FieldError{Msg: appointmentMessages["status"], Param: "status", Location: "query"})
	}
	for _, bound := range []struct {
		param string
		dst   *time.Time
	}{
		{"from", &f.From},
		{"to", &f.To},
	} {
		raw := q.Get(bound.param)
		if raw == "" {
			continue
		}
		t, err := validate.ParseTimestamp(raw)
		if err != nil {
			fields = append(fields, validate.FieldError{Msg: bound.param + " must be a valid date and time", Param: bound.param, Location: "query"})
			continue
		}
		*bound.dst = t
	}

	if len(fields) > 0 {
		return f, &validate.Error{Fields: fields}
	}
	return f, nil
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleAppointmentError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if !bind(w, r, &req) {
			return
		}

		appt, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			handleAppointmentError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateAppointmentRequest
		if !bind(w, r, &req) {
			return
		}

		appt, err := svc.Update(r.Context(), chi.URLParam(r, "id"), req.toPatch())
		if err != nil {
			handleAppointmentError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleAppointmentError(w, r, err)
			return
		}

		writeMessage(w, http.StatusOK, "Appointment deleted successfully")
	}
}

func handleAppointmentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeValidationError(w, bodyError("status", appointmentMessages["status"]))
	case errors.Is(err, appointment.ErrEndBeforeStart):
		writeValidationError(w, bodyError("endTime", "End time cannot be before the appointment date"))
	default:
		writeServerError(w, r, err, msgServerError)
	}
}
