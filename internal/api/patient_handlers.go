package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/medai-console/internal/patient"
	"github.com/hackgods/medai-console/internal/validate"
)

func listPatientsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := patient.Filter{
			Status: patient.Status(q.Get("status")),
			Search: q.Get("search"),
		}
		if f.Status != "" && !f.Status.Valid() {
			writeValidationError(w, queryError("status", patientMessages["status"]))
			return
		}

		patients, err := svc.List(r.Context(), f)
		if err != nil {
			handlePatientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, patients)
	}
}

func getPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handlePatientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}

func createPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePatientRequest
		if !bind(w, r, &req) {
			return
		}

		p, err := svc.Create(r.Context(), req.toFields())
		if err != nil {
			handlePatientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, p)
	}
}

func updatePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePatientRequest
		if !bind(w, r, &req) {
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "id"), req.toPatch())
		if err != nil {
			handlePatientError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}

func deletePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			handlePatientError(w, r, err)
			return
		}

		writeMessage(w, http.StatusOK, "Patient deleted successfully")
	}
}

func handlePatientError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "Patient not found")
	case errors.Is(err, patient.ErrInvalidStatus):
		writeValidationError(w, bodyError("status", patientMessages["status"]))
	default:
		writeServerError(w, r, err, msgServerError)
	}
}

func queryError(param, msg string) *validate.Error {
	return &validate.Error{Fields: []validate.FieldError{{Msg: msg, Param: param, Location: "query"}}}
}

func bodyError(param, msg string) *validate.Error {
	return &validate.Error{Fields: []validate.FieldError{{Msg: msg, Param: param, Location: "body"}}}
}
