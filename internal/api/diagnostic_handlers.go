package api

import (
	"errors"
	"net/http"

	"github.com/hackgods/medai-console/internal/diagnostic"
)

const msgNoImage = "No image file provided"

func analyzeSymptomsHandler(svc *diagnostic.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req diagnostic.SymptomRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}

		out, err := svc.AnalyzeSymptoms(r.Context(), req)
		if err != nil {
			writeServerError(w, r, err, "Error processing symptom analysis request")
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func analyzeImageHandler(svc *diagnostic.Service, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusBadRequest, "Image file is too large")
				return
			}
			writeError(w, http.StatusBadRequest, msgNoImage)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, msgNoImage)
			return
		}
		defer file.Close()

		out, err := svc.AnalyzeImage(r.Context(), diagnostic.ImageRequest{
			Image:       file,
			Filename:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			ImageType:   r.FormValue("imageType"),
			BodyPart:    r.FormValue("bodyPart"),
		})
		if err != nil {
			if errors.Is(err, diagnostic.ErrNoImage) {
				writeError(w, http.StatusBadRequest, msgNoImage)
				return
			}
			writeServerError(w, r, err, "Error processing image analysis request")
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}
