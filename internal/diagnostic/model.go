package diagnostic

import "io"

// SymptomRequest is whatever the client described. Fields are kept loosely
// typed; the stub backend does not look at them.
type SymptomRequest struct {
	Symptoms        any `json:"symptoms"`
	PatientAge      any `json:"patientAge"`
	PatientGender   any `json:"patientGender"`
	AdditionalNotes any `json:"additionalNotes"`
}

type Condition struct {
	Name        string `json:"name"`
	Probability string `json:"probability"` // High, Medium, Low
	Description string `json:"description"`
}

type SymptomAnalysis struct {
	PossibleConditions []Condition `json:"possibleConditions"`
	Recommendations    []string    `json:"recommendations"`
	AdditionalTests    []string    `json:"additionalTests"`
	ConfidenceScore    int         `json:"confidenceScore"`
	Disclaimer         string      `json:"disclaimer"`
}

type ImageRequest struct {
	Image       io.Reader
	Filename    string
	Size        int64
	ContentType string
	ImageType   string
	BodyPart    string
}

type Finding struct {
	Region       string `json:"region"`
	Observation  string `json:"observation"`
	Significance string `json:"significance"` // High, Moderate, Low, Normal
	Details      string `json:"details"`
}

type ImageAnalysis struct {
	Findings        []Finding `json:"findings"`
	Impression      string    `json:"impression"`
	Recommendations []string  `json:"recommendations"`
	ConfidenceScore int       `json:"confidenceScore"`
	HeatmapURL      string    `json:"heatmapUrl"`
	Disclaimer      string    `json:"disclaimer"`
}
