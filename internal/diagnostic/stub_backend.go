package diagnostic

import (
	"context"
	"time"
)

// Backend is the inference collaborator behind the diagnostic endpoints.
type Backend interface {
	AnalyzeSymptoms(ctx context.Context, req SymptomRequest) (*SymptomAnalysis, error)
	AnalyzeImage(ctx context.Context, req ImageRequest) (*ImageAnalysis, error)
}

// StubBackend waits a fixed delay and returns the same document for every
// input.
type StubBackend struct {
	SymptomDelay time.Duration
	ImageDelay   time.Duration
}

func NewStubBackend(symptomDelay, imageDelay time.Duration) *StubBackend {
	return &StubBackend{SymptomDelay: symptomDelay, ImageDelay: imageDelay}
}

func (b *StubBackend) AnalyzeSymptoms(ctx context.Context, _ SymptomRequest) (*SymptomAnalysis, error) {
	if err := sleep(ctx, b.SymptomDelay); err != nil {
		return nil, err
	}
	return cannedSymptomAnalysis(), nil
}

func (b *StubBackend) AnalyzeImage(ctx context.Context, _ ImageRequest) (*ImageAnalysis, error) {
	if err := sleep(ctx, b.ImageDelay); err != nil {
		return nil, err
	}
	return cannedImageAnalysis(), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cannedSymptomAnalysis() *SymptomAnalysis {
	return &SymptomAnalysis{
		PossibleConditions: []Condition{
			{
				Name:        "Viral Upper Respiratory Infection",
				Probability: "High",
				Description: "A viral infection affecting the upper respiratory tract, including the nose, throat, and bronchi.",
			},
			{
				Name:        "Seasonal Allergies",
				Probability: "Medium",
				Description: "An immune system response triggered by exposure to certain allergens like pollen, dust, or pet dander.",
			},
			{
				Name:        "Bacterial Sinusitis",
				Probability: "Low",
				Description: "An infection of the sinuses caused by bacteria, often following a viral upper respiratory infection.",
			},
		},
		Recommendations: []string{
			"Consider symptomatic treatment with over-the-counter medications for symptom relief",
			"Rest and adequate hydration are recommended",
			"If symptoms worsen or persist beyond 7-10 days, consider antibiotic therapy for possible bacterial infection",
			"Recommend COVID-19 testing to rule out COVID-19 infection",
		},
		AdditionalTests: []string{
			"Complete Blood Count (CBC) to check for signs of infection",
			"Nasal swab for respiratory virus panel",
			"Sinus imaging if symptoms persist to evaluate for sinusitis",
		},
		ConfidenceScore: 85,
		Disclaimer:      "This analysis is based on AI interpretation of reported symptoms and should not replace clinical judgment. Always combine with comprehensive patient evaluation.",
	}
}

func cannedImageAnalysis() *ImageAnalysis {
	return &ImageAnalysis{
		Findings: []Finding{
			{
				Region:       "Right Upper Lobe",
				Observation:  "Small nodular opacity",
				Significance: "Moderate",
				Details:      "Approximately 1.2cm nodular opacity observed in the right upper lobe, with irregular margins",
			},
			{
				Region:       "Left Lower Lobe",
				Observation:  "Mild interstitial changes",
				Significance: "Low",
				Details:      "Subtle reticular pattern observed, possibly representing minor inflammatory changes or early fibrotic changes",
			},
			{
				Region:       "Hilar Regions",
				Observation:  "No significant lymphadenopathy",
				Significance: "Normal",
				Details:      "Hilar structures appear normal in size and density",
			},
		},
		Impression: "Right upper lobe nodular opacity that requires further evaluation. Consider follow-up CT scan for better characterization. Mild interstitial changes in the left lower lobe, likely representing minor inflammatory changes.",
		Recommendations: []string{
			"Follow-up chest CT scan recommended within 2 weeks",
			"Clinical correlation with patient symptoms and history",
			"Consider pulmonary function tests if patient reports respiratory symptoms",
			"Follow-up imaging in 3-6 months to assess for any changes",
		},
		ConfidenceScore: 78,
		HeatmapURL:      "https://example.com/heatmap.jpg",
		Disclaimer:      "This analysis is provided by AI assistance and should be reviewed by a qualified healthcare professional. The results are not a definitive diagnosis and should be interpreted in the context of clinical findings.",
	}
}
