package diagnostic

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var ErrNoImage = errors.New("no image file provided")

type Service struct {
	backend Backend
	log     zerolog.Logger
}

func NewService(backend Backend, logger zerolog.Logger) *Service {
	return &Service{
		backend: backend,
		log:     logger.With().Str("component", "diagnostic").Logger(),
	}
}

func (s *Service) AnalyzeSymptoms(ctx context.Context, req SymptomRequest) (*SymptomAnalysis, error) {
	s.log.Info().
		Interface("symptoms", req.Symptoms).
		Interface("patient_age", req.PatientAge).
		Interface("patient_gender", req.PatientGender).
		Msg("symptom analysis requested")

	out, err := s.backend.AnalyzeSymptoms(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyze symptoms: %w", err)
	}
	return out, nil
}

func (s *Service) AnalyzeImage(ctx context.Context, req ImageRequest) (*ImageAnalysis, error) {
	if req.Image == nil {
		return nil, ErrNoImage
	}

	s.log.Info().
		Str("image_type", req.ImageType).
		Str("body_part", req.BodyPart).
		Str("file", req.Filename).
		Int64("size", req.Size).
		Msg("image analysis requested")

	out, err := s.backend.AnalyzeImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	return out, nil
}
