package service

import (
	"context"
	"time"

	"corri/internal/analysis"
	apperrors "corri/internal/errors"
	"corri/internal/inference"
	"corri/internal/logger"
	"corri/internal/observer"
	"corri/internal/prompt"
	"corri/pkg/models"

	"github.com/sirupsen/logrus"
)

// AnalysisService identifies the organism in one uploaded photo
type AnalysisService interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// analysisService runs prompt building, one model call and strict parsing
type analysisService struct {
	gateway        inference.Gateway
	credentialName string
	provider       string
	events         observer.Subject
}

// NewAnalysisService creates a new analysis service. A nil gateway means the
// provider credential is missing; every call then fails with a configuration
// error before anything is sent upstream.
func NewAnalysisService(
	gateway inference.Gateway,
	provider string,
	credentialName string,
	events observer.Subject,
) AnalysisService {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	return &analysisService{
		gateway:        gateway,
		credentialName: credentialName,
		provider:       provider,
		events:         events,
	}
}

// Analyze performs the analysis for a single request. Requests share no state.
func (s *analysisService) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if s.gateway == nil {
		return nil, apperrors.NewConfigurationError(s.credentialName + "가 설정되지 않았습니다.")
	}

	hint, known := prompt.ParseHint(req.Hint)
	if !known {
		logger.ForRequest(req.RequestID).WithField("hint", req.Hint).Warn("Ignoring unknown hint")
	}
	p := prompt.Build(hint)

	start := time.Now()
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		RequestID: req.RequestID,
		Provider:  s.provider,
		Hint:      string(hint),
	})

	raw, err := s.gateway.Complete(ctx, inference.Request{
		Image:    req.Image,
		MIMEType: req.MIMEType,
		System:   p.System,
		User:     p.User,
	})
	if err != nil {
		return nil, s.fail(ctx, req.RequestID, hint, start, raw, err)
	}

	result, err := analysis.Parse(raw)
	if err != nil {
		return nil, s.fail(ctx, req.RequestID, hint, start, raw, err)
	}

	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		RequestID:      req.RequestID,
		Provider:       s.provider,
		Hint:           string(hint),
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"confidence": result.Top1.Confidence,
			"warnings":   len(result.Warnings),
		},
	})
	return result, nil
}

// fail logs the rejected reply and publishes the failure event
func (s *analysisService) fail(ctx context.Context, requestID string, hint prompt.Hint, start time.Time, raw string, err error) error {
	err = classify(err)
	s.logFailure(requestID, raw, err)
	s.events.NotifyObservers(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisFailed,
		RequestID:      requestID,
		Provider:       s.provider,
		Hint:           string(hint),
		ProcessingTime: time.Since(start),
		ErrorKind:      string(apperrors.KindOf(err)),
		ErrorMessage:   err.Error(),
	})
	return err
}

// classify makes sure every failure leaving the service carries a kind
func classify(err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.NewInternalError("analysis failed", err)
}

func (s *analysisService) logFailure(requestID, raw string, err error) {
	fields := logrus.Fields{
		"provider": s.provider,
		"kind":     apperrors.KindOf(err),
	}
	if appErr, ok := apperrors.As(err); ok {
		if len(appErr.Issues) > 0 {
			fields["issues"] = appErr.Issues
		}
	}
	if raw != "" {
		fields["raw"] = raw
	}
	logger.ForRequest(requestID).WithError(err).WithFields(fields).Error("Model reply rejected")
}
