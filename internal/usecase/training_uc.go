package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/model"
	"synomind-gateway/internal/domain/ports/adapter"
	"synomind-gateway/internal/domain/ports/repository"
	"synomind-gateway/internal/infra/metrics"
)

// TrainingUseCase creates training sessions and orchestrates their phase
// pipeline in the background. Callers observe progress by polling.
type TrainingUseCase interface {
	// Start registers a session and launches its orchestrator goroutine.
	// It returns immediately with the session id.
	Start(cfg model.TrainingConfig) (string, error)
	GetStatus(id string) (*model.TrainingSession, error)
	List() []*model.TrainingSession
}

type trainingUC struct {
	registry        repository.SessionRegistry
	adapters        map[string]adapter.ProviderAdapter
	providerOrder   []string
	providerTimeout time.Duration
	phaseDelay      time.Duration
	rootCtx         context.Context
	log             *zerolog.Logger
}

var _ TrainingUseCase = (*trainingUC)(nil)

// NewTrainingUseCase wires the orchestrator. rootCtx bounds the lifetime
// of every orchestrator goroutine: cancelling it (process shutdown) fails
// any session still in flight.
func NewTrainingUseCase(
	rootCtx context.Context,
	reg repository.SessionRegistry,
	adapters map[string]adapter.ProviderAdapter,
	providerOrder []string,
	providerTimeout, phaseDelay time.Duration,
	logger *zerolog.Logger,
) TrainingUseCase {
	return &trainingUC{
		registry:        reg,
		adapters:        adapters,
		providerOrder:   providerOrder,
		providerTimeout: providerTimeout,
		phaseDelay:      phaseDelay,
		rootCtx:         rootCtx,
		log:             logger,
	}
}

func (t *trainingUC) Start(cfg model.TrainingConfig) (string, error) {
	if len(cfg.Modules) == 0 {
		return "", fmt.Errorf("%w: no modules specified", domain.ErrInvalidArgument)
	}
	s := t.registry.Create(cfg)
	go t.run(s.ID, cfg)
	return s.ID, nil
}

func (t *trainingUC) GetStatus(id string) (*model.TrainingSession, error) {
	return t.registry.Get(id)
}

func (t *trainingUC) List() []*model.TrainingSession {
	return t.registry.List()
}

// Fixed accuracy targets per provider; training here is coordination, not
// real model fitting, so these are design constants.
var providerAccuracy = map[string]float64{
	"google":    96.8,
	"openai":    95.2,
	"anthropic": 94.8,
}

// The two local models are always trained regardless of provider
// configuration.
var localModels = []model.TrainedModel{
	{Provider: "local", ModelName: "llama-3.1-8b", Accuracy: 94.5, Status: model.ModelStatusTrained},
	{Provider: "local", ModelName: "mistral-7b", Accuracy: 93.8, Status: model.ModelStatusTrained},
}

// run is the orchestrator: exactly one goroutine owns write access to the
// session, from launch to a terminal state. Any phase error is caught
// here, recorded on the session, and never propagated; phases are not
// retried and progress is not rolled back.
func (t *trainingUC) run(id string, cfg model.TrainingConfig) {
	metrics.TrainingSessionStarted()
	defer metrics.TrainingSessionFinished()

	log := t.log.With().Str("session_id", id).Logger()
	defer func() {
		if rec := recover(); rec != nil {
			t.fail(id, fmt.Sprintf("pipeline panic: %v", rec), &log)
		}
	}()

	type phase struct {
		status model.TrainingStatus
		fn     func(context.Context, string, model.TrainingConfig) error
	}
	phases := []phase{
		{model.TrainingStatusCollectingData, t.collectData},
		{model.TrainingStatusProcessingDocuments, t.processDocuments},
		{model.TrainingStatusSettingUpWorkflows, t.setupWorkflows},
		{model.TrainingStatusTraining, t.trainModels},
		{model.TrainingStatusValidating, t.validateModels},
	}

	for _, p := range phases {
		start := time.Now()
		err := p.fn(t.rootCtx, id, cfg)
		metrics.ObservePhaseDuration(string(p.status), int(time.Since(start)/time.Millisecond))
		if err != nil {
			t.fail(id, fmt.Sprintf("%s: %v", p.status, err), &log)
			return
		}
	}

	metrics.IncTrainingSession(string(model.TrainingStatusCompleted))
	log.Info().Msg("training session completed")
}

func (t *trainingUC) fail(id, cause string, log *zerolog.Logger) {
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		s.AppendLog("error", "Training failed: "+cause)
		s.Fail(cause)
	})
	metrics.IncTrainingSession(string(model.TrainingStatusFailed))
	log.Error().Str("cause", cause).Msg("training session failed")
}

// pause paces the pipeline and is the cancellation point between steps.
func (t *trainingUC) pause(ctx context.Context) error {
	if t.phaseDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(t.phaseDelay):
		return nil
	}
}

func (t *trainingUC) collectData(ctx context.Context, id string, cfg model.TrainingConfig) error {
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		s.EnterPhase(model.TrainingStatusCollectingData)
		s.AppendLog("info", "Starting data collection phase")
		s.SetProgress(10)
	})
	if err := t.pause(ctx); err != nil {
		return err
	}
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		for _, m := range cfg.Modules {
			s.AppendLog("info", fmt.Sprintf("Collecting data for %s (sources: %s)", m, strings.Join(moduleDataSources(m), ", ")))
		}
		s.SetProgress(20)
		s.AppendLog("info", "Data collection completed")
	})
	return nil
}

func (t *trainingUC) processDocuments(ctx context.Context, id string, cfg model.TrainingConfig) error {
	if !cfg.EnableDocumentProcessing {
		// Skipped phase: progress still jumps to the phase target.
		_ = t.registry.Update(id, func(s *model.TrainingSession) {
			s.AppendLog("info", "Document processing disabled, skipping phase")
			s.SetProgress(40)
		})
		return nil
	}
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		s.EnterPhase(model.TrainingStatusProcessingDocuments)
		s.AppendLog("info", "Processing documents and images")
		s.SetProgress(30)
	})
	if err := t.pause(ctx); err != nil {
		return err
	}
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		s.AppendLog("info", "Document processing completed")
		s.SetProgress(40)
	})
	return nil
}

func (t *trainingUC) setupWorkflows(ctx context.Context, id string, cfg model.TrainingConfig) error {
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		s.EnterPhase(model.TrainingStatusSettingUpWorkflows)
		s.AppendLog("info", "Setting up automation workflows")
		s.SetProgress(50)
	})
	if err := t.pause(ctx); err != nil {
		return err
	}
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		for _, m := range cfg.Modules {
			s.AppendLog("info", fmt.Sprintf("Created automation workflow for %s", m))
		}
		s.SetProgress(60)
		s.AppendLog("info", "Workflow setup completed")
	})
	return nil
}

// trainModels fans out across every configured provider plus the two
// always-on local models, one models_trained entry per provider. Each
// provider call carries its own timeout; a provider failure marks its
// entry failed without failing the phase.
func (t *trainingUC) trainModels(ctx context.Context, id string, cfg model.TrainingConfig) error {
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		s.EnterPhase(model.TrainingStatusTraining)
		s.AppendLog("info", "Starting multi-model training")
		s.SetProgress(70)
	})
	if err := t.pause(ctx); err != nil {
		return err
	}

	for _, name := range t.providerOrder {
		a := t.adapters[name]
		if a == nil || !a.Available() {
			_ = t.registry.Update(id, func(s *model.TrainingSession) {
				s.AppendLog("warning", fmt.Sprintf("Skipping %s: provider not configured", name))
			})
			continue
		}
		entry := t.trainWithProvider(ctx, a, cfg)
		_ = t.registry.Update(id, func(s *model.TrainingSession) {
			s.ModelsTrained = append(s.ModelsTrained, entry)
			if entry.Status == model.ModelStatusTrained {
				s.AppendLog("info", fmt.Sprintf("Trained %s (%s)", entry.ModelName, entry.Provider))
			} else {
				s.AppendLog("warning", fmt.Sprintf("Training with %s failed", entry.Provider))
			}
		})
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		for _, lm := range localModels {
			s.ModelsTrained = append(s.ModelsTrained, lm)
			s.AppendLog("info", fmt.Sprintf("Trained local model %s", lm.ModelName))
		}
		s.SetProgress(90)
		s.AppendLog("info", "Multi-model training completed")
	})
	return nil
}

// trainWithProvider runs one calibration exchange against the provider
// under its own timeout and converts the outcome into a model entry.
func (t *trainingUC) trainWithProvider(ctx context.Context, a adapter.ProviderAdapter, cfg model.TrainingConfig) model.TrainedModel {
	callCtx, cancel := context.WithTimeout(ctx, t.providerTimeout)
	defer cancel()

	info := a.Info()
	entry := model.TrainedModel{
		Provider:  info.Name,
		ModelName: info.Model,
		Accuracy:  providerAccuracy[info.Name],
		Status:    model.ModelStatusTrained,
	}

	messages := []adapter.Message{
		{Role: "system", Content: "You are SynoMind, an AI assistant focused on sustainable lifestyle."},
		{Role: "user", Content: "Calibration check for modules: " + strings.Join(cfg.Modules, ", ")},
	}
	if _, err := a.Invoke(callCtx, messages); err != nil {
		entry.Status = model.ModelStatusFailed
		entry.Accuracy = 0
	}
	return entry
}

func (t *trainingUC) validateModels(ctx context.Context, id string, cfg model.TrainingConfig) error {
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		s.EnterPhase(model.TrainingStatusValidating)
		s.AppendLog("info", "Validating and deploying models")
		s.SetProgress(95)
	})
	if err := t.pause(ctx); err != nil {
		return err
	}
	_ = t.registry.Update(id, func(s *model.TrainingSession) {
		for i := range s.ModelsTrained {
			m := &s.ModelsTrained[i]
			if m.Status != model.ModelStatusTrained {
				continue
			}
			if m.Accuracy > 90 {
				m.Status = model.ModelStatusDeployed
				s.AppendLog("info", fmt.Sprintf("Model %s deployed with %.1f%% accuracy", m.ModelName, m.Accuracy))
			} else {
				m.Status = model.ModelStatusRequiresRetraining
				s.AppendLog("warning", fmt.Sprintf("Model %s requires retraining (accuracy: %.1f%%)", m.ModelName, m.Accuracy))
			}
		}
		s.AppendLog("info", "Training completed successfully")
		s.Complete()
	})
	return nil
}

// moduleDataSources resolves the data sources consulted for one module
// during collection: a base set plus module-specific extras.
func moduleDataSources(module string) []string {
	base := []string{"database", "api_endpoints", "user_interactions"}
	extra := map[string][]string{
		"environmental_monitoring": {"sensor_networks", "weather_apis", "satellite_data"},
		"carbon_footprint":         {"emission_databases", "activity_trackers", "calculation_engines"},
		"ai_assistance":            {"conversation_logs", "user_feedback", "context_data"},
	}
	return append(base, extra[module]...)
}
