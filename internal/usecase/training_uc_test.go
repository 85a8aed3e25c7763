package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/model"
	"synomind-gateway/internal/domain/ports/adapter"
	"synomind-gateway/internal/infra/registry"
)

func newTestTraining(ctx context.Context, adapters map[string]adapter.ProviderAdapter, phaseDelay time.Duration) TrainingUseCase {
	return NewTrainingUseCase(
		ctx,
		registry.New(),
		adapters,
		[]string{"openai", "anthropic", "google"},
		time.Second,
		phaseDelay,
		testLogger(),
	)
}

func waitTerminal(t *testing.T, uc TrainingUseCase, id string) *model.TrainingSession {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s, err := uc.GetStatus(id)
		if err != nil {
			t.Fatalf("GetStatus(%s): %v", id, err)
		}
		if s.Status.Terminal() {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("session %s never reached a terminal state", id)
	return nil
}

func hasLog(s *model.TrainingSession, substr string) bool {
	for _, e := range s.Logs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestTrainingRejectsEmptyModules(t *testing.T) {
	t.Parallel()
	uc := newTestTraining(context.Background(), nil, 0)

	if _, err := uc.Start(model.TrainingConfig{}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestTrainingCompletesPipeline(t *testing.T) {
	t.Parallel()
	adapters := map[string]adapter.ProviderAdapter{
		"openai":    newFakeProvider("openai", "ok"),
		"anthropic": newFakeProvider("anthropic", "ok"),
		"google":    newFakeProvider("google", "ok"),
	}
	uc := newTestTraining(context.Background(), adapters, 0)

	id, err := uc.Start(model.TrainingConfig{
		Modules: []string{"ai_assistance", "carbon_footprint"},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.HasPrefix(id, "training_") {
		t.Fatalf("session id = %q", id)
	}

	s := waitTerminal(t, uc, id)
	if s.Status != model.TrainingStatusCompleted {
		t.Fatalf("status = %q (error=%q), want completed", s.Status, s.Error)
	}
	if s.Progress != 100 {
		t.Fatalf("progress = %d, want 100", s.Progress)
	}
	if s.EndTime == nil {
		t.Fatal("EndTime not set")
	}
	// Three provider models plus the two always-on local models.
	if len(s.ModelsTrained) != 5 {
		t.Fatalf("models trained = %d, want 5", len(s.ModelsTrained))
	}
	for _, m := range s.ModelsTrained {
		if m.Status != model.ModelStatusDeployed {
			t.Fatalf("model %s status = %q, want deployed", m.ModelName, m.Status)
		}
	}
	if !hasLog(s, "Document processing disabled, skipping phase") {
		t.Fatal("missing skip log for document processing")
	}
	if !hasLog(s, "Training completed successfully") {
		t.Fatal("missing completion log")
	}
}

func TestTrainingDocumentProcessingPhase(t *testing.T) {
	t.Parallel()
	adapters := map[string]adapter.ProviderAdapter{"openai": newFakeProvider("openai", "ok")}
	uc := newTestTraining(context.Background(), adapters, 0)

	id, err := uc.Start(model.TrainingConfig{
		Modules:                  []string{"environmental_monitoring"},
		EnableDocumentProcessing: true,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	s := waitTerminal(t, uc, id)
	if s.Status != model.TrainingStatusCompleted {
		t.Fatalf("status = %q (error=%q)", s.Status, s.Error)
	}
	if !hasLog(s, "Processing documents and images") {
		t.Fatal("document processing phase did not run")
	}
	if hasLog(s, "skipping phase") {
		t.Fatal("phase both ran and was skipped")
	}
}

func TestTrainingProviderFailureDoesNotFailSession(t *testing.T) {
	t.Parallel()
	broken := newFakeProvider("openai", "unused")
	broken.err = errors.New("quota exceeded")
	adapters := map[string]adapter.ProviderAdapter{
		"openai": broken,
		"google": newFakeProvider("google", "ok"),
	}
	uc := newTestTraining(context.Background(), adapters, 0)

	id, err := uc.Start(model.TrainingConfig{Modules: []string{"ai_assistance"}})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	s := waitTerminal(t, uc, id)
	if s.Status != model.TrainingStatusCompleted {
		t.Fatalf("status = %q (error=%q), want completed", s.Status, s.Error)
	}

	byProvider := map[string]model.TrainedModel{}
	for _, m := range s.ModelsTrained {
		if m.Provider != "local" {
			byProvider[m.Provider] = m
		}
	}
	if got := byProvider["openai"].Status; got != model.ModelStatusFailed {
		t.Fatalf("openai entry status = %q, want failed", got)
	}
	if byProvider["openai"].Accuracy != 0 {
		t.Fatalf("failed entry accuracy = %v, want 0", byProvider["openai"].Accuracy)
	}
	if got := byProvider["google"].Status; got != model.ModelStatusDeployed {
		t.Fatalf("google entry status = %q, want deployed", got)
	}
}

func TestTrainingSkipsUnconfiguredProviders(t *testing.T) {
	t.Parallel()
	off := newFakeProvider("anthropic", "unused")
	off.available = false
	adapters := map[string]adapter.ProviderAdapter{
		"openai":    newFakeProvider("openai", "ok"),
		"anthropic": off,
	}
	uc := newTestTraining(context.Background(), adapters, 0)

	id, err := uc.Start(model.TrainingConfig{Modules: []string{"ai_assistance"}})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	s := waitTerminal(t, uc, id)
	if s.Status != model.TrainingStatusCompleted {
		t.Fatalf("status = %q (error=%q)", s.Status, s.Error)
	}
	for _, m := range s.ModelsTrained {
		if m.Provider == "anthropic" {
			t.Fatalf("unavailable provider produced an entry: %+v", m)
		}
	}
	if !hasLog(s, "Skipping anthropic") {
		t.Fatal("missing skip log for unavailable provider")
	}
	if off.callCount() != 0 {
		t.Fatalf("unavailable provider invoked %d times", off.callCount())
	}
}

func TestTrainingFailsOnShutdown(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	adapters := map[string]adapter.ProviderAdapter{"openai": newFakeProvider("openai", "ok")}
	uc := newTestTraining(ctx, adapters, time.Millisecond)

	id, err := uc.Start(model.TrainingConfig{Modules: []string{"ai_assistance"}})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	s := waitTerminal(t, uc, id)
	if s.Status != model.TrainingStatusFailed {
		t.Fatalf("status = %q, want failed", s.Status)
	}
	if s.Error == "" {
		t.Fatal("failed session has no error")
	}
	if s.EndTime == nil {
		t.Fatal("EndTime not set on failure")
	}
}

func TestTrainingProgressIsMonotone(t *testing.T) {
	t.Parallel()
	adapters := map[string]adapter.ProviderAdapter{"openai": newFakeProvider("openai", "ok")}
	uc := newTestTraining(context.Background(), adapters, 5*time.Millisecond)

	id, err := uc.Start(model.TrainingConfig{Modules: []string{"ai_assistance"}})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	last := -1
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s, err := uc.GetStatus(id)
		if err != nil {
			t.Fatalf("GetStatus: %v", err)
		}
		if s.Progress < last {
			t.Fatalf("progress went backwards: %d -> %d", last, s.Progress)
		}
		last = s.Progress
		if s.Status.Terminal() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("session never finished")
}

func TestTrainingConcurrentStartsGetDistinctIDs(t *testing.T) {
	t.Parallel()
	adapters := map[string]adapter.ProviderAdapter{"openai": newFakeProvider("openai", "ok")}
	uc := newTestTraining(context.Background(), adapters, 0)

	const n = 8
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			id, err := uc.Start(model.TrainingConfig{Modules: []string{"ai_assistance"}})
			if err != nil {
				ids <- ""
				return
			}
			ids <- id
		}()
	}

	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		id := <-ids
		if id == "" {
			t.Fatal("Start failed")
		}
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}

	if got := len(uc.List()); got != n {
		t.Fatalf("List() = %d sessions, want %d", got, n)
	}
	for id := range seen {
		waitTerminal(t, uc, id)
	}
}
