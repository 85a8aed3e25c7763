package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"synomind-gateway/internal/domain"
	"synomind-gateway/internal/domain/model"
	"synomind-gateway/internal/domain/ports/adapter"
	"synomind-gateway/internal/infra/adapters/provider"
	"synomind-gateway/internal/infra/logging"
	"synomind-gateway/internal/infra/metrics"
)

// Returned when every provider in the chain failed. Role-neutral: the
// role filter is not applied to it.
const fallbackResponse = "I'm currently unable to process your request. Please try again later."

// fallbackSource is the SourceProvider value for the exhausted path.
const fallbackSource = "fallback"

// RouterUseCase routes one inbound request to a provider with
// classification, fallback and role-based response filtering.
type RouterUseCase interface {
	// Route never returns a provider error: when every provider fails it
	// degrades to a static apology. The only error is ErrInvalidArgument
	// for empty text.
	Route(ctx context.Context, text, role string, reqCtx model.RequestContext) (*model.RouteResult, error)
}

type routerUC struct {
	adapters      map[string]adapter.ProviderAdapter
	fallbackOrder []string
	filter        *RoleFilter
	log           *zerolog.Logger
}

var _ RouterUseCase = (*routerUC)(nil)

func NewRouterUseCase(
	adapters map[string]adapter.ProviderAdapter,
	fallbackOrder []string,
	filter *RoleFilter,
	logger *zerolog.Logger,
) RouterUseCase {
	return &routerUC{
		adapters:      adapters,
		fallbackOrder: fallbackOrder,
		filter:        filter,
		log:           logger,
	}
}

// primaryFor maps a task category to the preferred provider: visual tasks
// go to the vision-capable default, complex reasoning to anthropic.
func primaryFor(cat model.TaskCategory) string {
	switch cat {
	case model.CategoryVisual:
		return "openai"
	case model.CategoryComplex:
		return "anthropic"
	default:
		return "openai"
	}
}

func (r *routerUC) Route(ctx context.Context, text, role string, reqCtx model.RequestContext) (*model.RouteResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidArgument)
	}
	log := logging.With(ctx, r.log)
	defer logging.TraceDuration(log, "RouterUC.Route")()

	req := model.ClassifiedRequest{
		Text:     text,
		Category: Classify(text),
		Role:     role,
		Context:  reqCtx,
	}
	messages := []adapter.Message{
		{Role: "system", Content: buildSystemMessage(req)},
		{Role: "user", Content: text},
	}
	tokens := provider.EstimateTokens(text)

	for _, name := range r.chainFor(req.Category) {
		a := r.adapters[name]
		if a == nil {
			continue
		}
		metrics.AddPromptTokensEstimate(name, tokens)

		start := time.Now()
		out, err := a.Invoke(ctx, messages)
		latency := time.Since(start)
		metrics.ObserveProviderCall(name, int(latency/time.Millisecond), err == nil)

		if err != nil {
			metrics.IncFallbackAdvance(name)
			log.Warn().
				Str("provider", name).
				Str("category", string(req.Category)).
				Dur("latency", latency).
				Err(err).
				Msg("provider failed, advancing fallback chain")
			continue
		}

		actions, visible := ExtractActions(out)
		final := r.filter.Apply(visible, role)
		metrics.IncRouteRequest(string(req.Category), name)
		log.Info().
			Str("provider", name).
			Str("category", string(req.Category)).
			Int("prompt_tokens_est", tokens).
			Dur("latency", latency).
			Dur("latency_estimate", a.Info().LatencyEstimate).
			Msg("request routed")
		return &model.RouteResult{
			ResponseText:   final,
			Actions:        actions,
			SourceProvider: name,
		}, nil
	}

	// Exhausted path: terminal for this request but never an error.
	metrics.IncProvidersExhausted()
	metrics.IncRouteRequest(string(req.Category), fallbackSource)
	log.Error().Str("category", string(req.Category)).Msg("all providers exhausted")
	return &model.RouteResult{
		ResponseText:   fallbackResponse,
		Actions:        []model.Action{},
		SourceProvider: fallbackSource,
	}, nil
}

// chainFor returns the category primary followed by the fixed,
// category-independent fallback order, duplicates skipped.
func (r *routerUC) chainFor(cat model.TaskCategory) []string {
	primary := primaryFor(cat)
	chain := make([]string, 0, len(r.fallbackOrder)+1)
	chain = append(chain, primary)
	for _, name := range r.fallbackOrder {
		if name != primary {
			chain = append(chain, name)
		}
	}
	return chain
}

// actionPattern matches embedded action markers; the ACTION: token is
// case-sensitive.
var actionPattern = regexp.MustCompile(`\[ACTION:([^\]]+)\]`)

// ExtractActions pulls [ACTION:type:target] markers out of a response in
// a single pass, returning the structured actions and the text with all
// markers stripped. Markers lacking a ":" separator between type and
// target are ignored, not errors.
func ExtractActions(text string) ([]model.Action, string) {
	actions := []model.Action{}
	for _, m := range actionPattern.FindAllStringSubmatch(text, -1) {
		parts := strings.SplitN(m[1], ":", 2)
		if len(parts) < 2 {
			continue
		}
		actions = append(actions, model.Action{
			Type:   strings.TrimSpace(parts[0]),
			Target: strings.TrimSpace(parts[1]),
		})
	}
	visible := actionPattern.ReplaceAllString(text, "")
	return actions, strings.TrimSpace(visible)
}

// buildSystemMessage assembles the provider system prompt from the
// request's role and module context.
func buildSystemMessage(req model.ClassifiedRequest) string {
	var b strings.Builder
	b.WriteString("You are SynoMind, an AI assistant focused on sustainable lifestyle. " +
		"Be concise, helpful, and provide actionable advice.")

	switch req.Context.Module {
	case "environment":
		b.WriteString(" The user is currently in the Environment module, which tracks eco-friendly actions, carbon footprint, water usage, and energy consumption.")
	case "wellness":
		b.WriteString(" The user is currently in the Wellness module, which focuses on physical and mental wellbeing, mood tracking, sleep quality, meditation, and exercise.")
	case "kitchen":
		b.WriteString(" The user is currently in the Kitchen module, which helps with sustainable food choices, reducing waste, meal planning, and eco-friendly cooking practices.")
	case "wardrobe":
		b.WriteString(" The user is currently in the Wardrobe module, which assists with building a sustainable and ethical wardrobe, tracking clothing usage, and minimizing fashion waste.")
	}

	if req.Role != "" {
		fmt.Fprintf(&b, "\n\nUser role: %s. Respond appropriately for this role and maintain security boundaries.", req.Role)
	}
	if len(req.Context.Data) > 0 {
		if ctxJSON, err := json.Marshal(req.Context.Data); err == nil {
			fmt.Fprintf(&b, "\n\nCurrent context data: %s", ctxJSON)
		}
	}
	return b.String()
}
