package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Hali-creater/AuraPin/internal/feed"
	"github.com/Hali-creater/AuraPin/internal/logging"
	"github.com/Hali-creater/AuraPin/internal/services"
)

const systemPrompt = "You write short, engaging Pinterest pin descriptions. Respond with the description text only."

// promptDescriptionLimit bounds how much of the feed description is quoted in
// the prompt.
const promptDescriptionLimit = 100

// Completer is the slice of the generation service the model-assisted
// strategy needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ModelAssistedGenerator asks the generation service for base text and falls
// back to the template strategy on any service failure, so generation is
// never fatal to a candidate.
type ModelAssistedGenerator struct {
	settings Settings
	client   Completer
	fallback *TemplateGenerator
	logger   *slog.Logger
}

// NewModelAssistedGenerator constructs the model-assisted strategy.
func NewModelAssistedGenerator(settings Settings, client Completer, logger *slog.Logger) *ModelAssistedGenerator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ModelAssistedGenerator{
		settings: settings,
		client:   client,
		fallback: NewTemplateGenerator(settings),
		logger:   logger.With(logging.String(logging.FieldComponent, "content")),
	}
}

// Generate produces the pin description, preferring the generation service.
func (g *ModelAssistedGenerator) Generate(ctx context.Context, product feed.Product) (string, error) {
	base, err := g.client.Complete(ctx, systemPrompt, userPrompt(product))
	if err != nil {
		wrapped := services.Wrap(services.ErrGenerationFailed, "content", "generate", product.ID, err)
		logging.WithContext(ctx, g.logger).Warn("generation service failed, using template",
			logging.Args(logging.String(logging.FieldProductID, product.ID), logging.Error(wrapped))...)
		return g.fallback.Generate(ctx, product)
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return g.fallback.Generate(ctx, product)
	}
	tags := SampleHashtags(g.settings.HashtagPool, g.settings.HashtagCount)
	return compose(base, tags, g.settings.Disclaimer), nil
}

func userPrompt(product feed.Product) string {
	summary := truncateRunes(product.Description, promptDescriptionLimit)
	price := FormatPrice(product.Price, product.Currency)
	var b strings.Builder
	fmt.Fprintf(&b, "Write a catchy, 2-sentence Pinterest description for a product called %q", product.Name)
	if summary != "" {
		fmt.Fprintf(&b, ", described as %q", summary)
	}
	b.WriteString(".")
	if price != "" {
		fmt.Fprintf(&b, " It costs %s.", price)
	}
	b.WriteString(" Frame it in a lifestyle context.")
	return b.String()
}

func truncateRunes(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}
