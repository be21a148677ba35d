package content_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Hali-creater/AuraPin/internal/content"
	"github.com/Hali-creater/AuraPin/internal/testsupport"
)

func testSettings() content.Settings {
	return content.Settings{
		Disclaimer:   "#Ad #CommissionsEarned",
		HashtagPool:  []string{"HomeDecor", "InteriorDesign", "CozyHome", "Style", "Finds"},
		HashtagCount: 3,
	}
}

func TestSampleHashtagsBoundedByPool(t *testing.T) {
	pool := []string{"a", "b", "c"}

	sample := content.SampleHashtags(pool, 5)
	if len(sample) != 3 {
		t.Fatalf("expected whole pool when count exceeds it, got %d tags", len(sample))
	}

	sample = content.SampleHashtags([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}, 3)
	if len(sample) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(sample))
	}
	seen := map[string]bool{}
	for _, tag := range sample {
		if seen[tag] {
			t.Fatalf("duplicate tag %q in sample", tag)
		}
		seen[tag] = true
	}

	if content.SampleHashtags(nil, 3) != nil {
		t.Fatal("expected nil sample from empty pool")
	}
}

func TestTemplateGeneratorLayout(t *testing.T) {
	generator := content.NewTemplateGenerator(testSettings())
	product := testsupport.NewProduct("p-1")

	description, err := generator.Generate(context.Background(), product)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasSuffix(description, "\n#Ad #CommissionsEarned") {
		t.Fatalf("disclaimer must end the description verbatim:\n%s", description)
	}
	sections := strings.SplitN(description, "\n\n", 2)
	if len(sections) != 2 {
		t.Fatalf("expected base text and hashtag block separated by a blank line:\n%s", description)
	}
	hashtagLine := strings.SplitN(sections[1], "\n", 2)[0]
	tags := strings.Fields(hashtagLine)
	if len(tags) != 3 {
		t.Fatalf("expected 3 hashtags, got %q", hashtagLine)
	}
	for _, tag := range tags {
		if !strings.HasPrefix(tag, "#") {
			t.Fatalf("hashtag %q missing # prefix", tag)
		}
	}
}

func TestTemplateGeneratorIsDeterministicPerProduct(t *testing.T) {
	settings := testSettings()
	settings.HashtagCount = 0
	generator := content.NewTemplateGenerator(settings)
	product := testsupport.NewProduct("p-1")

	first, err := generator.Generate(context.Background(), product)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := generator.Generate(context.Background(), product)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first != second {
		t.Fatalf("same product must yield the same base text:\n%s\nvs\n%s", first, second)
	}
	if !strings.Contains(first, product.Name) {
		t.Fatalf("base text should mention the product name:\n%s", first)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := content.FormatPrice("", "GBP"); got != "" {
		t.Fatalf("empty price must stay empty, got %q", got)
	}
	if got := content.FormatPrice("24.99", ""); got != "24.99" {
		t.Fatalf("missing currency keeps raw value, got %q", got)
	}
	got := content.FormatPrice("24.99", "GBP")
	if !strings.Contains(got, "GBP") {
		t.Fatalf("expected currency code in formatted price, got %q", got)
	}
	if got := content.FormatPrice("24.99", "???"); got != "24.99 ???" {
		t.Fatalf("unknown currency falls back to raw code, got %q", got)
	}
}

type fakeCompleter struct {
	response string
	err      error
}

func (f fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.response, f.err
}

func TestModelAssistedUsesServiceResponse(t *testing.T) {
	generator := content.NewModelAssistedGenerator(testSettings(), fakeCompleter{response: "A dreamy desk for slow mornings."}, nil)

	description, err := generator.Generate(context.Background(), testsupport.NewProduct("p-1"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.HasPrefix(description, "A dreamy desk for slow mornings.") {
		t.Fatalf("expected service text to lead the description:\n%s", description)
	}
	if !strings.HasSuffix(description, "#Ad #CommissionsEarned") {
		t.Fatalf("disclaimer missing:\n%s", description)
	}
}

func TestModelAssistedFallsBackOnFailure(t *testing.T) {
	generator := content.NewModelAssistedGenerator(testSettings(), fakeCompleter{err: errors.New("service down")}, nil)
	product := testsupport.NewProduct("p-1")

	description, err := generator.Generate(context.Background(), product)
	if err != nil {
		t.Fatalf("fallback must not surface the service error, got %v", err)
	}
	if !strings.Contains(description, product.Name) {
		t.Fatalf("fallback should be the templated text:\n%s", description)
	}
}

func TestModelAssistedFallsBackOnEmptyResponse(t *testing.T) {
	generator := content.NewModelAssistedGenerator(testSettings(), fakeCompleter{response: "   "}, nil)

	description, err := generator.Generate(context.Background(), testsupport.NewProduct("p-1"))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.TrimSpace(description) == "" {
		t.Fatal("expected non-empty fallback description")
	}
}
