package content

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"golang.org/x/text/currency"

	"github.com/Hali-creater/AuraPin/internal/feed"
)

// TemplateGenerator is the deterministic strategy: the base text is a pure
// function of the product fields and a fixed phrase set, so it always
// succeeds for a valid product.
type TemplateGenerator struct {
	settings Settings
}

// NewTemplateGenerator constructs the template strategy.
func NewTemplateGenerator(settings Settings) *TemplateGenerator {
	return &TemplateGenerator{settings: settings}
}

// Generate renders the templated description for the product.
func (g *TemplateGenerator) Generate(_ context.Context, product feed.Product) (string, error) {
	base := templateBase(product)
	tags := SampleHashtags(g.settings.HashtagPool, g.settings.HashtagCount)
	return compose(base, tags, g.settings.Disclaimer), nil
}

func templateBase(product feed.Product) string {
	name := strings.TrimSpace(product.Name)
	if name == "" {
		name = "find"
	}
	price := FormatPrice(product.Price, product.Currency)

	phrasings := []func() string{
		func() string { return fmt.Sprintf("Loving this %s! Perfect for my home. 🛍️", name) },
		func() string { return fmt.Sprintf("Just found this amazing %s. What do you think?", name) },
		func() string { return fmt.Sprintf("Great deal alert! 🚨 %s for only %s!", name, price) },
	}

	index := int(fnvHash(product.ID) % uint32(len(phrasings)))
	if price == "" && index == len(phrasings)-1 {
		index = 0
	}
	return phrasings[index]()
}

func fnvHash(value string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return h.Sum32()
}

// FormatPrice renders a feed price with its ISO currency code when one is
// present, falling back to the raw feed value.
func FormatPrice(price, currencyCode string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return ""
	}
	currencyCode = strings.TrimSpace(currencyCode)
	if currencyCode == "" {
		return price
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return price + " " + currencyCode
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(price, ",", ""), 64)
	if err != nil {
		return price + " " + unit.String()
	}
	return fmt.Sprintf("%v", unit.Amount(amount))
}
