package feed

import "strings"

// Product is one normalized feed entry. ID is the sole deduplication key;
// records without it are invalid and are skipped, never coerced.
type Product struct {
	ID           string `json:"product_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Merchant     string `json:"merchant,omitempty"`
	AffiliateURL string `json:"affiliate_url"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category,omitempty"`
}

// Validate reports the fields a product is missing to be usable. A product
// needs an id, an affiliate link, and an image source.
func (p Product) Validate() []string {
	var missing []string
	if strings.TrimSpace(p.ID) == "" {
		missing = append(missing, "product_id")
	}
	if strings.TrimSpace(p.AffiliateURL) == "" {
		missing = append(missing, "affiliate_url")
	}
	if strings.TrimSpace(p.ImageURL) == "" {
		missing = append(missing, "image_url")
	}
	return missing
}

func (p *Product) normalize() {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Price = strings.TrimSpace(p.Price)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.Merchant = strings.TrimSpace(p.Merchant)
	p.AffiliateURL = strings.TrimSpace(p.AffiliateURL)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Category = strings.TrimSpace(p.Category)
}
