package testsupport

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Hali-creater/AuraPin/internal/config"
	"github.com/Hali-creater/AuraPin/internal/feed"
	"github.com/Hali-creater/AuraPin/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewProduct returns a minimal valid product for tests.
func NewProduct(id string) feed.Product {
	return feed.Product{
		ID:           id,
		Name:         "Product " + id,
		Description:  "Test product " + id,
		Price:        "24.99",
		Currency:     "GBP",
		AffiliateURL: "https://aff.example.com/" + id,
		ImageURL:     "https://img.example.com/" + id + ".jpg",
	}
}

// NewCandidate inserts a pending candidate for the given product.
func NewCandidate(t testing.TB, st *store.Store, runID string, product feed.Product) *store.Candidate {
	t.Helper()

	productJSON, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("marshal product: %v", err)
	}
	candidate, err := st.InsertCandidate(context.Background(), &store.Candidate{
		RunID:       runID,
		ProductID:   product.ID,
		ProductJSON: string(productJSON),
		Title:       product.Name,
		Description: "Check out " + product.Name,
		Status:      store.StatusPending,
	})
	if err != nil {
		t.Fatalf("store.InsertCandidate: %v", err)
	}
	return candidate
}
