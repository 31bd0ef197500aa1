// Package recommend resolves product recommendations through an external
// scoring service, with a catalog-based fallback when it is unavailable.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/ecostore/backend/internal/domain/catalog"
)

const (
	maxRecommendations = 20
	fallbackLimit      = 6
)

// Gateway calls the external recommendation service and maps its product id
// lists back onto catalog records.
type Gateway struct {
	baseURL  string
	client   *http.Client
	products catalog.Repository
	lg       *zap.Logger
}

// NewGateway creates a recommendation Gateway. A nil client falls back to a
// default with a 5s timeout.
func NewGateway(baseURL string, client *http.Client, products catalog.Repository, lg *zap.Logger) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Gateway{
		baseURL:  baseURL,
		client:   client,
		products: products,
		lg:       lg,
	}
}

type recommendRequest struct {
	ProductID string `json:"product_id"`
}

type recommendResponse struct {
	Recommendations [][]string `json:"recommendations"`
}

// ForProduct returns recommended products for the given source product. The
// external service is consulted first; any failure there degrades to the
// catalog fallback instead of surfacing an error.
func (g *Gateway) ForProduct(ctx context.Context, productID string) ([]catalog.Product, error) {
	ids, err := g.fetch(ctx, productID)
	if err != nil {
		g.lg.Warn("recommendation service unavailable, using fallback",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return g.fallback(ctx, productID)
	}
	if len(ids) == 0 {
		return g.fallback(ctx, productID)
	}

	products, err := g.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "resolve products")
	}
	if len(products) == 0 {
		return g.fallback(ctx, productID)
	}

	// Preserve the service's ranking; GetByIDs gives no order guarantee.
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]catalog.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// fetch posts the product id to the scoring service and flattens its grouped
// response into a deduplicated, capped id list.
func (g *Gateway) fetch(ctx context.Context, productID string) ([]string, error) {
	body, err := json.Marshal(recommendRequest{ProductID: productID})
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/recommend", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call service")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload recommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, maxRecommendations)
	for _, group := range payload.Recommendations {
		for _, id := range group {
			if id == "" || id == productID || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			if len(ids) == maxRecommendations {
				return ids, nil
			}
		}
	}
	return ids, nil
}

// fallback returns up to fallbackLimit products from the same category as the
// source, excluding the source itself. An unknown source degrades further to
// the most recently added products.
func (g *Gateway) fallback(ctx context.Context, productID string) ([]catalog.Product, error) {
	source, err := g.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return g.products.ListRecent(ctx, fallbackLimit)
		}
		return nil, errors.Wrap(err, "get product")
	}

	siblings, err := g.products.ListByCategory(ctx, source.Category)
	if err != nil {
		return nil, errors.Wrap(err, "list category")
	}

	out := make([]catalog.Product, 0, fallbackLimit)
	for _, p := range siblings {
		if p.ID == productID {
			continue
		}
		out = append(out, p)
		if len(out) == fallbackLimit {
			break
		}
	}
	return out, nil
}
