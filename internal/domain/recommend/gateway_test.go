package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecostore/backend/internal/domain/catalog"
)

// --- Mock implementations ---

type mockProductRepo struct {
	catalog.Repository
	byID       map[string]catalog.Product
	byCategory map[string][]catalog.Product
	recent     []catalog.Product
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	var out []catalog.Product
	// Deliberately reversed: callers must restore the requested order.
	for i := len(ids) - 1; i >= 0; i-- {
		if p, ok := m.byID[ids[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) ListByCategory(_ context.Context, category string) ([]catalog.Product, error) {
	return m.byCategory[category], nil
}

func (m *mockProductRepo) ListRecent(_ context.Context, limit int) ([]catalog.Product, error) {
	if len(m.recent) > limit {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

// --- Helpers ---

func product(id, category string) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Category: category}
}

func newRepo(products ...catalog.Product) *mockProductRepo {
	repo := &mockProductRepo{
		byID:       make(map[string]catalog.Product),
		byCategory: make(map[string][]catalog.Product),
	}
	for _, p := range products {
		repo.byID[p.ID] = p
		repo.byCategory[p.Category] = append(repo.byCategory[p.Category], p)
	}
	return repo
}

func scoringServer(t *testing.T, groups [][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/recommend", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req["product_id"])

		_ = json.NewEncoder(w).Encode(map[string]any{"recommendations": groups})
	}))
}

// --- Tests ---

func TestForProduct_RanksAndDeduplicates(t *testing.T) {
	repo := newRepo(
		product("PI0001", "Kitchen"),
		product("PI0002", "Kitchen"),
		product("PI0003", "Care"),
		product("PI0004", "Care"),
	)
	srv := scoringServer(t, [][]string{
		{"PI0003", "PI0002"},
		{"PI0002", "PI0004", "PI0001"}, // PI0002 repeated, PI0001 is the source
	})
	defer srv.Close()

	g := NewGateway(srv.URL, srv.Client(), repo, zap.NewNop())
	got, err := g.ForProduct(context.Background(), "PI0001")
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"PI0003", "PI0002", "PI0004"}, ids)
}

func TestForProduct_ServiceDownFallsBackToCategory(t *testing.T) {
	repo := newRepo(
		product("PI0001", "Kitchen"),
		product("PI0002", "Kitchen"),
		product("PI0003", "Kitchen"),
	)

	g := NewGateway("http://127.0.0.1:1", nil, repo, zap.NewNop())
	got, err := g.ForProduct(context.Background(), "PI0001")
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, p := range got {
		assert.NotEqual(t, "PI0001", p.ID, "source must be excluded")
		assert.Equal(t, "Kitchen", p.Category)
	}
}

func TestForProduct_Non200FallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := newRepo(product("PI0001", "Kitchen"), product("PI0002", "Kitchen"))
	g := NewGateway(srv.URL, srv.Client(), repo, zap.NewNop())

	got, err := g.ForProduct(context.Background(), "PI0001")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PI0002", got[0].ID)
}

func TestForProduct_EmptyResponseFallsBack(t *testing.T) {
	srv := scoringServer(t, [][]string{})
	defer srv.Close()

	repo := newRepo(product("PI0001", "Kitchen"), product("PI0002", "Kitchen"))
	g := NewGateway(srv.URL, srv.Client(), repo, zap.NewNop())

	got, err := g.ForProduct(context.Background(), "PI0001")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PI0002", got[0].ID)
}

func TestForProduct_UnknownSourceUsesRecent(t *testing.T) {
	repo := newRepo(product("PI0002", "Kitchen"))
	repo.recent = []catalog.Product{product("PI0002", "Kitchen")}

	g := NewGateway("http://127.0.0.1:1", nil, repo, zap.NewNop())
	got, err := g.ForProduct(context.Background(), "missing")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PI0002", got[0].ID)
}

func TestForProduct_CapsAtTwenty(t *testing.T) {
	var group []string
	products := []catalog.Product{product("SRC", "Misc")}
	for i := 0; i < 30; i++ {
		id := string(rune('A'+i/10)) + string(rune('0'+i%10))
		group = append(group, id)
		products = append(products, product(id, "Misc"))
	}
	repo := newRepo(products...)

	srv := scoringServer(t, [][]string{group})
	defer srv.Close()

	g := NewGateway(srv.URL, srv.Client(), repo, zap.NewNop())
	got, err := g.ForProduct(context.Background(), "SRC")
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
