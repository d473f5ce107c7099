package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mapr-agent/recommender/internal/model"
)

// Catalog is the read-mostly product store the pipeline scores against.
// Search and Get never fail; no match is an empty result.
type Catalog interface {
	Search(query, category string, tags []string) []model.Product
	Get(id string) (model.Product, bool)
	All() []model.Product
	Add(p model.Product) error
}

// Memory holds products in insertion order so ranked lists stay stable
// across runs. Add is an admin operation and may race with pipeline
// reads when exposed over HTTP, hence the lock.
type Memory struct {
	mu       sync.RWMutex
	products []model.Product
	index    map[string]int
}

func NewMemory() *Memory {
	return &Memory{index: make(map[string]int)}
}

// NewSeeded returns a catalog preloaded with the demo product set.
func NewSeeded() *Memory {
	m := NewMemory()
	for _, p := range seedProducts() {
		m.Add(p)
	}
	return m
}

func (m *Memory) Add(p model.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[p.ID]; exists {
		return fmt.Errorf("product %s already exists", p.ID)
	}
	m.index[p.ID] = len(m.products)
	m.products = append(m.products, p)
	return nil
}

func (m *Memory) Get(id string) (model.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return model.Product{}, false
	}
	return m.products[i], true
}

func (m *Memory) All() []model.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Product, len(m.products))
	copy(out, m.products)
	return out
}

func (m *Memory) Search(query, category string, tags []string) []model.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]model.Product, 0)
	for _, p := range m.products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if category != "" && !strings.EqualFold(category, p.Category) {
			continue
		}
		if len(tags) > 0 && !matchesAnyTag(p, tags) {
			continue
		}
		results = append(results, p)
	}
	return results
}

func matchesQuery(p model.Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

func matchesAnyTag(p model.Product, tags []string) bool {
	for _, tag := range tags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}
