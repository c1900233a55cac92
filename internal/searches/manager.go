package searches

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/novaterra/estatecrm/internal/models"
	"gopkg.in/yaml.v3"
)

// Manager manages saved searches
type Manager struct {
	path     string
	searches []models.SavedSearch
}

// NewManager creates a new saved-search manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "searches.yaml")

	m := &Manager{
		path:     path,
		searches: []models.SavedSearch{},
	}

	// Load existing searches if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load saved searches: %w", err)
		}
	}

	return m, nil
}

// Load loads saved searches from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read searches file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.searches); err != nil {
		return fmt.Errorf("failed to parse searches: %w", err)
	}

	return nil
}

// Save saves all searches to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.searches)
	if err != nil {
		return fmt.Errorf("failed to marshal searches: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write searches file: %w", err)
	}

	return nil
}

// Add snapshots a raw query string under a name for one entity.
// Saved searches are never mutated afterwards, only deleted.
func (m *Manager) Add(name, entity, rawQuery string) (*models.SavedSearch, error) {
	name = strings.TrimSpace(name)
	rawQuery = strings.TrimSpace(rawQuery)

	if name == "" {
		return nil, fmt.Errorf("search name cannot be empty")
	}
	if rawQuery == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	// Duplicate names within one entity are rejected (case-insensitive)
	for _, s := range m.searches {
		if s.Entity == entity && strings.EqualFold(s.Name, name) {
			return nil, fmt.Errorf("a saved search named '%s' already exists", name)
		}
	}

	search := models.SavedSearch{
		ID:        uuid.New().String(),
		Name:      name,
		Entity:    entity,
		Query:     rawQuery,
		CreatedAt: time.Now(),
	}

	m.searches = append(m.searches, search)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save search: %w", err)
	}

	return &search, nil
}

// Delete deletes a saved search by ID
func (m *Manager) Delete(id string) error {
	for i, s := range m.searches {
		if s.ID == id {
			m.searches = append(m.searches[:i], m.searches[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save searches after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved search with ID '%s' was not found", id)
}

// Get returns a saved search by ID
func (m *Manager) Get(id string) (*models.SavedSearch, error) {
	for _, s := range m.searches {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("saved search with ID '%s' was not found", id)
}

// ForEntity returns all saved searches for one entity, newest first
func (m *Manager) ForEntity(entity string) []models.SavedSearch {
	var result []models.SavedSearch
	for _, s := range m.searches {
		if s.Entity == entity {
			result = append(result, s)
		}
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// GetAll returns all saved searches
func (m *Manager) GetAll() []models.SavedSearch {
	return m.searches
}
