package favorites

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Manager manages saved queries and views
type Manager struct {
	path      string
	favorites []models.Favorite
}

// NewManager creates a new favorites manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "favorites.yaml")

	m := &Manager{
		path:      path,
		favorites: []models.Favorite{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load favorites: %w", err)
		}
	}

	return m, nil
}

// Load loads favorites from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read favorites file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.favorites); err != nil {
		return fmt.Errorf("failed to parse favorites: %w", err)
	}

	return nil
}

// Save saves favorites to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.favorites)
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write favorites file: %w", err)
	}

	return nil
}

// AddQuery saves a raw query under name
func (m *Manager) AddQuery(name, description, query string, tags []string) (*models.Favorite, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("favorite query cannot be empty")
	}
	return m.add(models.Favorite{Name: name, Description: description, Query: query, Tags: tags})
}

// AddView saves the current search text and filters under name
func (m *Manager) AddView(name, description, search string, filters models.FilterSet, tags []string) (*models.Favorite, error) {
	return m.add(models.Favorite{Name: name, Description: description, Search: search, Filters: filters.Clone(), Tags: tags})
}

func (m *Manager) add(fav models.Favorite) (*models.Favorite, error) {
	fav.Name = strings.TrimSpace(fav.Name)
	if fav.Name == "" {
		return nil, fmt.Errorf("favorite name cannot be empty")
	}

	// Names are case-insensitive
	if _, err := m.GetByName(fav.Name); err == nil {
		return nil, fmt.Errorf("a favorite with the name '%s' already exists", fav.Name)
	}

	now := time.Now()
	fav.ID = uuid.New().String()
	fav.Description = strings.TrimSpace(fav.Description)
	fav.CreatedAt = now
	fav.UpdatedAt = now

	m.favorites = append(m.favorites, fav)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}

	return &fav, nil
}

// Delete deletes a favorite by ID
func (m *Manager) Delete(id string) error {
	for i, fav := range m.favorites {
		if fav.ID == id {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save favorites after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("favorite with ID '%s' was not found", id)
}

// GetByName returns a favorite by case-insensitive name
func (m *Manager) GetByName(name string) (*models.Favorite, error) {
	for _, fav := range m.favorites {
		if strings.EqualFold(fav.Name, strings.TrimSpace(name)) {
			return &fav, nil
		}
	}
	return nil, fmt.Errorf("favorite '%s' was not found", name)
}

// GetAll returns all favorites
func (m *Manager) GetAll() []models.Favorite {
	return m.favorites
}

// Search searches favorites by name, description, or tags
func (m *Manager) Search(query string) []models.Favorite {
	if query == "" {
		return m.favorites
	}

	query = strings.ToLower(query)
	var results []models.Favorite

	for _, fav := range m.favorites {
		if strings.Contains(strings.ToLower(fav.Name), query) ||
			strings.Contains(strings.ToLower(fav.Description), query) {
			results = append(results, fav)
			continue
		}
		for _, tag := range fav.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, fav)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics for a favorite
func (m *Manager) RecordUsage(id string) error {
	for i, fav := range m.favorites {
		if fav.ID == id {
			m.favorites[i].UsageCount++
			m.favorites[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("favorite with ID '%s' was not found", id)
}

// GetRecent returns the most recently used favorites
func (m *Manager) GetRecent(limit int) []models.Favorite {
	sorted := make([]models.Favorite, len(m.favorites))
	copy(sorted, m.favorites)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}
