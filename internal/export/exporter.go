package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rebeliceyang/cardex/internal/models"
)

var baseHeader = []string{"ID", "Name", "Source", "Set", "Number", "Rarity", "Supertype", "Subtypes", "Types", "HP", "Pokedex", "Region", "Artist"}

// ExportToCSV writes cards to a CSV file. Every attribute present on any of
// the cards gets its own column after the fixed ones.
func ExportToCSV(cards []models.Card, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	attrKeys := attributeKeys(cards)
	header := slices.Clone(baseHeader)
	for _, k := range attrKeys {
		header = append(header, "attr."+k)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range cards {
		row := []string{
			c.ID,
			c.Name,
			c.Source,
			c.SetID,
			c.Number,
			c.Rarity,
			c.Supertype,
			strings.Join(c.Subtypes, ", "),
			strings.Join(c.Types, ", "),
			c.HP,
			models.JoinInts(c.Pokedex),
			c.Region,
			c.Artist,
		}
		for _, k := range attrKeys {
			row = append(row, c.Attributes[k])
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportToJSON writes cards to a JSON file as an array
func ExportToJSON(cards []models.Card, path string) error {
	if cards == nil {
		cards = []models.Card{}
	}
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cards to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// Export picks the format from the file extension, defaulting to CSV
func Export(cards []models.Card, path string) error {
	if strings.EqualFold(strings.TrimPrefix(filepath.Ext(path), "."), "json") {
		return ExportToJSON(cards, path)
	}
	return ExportToCSV(cards, path)
}

func attributeKeys(cards []models.Card) []string {
	keys := make(map[string]struct{})
	for _, c := range cards {
		for k := range c.Attributes {
			keys[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(keys))
}
