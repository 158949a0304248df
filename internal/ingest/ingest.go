// Package ingest imports card dumps into the catalog
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Writer is the catalog side of an import
type Writer interface {
	UpsertCards(ctx context.Context, cards []models.Card) (int, error)
}

// Summary reports what an import did
type Summary struct {
	Files int
	Cards int
}

// Importer reads dump files in parallel and writes them in one batch
type Importer struct {
	writer      Writer
	log         zerolog.Logger
	concurrency int
}

// NewImporter creates an importer
func NewImporter(writer Writer, log zerolog.Logger) *Importer {
	return &Importer{writer: writer, log: log, concurrency: 4}
}

// ImportFiles decodes every file and upserts the cards. Cards without a
// source get the given one. Nothing is written if any file fails.
func (im *Importer) ImportFiles(ctx context.Context, source string, paths []string) (Summary, error) {
	var (
		mu    sync.Mutex
		cards []models.Card
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			batch, err := readFile(path, source)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			im.log.Debug().Str("file", path).Int("cards", len(batch)).Msg("Decoded dump")

			mu.Lock()
			cards = append(cards, batch...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	n, err := im.writer.UpsertCards(ctx, cards)
	if err != nil {
		return Summary{}, err
	}

	im.log.Info().Int("files", len(paths)).Int("cards", n).Msg("Import finished")
	return Summary{Files: len(paths), Cards: n}, nil
}

// dumpCard accepts both the flat export format and the nested shape used by
// public card APIs
type dumpCard struct {
	models.Card
	NationalPokedexNumbers []int `json:"nationalPokedexNumbers"`
	Set                    *struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Series string `json:"series"`
	} `json:"set"`
}

func (d dumpCard) card(source string) (models.Card, error) {
	c := d.Card
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" {
		return c, fmt.Errorf("card %q has no id", c.Name)
	}
	if c.IsCustom() {
		return c, fmt.Errorf("card %q: %w", c.ID, models.ErrReservedID)
	}
	if c.Source == "" {
		c.Source = source
	}
	if len(c.Pokedex) == 0 {
		c.Pokedex = d.NationalPokedexNumbers
	}
	if d.Set != nil {
		if c.SetID == "" {
			c.SetID = d.Set.ID
		}
		if c.SetName == "" {
			c.SetName = d.Set.Name
		}
	}
	return c, nil
}

func readFile(path, source string) ([]models.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, source)
}

// Decode parses a dump: either a JSON array of cards or an object with the
// cards under "data"
func Decode(data []byte, source string) ([]models.Card, error) {
	var raw []dumpCard
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data []dumpCard `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse dump: %w", err)
		}
		raw = envelope.Data
	} else if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dump: %w", err)
	}

	cards := make([]models.Card, 0, len(raw))
	for _, d := range raw {
		c, err := d.card(source)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
