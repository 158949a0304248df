package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rebeliceyang/cardex/internal/app"
	"github.com/rebeliceyang/cardex/internal/db/store"
	"github.com/rebeliceyang/cardex/internal/history"
	"github.com/rebeliceyang/cardex/internal/ingest"
	"github.com/rebeliceyang/cardex/internal/models"
)

var importSource string

// importCmd loads JSON card dumps into the catalog
var importCmd = &cobra.Command{
	Use:   "import <files...>",
	Short: "Import JSON card dumps",
	Long: `Import one or more JSON card dumps. Each file holds an array of cards
or an object with a "data" array. Files are read in parallel and written
in a single transaction.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(ctx context.Context, s *store.Store, log zerolog.Logger) error {
			summary, err := ingest.NewImporter(s, log).ImportFiles(ctx, importSource, args)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d cards from %d files into %s\n", summary.Cards, summary.Files, importSource)
			return nil
		})
	},
}

// queryCmd runs a raw SQL statement and prints the rows
var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a raw SQL query against the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sql := strings.Join(args, " ")
		return withCatalog(func(ctx context.Context, s *store.Store, log zerolog.Logger) error {
			start := time.Now()
			result, err := s.ExecuteRaw(ctx, sql)
			recordQuery(log, sql, result, err, time.Since(start))
			if err != nil {
				return err
			}

			if !result.ReadOnly {
				fmt.Printf("%d rows affected\n", result.RowsAffected)
				return nil
			}
			fmt.Println(renderRecords(result.Columns, result.Records))
			fmt.Printf("%d rows (%s)\n", len(result.Records), result.Duration.Round(time.Millisecond))
			return nil
		})
	},
}

// recordQuery adds a CLI query to the shared history
func recordQuery(log zerolog.Logger, sql string, result models.RawResult, err error, elapsed time.Duration) {
	if !cfg.History.Enabled {
		return
	}
	hist, openErr := openHistory()
	if openErr != nil {
		log.Warn().Err(openErr).Msg("Query history disabled")
		return
	}
	defer hist.Close()

	entry := history.Entry{
		Query:        sql,
		DurationMs:   elapsed.Milliseconds(),
		RowsAffected: result.RowsAffected,
		ReadOnly:     result.ReadOnly,
		Success:      err == nil,
	}
	if result.ReadOnly {
		entry.RowsAffected = int64(len(result.Records))
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	if err := hist.Add(entry); err != nil {
		log.Warn().Err(err).Msg("Failed to record query history")
	}
}

func renderRecords(columns []string, records []models.Card) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = rec.Field(col)
		}
		rows = append(rows, row)
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...).
		String()
}

// attrCmd manages user attribute definitions
var attrCmd = &cobra.Command{
	Use:   "attr",
	Short: "List, add or remove user attributes",
}

var attrListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List attribute definitions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(func(ctx context.Context, s *store.Store, log zerolog.Logger) error {
			defs, err := s.FetchAttributes(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(defs))
			for _, def := range defs {
				builtin := ""
				if def.Builtin {
					builtin = "yes"
				}
				rows = append(rows, []string{def.Key, def.Label, string(def.Type), strings.Join(def.Options, ","), builtin})
			}
			fmt.Println(table.New().
				Border(lipgloss.NormalBorder()).
				Headers("KEY", "LABEL", "TYPE", "OPTIONS", "BUILTIN").
				Rows(rows...).
				String())
			return nil
		})
	},
}

var attrAddCmd = &cobra.Command{
	Use:   "add <key> <type> [label=...] [options=a,b] [min=n] [max=n]",
	Short: "Create a user attribute",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := app.ParseCommand(commandLine("attr add", args))
		if err != nil {
			return err
		}
		def := parsed.(app.AttrAddCommand).Definition.Normalized()
		if err := def.Validate(); err != nil {
			return err
		}
		return withCatalog(func(ctx context.Context, s *store.Store, log zerolog.Logger) error {
			if err := s.CreateAttribute(ctx, def); err != nil {
				return err
			}
			log.Info().Str("key", def.Key).Str("type", string(def.Type)).Msg("Attribute created")
			return nil
		})
	},
}

var attrRemoveCmd = &cobra.Command{
	Use:     "rm <key>",
	Aliases: []string{"remove"},
	Short:   "Delete a user attribute and its values",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := models.NormalizeAttributeKey(args[0])
		return withCatalog(func(ctx context.Context, s *store.Store, log zerolog.Logger) error {
			if err := s.DeleteAttribute(ctx, key); err != nil {
				return err
			}
			log.Info().Str("key", key).Msg("Attribute deleted")
			return nil
		})
	},
}

// cardCmd manages custom records
var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage custom records",
}

var cardAddCmd = &cobra.Command{
	Use:   "add id=custom-... name=... source=... [field=value...]",
	Short: "Add a custom record",
	Long: `Add a custom record. The id must start with "custom-". Other fields:
set, set_id, number, hp, rarity, supertype, types, subtypes, pokedex,
region, artist. List fields take comma-separated values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := app.ParseCommand(commandLine("card add", args))
		if err != nil {
			return err
		}
		card := parsed.(app.CardAddCommand).Card
		if err := card.Validate(); err != nil {
			return err
		}
		return withCatalog(func(ctx context.Context, s *store.Store, log zerolog.Logger) error {
			if err := s.AddCustomRecord(ctx, card); err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", card.ID, card.CustomSource)
			return nil
		})
	},
}

// commandLine rebuilds a ':' command line from shell arguments, quoting
// the ones the shell had to quote
func commandLine(prefix string, args []string) string {
	parts := []string{prefix}
	for _, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			if k, v, ok := strings.Cut(arg, "="); ok {
				arg = k + `="` + v + `"`
			} else {
				arg = `"` + arg + `"`
			}
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

func init() {
	importCmd.Flags().StringVarP(&importSource, "source", "s", "", "Source label for the imported cards (required)")
	importCmd.MarkFlagRequired("source")

	attrCmd.AddCommand(attrListCmd)
	attrCmd.AddCommand(attrAddCmd)
	attrCmd.AddCommand(attrRemoveCmd)

	cardCmd.AddCommand(cardAddCmd)
}
