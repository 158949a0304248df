package query

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Execute runs an ad-hoc statement. Read-only statements return their rows
// as cards; anything else is executed and described by a change set.
func Execute(ctx context.Context, db *sqlx.DB, sql string) (models.RawResult, error) {
	start := time.Now()

	if !IsReadOnly(sql) {
		res, err := db.ExecContext(ctx, sql)
		if err != nil {
			return models.RawResult{}, err
		}
		affected, _ := res.RowsAffected()
		return models.RawResult{
			Changes:      Classify(sql),
			RowsAffected: affected,
			Duration:     time.Since(start),
		}, nil
	}

	rows, err := db.QueryxContext(ctx, sql)
	if err != nil {
		return models.RawResult{}, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return models.RawResult{}, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []models.Card
	for rows.Next() {
		row := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(row); err != nil {
			return models.RawResult{}, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, CardFromRow(row, len(records)))
	}
	if err := rows.Err(); err != nil {
		return models.RawResult{}, err
	}

	return models.RawResult{
		Columns:      columns,
		Records:      records,
		ReadOnly:     true,
		RowsAffected: int64(len(records)),
		Duration:     time.Since(start),
	}, nil
}

var leadingComment = regexp.MustCompile(`(?s)^(\s*(--[^\n]*\n|/\*.*?\*/))*\s*`)

// firstKeyword returns the upper-cased first word of a statement
func firstKeyword(sql string) string {
	sql = leadingComment.ReplaceAllString(sql, "")
	end := strings.IndexFunc(sql, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end >= 0 {
		sql = sql[:end]
	}
	return strings.ToUpper(sql)
}

// IsReadOnly reports whether a statement only reads data
func IsReadOnly(sql string) bool {
	switch firstKeyword(sql) {
	case "SELECT", "VALUES", "EXPLAIN", "SHOW", "PRAGMA":
		return true
	case "WITH":
		// A CTE may wrap a data-modifying statement
		return len(mutationTarget.FindAllStringSubmatch(sql, -1)) == 0
	}
	return false
}

var mutationTarget = regexp.MustCompile(`(?is)\b(?:insert\s+(?:or\s+\w+\s+)?into|replace\s+into|update(?:\s+or\s+\w+)?|delete\s+from|truncate(?:\s+table)?|drop\s+table(?:\s+if\s+exists)?|alter\s+table)\s+["` + "`" + `]?(\w+)`)

// Classify derives the change set of a mutating statement from the tables
// it writes to. Statements touching neither cards nor attributes report no
// change.
func Classify(sql string) models.ChangeSet {
	var changes models.ChangeSet
	for _, m := range mutationTarget.FindAllStringSubmatch(sql, -1) {
		switch strings.ToLower(m[1]) {
		case "cards":
			changes.Cards = true
		case "card_attributes":
			// Attribute values are shown on the rows themselves
			changes.Attributes = true
			changes.Cards = true
		case "attribute_definitions":
			changes.Attributes = true
		}
	}
	return changes
}

// CardFromRow maps a result row onto a card. Known columns fill the card
// fields; every other column becomes an attribute so it stays visible. Rows
// without an id column get a positional one.
func CardFromRow(row map[string]interface{}, index int) models.Card {
	card := models.Card{Attributes: map[string]string{}}
	for col, val := range row {
		if val == nil {
			continue
		}
		s := convertValueToString(val)
		switch strings.ToLower(col) {
		case "id":
			card.ID = s
		case "name":
			card.Name = s
		case "source":
			card.Source = s
		case "custom_source":
			card.CustomSource = s
		case "supertype":
			card.Supertype = s
		case "subtypes":
			card.Subtypes = models.SplitList(s)
		case "types":
			card.Types = models.SplitList(s)
		case "rarity":
			card.Rarity = s
		case "set_id":
			card.SetID = s
		case "set_name":
			card.SetName = s
		case "number":
			card.Number = s
		case "hp":
			card.HP = s
		case "pokedex":
			card.Pokedex = models.SplitInts(s)
		case "region":
			card.Region = s
		case "artist":
			card.Artist = s
		case "image_url":
			card.ImageURL = s
		case "hp_value", "number_value", "pokedex_first":
		default:
			card.Attributes[col] = s
		}
	}
	if card.ID == "" {
		card.ID = "#" + strconv.Itoa(index+1)
	}
	if len(card.Attributes) == 0 {
		card.Attributes = nil
	}
	return card
}

// convertValueToString converts a database value to string
func convertValueToString(val interface{}) string {
	switch v := val.(type) {
	case map[string]interface{}, []interface{}:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(jsonBytes)
	case []byte:
		return string(v)
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
