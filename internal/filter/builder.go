package filter

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Placeholder selects the bind variable style of the target database
type Placeholder int

const (
	// Question renders "?" (SQLite)
	Question Placeholder = iota
	// Dollar renders "$1", "$2", ... (PostgreSQL)
	Dollar
)

// Builder generates SQL WHERE and ORDER BY clauses from card queries
type Builder struct {
	placeholder Placeholder
}

// NewBuilder creates a new filter builder
func NewBuilder(placeholder Placeholder) *Builder {
	return &Builder{placeholder: placeholder}
}

// columns maps equality filter keys to their column
var columns = map[string]string{
	models.FilterSource:    "source",
	models.FilterSupertype: "supertype",
	models.FilterRarity:    "rarity",
	models.FilterSetID:     "set_id",
	models.FilterRegion:    "region",
	models.FilterArtist:    "artist",
}

// listColumns maps filter keys to comma separated list columns
var listColumns = map[string]string{
	models.FilterSubtype: "subtypes",
	models.FilterType:    "types",
}

// Conditions converts the search text and filter set of a query into a
// condition group. Unset and unrecognised keys add no constraint.
func (b *Builder) Conditions(q models.CardQuery) models.FilterGroup {
	group := models.FilterGroup{Logic: "AND"}

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + EscapeLike(strings.ToLower(search)) + "%"
		group.Groups = append(group.Groups, models.FilterGroup{
			Logic: "OR",
			Conditions: []models.FilterCondition{
				{Column: "LOWER(name)", Operator: models.OpLike, Value: pattern},
				{Column: "LOWER(id)", Operator: models.OpLike, Value: pattern},
			},
		})
	}

	// Iterate the known keys in a fixed order so the SQL is deterministic
	for _, key := range models.FilterKeys {
		value := q.Filters.Get(key)
		if value == "" {
			continue
		}
		if col, ok := columns[key]; ok {
			if key == models.FilterSource && value == models.SourceCustom {
				group.Conditions = append(group.Conditions, models.FilterCondition{
					Column: "id", Operator: models.OpLike, Value: models.CustomIDPrefix + "%",
				})
				continue
			}
			group.Conditions = append(group.Conditions, models.FilterCondition{
				Column: col, Operator: models.OpEqual, Value: value,
			})
			continue
		}
		if col, ok := listColumns[key]; ok {
			group.Conditions = append(group.Conditions, models.FilterCondition{
				Column: col, Operator: models.OpListContains, Value: value,
			})
			continue
		}
		switch key {
		case models.FilterHPMin, models.FilterHPMax:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}
			op := models.OpGreaterOrEqual
			if key == models.FilterHPMax {
				op = models.OpLessOrEqual
			}
			group.Conditions = append(group.Conditions, models.FilterCondition{
				Column: "hp_value", Operator: op, Value: n,
			})
		}
	}

	attrs := q.Filters.AttributeFilters()
	for _, key := range sortedKeys(attrs) {
		group.Conditions = append(group.Conditions, models.FilterCondition{
			Column: key, Operator: models.OpAttributeEqual, Value: attrs[key],
		})
	}

	return group
}

// BuildWhere generates a WHERE clause from a condition group
func (b *Builder) BuildWhere(group models.FilterGroup) (string, []interface{}, error) {
	if group.IsEmpty() {
		return "", nil, nil
	}

	clause, args, err := b.buildGroup(group, 1)
	if err != nil {
		return "", nil, err
	}

	return "WHERE " + clause, args, nil
}

// BuildQueryWhere is Conditions followed by BuildWhere
func (b *Builder) BuildQueryWhere(q models.CardQuery) (string, []interface{}, error) {
	return b.BuildWhere(b.Conditions(q))
}

// buildGroup recursively builds a filter group
func (b *Builder) buildGroup(group models.FilterGroup, paramIndex int) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}
	currentParam := paramIndex

	for _, cond := range group.Conditions {
		clause, condArgs, err := b.buildCondition(cond, currentParam)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
		currentParam += len(condArgs)
	}

	for _, subGroup := range group.Groups {
		if subGroup.IsEmpty() {
			continue
		}
		clause, groupArgs, err := b.buildGroup(subGroup, currentParam)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "("+clause+")")
		args = append(args, groupArgs...)
		currentParam += len(groupArgs)
	}

	logic := group.Logic
	if logic == "" {
		logic = "AND"
	}

	return strings.Join(clauses, " "+logic+" "), args, nil
}

// buildCondition builds a single filter condition
func (b *Builder) buildCondition(cond models.FilterCondition, paramIndex int) (string, []interface{}, error) {
	column := cond.Column

	switch cond.Operator {
	case models.OpEqual, models.OpGreaterOrEqual, models.OpLessOrEqual:
		return fmt.Sprintf("%s %s %s", column, cond.Operator, b.param(paramIndex)), []interface{}{cond.Value}, nil
	case models.OpLike:
		// Patterns are escaped with EscapeLike
		return fmt.Sprintf(`%s LIKE %s ESCAPE '\'`, column, b.param(paramIndex)), []interface{}{cond.Value}, nil
	case models.OpListContains:
		return fmt.Sprintf(`(',' || %s || ',') LIKE %s ESCAPE '\'`, column, b.param(paramIndex)),
			[]interface{}{"%," + EscapeLike(fmt.Sprint(cond.Value)) + ",%"}, nil
	case models.OpAttributeEqual:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM card_attributes ca WHERE ca.card_id = cards.id AND ca.attr_key = %s AND ca.value = %s)",
			b.param(paramIndex), b.param(paramIndex+1),
		), []interface{}{column, cond.Value}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator: %s", cond.Operator)
	}
}

// EscapeLike makes s match itself literally inside a LIKE pattern
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (b *Builder) param(index int) string {
	if b.placeholder == Dollar {
		return fmt.Sprintf("$%d", index)
	}
	return "?"
}

// OrderBy returns the ORDER BY clause for the sort controls of a filter set.
// Records without a pokedex number sort last in both directions, matching
// the client-side comparator.
func (b *Builder) OrderBy(filters models.FilterSet) string {
	dir := "ASC"
	if filters.SortDir() == models.SortDesc {
		dir = "DESC"
	}

	var expr string
	switch key := filters.SortBy(); key {
	case "pokedex":
		return fmt.Sprintf("ORDER BY pokedex_first IS NULL, pokedex_first %s, id ASC", dir)
	case "number":
		expr = "COALESCE(number_value, 0)"
	case "hp":
		expr = "COALESCE(hp_value, 0)"
	case "name", "rarity", "set_id", "set_name", "supertype", "artist", "region", "source":
		expr = fmt.Sprintf("LOWER(COALESCE(%s, ''))", key)
	default:
		expr = "LOWER(name)"
	}
	return fmt.Sprintf("ORDER BY %s %s, id ASC", expr, dir)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
