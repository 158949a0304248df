package app

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rebeliceyang/cardex/internal/models"
)

// Command is a parsed ':' command line
type Command interface {
	isCommand()
}

// FilterCommand merges a partial filter set (filter, source and sort)
type FilterCommand struct {
	Partial models.FilterSet
}

// ClearCommand resets the filters of the current source
type ClearCommand struct{}

// PageCommand jumps to a browse page
type PageCommand struct {
	Page int
}

// AttrAddCommand creates a user attribute
type AttrAddCommand struct {
	Definition models.AttributeDefinition
}

// AttrRemoveCommand deletes a user attribute
type AttrRemoveCommand struct {
	Key string
}

// SetAttrCommand sets an attribute value on the selected cards
type SetAttrCommand struct {
	Key   string
	Value string
}

// CardAddCommand adds a custom record
type CardAddCommand struct {
	Card models.Card
}

// SaveCommand saves the current view, or the raw query on screen
type SaveCommand struct {
	Name        string
	Description string
	Tags        []string
}

// LoadCommand applies a saved view or query
type LoadCommand struct {
	Name string
}

// ExportCommand writes the selection to a file
type ExportCommand struct {
	Path string
}

// HistoryCommand loads matching past raw queries into the editor
type HistoryCommand struct {
	Text string
}

// QuitCommand exits the program
type QuitCommand struct{}

func (FilterCommand) isCommand()     {}
func (ClearCommand) isCommand()      {}
func (PageCommand) isCommand()       {}
func (AttrAddCommand) isCommand()    {}
func (AttrRemoveCommand) isCommand() {}
func (SetAttrCommand) isCommand()    {}
func (CardAddCommand) isCommand()    {}
func (SaveCommand) isCommand()       {}
func (LoadCommand) isCommand()       {}
func (ExportCommand) isCommand()     {}
func (HistoryCommand) isCommand()    {}
func (QuitCommand) isCommand()       {}

var (
	ErrEmptyCommand   = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// ParseCommand parses a command line. Arguments are split on whitespace;
// double quotes group words ("Base Set").
func ParseCommand(line string) (Command, error) {
	args, err := splitArgs(line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	name, args := strings.ToLower(args[0]), args[1:]
	switch name {
	case "filter", "f":
		return parseFilter(args)
	case "source", "src":
		return parseSource(args)
	case "clear":
		return ClearCommand{}, nil
	case "page", "p":
		return parsePage(args)
	case "sort":
		return parseSort(args)
	case "attr":
		return parseAttr(args)
	case "set":
		return parseSet(args)
	case "card":
		return parseCard(args)
	case "save", "w":
		if len(args) == 0 {
			return nil, usage("save <name> [description] [tags=a,b]")
		}
		return parseSave(args), nil
	case "load", "o":
		if len(args) != 1 {
			return nil, usage("load <name>")
		}
		return LoadCommand{Name: args[0]}, nil
	case "export":
		if len(args) != 1 {
			return nil, usage("export <path.csv|path.json>")
		}
		return ExportCommand{Path: args[0]}, nil
	case "history":
		return HistoryCommand{Text: strings.Join(args, " ")}, nil
	case "q", "quit":
		return QuitCommand{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func parseSave(args []string) SaveCommand {
	cmd := SaveCommand{Name: args[0]}
	var desc []string
	for _, arg := range args[1:] {
		if tags, ok := strings.CutPrefix(arg, "tags="); ok {
			cmd.Tags = append(cmd.Tags, models.SplitList(tags)...)
			continue
		}
		desc = append(desc, arg)
	}
	cmd.Description = strings.Join(desc, " ")
	return cmd
}

func usage(text string) error {
	return fmt.Errorf("%w: %s", ErrUsage, text)
}

func parseFilter(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, usage("filter <key>=<value> ...")
	}
	partial := models.FilterSet{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if !isFilterKey(key) {
			return nil, fmt.Errorf("unknown filter %q", key)
		}
		partial[key] = strings.TrimSpace(value)
	}
	return FilterCommand{Partial: partial}, nil
}

func isFilterKey(key string) bool {
	if slices.Contains(models.FilterKeys, key) {
		return true
	}
	attr, ok := strings.CutPrefix(key, models.AttributeFilterPrefix)
	return ok && attr != ""
}

func parseSource(args []string) (Command, error) {
	source := strings.Join(args, " ")
	if strings.EqualFold(source, "all") {
		source = models.SourceAll
	}
	return FilterCommand{Partial: models.FilterSet{models.FilterSource: source}}, nil
}

func parsePage(args []string) (Command, error) {
	if len(args) != 1 {
		return nil, usage("page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("invalid page %q", args[0])
	}
	return PageCommand{Page: n}, nil
}

func parseSort(args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, usage("sort <key> [asc|desc]")
	}
	key := strings.ToLower(args[0])
	if !slices.Contains(models.SortKeys, key) {
		return nil, fmt.Errorf("unknown sort key %q (one of %s)", key, strings.Join(models.SortKeys, ", "))
	}
	partial := models.FilterSet{models.FilterSortBy: key}
	if len(args) == 2 {
		dir := strings.ToLower(args[1])
		if dir != models.SortAsc && dir != models.SortDesc {
			return nil, fmt.Errorf("invalid sort direction %q", args[1])
		}
		partial[models.FilterSortDir] = dir
	}
	return FilterCommand{Partial: partial}, nil
}

// parseAttr handles
//
//	attr add <key> <type> [label=...] [options=a,b] [min=n] [max=n]
//	attr rm <key>
func parseAttr(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, usage("attr add|rm ...")
	}
	switch strings.ToLower(args[0]) {
	case "rm", "remove", "del":
		if len(args) != 2 {
			return nil, usage("attr rm <key>")
		}
		return AttrRemoveCommand{Key: args[1]}, nil
	case "add":
		if len(args) < 3 {
			return nil, usage("attr add <key> <text|number|boolean|select> [label=..] [options=a,b] [min=n] [max=n]")
		}
		def := models.AttributeDefinition{
			Key:   args[1],
			Label: args[1],
			Type:  models.AttributeType(strings.ToLower(args[2])),
		}
		for _, opt := range args[3:] {
			key, value, ok := strings.Cut(opt, "=")
			if !ok {
				return nil, fmt.Errorf("expected key=value, got %q", opt)
			}
			switch strings.ToLower(key) {
			case "label":
				def.Label = value
			case "options":
				def.Options = models.SplitList(value)
			case "min", "max":
				f, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid %s %q", key, value)
				}
				if def.Bounds == nil {
					def.Bounds = &models.NumberBounds{}
				}
				if strings.EqualFold(key, "min") {
					def.Bounds.Min = &f
				} else {
					def.Bounds.Max = &f
				}
			default:
				return nil, fmt.Errorf("unknown attribute option %q", key)
			}
		}
		return AttrAddCommand{Definition: def}, nil
	}
	return nil, usage("attr add|rm ...")
}

func parseSet(args []string) (Command, error) {
	if len(args) != 1 {
		return nil, usage("set <attribute>=<value>")
	}
	key, value, ok := strings.Cut(args[0], "=")
	if !ok || key == "" {
		return nil, usage("set <attribute>=<value>")
	}
	return SetAttrCommand{Key: strings.TrimPrefix(key, models.AttributeFilterPrefix), Value: value}, nil
}

// parseCard handles
//
//	card add id=custom-... name=... source=... [set=..] [number=..] [hp=..]
//	         [rarity=..] [types=a,b] [pokedex=1,2] [artist=..]
func parseCard(args []string) (Command, error) {
	if len(args) < 2 || !strings.EqualFold(args[0], "add") {
		return nil, usage("card add id=custom-<id> name=<name> source=<label> ...")
	}
	card := models.Card{Source: models.SourceCustom}
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		switch strings.ToLower(key) {
		case "id":
			card.ID = value
		case "name":
			card.Name = value
		case "source":
			card.CustomSource = value
		case "set":
			card.SetName = value
		case "set_id":
			card.SetID = value
		case "number":
			card.Number = value
		case "hp":
			card.HP = value
		case "rarity":
			card.Rarity = value
		case "supertype":
			card.Supertype = value
		case "types":
			card.Types = models.SplitList(value)
		case "subtypes":
			card.Subtypes = models.SplitList(value)
		case "pokedex":
			card.Pokedex = models.SplitInts(value)
		case "region":
			card.Region = value
		case "artist":
			card.Artist = value
		default:
			return nil, fmt.Errorf("unknown card field %q", key)
		}
	}
	return CardAddCommand{Card: card}, nil
}

// splitArgs splits on whitespace, keeping double-quoted runs together
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t'):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
