package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeSearch   Type = "search"
	TypeClear    Type = "clear"
	TypeDone     Type = "done"
	TypeReopen   Type = "reopen"
	TypeDelete   Type = "delete"
	TypeDue      Type = "due"
	TypePriority Type = "priority"
	TypeExport   Type = "export"
	TypeShow     Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Description string
	Due         *time.Time
	Priority    model.Priority
}

type SearchArgs struct {
	Text string
}

type DueArgs struct {
	// Due is nil when the date should be cleared.
	Due *time.Time
}

type PriorityArgs struct {
	Priority model.Priority
}

type ExportArgs struct {
	Path string
}

type ShowArgs struct {
	Completed bool
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Search   *SearchArgs
	Due      *DueArgs
	Priority *PriorityArgs
	Export   *ExportArgs
	Show     *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, ":") {
		raw = strings.TrimSpace(raw[1:])
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSearch:
		return parseSearch(input, args)
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	case TypeDone, TypeReopen, TypeDelete:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeDue:
		return parseDue(input, args)
	case TypePriority:
		return parsePriority(input, args)
	case TypeExport:
		return Command{Type: TypeExport, Raw: input, Export: &ExportArgs{Path: strings.Join(args, " ")}}, nil
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd pulls due: and p: tokens out of the words; the rest is the description.
func parseAdd(raw string, args []string) (Command, error) {
	add := AddArgs{Priority: model.PriorityNormal}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "due:"):
			due, err := model.ParseDate(arg[len("due:"):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			add.Due = &due
		case strings.HasPrefix(lower, "p:"):
			p, err := model.ParsePriority(arg[len("p:"):])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
			}
			add.Priority = p
		default:
			words = append(words, arg)
		}
	}
	add.Description = strings.TrimSpace(strings.Join(words, " "))
	if add.Description == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a description"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &add}, nil
}

func parseSearch(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "search requires text, use clear to reset"}
	}
	return Command{Type: TypeSearch, Raw: raw, Search: &SearchArgs{Text: text}}, nil
}

func parseDue(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "due requires DD/MM/YY or none"}
	}
	if strings.EqualFold(args[0], "none") {
		return Command{Type: TypeDue, Raw: raw, Due: &DueArgs{}}, nil
	}
	due, err := model.ParseDate(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypeDue, Raw: raw, Due: &DueArgs{Due: &due}}, nil
}

func parsePriority(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "priority requires low, normal or high"}
	}
	p, err := model.ParsePriority(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: TypePriority, Raw: raw, Priority: &PriorityArgs{Priority: p}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires completed or active"}
	}
	switch strings.ToLower(args[0]) {
	case "completed", "all":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Completed: true}}, nil
	case "active":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Completed: false}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown show subject: %s", args[0])}
	}
}
