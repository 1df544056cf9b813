package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeShift    Type = "shift"
	TypeDone     Type = "done"
	TypeGoto     Type = "goto"
	TypeTemplate Type = "template"
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
	From     string
	To       string
	Category string
	Note     string
}

type ShiftArgs struct {
	Direction string
	Minutes   int
}

type DoneArgs struct {
	Target string
}

type GotoArgs struct {
	When string
}

type TemplateArgs struct {
	Action string
	ID     string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Shift    *ShiftArgs
	Done     *DoneArgs
	Goto     *GotoArgs
	Template *TemplateArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
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
	case TypeShift:
		return parseShift(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeTemplate:
		return parseTemplate(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// add expects "add HH:MM HH:MM category [note...]"; the note is optional and
// may contain spaces.
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires start time, end time and category"}
	}
	note := ""
	if len(args) > 3 {
		note = strings.TrimSpace(strings.Join(args[3:], " "))
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{
		From:     args[0],
		To:       args[1],
		Category: args[2],
		Note:     note,
	}}, nil
}

func parseShift(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "shift requires a direction and minutes"}
	}
	direction := strings.ToLower(args[0])
	if direction != "up" && direction != "down" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("shift direction must be up or down, got %s", direction)}
	}
	minutes, err := strconv.Atoi(args[1])
	if err != nil || minutes <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("shift minutes must be a positive number, got %s", args[1])}
	}
	return Command{Type: TypeShift, Raw: raw, Shift: &ShiftArgs{Direction: direction, Minutes: minutes}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	target := ""
	if len(args) > 0 {
		target = strings.ToLower(args[0])
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: target}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goto requires a day: today, tomorrow, yesterday or YYYY-MM-DD"}
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{When: strings.ToLower(args[0])}}, nil
}

func parseTemplate(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "template requires an action: save, apply or list"}
	}
	action := strings.ToLower(args[0])
	switch action {
	case "save", "list":
		return Command{Type: TypeTemplate, Raw: raw, Template: &TemplateArgs{Action: action}}, nil
	case "apply":
		if len(args) < 2 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "template apply requires a template id"}
		}
		return Command{Type: TypeTemplate, Raw: raw, Template: &TemplateArgs{Action: action, ID: args[1]}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unsupported template action: %s", action)}
	}
}
