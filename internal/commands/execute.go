package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Shift    func(ShiftArgs) (Result, error)
	Done     func(DoneArgs) (Result, error)
	Goto     func(GotoArgs) (Result, error)
	Template func(TemplateArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeShift:
		if handlers.Shift == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "shift handler not configured"}
		}
		return handlers.Shift(*cmd.Shift)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeGoto:
		if handlers.Goto == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "goto handler not configured"}
		}
		return handlers.Goto(*cmd.Goto)
	case TypeTemplate:
		if handlers.Template == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "template handler not configured"}
		}
		return handlers.Template(*cmd.Template)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
