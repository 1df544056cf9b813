package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add 09:00 10:30 work standup notes", TypeAdd},
		{"shift up 15", TypeShift},
		{"done selected", TypeDone},
		{"goto tomorrow", TypeGoto},
		{"/template apply 3", TypeTemplate},
		{"template list", TypeTemplate},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddCollectsNote(t *testing.T) {
	cmd, err := Parse("/add 09:00 10:30 work prepare the demo")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.From != "09:00" || cmd.Add.To != "10:30" || cmd.Add.Category != "work" {
		t.Fatalf("unexpected add args: %+v", cmd.Add)
	}
	if cmd.Add.Note != "prepare the demo" {
		t.Fatalf("unexpected note: %q", cmd.Add.Note)
	}
}

func TestParseShiftValidatesMinutes(t *testing.T) {
	cases := []string{"shift sideways 15", "shift up zero", "shift up -5", "shift up"}
	for _, in := range cases {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}

	cmd, err := Parse("shift down 30")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Shift.Direction != "down" || cmd.Shift.Minutes != 30 {
		t.Fatalf("unexpected shift args: %+v", cmd.Shift)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/shift up 15")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Shift: func(a ShiftArgs) (Result, error) {
			called = true
			if a.Direction != "up" || a.Minutes != 15 {
				t.Fatalf("unexpected args: %+v", a)
			}
			return Result{Message: "shifted"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "shifted" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("goto today")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
