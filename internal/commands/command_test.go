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
		{"/add cs301 assignment Lab 2 due:2025-01-08T23:59", TypeAdd},
		{"plan cs301 2025-01-05 quiz Chapter 4 due:2025-01-07T10:00", TypePlan},
		{"archive cs301 2025-01-05", TypeArchive},
		{"/next", TypeNext},
		{"note cs301 Paging and TLBs", TypeNote},
		{"done cs301 t-12", TypeDone},
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

func TestParseAddSplitsTitleAndDue(t *testing.T) {
	cmd, err := Parse("/add cs301 exam Midterm review due:2025-02-14T09:00")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Course != "cs301" || a.Kind != "exam" {
		t.Fatalf("unexpected args: %+v", a)
	}
	if a.Title != "Midterm review" {
		t.Fatalf("title = %q", a.Title)
	}
	if a.Due != "2025-02-14T09:00" {
		t.Fatalf("due = %q", a.Due)
	}
}

func TestParseAddWithoutDueIsUndated(t *testing.T) {
	cmd, err := Parse("add cs301 other Read chapter 3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Due != "" {
		t.Fatalf("expected empty due, got %q", cmd.Add.Due)
	}
	if cmd.Add.Title != "Read chapter 3" {
		t.Fatalf("title = %q", cmd.Add.Title)
	}
}

func TestParsePlanRequiresDue(t *testing.T) {
	_, err := Parse("plan cs301 2025-01-05 quiz Chapter 4")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", err)
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

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "/", " /  "} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input error, got %v", in, err)
		}
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/archive cs301 2025-01-05")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Archive: func(a ArchiveArgs) (Result, error) {
			called = true
			if a.Course != "cs301" || a.Week != "2025-01-05" {
				t.Fatalf("unexpected args: %+v", a)
			}
			return Result{Message: "archived"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "archived" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("next cs301")
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
