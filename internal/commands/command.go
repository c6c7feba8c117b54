// Package commands parses the palette input line into typed commands and
// dispatches them to handlers supplied by the caller.
package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypePlan    Type = "plan"
	TypeArchive Type = "archive"
	TypeNext    Type = "next"
	TypeNote    Type = "note"
	TypeDone    Type = "done"
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

// AddArgs adds a task to a course. Due is the raw "due:" value, empty when
// the task is undated; the handler parses it.
type AddArgs struct {
	Course string
	Kind   string
	Title  string
	Due    string
}

// PlanArgs places an item on a course's weekly plan. Week is the plan's
// start date key.
type PlanArgs struct {
	Course string
	Week   string
	Kind   string
	Title  string
	Due    string
}

type ArchiveArgs struct {
	Course string
	Week   string
}

// NextArgs asks for the nearest upcoming task or class. Course narrows the
// search; empty means all courses.
type NextArgs struct {
	Course string
}

type NoteArgs struct {
	Course string
	Title  string
}

type DoneArgs struct {
	Course string
	Task   string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Plan    *PlanArgs
	Archive *ArchiveArgs
	Next    *NextArgs
	Note    *NoteArgs
	Done    *DoneArgs
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
	case TypePlan:
		return parsePlan(input, args)
	case TypeArchive:
		return parseArchive(input, args)
	case TypeNext:
		return parseNext(input, args)
	case TypeNote:
		return parseNote(input, args)
	case TypeDone:
		return parseDone(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires course, kind and title"}
	}
	title, due := splitTitle(args[2:])
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{
		Course: args[0],
		Kind:   strings.ToLower(args[1]),
		Title:  title,
		Due:    due,
	}}, nil
}

func parsePlan(raw string, args []string) (Command, error) {
	if len(args) < 4 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "plan requires course, week, kind and title"}
	}
	title, due := splitTitle(args[3:])
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "plan requires a title"}
	}
	if due == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "plan requires a due: value"}
	}
	return Command{Type: TypePlan, Raw: raw, Plan: &PlanArgs{
		Course: args[0],
		Week:   args[1],
		Kind:   strings.ToLower(args[2]),
		Title:  title,
		Due:    due,
	}}, nil
}

func parseArchive(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "archive requires course and week"}
	}
	return Command{Type: TypeArchive, Raw: raw, Archive: &ArchiveArgs{Course: args[0], Week: args[1]}}, nil
}

func parseNext(raw string, args []string) (Command, error) {
	course := ""
	if len(args) > 0 {
		course = args[0]
	}
	return Command{Type: TypeNext, Raw: raw, Next: &NextArgs{Course: course}}, nil
}

func parseNote(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "note requires course and title"}
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	return Command{Type: TypeNote, Raw: raw, Note: &NoteArgs{Course: args[0], Title: title}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires course and task"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Course: args[0], Task: args[1]}}, nil
}

// splitTitle separates the free-text title from a trailing "due:" option.
func splitTitle(args []string) (string, string) {
	title := make([]string, 0, len(args))
	due := ""
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), "due:") {
			due = strings.TrimSpace(arg[len("due:"):])
			continue
		}
		title = append(title, arg)
	}
	return strings.TrimSpace(strings.Join(title, " ")), due
}
