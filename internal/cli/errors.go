// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for phylobench commands.
//
// STANDARDIZED PATTERN:
//   - ALWAYS return errors from RunE (never just print and return nil)
//   - Execute displays the error once and maps it to an exit code
//   - Use structured error types where the category matters

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/phylobench/internal/benchmark"
	"github.com/jeranaias/phylobench/internal/config"
	"github.com/jeranaias/phylobench/internal/plot"
	"github.com/jeranaias/phylobench/internal/sample"
	"github.com/jeranaias/phylobench/internal/store"
	"github.com/jeranaias/phylobench/internal/sweep"
	"github.com/jeranaias/phylobench/internal/table"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitInterrupted indicates the run was cancelled (Ctrl-C)
	ExitInterrupted = 130
)

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "sweep", "plot")
	Action  string // Action being performed (e.g., "write", "render")
	Err     error  // Underlying error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// configError marks failures loading or validating configuration.
type configError struct {
	Err error
}

func (e *configError) Error() string { return "config: " + e.Err.Error() }
func (e *configError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action string, err error) error {
	return &CommandError{Command: command, Action: action, Err: err}
}

// NewValidationErrorWithExample creates a validation error with an example.
func NewValidationErrorWithExample(field, value, reason, example string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  reason,
		Example: example,
	}
}

// =============================================================================
// ERROR DISPLAY HELPERS
// =============================================================================

// DisplayError writes an error in a consistent format.
//
// In JSON mode, outputs structured JSON error on w.
// In normal mode, writes a styled one-line message.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(w, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

// DisplayErrorJSON outputs an error as JSON.
func DisplayErrorJSON(w io.Writer, err error) {
	output := map[string]interface{}{
		"error":     err.Error(),
		"success":   false,
		"exit_code": GetExitCode(err),
	}

	var cmdErr *CommandError
	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		output["error_type"] = "validation_error"
		output["field"] = valErr.Field
		output["value"] = valErr.Value
		output["reason"] = valErr.Reason
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["action"] = cmdErr.Action
	default:
		output["error_type"] = "generic_error"
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	var cfgErr *configError
	var cellErr *table.CellError
	var cfgValidate config.ValidateErrors

	switch {
	case errors.Is(err, errInterrupted):
		return ExitInterrupted
	case errors.As(err, &cfgErr),
		errors.As(err, &cfgValidate),
		errors.Is(err, config.ErrBadEnv):
		return ExitConfigError
	case errors.As(err, &validationErr),
		errors.Is(err, errUsage),
		errors.Is(err, benchmark.ErrUnknownOp),
		errors.Is(err, benchmark.ErrArity),
		errors.Is(err, sample.ErrSampleTooLarge),
		errors.Is(err, sample.ErrNegative),
		errors.Is(err, plot.ErrUnknownLibrary),
		errors.As(err, &cellErr):
		return ExitUsageError
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, store.ErrNoRecords),
		errors.Is(err, sweep.ErrNoTrees):
		return ExitNotFoundError
	}
	return ExitGeneralError
}

var (
	errUsage       = errors.New("usage error")
	errInterrupted = errors.New("interrupted")
)

// usageErrorf marks argument and flag errors raised by cobra.
func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}
