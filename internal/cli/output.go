package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcoot/tourney/internal/model"
)

// Exit codes for CLI commands
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operator error: invalid input, unknown id, empty pool
	ExitCommandError = 2 // Command error: bad flags, storage unreachable, etc.
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats defines the allowed output formats
var ValidFormats = []string{FormatText, FormatJSON}

// ExitError represents an error with a specific exit code
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
	Details any    // Extra context rendered in JSON output (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps an error onto an exit code. Operator errors from the
// engine exit 1; anything unclassified is a command error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if isOperatorError(err) {
		return ExitFailure
	}
	return ExitCommandError
}

func isOperatorError(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrEmptyPool)
}

// errorCode returns the machine-readable code for an error
func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "validation_error"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrEmptyPool):
		return "empty_pool"
	case GetExitCode(err) == ExitFailure:
		return "operation_failed"
	default:
		return "command_error"
	}
}

// CLIResponse is the standard JSON response format for CLI output
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"` // failed validation rule
	Details any    `json:"details,omitempty"`
}

// OutputFormatter handles JSON vs text output for CLI commands
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // prompts and errors in text mode
}

// JSON reports whether output is machine-readable
func (f *OutputFormatter) JSON() bool {
	return f.Format == FormatJSON
}

// Success outputs a result. In text mode, text renders it; in JSON mode data
// is wrapped in the response envelope.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.JSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Message outputs a one-line confirmation with an optional JSON payload
func (f *OutputFormatter) Message(data any, format string, args ...any) error {
	return f.Success(data, func(w io.Writer) {
		fmt.Fprintf(w, format+"\n", args...)
	})
}

// Error outputs an error in the configured format
func (f *OutputFormatter) Error(err error) error {
	cliErr := &CLIError{
		Code:    errorCode(err),
		Message: err.Error(),
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		cliErr.Rule = verr.Rule
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		cliErr.Details = exitErr.Details
	}

	if f.JSON() {
		return f.encode(CLIResponse{Status: "error", Error: cliErr})
	}

	_, werr := fmt.Fprintf(f.ErrWriter, "Error: %s\n", err)
	return werr
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// Table writes tab-separated rows as aligned columns
type Table struct {
	tw *tabwriter.Writer
}

// NewTable starts a table with the given header
func NewTable(w io.Writer, header ...any) *Table {
	t := &Table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.Row(header...)
	return t
}

// Row adds one row
func (t *Table) Row(cells ...any) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(t.tw, "\t")
		}
		fmt.Fprint(t.tw, c)
	}
	fmt.Fprintln(t.tw)
}

// Flush writes the aligned table
func (t *Table) Flush() {
	_ = t.tw.Flush()
}

// formatSeconds renders a duration as seconds rounded up to two places
func formatSeconds(d time.Duration) string {
	return decimal.NewFromFloat(d.Seconds()).RoundUp(2).StringFixed(2)
}

// printFooter writes the result count and elapsed time under a listing
func printFooter(w io.Writer, n int, elapsed time.Duration) {
	fmt.Fprintf(w, "Returned %d results in %s seconds\n", n, formatSeconds(elapsed))
}

// formatTime renders a timestamp for tables
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
