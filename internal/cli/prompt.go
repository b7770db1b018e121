package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompt writes question to stderr and reads one line of input. A closed
// input with no text returns an empty answer.
func (rt *runtime) prompt(question string) (string, error) {
	fmt.Fprint(rt.out.ErrWriter, question)
	line, err := rt.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question. Only an explicit yes counts.
func (rt *runtime) confirm(question string) (bool, error) {
	answer, err := rt.prompt(question + " [Y/n] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
