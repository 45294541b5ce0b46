package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNoQuery = errors.New(`no query provided. Usage: codeagent run "your request here"`)

// buildQuery takes the request from the arguments, from piped stdin, or by
// asking on the terminal, in that order.
func buildQuery(args []string, stdin io.Reader, stdout io.Writer) (string, error) {
	if len(args) > 0 {
		if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
			return q, nil
		}
		return "", errNoQuery
	}

	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return askQuery(stdin, stdout)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read from stdin: %w", err)
	}
	if q := strings.TrimSpace(string(data)); q != "" {
		return q, nil
	}
	return "", errNoQuery
}

// askQuery prompts for a single line.
func askQuery(stdin io.Reader, stdout io.Writer) (string, error) {
	_, _ = fmt.Fprint(stdout, "What would you like me to do? ")

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("input stream closed")
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	if q := strings.TrimSpace(line); q != "" {
		return q, nil
	}
	return "", errNoQuery
}
