package agent

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// ConsoleChooser lists the intentions on out and reads a 1-based index
// from in.
type ConsoleChooser struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsoleChooser creates a chooser reading from r and writing to w.
func NewConsoleChooser(r io.Reader, w io.Writer) *ConsoleChooser {
	return &ConsoleChooser{in: bufio.NewScanner(r), out: w}
}

// Choose implements Chooser.
func (c *ConsoleChooser) Choose(intentions *logic.KB) (logic.Predicate, error) {
	fmt.Fprintln(c.out, "INTENTIONS (type 1,2,... <enter> to select one):")
	for i, s := range intentions.Sentences() {
		fmt.Fprintf(c.out, "%d: %s\n", i+1, s)
	}
	fmt.Fprint(c.out, "> ")

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return logic.Predicate{}, err
		}
		return logic.Predicate{}, fmt.Errorf("%w: no input", internalerr.ErrInvalidInput)
	}

	input := strings.TrimSpace(c.in.Text())
	n, err := strconv.Atoi(input)
	if err != nil {
		return logic.Predicate{}, fmt.Errorf("%w: not a number: %q", internalerr.ErrInvalidInput, input)
	}
	s, ok := intentions.Get(n - 1)
	if !ok {
		return logic.Predicate{}, fmt.Errorf("%w: action out of range: %d", internalerr.ErrInvalidInput, n)
	}
	action, ok := s.Fact()
	if !ok {
		return logic.Predicate{}, fmt.Errorf("%w: intention %d is not an action: %s", internalerr.ErrInvalidInput, n, s)
	}
	return action, nil
}
