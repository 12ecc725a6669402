// Package maintenance holds offline jobs over recorded runs.
package maintenance

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/bdi/pkg/bdi/logic"
	"github.com/cognicore/bdi/pkg/bdi/store"
)

// RuleWriter persists exported rules to a destination (file, DB, etc.).
type RuleWriter interface {
	WriteRules(ctx context.Context, content string) error
}

// FileWriter writes rules to a file, replacing its content.
type FileWriter struct {
	Path string
}

// WriteRules implements RuleWriter. It ignores ctx.
func (w FileWriter) WriteRules(ctx context.Context, content string) error {
	return os.WriteFile(w.Path, []byte(content), 0o644)
}

// BeliefExporter renders the beliefs of a stored cycle as a rule file that
// logic.ParseKB reads back.
type BeliefExporter struct {
	Writer RuleWriter
}

// Export writes the beliefs of c, one sentence per line, through the
// writer. Desires are kept as a trailing comment.
func (e *BeliefExporter) Export(ctx context.Context, c store.Cycle) error {
	if e.Writer == nil {
		return fmt.Errorf("belief exporter: nil writer")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%% run %s cycle %d\n", c.RunID, c.Number)
	for _, line := range c.Believes {
		s, err := logic.ParseSentence(line)
		if err != nil {
			return fmt.Errorf("belief exporter: cycle %d: %w", c.Number, err)
		}
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	if len(c.Desires) > 0 {
		fmt.Fprintf(&b, "%% desires: %s\n", strings.Join(c.Desires, " "))
	}
	return e.Writer.WriteRules(ctx, b.String())
}
