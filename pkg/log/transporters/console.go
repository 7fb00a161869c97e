package transporters

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"socialpost-ai/pkg/log"
)

// Console writes human-readable lines, for terminals:
//
//	15:04:05 INFO  [req-1] message key=value ...
type Console struct {
	w io.Writer
}

// NewConsole writes to os.Stderr so command output on stdout stays clean.
func NewConsole() *Console {
	return NewConsoleWithWriter(os.Stderr)
}

func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Write(entry log.Entry) error {
	var sb strings.Builder
	sb.WriteString(entry.Timestamp.Format("15:04:05"))
	fmt.Fprintf(&sb, " %-5s ", entry.Level)
	if entry.RequestID != "" {
		fmt.Fprintf(&sb, "[%s] ", entry.RequestID)
	}
	sb.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%s", k, consoleValue(entry.Fields[k]))
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(c.w, sb.String())
	return err
}

func (c *Console) Close() error { return nil }

// consoleValue quotes values containing spaces so lines stay splittable.
func consoleValue(v any) string {
	var s string
	switch val := v.(type) {
	case error:
		s = val.Error()
	case fmt.Stringer:
		s = val.String()
	default:
		s = fmt.Sprint(val)
	}
	if strings.ContainsAny(s, " \t\n\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
