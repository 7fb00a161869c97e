package transporters

import (
	"encoding/json"
	"io"
	"os"

	"socialpost-ai/pkg/log"
)

// Stdout writes one JSON object per line.
type Stdout struct {
	enc *json.Encoder
}

func NewStdout() *Stdout {
	return NewStdoutWithWriter(os.Stdout)
}

// NewStdoutWithWriter writes JSON lines to w instead of os.Stdout.
func NewStdoutWithWriter(w io.Writer) *Stdout {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Stdout{enc: enc}
}

func (s *Stdout) Name() string { return "stdout" }

// Write encodes the entry followed by a newline.
func (s *Stdout) Write(entry log.Entry) error {
	return s.enc.Encode(entry)
}

func (s *Stdout) Close() error { return nil }
