package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/errors"
	"github.com/lgbarn/movehint-go/internal/worker"
)

// Record is the outcome of one input board.
type Record struct {
	Source string       `json:"source,omitempty"`
	Line   int          `json:"line"`
	Board  string       `json:"board"`
	Hints  worker.Hints `json:"hints,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// HintWriter is the interface for writing records to output.
type HintWriter interface {
	// WriteRecord writes a single record.
	WriteRecord(rec Record) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close flushes pending output. It does not close the underlying writer.
	Close() error
}

// NewHintWriter returns the writer for cfg.Format.
func NewHintWriter(w io.Writer, cfg config.Output) (HintWriter, error) {
	switch cfg.Format {
	case config.OutputJSONLines, "":
		return NewJSONLinesWriter(w), nil
	case config.OutputJSON:
		return NewJSONWriter(w), nil
	case config.OutputText:
		return NewTextWriter(w, cfg.MaxLineLength), nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown output format %q", cfg.Format)
}

// JSONLinesWriter writes each record as one JSON line.
type JSONLinesWriter struct {
	enc *json.Encoder
}

// NewJSONLinesWriter creates a new JSON lines writer.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	return &JSONLinesWriter{enc: json.NewEncoder(w)}
}

// WriteRecord writes rec immediately.
func (jw *JSONLinesWriter) WriteRecord(rec Record) error {
	return jw.enc.Encode(rec)
}

// Flush is a no-op; lines are written immediately.
func (jw *JSONLinesWriter) Flush() error {
	return nil
}

// Close is a no-op.
func (jw *JSONLinesWriter) Close() error {
	return nil
}

// JSONOutput is the document written by JSONWriter.
type JSONOutput struct {
	Boards []Record `json:"boards"`
}

// JSONWriter buffers records and writes them as one indented document on
// Flush or Close.
type JSONWriter struct {
	w       io.Writer
	records []Record
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// WriteRecord buffers rec.
func (jw *JSONWriter) WriteRecord(rec Record) error {
	jw.records = append(jw.records, rec)
	return nil
}

// Flush writes all buffered records as one document.
func (jw *JSONWriter) Flush() error {
	if len(jw.records) == 0 {
		return nil
	}

	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	err := enc.Encode(JSONOutput{Boards: jw.records})

	// Clear buffer after writing
	jw.records = jw.records[:0]

	return err
}

// Close flushes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}

// TextWriter writes a readable block per board:
//
//	boards.txt:2 rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1
//	  a2: a3 a4
//	  b1: a3 c3
type TextWriter struct {
	w             io.Writer
	maxLineLength int
}

// NewTextWriter creates a text writer wrapping at maxLineLength.
func NewTextWriter(w io.Writer, maxLineLength int) *TextWriter {
	return &TextWriter{w: w, maxLineLength: maxLineLength}
}

// WriteRecord writes rec immediately.
func (tw *TextWriter) WriteRecord(rec Record) error {
	ow := NewOutputWriter(tw.w, tw.maxLineLength, "      ")

	header := fmt.Sprintf("%d", rec.Line)
	if rec.Source != "" {
		header = rec.Source + ":" + header
	}
	ow.WriteNoSpace(header)
	ow.Write(rec.Board)
	ow.NewLine()

	if rec.Error != "" {
		ow.WriteNoSpace("  error:")
		ow.Write(rec.Error)
		ow.NewLine()
		return ow.Err()
	}

	for _, sq := range rec.Hints.Squares() {
		ow.WriteNoSpace("  " + sq + ":")
		moves := rec.Hints[sq]
		if len(moves) == 0 {
			ow.Write("-")
		}
		for _, to := range moves {
			ow.Write(to)
		}
		ow.NewLine()
	}
	return ow.Err()
}

// Flush is a no-op; records are written immediately.
func (tw *TextWriter) Flush() error {
	return nil
}

// Close is a no-op.
func (tw *TextWriter) Close() error {
	return nil
}
