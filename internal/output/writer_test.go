package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/errors"
	"github.com/lgbarn/movehint-go/internal/testutil"
	"github.com/lgbarn/movehint-go/internal/worker"
)

var (
	okRecord = Record{
		Source: "boards.txt",
		Line:   2,
		Board:  "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
		Hints:  worker.Hints{"e2": {"e3", "e4"}, "e1": {"d1", "f1", "d2", "f2"}},
	}
	badRecord = Record{Line: 3, Board: "garbage", Error: "invalid board notation"}
)

// TestNewHintWriter verifies the format switch
func TestNewHintWriter(t *testing.T) {
	tests := []struct {
		format string
		want   HintWriter
	}{
		{config.OutputJSONLines, &JSONLinesWriter{}},
		{"", &JSONLinesWriter{}},
		{config.OutputJSON, &JSONWriter{}},
		{config.OutputText, &TextWriter{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w, err := NewHintWriter(&bytes.Buffer{}, config.Output{Format: tt.format})
			testutil.AssertNoError(t, err)
			switch tt.want.(type) {
			case *JSONLinesWriter:
				_, ok := w.(*JSONLinesWriter)
				testutil.AssertTrue(t, ok)
			case *JSONWriter:
				_, ok := w.(*JSONWriter)
				testutil.AssertTrue(t, ok)
			case *TextWriter:
				_, ok := w.(*TextWriter)
				testutil.AssertTrue(t, ok)
			}
		})
	}

	_, err := NewHintWriter(&bytes.Buffer{}, config.Output{Format: "yaml"})
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)
}

// TestJSONLinesWriter writes one object per record
func TestJSONLinesWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONLinesWriter(&buf)
	testutil.AssertNoError(t, w.WriteRecord(okRecord))
	testutil.AssertNoError(t, w.WriteRecord(badRecord))
	testutil.AssertNoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	testutil.AssertEqual(t, len(lines), 2)

	var got Record
	testutil.AssertNoError(t, json.Unmarshal([]byte(lines[0]), &got))
	testutil.AssertEqual(t, got, okRecord)
	testutil.AssertEqual(t, lines[1], `{"line":3,"board":"garbage","error":"invalid board notation"}`)
}

// TestJSONWriter_Close verifies Close flushes pending records
func TestJSONWriter_Close(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	testutil.AssertNoError(t, w.WriteRecord(okRecord))
	testutil.AssertNoError(t, w.WriteRecord(badRecord))
	testutil.AssertEqual(t, buf.Len(), 0, "nothing before Close")

	testutil.AssertNoError(t, w.Close())

	var got JSONOutput
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &got))
	testutil.AssertEqual(t, got.Boards, []Record{okRecord, badRecord})

	// A second Close writes nothing more.
	n := buf.Len()
	testutil.AssertNoError(t, w.Close())
	testutil.AssertEqual(t, buf.Len(), n)
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, 80)
	testutil.AssertNoError(t, w.WriteRecord(okRecord))
	testutil.AssertNoError(t, w.WriteRecord(badRecord))
	testutil.AssertNoError(t, w.WriteRecord(Record{Line: 4, Board: "b", Hints: worker.Hints{"a1": {}}}))

	want := "boards.txt:2 4k3/8/8/8/8/8/4P3/4K3 w - - 0 1\n" +
		"  e1: d1 f1 d2 f2\n" +
		"  e2: e3 e4\n" +
		"3 garbage\n" +
		"  error: invalid board notation\n" +
		"4 b\n" +
		"  a1: -\n"
	testutil.AssertEqual(t, buf.String(), want)
}

func TestTextWriter_Wraps(t *testing.T) {
	var buf bytes.Buffer
	w := NewTextWriter(&buf, 20)
	rec := Record{Line: 1, Board: "x", Hints: worker.Hints{"d1": {"a1", "b1", "c1", "e1", "f1", "g1", "h1"}}}
	testutil.AssertNoError(t, w.WriteRecord(rec))

	want := "1 x\n" +
		"  d1: a1 b1 c1 e1 f1\n" +
		"      g1 h1\n"
	testutil.AssertEqual(t, buf.String(), want)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.ErrInvalidConfig
}

func TestTextWriter_Error(t *testing.T) {
	w := NewTextWriter(failingWriter{}, 80)
	testutil.AssertErrorIs(t, w.WriteRecord(okRecord), errors.ErrInvalidConfig)
}

func TestHintWriter_Interface(t *testing.T) {
	var buf bytes.Buffer
	var _ HintWriter = NewJSONLinesWriter(&buf)
	var _ HintWriter = NewJSONWriter(&buf)
	var _ HintWriter = NewTextWriter(&buf, 0)
}
