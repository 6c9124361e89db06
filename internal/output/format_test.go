package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigcoin/cryptonotewallet/internal/output"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected output.Format
	}{
		{"json", output.FormatJSON},
		{" JSON ", output.FormatJSON},
		{"text", output.FormatText},
		{"auto", output.FormatAuto},
		{"", output.FormatAuto},
		{"yaml", output.FormatAuto},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, output.ParseFormat(tt.input))
		})
	}
}

func TestResolve_NonTerminal(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	assert.Equal(t, output.FormatJSON, output.Resolve(&buf, output.FormatAuto))
	assert.Equal(t, output.FormatText, output.Resolve(&buf, output.FormatText))
	assert.False(t, output.IsTerminal(&buf))
	assert.False(t, output.IsTerminal(nil))
}

func TestPrinter_Emit(t *testing.T) {
	t.Parallel()
	value := map[string]uint64{"balance": 42}
	text := func(w io.Writer) error {
		_, err := io.WriteString(w, "balance 42\n")
		return err
	}

	var jsonBuf bytes.Buffer
	p := output.NewPrinter(&jsonBuf, output.FormatJSON)
	require.NoError(t, p.Emit(value, text))
	var decoded map[string]uint64
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, uint64(42), decoded["balance"])

	var textBuf bytes.Buffer
	p = output.NewPrinter(&textBuf, output.FormatText)
	require.NoError(t, p.Emit(value, text))
	assert.Equal(t, "balance 42\n", textBuf.String())
	assert.False(t, p.IsJSON())
}

type stringer struct{}

func (stringer) String() string { return "from stringer" }

func TestPrinter_Line(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := output.NewPrinter(&buf, output.FormatJSON)
	require.NoError(t, p.Line(map[string]int{"a": 1}))
	require.NoError(t, p.Line(map[string]int{"b": 2}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, lines)

	buf.Reset()
	p = output.NewPrinter(&buf, output.FormatText)
	require.NoError(t, p.Line("plain"))
	require.NoError(t, p.Line(stringer{}))
	require.NoError(t, p.Line(7))
	assert.Equal(t, "plain\nfrom stringer\n7\n", buf.String())
}

func TestKV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, output.KV(&buf, [2]string{"Address", "cn1"}, [2]string{"Balance", "5"}, [2]string{"Tx", "2"}))
	assert.Equal(t, "Address:  cn1\nBalance:  5\nTx:       2\n", buf.String())
}

func TestFormatError_Text(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	err := cnerr.WithSuggestion(
		cnerr.WithDetails(cnerr.ErrEngine, map[string]string{"engine_code": "7", "a": "b"}),
		"retry later",
	)
	require.NoError(t, output.FormatError(&buf, err, output.FormatText))

	got := buf.String()
	assert.True(t, strings.HasPrefix(got, "Error: "+cnerr.ErrEngine.Message+"\n"))
	assert.Less(t, strings.Index(got, "  a: b"), strings.Index(got, "  engine_code: 7"))
	assert.Contains(t, got, "Suggestion: retry later")
}

func TestFormatError_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	err := cnerr.WithCause(cnerr.ErrIO, errors.New("disk full"))
	require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))

	var out output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, cnerr.ErrIO.Code, out.Error.Code)
	assert.Equal(t, "disk full", out.Error.Cause)
	assert.Equal(t, cnerr.ExitGeneral, out.Error.ExitCode)
}

func TestFormatError_Plain(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	require.NoError(t, output.FormatError(&buf, errors.New("boom"), output.FormatText))
	assert.Equal(t, "Error: boom\n", buf.String())

	require.NoError(t, output.FormatError(&buf, nil, output.FormatText))
	assert.Equal(t, "Error: boom\n", buf.String())

	d := output.Describe(errors.New("boom"))
	assert.Equal(t, cnerr.ErrGeneral.Code, d.Code)
}

func TestMessages(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	output.Info(&buf, "opened %s", "a.wallet")
	output.Warn(&buf, "low balance")
	output.Success(&buf, "saved")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "opened a.wallet")
	assert.Contains(t, lines[1], "low balance")
	assert.Contains(t, lines[2], "saved")
}
