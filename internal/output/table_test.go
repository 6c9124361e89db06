package output_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigcoin/cryptonotewallet/internal/output"
)

func TestTable_Render(t *testing.T) {
	t.Parallel()

	tbl := output.NewTable("ID", "AMOUNT", "STATE").AlignRight(1)
	tbl.AddRow("0", "+1.5", "active")
	tbl.AddRow("12", "-0.25")

	want := "" +
		"ID  AMOUNT  STATE\n" +
		"--  ------  ------\n" +
		"0     +1.5  active\n" +
		"12   -0.25\n"
	assert.Equal(t, want, tbl.String())
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, output.NewTable().String())
}

func TestTable_Unicode(t *testing.T) {
	t.Parallel()

	tbl := output.NewTable("K", "V")
	tbl.AddRow("é", "x")
	assert.Equal(t, "K  V\n-  -\né  x\n", tbl.String())
}
