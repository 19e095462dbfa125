package builtin

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

func TestNormalizeTrimsNamesAndText(t *testing.T) {
	t.Parallel()

	tb := textTable(t,
		[]string{" Sales ", "Region\t", "Customer Name"},
		[]string{" 10 ", " West ", " Ann Lee\n"},
		[]string{"", "East", "Bo"},
	)
	n := &Normalize{}
	if err := n.Apply(tb); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if diff := cmp.Diff([]string{"Sales", "Region", "Customer Name"}, tb.Columns); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
	want := [][]string{{"10", "West", "Ann Lee"}, {"", "East", "Bo"}}
	if diff := cmp.Diff(want, tb.Strings()); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	if n.Trimmed != 3 {
		t.Fatalf("Trimmed=%d want 3", n.Trimmed)
	}
	if !tb.Rows[1][0].IsMissing() {
		t.Fatal("missing cell turned into text")
	}
}

func TestNormalizeLeavesNonText(t *testing.T) {
	t.Parallel()

	d := table.Date(time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC))
	tb := table.New([]string{"a", "b", "c"})
	tb.Append(table.Row{d, table.Number(1.5), table.Missing()})

	before := append(table.Row(nil), tb.Rows[0]...)
	if err := (&Normalize{}).Apply(tb); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !tb.Rows[0].Equal(before) {
		t.Fatalf("non-text cells changed: %v", tb.Strings())
	}
}
