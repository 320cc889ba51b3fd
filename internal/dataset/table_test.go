package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Columns: []string{"airline", "price", "days_left"},
		Rows: [][]string{
			{"Vistara", "5953", "1"},
			{"Indigo", "", "2"},
			{"SpiceJet", "NA", ""},
		},
	}
}

func TestTable_ColumnIndex(t *testing.T) {
	table := sampleTable()

	assert.Equal(t, 1, table.ColumnIndex("price"))
	assert.Equal(t, -1, table.ColumnIndex("Price"))
	assert.True(t, table.HasColumn("days_left"))
	assert.Equal(t, 3, table.Len())

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
}

func TestTable_Column(t *testing.T) {
	table := sampleTable()

	col, err := table.Column("airline")
	require.NoError(t, err)
	assert.Equal(t, []string{"Vistara", "Indigo", "SpiceJet"}, col)

	col[0] = "changed"
	assert.Equal(t, "Vistara", table.Rows[0][0], "Column returns a copy")

	_, err = table.Column("missing")
	assert.Error(t, err)
}

func TestTable_SetColumn(t *testing.T) {
	table := sampleTable()

	require.NoError(t, table.SetColumn("currency", []string{"USD", "USD", "USD"}))
	assert.Equal(t, []string{"airline", "price", "days_left", "currency"}, table.Columns)
	assert.Equal(t, "USD", table.Rows[2][3])

	require.NoError(t, table.SetColumn("currency", []string{"a", "b", "c"}))
	assert.Len(t, table.Columns, 4, "existing column is replaced in place")
	assert.Equal(t, "c", table.Rows[2][3])

	assert.Error(t, table.SetColumn("short", []string{"a"}), "length mismatch")
}

func TestTable_Reorder(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		anchor  string
		move    []string
		want    []string
		wantErr bool
	}{
		{
			name:    "derived columns after anchor",
			columns: []string{"airline", "price", "days_left", "price_inr", "price_usd"},
			anchor:  "price",
			move:    []string{"price_inr", "price_usd"},
			want:    []string{"airline", "price", "price_inr", "price_usd", "days_left"},
		},
		{
			name:    "anchor last",
			columns: []string{"b", "a", "price"},
			anchor:  "price",
			move:    []string{"a", "b"},
			want:    []string{"price", "a", "b"},
		},
		{
			name:    "already in place",
			columns: []string{"price", "x", "y"},
			anchor:  "price",
			move:    []string{"x", "y"},
			want:    []string{"price", "x", "y"},
		},
		{
			name:    "missing anchor",
			columns: []string{"x", "y"},
			anchor:  "price",
			move:    []string{"x"},
			wantErr: true,
		},
		{
			name:    "missing moved column",
			columns: []string{"price", "x"},
			anchor:  "price",
			move:    []string{"y"},
			wantErr: true,
		},
		{
			name:    "anchor in moved set",
			columns: []string{"price", "x"},
			anchor:  "price",
			move:    []string{"price"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := append([]string(nil), tt.columns...)
			table := &Table{Columns: append([]string(nil), tt.columns...), Rows: [][]string{row}}

			err := table.Reorder(tt.anchor, tt.move...)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.columns, table.Columns, "table untouched on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Columns)
			assert.Equal(t, tt.want, table.Rows[0], "rows follow the header")
		})
	}
}

func TestTable_MissingCounts(t *testing.T) {
	counts := sampleTable().MissingCounts()

	assert.Equal(t, []FieldCount{
		{Field: "price", Count: 2},
		{Field: "days_left", Count: 1},
	}, counts)

	full := &Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	assert.Empty(t, full.MissingCounts())
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", "  ", "NA", "n/a", "NaN", "nan", "null", "NULL", "#N/A"} {
		assert.True(t, IsMissing(cell), cell)
	}
	for _, cell := range []string{"0", "Vistara", "none", "-"} {
		assert.False(t, IsMissing(cell), cell)
	}
}
