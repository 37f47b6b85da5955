package logbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanPlacement(t *testing.T) {
	testCases := []struct {
		name                                    string
		order                                   SortOrder
		headerRows, dataRows, rowCount, pending int
		want                                    Plan
	}{
		{
			name:  "empty ledger appends after headers",
			order: SortNewestLast, headerRows: 2, dataRows: 0, rowCount: 10, pending: 3,
			want: Plan{AnchorRow: 3},
		},
		{
			name:  "newest-last appends after last data row",
			order: SortNewestLast, headerRows: 2, dataRows: 10, rowCount: 20, pending: 3,
			want: Plan{AnchorRow: 13},
		},
		{
			name:  "newest-first inserts after headers",
			order: SortNewestFirst, headerRows: 2, dataRows: 10, rowCount: 20, pending: 3,
			want: Plan{AnchorRow: 3, Insert: true},
		},
		{
			name:  "newest-first with empty ledger still appends",
			order: SortNewestFirst, headerRows: 2, dataRows: 0, rowCount: 10, pending: 3,
			want: Plan{AnchorRow: 3},
		},
		{
			name:  "append past capacity grows by exactly the batch size",
			order: SortNewestLast, headerRows: 2, dataRows: 8, rowCount: 10, pending: 5,
			want: Plan{AnchorRow: 11, Grow: 5},
		},
		{
			name:  "append exactly filling capacity does not grow",
			order: SortNewestLast, headerRows: 2, dataRows: 3, rowCount: 8, pending: 3,
			want: Plan{AnchorRow: 6},
		},
		{
			name:  "empty batch is a no-op",
			order: SortNewestFirst, headerRows: 2, dataRows: 10, rowCount: 20, pending: 0,
			want: Plan{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := PlanPlacement(tc.order, tc.headerRows, tc.dataRows, tc.rowCount, tc.pending)
			assert.Equal(t, tc.want, got)
		})
	}
}
