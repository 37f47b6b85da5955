package logbook

// Plan is a placement decision for one pending batch.
type Plan struct {
	// AnchorRow is the 1-based sheet row the first batch row lands on.
	// Batch row N is written at AnchorRow + N.
	AnchorRow int

	// Insert, when true, means blank rows are inserted at AnchorRow
	// before the write, pushing existing rows down.
	Insert bool

	// Grow is how many rows of capacity to append before the write.
	// Zero when the batch fits, and always zero for inserts (inserting
	// grows the grid itself).
	Grow int
}

// PlanPlacement decides where a pending batch lands.
//
// A newest-last ledger, or one with no data rows at all, grows downward:
// the batch is appended after the last data row, preserving chronological
// append order. A newest-first ledger with existing data takes the batch
// immediately after its frozen header rows, so the most recent entries stay
// on top.
//
// When an appended batch would run past the grid's capacity, capacity is
// extended by exactly the batch size.
func PlanPlacement(order SortOrder, headerRows, dataRows, rowCount, pending int) Plan {
	if pending == 0 {
		return Plan{}
	}
	if order == SortNewestLast || dataRows == 0 {
		anchor := headerRows + dataRows + 1
		grow := 0
		if anchor+pending-1 > rowCount {
			grow = pending
		}
		return Plan{AnchorRow: anchor, Grow: grow}
	}
	return Plan{AnchorRow: headerRows + 1, Insert: true}
}
