package logbook

import (
	"fmt"
	"strconv"
	"strings"
)

// rowPlaceholder marks "this row's index" inside a formula template.
// Every staged row in a batch gets the same templates; bindRow substitutes
// the placeholder with the row's final 1-based position at commit time.
const rowPlaceholder = "{row}"

// formulaSet holds the derived-column formula templates for one logbook,
// with its sheet names already baked in. Argument separators are
// semicolons: the deployed logbooks use locale settings where "," is the
// decimal separator.
type formulaSet struct {
	model      string
	total      string
	pic        string
	dual       string
	instructor string
}

// newFormulaSet builds the templates for a logbook whose aircraft catalog
// and summary sheets carry the given names.
//
// The durations are deliberately formulas over the two time columns rather
// than precomputed values, so a member can audit or recompute any entry
// from its raw cells. PIC/dual attribution compares the pilot columns to
// the member's own name in the summary sheet.
func newFormulaSet(aircraftSheet, summarySheet string) formulaSet {
	return formulaSet{
		model: fmt.Sprintf(
			`=IF(G{row}="";"";XLOOKUP(G{row};'%[1]s'!$B$1:$B$1000;'%[1]s'!$A$1:$A$1000;""))`,
			aircraftSheet),
		total: `=IF(E{row}>0;E{row}-C{row};"")`,
		pic: fmt.Sprintf(
			`=IF(K{row}='%s'!$B$1;E{row}-C{row};"")`,
			summarySheet),
		dual: fmt.Sprintf(
			`=IF(K{row}='%[1]s'!$B$1;"";IF(L{row}='%[1]s'!$B$1;E{row}-C{row};""))`,
			summarySheet),
		instructor: `=IF(M{row}=TRUE;E{row}-C{row};"")`,
	}
}

// bindRow substitutes the row placeholder with a concrete 1-based position.
func bindRow(template string, row int) string {
	return strings.ReplaceAll(template, rowPlaceholder, strconv.Itoa(row))
}
