package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sheetung/SpendFlow/server/db"
)

// ageDays is the amortization window of a purchase: civil days elapsed since
// the purchase date plus one, so a record bought today divides by 1. Both
// dates are read in now's location so the count survives being east or west
// of UTC.
func ageDays(purchaseDate string, now time.Time) int {
	d, err := time.ParseInLocation(dateLayout, purchaseDate, now.Location())
	if err != nil {
		// Stored dates are normalized on insert; a malformed one amortizes
		// over a single day rather than failing the whole report.
		return 1
	}
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	// Rounding absorbs DST days that are not exactly 24 hours long.
	return int(math.Round(today.Sub(d).Hours()/24)) + 1
}

// BuildStatsReport renders the amortized daily-cost summary for a user's
// records. The caller guarantees records is non-empty and freshly ordered by
// date descending; line numbers are the virtual indices used by delete.
func BuildStatsReport(records []db.Purchase, now time.Time) string {
	var b strings.Builder
	b.WriteString("📊 消费统计")

	var total float64
	for i, r := range records {
		daily := r.Price / float64(ageDays(r.PurchaseDate, now))
		total += daily
		fmt.Fprintf(&b, "\n#%d %s | %.2f元\n平台：%s | 日均：%.2f元/天",
			i+1, r.ItemName, r.Price, r.Platform, daily)
	}
	fmt.Fprintf(&b, "\n---\n总计日均：%.2f元/天", total)
	return b.String()
}
