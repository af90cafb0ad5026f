package chat

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BekirBz/invoice-ai-mvp/models"
)

// ResolveMonth extracts a (year, month) target from an English question:
// "this month", "last month", a full month name or 3-letter abbreviation with
// an optional trailing 4-digit year. The month-name scan runs in calendar
// order (January..December), not text order; a question naming two months
// resolves to the earlier calendar month. ok=false when nothing matches.
func ResolveMonth(question string, now time.Time) (year int, month time.Month, ok bool) {
	q := strings.ToLower(question)
	now = now.UTC()

	if strings.Contains(q, "this month") {
		return now.Year(), now.Month(), true
	}
	if strings.Contains(q, "last month") {
		prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return prev.Year(), prev.Month(), true
	}

	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if strings.Contains(q, name) {
			return yearAfter(q, name, now), m, true
		}
	}
	for m := time.January; m <= time.December; m++ {
		abbr := strings.ToLower(m.String())[:3]
		if strings.Contains(q, abbr) {
			return yearAfter(q, abbr, now), m, true
		}
	}
	return 0, 0, false
}

// yearAfter looks for "<name> 2025" style qualifiers; absent a year the
// current one is assumed.
func yearAfter(q, name string, now time.Time) int {
	re := regexp.MustCompile(name + `\s+(\d{4})`)
	if m := re.FindStringSubmatch(q); len(m) >= 2 {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y
		}
	}
	return now.Year()
}

var (
	recordDateRE = regexp.MustCompile(`^\d{1,2}[./-]\d{1,2}[./-]\d{2,4}`)
	dateSepRE    = regexp.MustCompile(`[./-]`)
)

// FilterByMonth selects records landing in the target month by either
// signal: the free-text date field (day-month-year, 2-digit years assumed
// 2000s) or the createdAt ISO prefix. A record matches via either path; no
// consistency check is applied when both are present.
func FilterByMonth(invs []models.Invoice, year int, month time.Month) []models.Invoice {
	var out []models.Invoice
	for _, inv := range invs {
		if inv.Date != nil && dateInMonth(*inv.Date, year, month) {
			out = append(out, inv)
			continue
		}
		if createdInMonth(inv.CreatedAt, year, month) {
			out = append(out, inv)
		}
	}
	return out
}

func dateInMonth(date string, year int, month time.Month) bool {
	if !recordDateRE.MatchString(date) {
		return false
	}
	parts := dateSepRE.Split(date, -1)
	if len(parts) < 3 {
		return false
	}
	yy := parts[2]
	if len(yy) == 2 {
		yy = "20" + yy
	}
	y, err := strconv.Atoi(yy)
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return y == year && time.Month(m) == month
}

func createdInMonth(createdAt string, year int, month time.Month) bool {
	if len(createdAt) < 7 {
		return false
	}
	y, err := strconv.Atoi(createdAt[0:4])
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(createdAt[5:7])
	if err != nil {
		return false
	}
	return y == year && time.Month(m) == month
}
