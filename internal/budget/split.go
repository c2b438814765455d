package budget

import "time"

// Segment is the part of a query range that falls inside one month.
type Segment struct {
	YearMonth string
	Year      int
	Month     time.Month
	Days      int
}

// Split decomposes the inclusive range [start, end] into one segment per
// calendar month touched, in chronological order. It returns nil when end
// is before start.
//
// e.g. 2020-06-29..2020-08-01 -> 202006 (2 days), 202007 (31), 202008 (1)
func Split(start, end time.Time) []Segment {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}

	var segs []Segment
	for cursor := start; !cursor.After(end); {
		y, m, _ := cursor.Date()
		segEnd := Date(y, m, DaysIn(y, m))
		if segEnd.After(end) {
			segEnd = end
		}

		segs = append(segs, Segment{
			YearMonth: Key(y, m),
			Year:      y,
			Month:     m,
			Days:      daysBetween(cursor, segEnd) + 1,
		})

		cursor = segEnd.AddDate(0, 0, 1)
	}
	return segs
}
