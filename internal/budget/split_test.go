package budget

import (
	"testing"
	"time"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		start, end string
		want       []Segment
	}{
		{
			"2020-04-01", "2020-04-01",
			[]Segment{{"202004", 2020, time.April, 1}},
		}, {
			"2020-06-29", "2020-08-01",
			[]Segment{
				{"202006", 2020, time.June, 2},
				{"202007", 2020, time.July, 31},
				{"202008", 2020, time.August, 1},
			},
		}, {
			"2020-12-31", "2021-01-31",
			[]Segment{
				{"202012", 2020, time.December, 1},
				{"202101", 2021, time.January, 31},
			},
		}, {
			"2020-01-01", "2020-03-01",
			[]Segment{
				{"202001", 2020, time.January, 31},
				{"202002", 2020, time.February, 29},
				{"202003", 2020, time.March, 1},
			},
		}, {
			"2020-05-02", "2020-04-29",
			nil,
		},
	}

	for _, tc := range cases {
		got := Split(mustDate(t, tc.start), mustDate(t, tc.end))
		if len(got) != len(tc.want) {
			t.Fatalf("Split(%s, %s) = %d segments, want %d", tc.start, tc.end, len(got), len(tc.want))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("Split(%s, %s)[%d] = %+v, want %+v", tc.start, tc.end, i, got[i], tc.want[i])
			}
		}
	}
}

func TestSplit_DaysSumToRangeLength(t *testing.T) {
	start := mustDate(t, "1999-11-17")
	for _, span := range []int{0, 1, 13, 30, 59, 365, 366, 1000, 3653} {
		end := start.AddDate(0, 0, span)
		total := 0
		prev := ""
		for _, s := range Split(start, end) {
			if s.Days < 1 {
				t.Fatalf("span %d: segment %s has %d days", span, s.YearMonth, s.Days)
			}
			if s.YearMonth <= prev {
				t.Fatalf("span %d: segment %s not after %s", span, s.YearMonth, prev)
			}
			prev = s.YearMonth
			total += s.Days
		}
		if total != span+1 {
			t.Fatalf("span %d: days sum = %d, want %d", span, total, span+1)
		}
	}
}

func TestDaysIn(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2020, time.February, 29},
		{2021, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2021, time.April, 30},
		{2021, time.December, 31},
	}
	for _, tc := range cases {
		if got := DaysIn(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestParseKey(t *testing.T) {
	y, m, err := ParseKey("202004")
	if err != nil {
		t.Fatalf("ParseKey(202004): %v", err)
	}
	if y != 2020 || m != time.April {
		t.Fatalf("ParseKey(202004) = %d, %s, want 2020, April", y, m)
	}
	if got := Key(y, m); got != "202004" {
		t.Fatalf("Key(2020, April) = %q, want 202004", got)
	}

	for _, bad := range []string{"", "20204", "2020-4", "202013", "202000", "abcdef", "2020041"} {
		if _, _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) returned nil error", bad)
		}
	}
}

func TestParseDate_RejectsNonexistentDay(t *testing.T) {
	if _, err := ParseDate("2021-02-29"); err == nil {
		t.Fatal("ParseDate(2021-02-29) returned nil error")
	}
}
