package clockx

import "testing"

func TestTickSecond_Rollovers(t *testing.T) {
	c := Clock{Sec: 59, Min: 59, Hour: 23, Day: 31, Month: 12, Year: 1999}
	c.TickSecond()
	want := Clock{Day: 1, Month: 1, Year: 2000}
	if c != want {
		t.Fatalf("rollover = %+v, want %+v", c, want)
	}
}

func TestFebruary_LeapYear(t *testing.T) {
	// 2000 is a leap year (divisible by 400).
	c := Clock{Sec: 59, Min: 59, Hour: 23, Day: 28, Month: 2, Year: 2000}
	c.TickSecond()
	if c.Day != 29 || c.Month != 2 {
		t.Fatalf("expected 29 Feb 2000, got %02d/%02d", c.Day, c.Month)
	}

	// 1900 is not (divisible by 100, not 400).
	c = Clock{Sec: 59, Min: 59, Hour: 23, Day: 28, Month: 2, Year: 1900}
	c.TickSecond()
	if c.Day != 1 || c.Month != 3 {
		t.Fatalf("expected 1 Mar 1900, got %02d/%02d", c.Day, c.Month)
	}
}

func TestAddSeconds(t *testing.T) {
	c := New()
	c.AddSeconds(3661) // 1h 1m 1s
	if c.Hour != 1 || c.Min != 1 || c.Sec != 1 {
		t.Fatalf("got %02d:%02d:%02d", c.Hour, c.Min, c.Sec)
	}
}

func TestAppendFormats(t *testing.T) {
	c := Clock{Sec: 5, Min: 7, Hour: 9, Day: 3, Month: 11, Year: 2026}
	if got := string(c.AppendTime(nil)); got != "09:07:05" {
		t.Fatalf("time = %q", got)
	}
	if got := string(c.AppendDate(nil)); got != "03/11/2026" {
		t.Fatalf("date = %q", got)
	}
}
