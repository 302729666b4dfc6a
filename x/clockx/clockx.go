// Package clockx keeps a wall calendar derived from elapsed seconds.
// There is no RTC on the target board; the operator sets a base date and the
// control loop's 1 Hz tick advances it. Leap years are handled; leap seconds
// are not.
package clockx

import "greenhouse-go/x/conv"

// Clock is a calendar date/time. Day and Month are 1-based.
type Clock struct {
	Sec   uint8
	Min   uint8
	Hour  uint8
	Day   uint8
	Month uint8
	Year  uint16
}

// New returns the boot epoch: midnight, 1 Jan 2000.
func New() Clock {
	return Clock{Day: 1, Month: 1, Year: 2000}
}

// TickSecond advances the clock by one second, rolling over minutes, hours,
// days, months and years as needed.
func (c *Clock) TickSecond() {
	c.Sec++
	if c.Sec < 60 {
		return
	}
	c.Sec = 0
	c.Min++
	if c.Min < 60 {
		return
	}
	c.Min = 0
	c.Hour++
	if c.Hour < 24 {
		return
	}
	c.Hour = 0
	c.Day++
	for c.Day > c.daysInMonth() {
		c.Day = 1
		c.Month++
		if c.Month > 12 {
			c.Month = 1
			c.Year++
		}
	}
}

// AddSeconds advances the clock by n seconds.
func (c *Clock) AddSeconds(n uint64) {
	for ; n > 0; n-- {
		c.TickSecond()
	}
}

func isLeapYear(year uint16) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func (c *Clock) daysInMonth() uint8 {
	switch c.Month {
	case 2:
		if isLeapYear(c.Year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// AppendTime appends "HH:MM:SS" to dst.
func (c *Clock) AppendTime(dst []byte) []byte {
	var b [2]byte
	dst = append(dst, conv.Pad2(b[:], c.Hour)...)
	dst = append(dst, ':')
	dst = append(dst, conv.Pad2(b[:], c.Min)...)
	dst = append(dst, ':')
	dst = append(dst, conv.Pad2(b[:], c.Sec)...)
	return dst
}

// AppendDate appends "DD/MM/YYYY" to dst.
func (c *Clock) AppendDate(dst []byte) []byte {
	var b [20]byte
	dst = append(dst, conv.Pad2(b[:2], c.Day)...)
	dst = append(dst, '/')
	dst = append(dst, conv.Pad2(b[:2], c.Month)...)
	dst = append(dst, '/')
	dst = append(dst, conv.Utoa(b[:], uint64(c.Year))...)
	return dst
}
