// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package streamzip

import "time"

// dosEpoch is substituted whenever a timestamp predates what the
// packed DOS date field can represent.
var dosEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// dosDateTime decomposes t into packed DOS date and time words, per
// spec §4.4. t is decomposed in whatever zone it already carries --
// dosDateTime does not force UTC, so a caller that wants DOS fields
// relative to a specific zone passes a time.Time already in that
// zone.
func dosDateTime(t time.Time) (dosDate, dosTime uint16) {
	if t.Year() < 1980 {
		t = dosEpoch
	}
	dosDate = uint16((t.Year()-1980)&0x7f)<<9 | uint16(t.Month()&0x0f)<<5 | uint16(t.Day()&0x1f)
	dosTime = uint16(t.Hour()&0x1f)<<11 | uint16(t.Minute()&0x3f)<<5 | uint16((t.Second()/2)&0x1f)
	return dosDate, dosTime
}
