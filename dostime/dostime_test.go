package dostime_test

import (
	"testing"
	"time"

	"github.com/mkhdmenu/atarihd/dostime"
	"github.com/stretchr/testify/assert"
)

func TestPackUnpackDateRoundTrip(t *testing.T) {
	for year := 1980; year <= 2107; year += 7 {
		d := dostime.PackDate(year, time.March, 17)
		gotYear, gotMonth, gotDay, _, _, _ := dostime.Unpack(d, 0)
		assert.Equal(t, year, gotYear)
		assert.Equal(t, time.March, gotMonth)
		assert.Equal(t, 17, gotDay)
	}
}

func TestPackTimeTruncatesOddSeconds(t *testing.T) {
	tm := dostime.PackTime(13, 45, 37)
	_, _, _, hour, minute, second := dostime.Unpack(0, tm)
	assert.Equal(t, 13, hour)
	assert.Equal(t, 45, minute)
	assert.Equal(t, 36, second)
}

func TestPackTimeEvenSecondsUnchanged(t *testing.T) {
	tm := dostime.PackTime(0, 0, 58)
	_, _, _, _, _, second := dostime.Unpack(0, tm)
	assert.Equal(t, 58, second)
}

func TestPackAndUnpackFullTimestamp(t *testing.T) {
	src := time.Date(2031, time.December, 25, 23, 59, 58, 0, time.Local)
	d, tm := dostime.Pack(src)
	got := dostime.UnpackTime(d, tm)
	assert.Equal(t, src.Year(), got.Year())
	assert.Equal(t, src.Month(), got.Month())
	assert.Equal(t, src.Day(), got.Day())
	assert.Equal(t, src.Hour(), got.Hour())
	assert.Equal(t, src.Minute(), got.Minute())
	assert.Equal(t, src.Second(), got.Second())
}

func TestPackDateClampsOutOfRangeYears(t *testing.T) {
	d := dostime.PackDate(1970, time.January, 1)
	year, _, _, _, _, _ := dostime.Unpack(d, 0)
	assert.Equal(t, 1980, year)
}
