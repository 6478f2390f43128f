package naming

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLength is the length of an encoded timestamp token.
const TimestampLength = 12

// ErrFormat is returned when a timestamp token is not exactly 12 ASCII digits.
var ErrFormat = errors.New("malformed timestamp token")

// EncodeTimestamp renders t in UTC as YYMMDDHHmmss.
// Only years 2000 through 2099 survive a round trip.
func EncodeTimestamp(t time.Time) string {
	t = t.UTC()

	return fmt.Sprintf("%02d%02d%02d%02d%02d%02d",
		t.Year()%100, int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// Representable reports whether t survives EncodeTimestamp and DecodeTimestamp,
// that is whether its UTC year lies in 2000 through 2099.
func Representable(t time.Time) bool {
	year := t.UTC().Year()

	return year >= 2000 && year <= 2099
}

// DecodeTimestamp parses a YYMMDDHHmmss token into a UTC time in the 2000s.
// Out-of-range fields are normalized the way time.Date normalizes them.
func DecodeTimestamp(token string) (time.Time, error) {
	if len(token) != TimestampLength {
		return time.Time{}, fmt.Errorf("%w: %q has length %d", ErrFormat, token, len(token))
	}

	var fields [TimestampLength / 2]int

	for i := range fields {
		hi, lo := token[2*i], token[2*i+1]
		if !isDigit(hi) || !isDigit(lo) {
			return time.Time{}, fmt.Errorf("%w: %q contains non-digits", ErrFormat, token)
		}

		fields[i] = int(hi-'0')*10 + int(lo-'0')
	}

	const century = 2000

	return time.Date(
		century+fields[0],
		time.Month(fields[1]),
		fields[2],
		fields[3],
		fields[4],
		fields[5],
		0,
		time.UTC,
	), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
