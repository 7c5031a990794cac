package timeval

import (
	"fmt"
	"time"
)

// Stamp returns a local-time timestamp string for log decoration in
// the form "yyyymmdd-hh:mm:ss.ms ".
func Stamp() string {
	return formatStamp(time.Now())
}

func formatStamp(t time.Time) string {
	return fmt.Sprintf("%04d%02d%02d-%02d:%02d:%02d.%03d ",
		t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/int(time.Millisecond))
}
