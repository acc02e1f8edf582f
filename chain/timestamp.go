package chain

import "time"

// Timestamp is a block zero date in seconds since the Unix epoch.
type Timestamp uint64

// TimestampOf converts a wall-clock time to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.Unix())
}

// Time returns the timestamp as a wall-clock time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Unix returns the raw seconds value.
func (t Timestamp) Unix() uint64 {
	return uint64(t)
}
