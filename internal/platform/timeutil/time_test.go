package timeutil

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeMarshalFixedMillis(t *testing.T) {
	ts := NewTime(time.Date(2024, 1, 15, 10, 30, 0, 123456789, time.FixedZone("BDT", 6*3600)))
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2024-01-15T04:30:00.123Z"` {
		t.Fatalf("unexpected output %s", data)
	}
}

func TestTimeUnmarshalNullPreservesValue(t *testing.T) {
	orig := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	ts := NewTime(orig)
	if err := json.Unmarshal([]byte("null"), &ts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ts.Equal(orig) {
		t.Fatalf("expected value to be preserved, got %v", ts.Time)
	}
}

func TestTimeUnmarshalRejectsGarbage(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Fatal("expected error")
	}
}

func TestDateUsesUTCCalendarDay(t *testing.T) {
	// 01:00 in Dhaka is still the previous day in UTC.
	local := time.Date(2024, 3, 10, 1, 0, 0, 0, time.FixedZone("BDT", 6*3600))
	if got := Date(local); got != "2024-03-09" {
		t.Fatalf("expected 2024-03-09, got %s", got)
	}
}
