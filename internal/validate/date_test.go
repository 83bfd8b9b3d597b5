package validate

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	birth := day(1999, time.April, 2)
	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"day before birthday", day(2024, time.April, 1), 24},
		{"on birthday", day(2024, time.April, 2), 25},
		{"month before", day(2024, time.March, 30), 24},
		{"month after", day(2024, time.May, 1), 25},
		{"same day of birth", birth, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(birth, tt.today); got != tt.want {
				t.Errorf("Age(%v, %v) = %d, want %d", birth, tt.today, got, tt.want)
			}
		})
	}
}

func TestAge_BirthZoneCalendar(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	birth := time.Date(2006, time.April, 2, 0, 0, 0, 0, ist)
	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"evening before birthday", time.Date(2024, time.April, 1, 22, 0, 0, 0, ist), 17},
		{"birthday morning", time.Date(2024, time.April, 2, 0, 30, 0, 0, ist), 18},
		// 2024-04-01 19:00 UTC is already April 2 in IST
		{"utc clock on birthday in ist", time.Date(2024, time.April, 1, 19, 0, 0, 0, time.UTC), 18},
		{"utc clock before birthday in ist", time.Date(2024, time.April, 1, 18, 0, 0, 0, time.UTC), 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(birth, tt.today); got != tt.want {
				t.Errorf("Age(%v, %v) = %d, want %d", birth, tt.today, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		{"1999-04-02T00:00:00.000Z", day(1999, time.April, 2), false},
		{"1999-04-02T00:00:00Z", day(1999, time.April, 2), false},
		{"1999-04-02", day(1999, time.April, 2), false},
		{"1999-04-02T00:00:00", day(1999, time.April, 2), false},
		{"", time.Time{}, true},
		{"not a date", time.Time{}, true},
		{"1999-02-30", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDateOfBirthAndMinimumAgeAreIndependent(t *testing.T) {
	now := day(2024, time.April, 1)

	// valid date, too young
	recent := "2020-01-01T00:00:00.000Z"
	if !DateOfBirth(recent, now) {
		t.Errorf("DateOfBirth(%q) = false, want true", recent)
	}
	if MinimumAge(recent, 18, now) {
		t.Errorf("MinimumAge(%q, 18) = true, want false", recent)
	}

	// future date
	future := "2030-01-01"
	if DateOfBirth(future, now) {
		t.Errorf("DateOfBirth(%q) = true, want false", future)
	}

	// garbage is neither a date nor old enough
	if DateOfBirth("garbage", now) || MinimumAge("garbage", 0, now) {
		t.Error("unparseable date accepted")
	}

	// exact threshold
	if !MinimumAge("1999-04-01", 25, now) {
		t.Error("MinimumAge on 25th birthday = false, want true")
	}
	if MinimumAge("1999-04-02", 25, now) {
		t.Error("MinimumAge one day before 25th birthday = true, want false")
	}

	// an offset-bearing date is judged on its own calendar
	late := time.Date(2024, time.April, 1, 22, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	if MinimumAge("2006-04-02T00:00:00+05:30", 18, late) {
		t.Error("MinimumAge on the eve of the 18th birthday (+05:30) = true, want false")
	}
}

func TestDateOfBirth_NowIsAccepted(t *testing.T) {
	now := time.Date(2024, time.April, 1, 12, 30, 0, 0, time.UTC)
	if !DateOfBirth(now.Format(time.RFC3339Nano), now) {
		t.Error("DateOfBirth(now) = false, want true")
	}
}
