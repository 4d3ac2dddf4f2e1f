package datetime

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	f := NewFormatter()

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "rfc3339 with zone",
			value: "2026-08-29T10:30:00+07:00",
			want:  time.Date(2026, 8, 29, 10, 30, 0, 0, time.FixedZone("", 7*3600)),
		},
		{
			name:  "rfc3339 utc",
			value: "2026-08-29T03:30:00Z",
			want:  time.Date(2026, 8, 29, 3, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separated",
			value: "2026-08-29 10:30:00",
			want:  time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separated with microseconds",
			value: "2026-08-29 10:30:00.123456",
			want:  time.Date(2026, 8, 29, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "date only",
			value: "2026-08-29",
			want:  time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := f.Parse(tt.value)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.value)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()

		if _, ok := f.Parse("hôm qua"); ok {
			t.Error("expected parse failure")
		}
	})
}

func TestDisplayLocal(t *testing.T) {
	t.Parallel()

	f := NewFormatter()

	t.Run("day-first local rendering", func(t *testing.T) {
		t.Parallel()

		want := time.Date(2026, 8, 29, 3, 30, 45, 0, time.UTC).Local().Format("02/01/2006 15:04:05")
		if got := f.DisplayLocal("2026-08-29T03:30:45Z"); got != want {
			t.Errorf("DisplayLocal = %q, want %q", got, want)
		}
	})

	t.Run("unparseable values are shown verbatim", func(t *testing.T) {
		t.Parallel()

		if got := f.DisplayLocal("không rõ"); got != "không rõ" {
			t.Errorf("DisplayLocal = %q, want the input unchanged", got)
		}
	})

	t.Run("empty value stays empty", func(t *testing.T) {
		t.Parallel()

		if got := f.DisplayLocal(""); got != "" {
			t.Errorf("DisplayLocal = %q, want empty", got)
		}
	})
}
