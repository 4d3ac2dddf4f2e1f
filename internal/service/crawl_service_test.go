package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"fense-console/internal/domain"
)

func TestParseSourceList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block string
		want  []string
	}{
		{
			name:  "trims and drops blank lines",
			block: "  https://a.com/x \n\n https://b.com/y  \n",
			want:  []string{"https://a.com/x", "https://b.com/y"},
		},
		{
			name:  "single line",
			block: "https://dantri.com.vn/phap-luat",
			want:  []string{"https://dantri.com.vn/phap-luat"},
		},
		{
			name:  "windows line endings",
			block: "https://a.com\r\nhttps://b.com\r\n",
			want:  []string{"https://a.com", "https://b.com"},
		},
		{
			name:  "preserves order",
			block: "https://c.com\nhttps://a.com\nhttps://b.com",
			want:  []string{"https://c.com", "https://a.com", "https://b.com"},
		},
		{
			name:  "only whitespace",
			block: " \n\t\n ",
			want:  nil,
		},
		{
			name:  "empty block",
			block: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseSourceList(tt.block)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSourceList(%q) = %#v, want %#v", tt.block, got, tt.want)
			}
		})
	}
}

func TestCrawlTrigger(t *testing.T) {
	t.Parallel()

	t.Run("submits one batch job", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{crawlMessage: "Đã lưu thành công 3 bài báo vào database!"}
		svc := NewCrawlService(client)

		message, err := svc.Trigger(context.Background(), "https://a.com/x\nhttps://b.com/y")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if message != "Đã lưu thành công 3 bài báo vào database!" {
			t.Errorf("unexpected message %q", message)
		}

		if len(client.crawlJobs) != 1 {
			t.Fatalf("expected one job, got %d", len(client.crawlJobs))
		}
		want := []string{"https://a.com/x", "https://b.com/y"}
		if !reflect.DeepEqual(client.crawlJobs[0].ListSource, want) {
			t.Errorf("unexpected source list %#v", client.crawlJobs[0].ListSource)
		}
	})

	t.Run("rejects an empty source block", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{}
		svc := NewCrawlService(client)

		_, err := svc.Trigger(context.Background(), " \n \n")
		if !errors.Is(err, domain.ErrEmptySourceList) {
			t.Errorf("expected ErrEmptySourceList, got %v", err)
		}
		if len(client.crawlJobs) != 0 {
			t.Error("no job should reach the backend")
		}
	})

	t.Run("propagates backend failure", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{crawlErr: domain.ErrBackendUnavailable}
		svc := NewCrawlService(client)

		_, err := svc.Trigger(context.Background(), "https://a.com")
		if !errors.Is(err, domain.ErrBackendUnavailable) {
			t.Errorf("expected wrapped ErrBackendUnavailable, got %v", err)
		}
	})
}
