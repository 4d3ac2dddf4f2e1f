package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"fense-console/internal/backend"
	"fense-console/internal/domain"
)

// CrawlService turns an operator's pasted URL block into a crawl job.
type CrawlService struct {
	client backend.Client
}

func NewCrawlService(client backend.Client) *CrawlService {
	return &CrawlService{client: client}
}

// ParseSourceList splits a multi-line block into an ordered URL list: one
// entry per line, surrounding whitespace trimmed, blank lines dropped. No
// URL validation happens here; the backend skips sources it cannot handle.
func ParseSourceList(block string) []string {
	var urls []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}

// Trigger submits the parsed source list as one batch job and returns the
// server's message, which may be empty.
func (s *CrawlService) Trigger(ctx context.Context, block string) (string, error) {
	job := domain.CrawlJob{ListSource: ParseSourceList(block)}
	if err := job.Validate(); err != nil {
		return "", err
	}

	log.Printf("Triggering crawl for %d sources", len(job.ListSource))

	message, err := s.client.TriggerCrawl(ctx, job)
	if err != nil {
		return "", fmt.Errorf("crawl trigger failed: %w", err)
	}

	return message, nil
}
