package service

import (
	"context"
	"sync/atomic"

	"fense-console/internal/domain"
)

// fakeClient is a scriptable backend for service tests. Each method returns
// the configured value and counts its calls.
type fakeClient struct {
	verifyResp *domain.VerifyResponse
	verifyErr  error
	verifyFn   func(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error)

	crawlMessage string
	crawlErr     error
	crawlJobs    []domain.CrawlJob

	news       []domain.NewsItem
	newsErr    error
	history    []domain.HistoryItem
	historyErr error

	message    string
	messageErr error

	verifyCalls atomic.Int64
	searchQuery string
	deletedID   string
}

func (f *fakeClient) VerifyInput(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error) {
	f.verifyCalls.Add(1)
	if f.verifyFn != nil {
		return f.verifyFn(ctx, req)
	}
	return f.verifyResp, f.verifyErr
}

func (f *fakeClient) TriggerCrawl(ctx context.Context, job domain.CrawlJob) (string, error) {
	f.crawlJobs = append(f.crawlJobs, job)
	return f.crawlMessage, f.crawlErr
}

func (f *fakeClient) News(ctx context.Context) ([]domain.NewsItem, error) {
	return f.news, f.newsErr
}

func (f *fakeClient) History(ctx context.Context) ([]domain.HistoryItem, error) {
	return f.history, f.historyErr
}

func (f *fakeClient) SearchNews(ctx context.Context, query string) ([]domain.NewsItem, error) {
	f.searchQuery = query
	return f.news, f.newsErr
}

func (f *fakeClient) AddNews(ctx context.Context, title, content, link string) (string, error) {
	return f.message, f.messageErr
}

func (f *fakeClient) DeleteNews(ctx context.Context, id string) (string, error) {
	f.deletedID = id
	return f.message, f.messageErr
}
