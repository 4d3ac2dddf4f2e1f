package domain

// CrawlJob is a batch request to ingest articles from a list of source URLs.
// The order of ListSource is preserved on the wire. URLs are not validated
// client-side; the backend rejects or skips ones it cannot handle.
type CrawlJob struct {
	ListSource []string `json:"list_source"`
}

func (j *CrawlJob) Validate() error {
	if len(j.ListSource) == 0 {
		return ErrEmptySourceList
	}
	return nil
}
