package domain

// NewsItem is a crawled article as served by the backend. The Date field is
// whatever string the crawler stored; it is displayed as-is.
type NewsItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Source  string `json:"source"`
}

func (n *NewsItem) Validate() error {
	if n.Title == "" {
		return ErrInvalidNewsTitle
	}
	return nil
}
