package domain

// HistoryItem is one past verification request with its outcome. Timestamp
// is kept as the backend's string representation and converted to the
// viewer's local format at render time, not at fetch time.
type HistoryItem struct {
	ID         string `json:"id"`
	Request    string `json:"request"`
	Response   string `json:"response"`
	Timestamp  string `json:"timestamp"`
	UserRating string `json:"user_rating"`
}
