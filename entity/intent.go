package entity

// QueryIntent is the structured reading of a natural language query.
// A nil or empty filter field means the filter is absent.
type QueryIntent struct {
	SemanticQuery string       `json:"semantic_query"`
	ContentType   *ContentType `json:"content_type,omitempty"`
	DateFilter    string       `json:"date_filter,omitempty"`
	PriceMax      *float64     `json:"price_max,omitempty"`
	Author        string       `json:"author,omitempty"`
}

func (q QueryIntent) HasPostFilter() bool {
	return q.PriceMax != nil || q.Author != ""
}
