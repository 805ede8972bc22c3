package types

// SearchRequest represents a transcript search request
type SearchRequest struct {
	Query         string `json:"query" example:"quick fox"`
	CaseSensitive bool   `json:"caseSensitive,omitempty" example:"false"`
	WholeWords    bool   `json:"wholeWords,omitempty" example:"false"`
	Limit         int    `json:"limit,omitempty" example:"50"`
}
