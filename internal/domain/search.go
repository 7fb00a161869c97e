package domain

// SearchResult is a single hit returned by a search provider.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Chunk is a window of scraped page text with its provenance.
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Title  string `json:"title"`
}
