package bookapi

// Book is one catalog entry from the book service. Books are immutable once
// fetched and are referenced by ID everywhere else in the client.
type Book struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Theme   string `json:"theme,omitempty"`
	Color   string `json:"color,omitempty"`
	Cover   string `json:"cover,omitempty"`
	Tagline string `json:"tagline,omitempty"`
}

// askRequest is the JSON body for POST /ask.
type askRequest struct {
	BookID   string `json:"bookId"`
	Question string `json:"question"`
}
