package types

// Bookmark is one saved page reference. Only the id carries an invariant
// (uniqueness); the rest is user-supplied.
type Bookmark struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Folder string `json:"folder,omitempty"`
}
