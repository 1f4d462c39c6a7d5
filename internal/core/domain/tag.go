package domain

// Tag is a label articles can be filed under.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
