package category

// CategoryResponse is one entry of the procurement category catalog.
// Documents are filed under a category by name and approval rules match
// on the same name, so the name is the identifier clients submit.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoriesResponse lists the active categories a document can be
// filed under.
type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
