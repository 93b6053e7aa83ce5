package language

// Language is a single catalog record. ID is assigned by storage on creation.
type Language struct {
	ID   int64  `json:"lang_id"`
	Name string `json:"lang_name"`
}
