package entity

// Artifact is a rendered output document (spreadsheet, translation
// sheet) produced at the end of a session.
type Artifact struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	Content []byte `json:"-"`
}
