package domain

import "time"

// Document is one editable drawing. The scene itself (element sequence +
// selection) is stored alongside it as JSON.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Background string    `json:"background"`
	FilePath   string    `json:"filePath"` // optional linked .json scene file
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DocumentStore persists documents and their scenes.
type DocumentStore interface {
	CreateDocument(d *Document) error
	GetDocument(id string) (*Document, error)
	ListDocuments() ([]Document, error)
	RenameDocument(id, name string) error
	SetFilePath(id, path string) error
	SaveScene(id string, snap Snapshot) error
	LoadScene(id string) (Snapshot, error)
	DeleteDocument(id string) error
}
