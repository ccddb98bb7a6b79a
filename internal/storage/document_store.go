package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"easel/internal/domain"
)

// DocumentStore implements domain.DocumentStore using SQLite. Scenes are
// stored as the JSON element sequence plus the selected id, one row per
// document.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) CreateDocument(d *domain.Document) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO documents (id, name, width, height, background, file_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Width, d.Height, d.Background, d.FilePath, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *DocumentStore) GetDocument(id string) (*domain.Document, error) {
	d := &domain.Document{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, width, height, background, file_path, created_at, updated_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Width, &d.Height, &d.Background, &d.FilePath, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (s *DocumentStore) ListDocuments() ([]domain.Document, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, width, height, background, file_path, created_at, updated_at
		 FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Name, &d.Width, &d.Height, &d.Background, &d.FilePath, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *DocumentStore) RenameDocument(id, name string) error {
	_, err := s.db.conn.Exec(
		`UPDATE documents SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	return err
}

func (s *DocumentStore) SetFilePath(id, path string) error {
	_, err := s.db.conn.Exec(
		`UPDATE documents SET file_path = ?, updated_at = ? WHERE id = ?`,
		path, time.Now(), id,
	)
	return err
}

// SaveScene persists the snapshot as the document's current scene.
func (s *DocumentStore) SaveScene(id string, snap domain.Snapshot) error {
	elements := snap.Elements
	if elements == nil {
		elements = []domain.Element{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	_, err = s.db.conn.Exec(
		`UPDATE documents SET scene_json = ?, selected_id = ?, updated_at = ? WHERE id = ?`,
		string(data), snap.SelectedID, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	return nil
}

// LoadScene reads the stored scene back as a snapshot.
func (s *DocumentStore) LoadScene(id string) (domain.Snapshot, error) {
	var sceneJSON, selectedID string
	err := s.db.conn.QueryRow(
		`SELECT scene_json, selected_id FROM documents WHERE id = ?`, id,
	).Scan(&sceneJSON, &selectedID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load scene: %w", err)
	}

	var elements []domain.Element
	if sceneJSON != "" && sceneJSON != "[]" {
		if err := json.Unmarshal([]byte(sceneJSON), &elements); err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse scene: %w", err)
		}
	}
	// A stored selection pointing at a since-removed element must not load.
	found := false
	for _, el := range elements {
		if el.ID == selectedID {
			found = true
			break
		}
	}
	if !found {
		selectedID = ""
	}
	return domain.NewSnapshot(elements, selectedID), nil
}

func (s *DocumentStore) DeleteDocument(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM documents WHERE id = ?`, id)
	return err
}
