package service

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"easel/internal/domain"
	"easel/internal/editor"
	"easel/internal/render"
	"easel/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Document Service — document lifecycle around live editors
// ─────────────────────────────────────────────────────────────

// DocumentService manages documents and the live editor instance behind
// each open one. Saving, PNG export, linked scene files and autosave all
// live here; the editing engine itself stays persistence-free.
//
// The editors are single-threaded by contract, so all access to the open
// map and the editors behind it is serialized through mu: the autosave
// sweep and the file watcher run on their own goroutines.
type DocumentService struct {
	store   *storage.DocumentStore
	dataDir string
	emitter EventEmitter

	mu       sync.Mutex
	open     map[string]*openDocument
	canvasW  int
	canvasH  int
	bg       string
	fontSize float64

	// linked-file watcher state, see watcher.go; watch is nil until
	// WatchLinkedFiles starts.
	watch       *fsnotify.Watcher
	watchPaths  map[string]string // abs file path -> document id
	watchedDirs map[string]bool
}

type openDocument struct {
	doc    *domain.Document
	editor *editor.Editor
	// History position at the last save; used for dirty tracking.
	savedPos int
}

// NewDocumentService creates a DocumentService. canvasW/canvasH/background
// are the defaults applied to new documents.
func NewDocumentService(store *storage.DocumentStore, dataDir string, emitter EventEmitter, canvasW, canvasH int, background string, fontSize float64) *DocumentService {
	return &DocumentService{
		store:       store,
		dataDir:     dataDir,
		emitter:     emitter,
		open:        make(map[string]*openDocument),
		canvasW:     canvasW,
		canvasH:     canvasH,
		bg:          background,
		fontSize:    fontSize,
		watchPaths:  make(map[string]string),
		watchedDirs: make(map[string]bool),
	}
}

// CreateDocument creates and opens a new empty document.
func (s *DocumentService) CreateDocument(name string) (*domain.Document, error) {
	if name == "" {
		name = "Untitled"
	}
	d := &domain.Document{
		ID:         uuid.New().String(),
		Name:       name,
		Width:      s.canvasW,
		Height:     s.canvasH,
		Background: s.bg,
	}
	if err := s.store.CreateDocument(d); err != nil {
		return nil, err
	}
	ed := editor.New(d.Background)
	ed.SetDefaultFontSize(s.fontSize)

	s.mu.Lock()
	s.open[d.ID] = &openDocument{doc: d, editor: ed}
	s.mu.Unlock()
	return d, nil
}

// ListDocuments returns all stored documents.
func (s *DocumentService) ListDocuments() ([]domain.Document, error) {
	return s.store.ListDocuments()
}

// Open loads the document's scene into a live editor. Opening an already
// open document returns the same editor instance.
func (s *DocumentService) Open(id string) (*editor.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, err := s.openLocked(id)
	if err != nil {
		return nil, err
	}
	return od.editor, nil
}

func (s *DocumentService) openLocked(id string) (*openDocument, error) {
	if od, ok := s.open[id]; ok {
		return od, nil
	}
	d, err := s.store.GetDocument(id)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.LoadScene(id)
	if err != nil {
		return nil, err
	}
	ed := editor.New(d.Background)
	ed.SetDefaultFontSize(s.fontSize)
	ed.LoadSnapshot(snap)
	od := &openDocument{doc: d, editor: ed, savedPos: ed.HistoryPos()}
	s.open[id] = od
	if d.FilePath != "" {
		s.watchPathLocked(d.FilePath, id)
	}
	return od, nil
}

// Editor returns the live editor for an open document.
func (s *DocumentService) Editor(id string) (*editor.Editor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, ok := s.open[id]
	if !ok {
		return nil, false
	}
	return od.editor, true
}

// WithEditor runs fn with the document's editor while holding the service
// lock, opening the document first if needed. Callers that mutate an editor
// concurrently with autosave or the file watcher must go through here; the
// editors themselves have no locking.
func (s *DocumentService) WithEditor(id string, fn func(ed *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, err := s.openLocked(id)
	if err != nil {
		return err
	}
	return fn(od.editor)
}

// Save persists the current scene of an open document and, when the
// document is linked to a scene file, rewrites that file too.
func (s *DocumentService) Save(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, id)
}

func (s *DocumentService) saveLocked(ctx context.Context, id string) error {
	od, ok := s.open[id]
	if !ok {
		return fmt.Errorf("document %s is not open", id)
	}
	snap := od.editor.Snapshot()
	if err := s.store.SaveScene(id, snap); err != nil {
		return err
	}
	if od.doc.FilePath != "" {
		if err := writeSceneFile(od.doc.FilePath, snap); err != nil {
			return fmt.Errorf("write linked file: %w", err)
		}
	}
	od.savedPos = od.editor.HistoryPos()
	s.emitter.Emit(ctx, "doc:saved", map[string]string{"documentId": id})
	return nil
}

// SaveAll saves every open document with unsaved changes. Failures are
// collected rather than aborting the sweep.
func (s *DocumentService) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for id, od := range s.open {
		if od.editor.HistoryPos() == od.savedPos {
			continue
		}
		if err := s.saveLocked(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close saves and evicts an open document.
func (s *DocumentService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, ok := s.open[id]
	if !ok {
		return nil
	}
	err := s.saveLocked(ctx, id)
	if od.doc.FilePath != "" {
		delete(s.watchPaths, od.doc.FilePath)
	}
	delete(s.open, id)
	return err
}

// Rename changes a document's name.
func (s *DocumentService) Rename(id, name string) error {
	if name == "" {
		return fmt.Errorf("document name must not be empty")
	}
	if err := s.store.RenameDocument(id, name); err != nil {
		return err
	}
	s.mu.Lock()
	if od, ok := s.open[id]; ok {
		od.doc.Name = name
	}
	s.mu.Unlock()
	return nil
}

// DeleteDocument removes a document, its live editor, and detaches any
// linked file (the file itself is kept).
func (s *DocumentService) DeleteDocument(id string) error {
	s.mu.Lock()
	if od, ok := s.open[id]; ok && od.doc.FilePath != "" {
		delete(s.watchPaths, od.doc.FilePath)
	}
	delete(s.open, id)
	s.mu.Unlock()
	return s.store.DeleteDocument(id)
}

// ExportPNG renders the document's current scene at its canvas size and
// returns the PNG bytes. The selection indicator is not part of exports.
func (s *DocumentService) ExportPNG(id string) ([]byte, error) {
	s.mu.Lock()
	od, ok := s.open[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("document %s is not open", id)
	}
	w, h := od.doc.Width, od.doc.Height
	bg := od.doc.Background
	snap := od.editor.Snapshot()
	s.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	render.New().Render(img, snap.Elements, "", bg)
	return render.EncodePNG(img)
}

// LinkFile attaches a .json scene file to the document. The current scene
// is written there immediately; external writes to the file reload the
// document (see watcher.go).
func (s *DocumentService) LinkFile(ctx context.Context, id, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, ok := s.open[id]
	if !ok {
		return "", fmt.Errorf("document %s is not open", id)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	if err := writeSceneFile(absPath, od.editor.Snapshot()); err != nil {
		return "", err
	}
	if err := s.store.SetFilePath(id, absPath); err != nil {
		return "", err
	}
	od.doc.FilePath = absPath
	s.watchPathLocked(absPath, id)
	s.emitter.Emit(ctx, "doc:linked", map[string]string{"documentId": id, "path": absPath})
	return absPath, nil
}

// reloadFromFile replaces an open document's scene with the linked file's
// contents. Called by the watcher when the file changes externally.
func (s *DocumentService) reloadFromFile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, ok := s.open[id]
	if !ok || od.doc.FilePath == "" {
		return nil
	}
	snap, err := readSceneFile(od.doc.FilePath)
	if err != nil {
		return err
	}
	od.editor.LoadSnapshot(snap)
	od.savedPos = -1 // force the next autosave to persist the reload
	s.emitter.Emit(ctx, "doc:reloaded", map[string]string{"documentId": id})
	return nil
}

// ── scene file helpers ─────────────────────────────────────

func writeSceneFile(path string, snap domain.Snapshot) error {
	elements := snap.Elements
	if elements == nil {
		elements = []domain.Element{}
	}
	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir for scene file: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func readSceneFile(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read scene file: %w", err)
	}
	var elements []domain.Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse scene file: %w", err)
	}
	return domain.NewSnapshot(elements, ""), nil
}
