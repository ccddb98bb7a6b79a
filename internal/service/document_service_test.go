package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"easel/internal/editor"
	"easel/internal/storage"
)

func newTestService(t *testing.T) (*DocumentService, *MockEmitter) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "easel.db"), dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &MockEmitter{}
	svc := NewDocumentService(storage.NewDocumentStore(db), dir, emitter, 640, 480, "#ffffff", 16)
	return svc, emitter
}

func hasEvent(m *MockEmitter, name string) bool {
	return m.Has(name)
}

func TestCreateDocumentOpensEditor(t *testing.T) {
	svc, _ := newTestService(t)
	doc, err := svc.CreateDocument("Sketch")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.Width != 640 || doc.Height != 480 || doc.Background != "#ffffff" {
		t.Fatalf("document did not pick up canvas defaults: %+v", doc)
	}
	if _, ok := svc.Editor(doc.ID); !ok {
		t.Fatal("a freshly created document should be open")
	}
}

func TestCreateDocumentDefaultsName(t *testing.T) {
	svc, _ := newTestService(t)
	doc, err := svc.CreateDocument("")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.Name == "" {
		t.Fatal("empty document names should get a default")
	}
}

func TestSaveAndReopen(t *testing.T) {
	svc, emitter := newTestService(t)
	doc, err := svc.CreateDocument("Sketch")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ed, _ := svc.Editor(doc.ID)
	ed.SetActiveTool(editor.ToolRectangle)
	ed.PointerDown(10, 10)
	ed.PointerMove(60, 60)
	ed.PointerUp()

	ctx := context.Background()
	if err := svc.Save(ctx, doc.ID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !hasEvent(emitter, "doc:saved") {
		t.Fatal("save should emit doc:saved")
	}

	if err := svc.Close(ctx, doc.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := svc.Editor(doc.ID); ok {
		t.Fatal("closed document should be evicted")
	}

	reopened, err := svc.Open(doc.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(reopened.Elements()) != 1 {
		t.Fatal("scene lost across close and reopen")
	}
	if reopened.CanUndo() {
		t.Fatal("a reopened document should start with a clean history")
	}
}

func TestSaveAllSkipsCleanDocuments(t *testing.T) {
	svc, _ := newTestService(t)
	clean, _ := svc.CreateDocument("clean")
	dirty, _ := svc.CreateDocument("dirty")

	ctx := context.Background()
	if err := svc.Save(ctx, clean.ID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Save(ctx, dirty.ID); err != nil {
		t.Fatalf("save: %v", err)
	}

	ed, _ := svc.Editor(dirty.ID)
	ed.SetActiveTool(editor.ToolCircle)
	ed.PointerDown(0, 0)
	ed.PointerMove(40, 40)
	ed.PointerUp()

	if err := svc.SaveAll(ctx); err != nil {
		t.Fatalf("save all: %v", err)
	}

	// Both documents must now be clean: a second sweep saves nothing.
	emitter := svc.emitter.(*MockEmitter)
	before := len(emitter.Events())
	if err := svc.SaveAll(ctx); err != nil {
		t.Fatalf("save all: %v", err)
	}
	if len(emitter.Events()) != before {
		t.Fatal("save-all on clean documents should be a no-op")
	}
}

func TestExportPNG(t *testing.T) {
	svc, _ := newTestService(t)
	doc, _ := svc.CreateDocument("Sketch")

	ed, _ := svc.Editor(doc.ID)
	ed.SetActiveTool(editor.ToolRectangle)
	ed.PointerDown(10, 10)
	ed.PointerMove(60, 60)
	ed.PointerUp()

	data, err := svc.ExportPNG(doc.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatal("export did not produce a PNG stream")
	}
}

func TestLinkFileWritesScene(t *testing.T) {
	svc, emitter := newTestService(t)
	doc, _ := svc.CreateDocument("Sketch")

	ed, _ := svc.Editor(doc.ID)
	ed.SetActiveTool(editor.ToolRectangle)
	ed.PointerDown(0, 0)
	ed.PointerMove(50, 50)
	ed.PointerUp()

	path := filepath.Join(t.TempDir(), "scene.json")
	abs, err := svc.LinkFile(context.Background(), doc.ID, path)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("read linked file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("linked file should hold the current scene")
	}
	if !hasEvent(emitter, "doc:linked") {
		t.Fatal("linking should emit doc:linked")
	}
}

func TestReloadFromFile(t *testing.T) {
	svc, emitter := newTestService(t)
	doc, _ := svc.CreateDocument("Sketch")

	path := filepath.Join(t.TempDir(), "scene.json")
	if _, err := svc.LinkFile(context.Background(), doc.ID, path); err != nil {
		t.Fatalf("link: %v", err)
	}

	scene := `[{"id":"ext-1","kind":"rectangle","x":1,"y":2,"width":30,"height":40,"rotation":0,"visible":true,"style":{"fill":"#000000","stroke":"","strokeWidth":0,"opacity":1}}]`
	if err := os.WriteFile(path, []byte(scene), 0644); err != nil {
		t.Fatalf("rewrite linked file: %v", err)
	}

	if err := svc.reloadFromFile(context.Background(), doc.ID); err != nil {
		t.Fatalf("reload: %v", err)
	}
	ed, _ := svc.Editor(doc.ID)
	els := ed.Elements()
	if len(els) != 1 || els[0].ID != "ext-1" {
		t.Fatal("reload did not replace the scene with the file contents")
	}
	if !hasEvent(emitter, "doc:reloaded") {
		t.Fatal("reload should emit doc:reloaded")
	}
}

// Autosave sweeps and file-watcher reloads run on their own goroutines
// while tool handlers create and edit documents. All of that traffic goes
// through the service mutex.
func TestConcurrentAutosaveAndEditing(t *testing.T) {
	svc, _ := newTestService(t)
	doc, err := svc.CreateDocument("shared")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := svc.SaveAll(ctx); err != nil {
				t.Errorf("save all: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if _, err := svc.CreateDocument(fmt.Sprintf("doc-%d", i)); err != nil {
				t.Errorf("create: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			err := svc.WithEditor(doc.ID, func(ed *editor.Editor) error {
				ed.SetActiveTool(editor.ToolRectangle)
				ed.PointerDown(float64(i), float64(i))
				ed.PointerMove(float64(i)+30, float64(i)+30)
				ed.PointerUp()
				return nil
			})
			if err != nil {
				t.Errorf("edit: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	ed, _ := svc.Editor(doc.ID)
	if len(ed.Elements()) != 50 {
		t.Fatalf("expected 50 elements after concurrent edits, got %d", len(ed.Elements()))
	}
}

func TestRenameDocument(t *testing.T) {
	svc, _ := newTestService(t)
	doc, _ := svc.CreateDocument("before")

	if err := svc.Rename(doc.ID, "after"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	docs, err := svc.ListDocuments()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, d := range docs {
		if d.ID == doc.ID {
			found = true
			if d.Name != "after" {
				t.Fatalf("rename not persisted, got %q", d.Name)
			}
		}
	}
	if !found {
		t.Fatal("renamed document missing from listing")
	}
	if err := svc.Rename(doc.ID, ""); err == nil {
		t.Fatal("renaming to an empty name should fail")
	}
}

// A file linked after the watcher starts must still trigger reloads: the
// watcher picks up paths dynamically rather than only at startup.
func TestWatcherPicksUpFilesLinkedAfterStart(t *testing.T) {
	svc, emitter := newTestService(t)
	doc, _ := svc.CreateDocument("Sketch")
	ctx := context.Background()

	stop, err := svc.WatchLinkedFiles(ctx)
	if err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer stop()

	path := filepath.Join(t.TempDir(), "scene.json")
	if _, err := svc.LinkFile(ctx, doc.ID, path); err != nil {
		t.Fatalf("link: %v", err)
	}

	scene := `[{"id":"ext-1","kind":"rectangle","x":1,"y":2,"width":30,"height":40,"rotation":0,"visible":true,"style":{"fill":"#000000","stroke":"","strokeWidth":0,"opacity":1}}]`
	if err := os.WriteFile(path, []byte(scene), 0644); err != nil {
		t.Fatalf("rewrite linked file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		reloaded := false
		svc.WithEditor(doc.ID, func(ed *editor.Editor) error {
			els := ed.Elements()
			reloaded = len(els) == 1 && els[0].ID == "ext-1"
			return nil
		})
		if reloaded {
			if !emitter.Has("doc:reloaded") {
				t.Fatal("reload should emit doc:reloaded")
			}
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("external write to a late-linked file never reloaded the document")
}

func TestDeleteDocumentEvicts(t *testing.T) {
	svc, _ := newTestService(t)
	doc, _ := svc.CreateDocument("Sketch")
	if err := svc.DeleteDocument(doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := svc.Editor(doc.ID); ok {
		t.Fatal("deleted document should no longer be open")
	}
}
