package service

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Linked scene files can be edited by external tools. The watcher observes
// the directories containing linked files and reloads a document when its
// file is written, debounced so editors that write in bursts trigger a
// single reload.

const reloadDebounce = 500 * time.Millisecond

// WatchLinkedFiles starts the linked-file watcher. Files already linked are
// registered immediately; documents linked or opened afterwards are added to
// the running watcher by LinkFile and Open. Returns a stop function.
func (s *DocumentService) WatchLinkedFiles(ctx context.Context) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.watch = watcher
	for id, od := range s.open {
		if od.doc.FilePath != "" {
			s.watchPathLocked(od.doc.FilePath, id)
		}
	}
	n := len(s.watchPaths)
	s.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	go func() {
		timers := make(map[string]*time.Timer)
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				absPath, _ := filepath.Abs(event.Name)
				s.mu.Lock()
				docID, linked := s.watchPaths[absPath]
				s.mu.Unlock()
				if !linked {
					continue
				}
				if t, exists := timers[docID]; exists {
					t.Stop()
				}
				id := docID
				timers[docID] = time.AfterFunc(reloadDebounce, func() {
					log.Printf("watcher: linked file changed %q, reloading document %s", absPath, id)
					if err := s.reloadFromFile(ctx, id); err != nil {
						log.Printf("watcher: reload failed for document %s: %v", id, err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watcher: error: %v", err)
			}
		}
	}()

	log.Printf("watcher: started with %d linked file(s)", n)
	return func() {
		cancel()
		s.mu.Lock()
		s.watch = nil
		s.watchedDirs = make(map[string]bool)
		s.mu.Unlock()
		watcher.Close()
	}, nil
}

// watchPathLocked registers a linked file for reload-on-change. Called with
// s.mu held. The path mapping is recorded even before the watcher starts so
// WatchLinkedFiles picks it up; directory watches are only added to a
// running watcher.
func (s *DocumentService) watchPathLocked(path, docID string) {
	s.watchPaths[path] = docID
	if s.watch == nil {
		return
	}
	dir := filepath.Dir(path)
	if s.watchedDirs[dir] {
		return
	}
	if err := s.watch.Add(dir); err != nil {
		log.Printf("watcher: failed to watch dir %q: %v", dir, err)
		return
	}
	s.watchedDirs[dir] = true
}
