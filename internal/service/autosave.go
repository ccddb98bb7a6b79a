package service

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Autosave periodically persists open documents with unsaved changes.
// The schedule is a cron expression from config ("@every 30s" by default).

// StartAutosave schedules the background save sweep. An empty expression
// disables autosave. Returns a stop function.
func (s *DocumentService) StartAutosave(ctx context.Context, expr string) (stop func(), err error) {
	if expr == "" {
		return func() {}, nil
	}
	c := cron.New()
	_, err = c.AddFunc(expr, func() {
		if err := s.SaveAll(ctx); err != nil {
			log.Printf("autosave: sweep failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("autosave: scheduled with %q", expr)
	return func() { c.Stop() }, nil
}
