package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Shaun-Gulati/internal-assistant/internal/core/domain"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driven"
	"github.com/Shaun-Gulati/internal-assistant/internal/core/ports/driving"
	"github.com/Shaun-Gulati/internal-assistant/internal/logger"
)

// Ensure InboxService implements the interface.
var _ driving.InboxService = (*InboxService)(nil)

// InboxService keeps the store in step with a watched folder.
// Created and updated files are ingested with replace semantics; removed
// files are deleted from the store.
type InboxService struct {
	docs     driving.DocumentService
	watcher  driven.FolderWatcher
	role     domain.Role
	readFile func(string) ([]byte, error)
}

// NewInboxService creates an inbox that ingests as role.
func NewInboxService(docs driving.DocumentService, watcher driven.FolderWatcher, role domain.Role) *InboxService {
	return &InboxService{
		docs:     docs,
		watcher:  watcher,
		role:     role,
		readFile: os.ReadFile,
	}
}

// Run ingests files already in the folder that are not stored yet, then
// applies changes until ctx is cancelled. onEvent may be nil.
func (s *InboxService) Run(ctx context.Context, onEvent func(domain.InboxEvent)) error {
	existing, err := s.watcher.Scan(ctx)
	if err != nil {
		return err
	}

	for _, change := range existing {
		if s.docs.CheckDuplicate(ctx, filepath.Base(change.Path), s.role) {
			continue
		}
		s.emit(onEvent, s.Apply(ctx, change))
	}

	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("Watching %s", s.watcher.Root())

	for change := range changes {
		s.emit(onEvent, s.Apply(ctx, change))
	}
	return ctx.Err()
}

// Apply handles one change.
func (s *InboxService) Apply(ctx context.Context, change domain.FileChange) domain.InboxEvent {
	event := domain.InboxEvent{Change: change}
	filename := filepath.Base(change.Path)

	if change.Type == domain.ChangeDeleted {
		result := s.docs.Delete(ctx, filename, s.role)
		event.Delete = &result
		return event
	}

	content, err := s.readFile(change.Path)
	if err != nil {
		err = fmt.Errorf("read %s: %w", change.Path, err)
		event.Ingest = &domain.IngestResult{Filename: filename, Error: err.Error(), Err: err}
		return event
	}

	result := s.docs.ProcessDocument(ctx, domain.IngestRequest{
		Content:         content,
		Filename:        filename,
		Role:            s.role,
		ReplaceExisting: true,
	})
	event.Ingest = &result
	return event
}

func (s *InboxService) emit(onEvent func(domain.InboxEvent), event domain.InboxEvent) {
	switch {
	case event.Ingest != nil && !event.Ingest.Success:
		logger.Warn("%s: %s", event.Change.Path, event.Ingest.Error)
	case event.Delete != nil && !event.Delete.Success:
		logger.Warn("%s: %s", event.Change.Path, event.Delete.Error)
	}
	if onEvent != nil {
		onEvent(event)
	}
}
