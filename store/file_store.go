package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"resort-backend/models"
	"resort-backend/utils"
)

// FileStore keeps the rooms in a single JSON file (rooms.json). Writes go
// through a temp file and rename; a process-wide mutex serializes updates.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) List(ctx context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrSeed()
}

func (s *FileStore) SaveAll(ctx context.Context, rooms []models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(rooms)
}

func (s *FileStore) Update(ctx context.Context, id string, fn UpdateFunc) (models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.loadOrSeed()
	if err != nil {
		return models.Room{}, err
	}
	room, err := applyUpdate(rooms, id, fn)
	if err != nil {
		return models.Room{}, err
	}
	if err := s.write(rooms); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (s *FileStore) Reset(ctx context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := models.DefaultRooms()
	if err := s.write(rooms); err != nil {
		return nil, err
	}
	log.Printf("⚠️  rooms reset to default inventory (%s)", s.path)
	return rooms, nil
}

func (s *FileStore) loadOrSeed() ([]models.Room, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.seed()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrStorageUnavailable, s.path, err)
	}
	rooms, err := decodeRooms(raw)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return s.seed()
	}
	return rooms, nil
}

func (s *FileStore) seed() ([]models.Room, error) {
	rooms := models.DefaultRooms()
	if err := s.write(rooms); err != nil {
		return nil, err
	}
	log.Printf("✅ rooms seeded (%d) into %s", len(rooms), s.path)
	return rooms, nil
}

func (s *FileStore) write(rooms []models.Room) error {
	data, err := encodeRooms(rooms)
	if err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}
