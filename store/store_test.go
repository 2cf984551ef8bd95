package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resort-backend/models"
)

type backend struct {
	name string
	open func(t *testing.T) RoomStore
}

func backends() []backend {
	return []backend{
		{"file", func(t *testing.T) RoomStore {
			return NewFileStore(filepath.Join(t.TempDir(), "rooms.json"))
		}},
		{"redis", func(t *testing.T) RoomStore {
			mr := miniredis.RunT(t)
			rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { rdb.Close() })
			return NewRedisStore(rdb, "")
		}},
		{"gorm", func(t *testing.T) RoomStore {
			db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "rooms.db")), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			s := NewGormStore(db)
			if err := s.Migrate(); err != nil {
				t.Fatalf("migrate: %v", err)
			}
			return s
		}},
	}
}

func TestListSeedsAndIsIdempotent(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()

			first, err := s.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if !reflect.DeepEqual(first, models.DefaultRooms()) {
				t.Fatalf("seeded rooms differ from default inventory")
			}
			second, err := s.List(ctx)
			if err != nil {
				t.Fatalf("second list: %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("repeated reads differ")
			}
		})
	}
}

func TestUpdateSingleRoom(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()

			guest := &models.Guest{Name: "A", Email: "a@x.com", Phone: "000", CheckIn: "2024-01-01", CheckOut: "2024-01-02"}
			got, err := s.Update(ctx, "1202", func(r *models.Room) error {
				r.Status = models.StatusPending
				r.Guest = guest
				return nil
			})
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if got.Status != models.StatusPending || got.Guest == nil || got.Guest.Name != "A" {
				t.Fatalf("unexpected updated room %+v", got)
			}

			rooms, err := s.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			for _, r := range rooms {
				if r.ID == "1202" {
					if r.Status != models.StatusPending || r.Guest == nil || *r.Guest != *guest {
						t.Fatalf("update not persisted: %+v", r)
					}
					if r.Prices != models.RoomSingle.Prices() {
						t.Fatalf("prices changed: %+v", r.Prices)
					}
				} else if r.Status != models.StatusAvailable {
					t.Fatalf("room %s changed unexpectedly", r.ID)
				}
			}

			// clearing the guest must persist as absent
			if _, err := s.Update(ctx, "1202", func(r *models.Room) error {
				r.Status = models.StatusAvailable
				r.Guest = nil
				return nil
			}); err != nil {
				t.Fatalf("clear: %v", err)
			}
			rooms, _ = s.List(ctx)
			if rooms[0].Guest != nil {
				t.Fatalf("guest not cleared: %+v", rooms[0])
			}
		})
	}
}

func TestUpdateErrorsLeaveStateUntouched(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()

			if _, err := s.Update(ctx, "9999", func(r *models.Room) error { return nil }); !errors.Is(err, models.ErrRoomNotFound) {
				t.Fatalf("expected ErrRoomNotFound, got %v", err)
			}

			boom := &models.RoomUnavailableError{RoomID: "S1", Status: models.StatusOccupied}
			_, err := s.Update(ctx, "S1", func(r *models.Room) error {
				r.Status = models.StatusOccupied
				return boom
			})
			var unavailable *models.RoomUnavailableError
			if !errors.As(err, &unavailable) {
				t.Fatalf("expected callback error to pass through, got %v", err)
			}
			rooms, _ := s.List(ctx)
			if !reflect.DeepEqual(rooms, models.DefaultRooms()) {
				t.Fatalf("failed update wrote state")
			}
		})
	}
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	for _, b := range backends() {
		if b.name == "gorm" {
			// sqlite has no row locks; the MySQL path relies on SELECT ... FOR UPDATE
			continue
		}
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()
			if _, err := s.List(ctx); err != nil {
				t.Fatalf("seed: %v", err)
			}

			var wg sync.WaitGroup
			var mu sync.Mutex
			wins := 0
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.Update(ctx, "1210", func(r *models.Room) error {
						if r.Status != models.StatusAvailable {
							return &models.RoomUnavailableError{RoomID: r.ID, Status: r.Status}
						}
						r.Status = models.StatusPending
						return nil
					})
					if err == nil {
						mu.Lock()
						wins++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			if wins != 1 {
				t.Fatalf("expected exactly one winner, got %d", wins)
			}
		})
	}
}

func TestSaveAllAndReset(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			ctx := context.Background()

			rooms, err := s.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			rooms[1].Status = models.StatusMaintenance
			if err := s.SaveAll(ctx, rooms); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, _ := s.List(ctx)
			if got[1].Status != models.StatusMaintenance {
				t.Fatalf("SaveAll not persisted")
			}

			reset, err := s.Reset(ctx)
			if err != nil {
				t.Fatalf("reset: %v", err)
			}
			got, _ = s.List(ctx)
			if !reflect.DeepEqual(got, reset) || !reflect.DeepEqual(got, models.DefaultRooms()) {
				t.Fatalf("reset did not restore defaults")
			}
		})
	}
}

func TestCorruptedFileIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	payload := `[{"id":"1202","status":"Available","prices":{"weekday":"cheap","weekend":1}}]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if _, err := s.List(context.Background()); !errors.Is(err, models.ErrStorageCorrupted) {
		t.Fatalf("expected ErrStorageCorrupted, got %v", err)
	}
	// the file must not be silently overwritten
	raw, _ := os.ReadFile(path)
	if string(raw) != payload {
		t.Fatalf("corrupted file was rewritten")
	}
}

func TestBlankFileIsSeeded(t *testing.T) {
	for _, payload := range []string{"", "  \n", `""`, "null"} {
		path := filepath.Join(t.TempDir(), "rooms.json")
		if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
			t.Fatal(err)
		}
		rooms, err := NewFileStore(path).List(context.Background())
		if err != nil {
			t.Fatalf("%q: expected seeding, got %v", payload, err)
		}
		if len(rooms) != len(models.DefaultRooms()) {
			t.Fatalf("%q: expected default inventory, got %d rooms", payload, len(rooms))
		}
	}
}

func TestBlankRedisPayloadIsSeeded(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Set("rooms", "")

	rooms, err := NewRedisStore(rdb, "rooms").List(context.Background())
	if err != nil {
		t.Fatalf("expected seeding, got %v", err)
	}
	if len(rooms) != len(models.DefaultRooms()) {
		t.Fatalf("expected default inventory, got %d rooms", len(rooms))
	}
}

func TestCorruptedRedisPayloadIsReported(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Set("rooms", `[{"id":1202,"status":"Available"}]`)

	s := NewRedisStore(rdb, "rooms")
	if _, err := s.List(context.Background()); !errors.Is(err, models.ErrStorageCorrupted) {
		t.Fatalf("expected ErrStorageCorrupted, got %v", err)
	}
}

func TestDecodeRoomsAcceptsLegacyShapes(t *testing.T) {
	// double-encoded string payload with lowercase status and no type field
	raw := `"[{\"id\":\"S1\",\"status\":\"under maintenance\",\"prices\":{\"weekday\":35000,\"weekend\":30000},\"guest\":null}]"`
	rooms, err := decodeRooms([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Status != models.StatusMaintenance || rooms[0].Type != models.RoomSuite || rooms[0].Guest != nil {
		t.Fatalf("unexpected decode: %+v", rooms)
	}
}

func TestRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	s := NewRedisStore(rdb, "rooms")
	if _, err := s.List(context.Background()); !errors.Is(err, models.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
