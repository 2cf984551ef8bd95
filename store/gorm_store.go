package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resort-backend/models"
)

// mysql ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// RoomRecord is the rooms table row. Guest is stored as a JSON column and is
// NULL whenever the room holds no booking.
type RoomRecord struct {
	ID           string         `gorm:"primaryKey;column:id;type:varchar(32)"`
	Position     int            `gorm:"column:position;index"`
	Type         string         `gorm:"column:type;type:varchar(16)"`
	Status       string         `gorm:"column:status;type:varchar(32);index"`
	Guest        datatypes.JSON `gorm:"column:guest"`
	WeekdayPrice int64          `gorm:"column:weekday_price"`
	WeekendPrice int64          `gorm:"column:weekend_price"`
	Image        string         `gorm:"column:image;type:varchar(255)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RoomRecord) TableName() string { return "rooms" }

// GormStore keeps one row per room, so Update locks only the row it changes.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Migrate() error {
	return s.DB.AutoMigrate(&RoomRecord{})
}

func (s *GormStore) List(ctx context.Context) ([]models.Room, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	var recs []RoomRecord
	if err := s.DB.WithContext(ctx).Order("position ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: list rooms: %v", models.ErrStorageUnavailable, err)
	}
	rooms := make([]models.Room, 0, len(recs))
	for _, rec := range recs {
		room, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (s *GormStore) SaveAll(ctx context.Context, rooms []models.Room) error {
	recs := make([]RoomRecord, 0, len(rooms))
	for i, room := range rooms {
		rec, err := recordFrom(room, i)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&RoomRecord{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.CreateInBatches(&recs, 100).Error
	})
	if err != nil {
		return fmt.Errorf("%w: save rooms: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, id string, fn UpdateFunc) (models.Room, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return models.Room{}, err
	}

	var updated models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec RoomRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return callbackError{models.ErrRoomNotFound}
		}
		if err != nil {
			return err
		}

		room, err := rec.toModel()
		if err != nil {
			return callbackError{err}
		}
		if err := fn(&room); err != nil {
			return callbackError{err}
		}

		next, err := recordFrom(room, rec.Position)
		if err != nil {
			return callbackError{err}
		}
		var guest any
		if next.Guest != nil {
			guest = next.Guest
		}
		if err := tx.Model(&RoomRecord{}).Where("id = ?", id).Updates(map[string]any{
			"status":        next.Status,
			"guest":         guest,
			"type":          next.Type,
			"weekday_price": next.WeekdayPrice,
			"weekend_price": next.WeekendPrice,
			"image":         next.Image,
		}).Error; err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		var cb callbackError
		if errors.As(err, &cb) {
			return models.Room{}, cb.err
		}
		return models.Room{}, fmt.Errorf("%w: update room %s: %v", models.ErrStorageUnavailable, id, err)
	}
	return updated, nil
}

func (s *GormStore) Reset(ctx context.Context) ([]models.Room, error) {
	rooms := models.DefaultRooms()
	if err := s.SaveAll(ctx, rooms); err != nil {
		return nil, err
	}
	log.Printf("⚠️  rooms table reset to default inventory")
	return rooms, nil
}

func (s *GormStore) ensureSeeded(ctx context.Context) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&RoomRecord{}).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: count rooms: %v", models.ErrStorageUnavailable, err)
	}
	if count > 0 {
		return nil
	}

	rooms := models.DefaultRooms()
	recs := make([]RoomRecord, 0, len(rooms))
	for i, room := range rooms {
		rec, err := recordFrom(room, i)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}
	if err := s.DB.WithContext(ctx).Create(&recs).Error; err != nil {
		// another instance seeded first
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return nil
		}
		return fmt.Errorf("%w: seed rooms: %v", models.ErrStorageUnavailable, err)
	}
	log.Printf("✅ rooms seeded (%d)", len(recs))
	return nil
}

func (rec RoomRecord) toModel() (models.Room, error) {
	status, ok := models.ParseRoomStatus(rec.Status)
	if !ok {
		return models.Room{}, fmt.Errorf("%w: room %s has unknown status %q", models.ErrStorageCorrupted, rec.ID, rec.Status)
	}
	room := models.Room{
		ID:     rec.ID,
		Type:   models.RoomType(rec.Type),
		Status: status,
		Prices: models.Prices{Weekday: rec.WeekdayPrice, Weekend: rec.WeekendPrice},
		Image:  rec.Image,
	}
	if len(rec.Guest) > 0 && string(rec.Guest) != "null" {
		var g models.Guest
		if err := json.Unmarshal(rec.Guest, &g); err != nil {
			return models.Room{}, fmt.Errorf("%w: room %s guest: %v", models.ErrStorageCorrupted, rec.ID, err)
		}
		room.Guest = &g
	}
	return room, nil
}

func recordFrom(room models.Room, position int) (RoomRecord, error) {
	rec := RoomRecord{
		ID:           room.ID,
		Position:     position,
		Type:         string(room.Type),
		Status:       string(room.Status),
		WeekdayPrice: room.Prices.Weekday,
		WeekendPrice: room.Prices.Weekend,
		Image:        room.Image,
	}
	if room.Guest != nil {
		b, err := json.Marshal(room.Guest)
		if err != nil {
			return RoomRecord{}, err
		}
		rec.Guest = datatypes.JSON(b)
	}
	return rec, nil
}
