package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomTypeEnum string

const (
	RoomLecture RoomTypeEnum = "lecture"
	RoomLab     RoomTypeEnum = "lab"
)

type RoomModel struct {
	RoomID uuid.UUID `gorm:"column:room_id;type:uuid;default:gen_random_uuid();primaryKey" json:"room_id"`

	RoomName     string       `gorm:"column:room_name;type:varchar(80);not null;uniqueIndex" json:"room_name"`
	RoomType     RoomTypeEnum `gorm:"column:room_type;type:varchar(16);not null;default:'lecture'" json:"room_type"`
	RoomCapacity int          `gorm:"column:room_capacity;not null;default:60" json:"room_capacity"`

	RoomCreatedAt time.Time      `gorm:"column:room_created_at;type:timestamptz;not null;autoCreateTime" json:"room_created_at"`
	RoomUpdatedAt time.Time      `gorm:"column:room_updated_at;type:timestamptz;not null;autoUpdateTime" json:"room_updated_at"`
	RoomDeletedAt gorm.DeletedAt `gorm:"column:room_deleted_at;index" json:"room_deleted_at,omitempty"`
}

func (RoomModel) TableName() string { return "rooms" }
