package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// AllModels is the AutoMigrate set, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&Trip{},
		&Day{},
		&Activity{},
		&WishlistItem{},
		&PartnerListing{},
		&CatalogPlace{},
		&CreatorVideo{},
	}
}
