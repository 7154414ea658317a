// Package user exposes user accounts as a selectable entity collection.
package user

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/GoStageSetting/GoStageSetting/internal/db/models"
	"github.com/GoStageSetting/GoStageSetting/internal/schema"
)

// CollectionName identifies users inside setting declarations.
const CollectionName = "users"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Collection lists users from the database.
type Collection struct {
	db         *gorm.DB
	activeOnly bool
}

// NewCollection returns the collection of all users.
func NewCollection(db *gorm.DB) *Collection {
	return &Collection{db: db}
}

// Active returns the collection restricted to active users.
func (c *Collection) Active() *Collection {
	return &Collection{db: c.db, activeOnly: true}
}

// Name implements schema.Collection.
func (c *Collection) Name() string {
	if c.activeOnly {
		return CollectionName + ".active"
	}

	return CollectionName
}

func (c *Collection) query() (*gorm.DB, error) {
	if c.db == nil {
		return nil, ErrDBNil
	}

	q := c.db.Model(&models.User{}).Order("id")
	if c.activeOnly {
		q = q.Where("active = ?", true)
	}

	return q, nil
}

// All implements schema.Collection.
func (c *Collection) All() ([]schema.Entity, error) {
	q, err := c.query()
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	return entities(users), nil
}

// Find implements schema.Collection. Ids that are not numbers match nothing.
func (c *Collection) Find(ids ...string) ([]schema.Entity, error) {
	q, err := c.query()
	if err != nil {
		return nil, err
	}

	keys := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if key, err := strconv.ParseUint(id, 10, 64); err == nil {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return []schema.Entity{}, nil
	}

	var users []models.User
	if err := q.Where("id IN ?", keys).Find(&users).Error; err != nil {
		return nil, err
	}

	return entities(users), nil
}

func entities(users []models.User) []schema.Entity {
	out := make([]schema.Entity, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}

	return out
}

// Catalog references of the user based schemas.
const (
	OwnerRef = CollectionName + ".Owner"
	TeamRef  = CollectionName + ".Team"
)

// Catalog returns schemas selecting users, for settings declared in the config
// file where no Go value can name a collection.
func Catalog(db *gorm.DB) schema.Catalog {
	active := NewCollection(db).Active()

	return schema.Catalog{
		OwnerRef: schema.MustNew("Owner",
			schema.NewField("owner", schema.EntityChoice,
				schema.WithCollection(active),
				schema.WithRequired(false),
				schema.WithHelp("Active user responsible for this area."),
			),
		),
		TeamRef: schema.MustNew("Team",
			schema.NewField("members", schema.EntityMultipleChoice,
				schema.WithCollection(active),
				schema.WithRequired(false),
			),
		),
	}
}
