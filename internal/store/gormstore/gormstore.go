package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-users-api/internal/store"
)

// row 物理行：主键 + 整份 JSON 文档
type row struct {
	ID   string         `gorm:"primaryKey;size:36"`
	Data datatypes.JSON `gorm:"not null"`
}

// Client 把关系库当文档存储用：每个集合一张 `<env>_<name>` 表，
// 一行 = id + JSON payload。
type Client struct {
	db  *gorm.DB
	env string
}

func New(db *gorm.DB, env string) *Client {
	return &Client{db: db, env: env}
}

func (c *Client) Collection(name string) (store.Collection, error) {
	full := c.env + "_" + name
	if err := c.db.Table(full).AutoMigrate(&row{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrate %s: %w", full, err)
	}
	return &collection{db: c.db, name: full}, nil
}

type collection struct {
	db   *gorm.DB
	name string
}

func (c *collection) Name() string { return c.name }

func (c *collection) Create(ctx context.Context, doc store.Document) error {
	r, err := toRow(doc)
	if err != nil {
		return err
	}
	err = c.db.WithContext(ctx).Table(c.name).Create(r).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicateKey
	}
	return err
}

func (c *collection) FindByID(ctx context.Context, id string) (store.Document, error) {
	var r row
	err := c.db.WithContext(ctx).Table(c.name).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromRow(r)
}

func (c *collection) Update(ctx context.Context, doc store.Document) error {
	r, err := toRow(doc)
	if err != nil {
		return err
	}
	res := c.db.WithContext(ctx).Table(c.name).Where("id = ?", r.ID).Updates(map[string]any{"data": r.Data})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *collection) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Table(c.name).Where("id = ?", id).Delete(&row{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *collection) FindAll(ctx context.Context) ([]store.Document, error) {
	var rows []row
	if err := c.db.WithContext(ctx).Table(c.name).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]store.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := fromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func toRow(doc store.Document) (*row, error) {
	id, _ := doc["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("gormstore: document missing id")
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &row{ID: id, Data: datatypes.JSON(b)}, nil
}

func fromRow(r row) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal(r.Data, &doc); err != nil {
		return nil, err
	}
	doc["id"] = r.ID
	return doc, nil
}
