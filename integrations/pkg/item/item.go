package item

import (
	"encoding/json"
	"time"
)

// IntegrationItem 从第三方集成拉取的一条记录（文件、公司、页面等）的统一描述
type IntegrationItem struct {
	Integration      string     `json:"integration" gorm:"column:integration;primaryKey;size:64"`
	ID               string     `json:"id" gorm:"column:id;primaryKey;size:191"`
	Type             string     `json:"type" gorm:"column:type;size:64"`
	Directory        bool       `json:"directory" gorm:"column:directory"`
	ParentPathOrName string     `json:"parent_path_or_name,omitempty" gorm:"column:parent_path_or_name"`
	ParentID         string     `json:"parent_id,omitempty" gorm:"column:parent_id"`
	Name             string     `json:"name" gorm:"column:name"`
	CreationTime     *time.Time `json:"creation_time,omitempty" gorm:"column:creation_time"`
	LastModifiedTime *time.Time `json:"last_modified_time,omitempty" gorm:"column:last_modified_time"`
	URL              string     `json:"url,omitempty" gorm:"column:url"`
	Children         []string   `json:"children,omitempty" gorm:"column:children;serializer:json"`
	MimeType         string     `json:"mime_type,omitempty" gorm:"column:mime_type"`
	Delta            string     `json:"delta,omitempty" gorm:"column:delta"`
	DriveID          string     `json:"drive_id,omitempty" gorm:"column:drive_id"`
	Visibility       bool       `json:"visibility" gorm:"column:visibility"`
	CreatedAt        int64      `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        int64      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (IntegrationItem) TableName() string {
	return "integration_items"
}

// NewIntegrationItem 默认可见
func NewIntegrationItem(integration, id, itemType string) *IntegrationItem {
	return &IntegrationItem{
		Integration: integration,
		ID:          id,
		Type:        itemType,
		Visibility:  true,
	}
}

func (i *IntegrationItem) String() string {
	jsonStr, _ := json.Marshal(i)
	return string(jsonStr)
}

type ItemSet struct {
	Items []*IntegrationItem `json:"items"`
	Total int64              `json:"total"`
}

func NewItemSet() *ItemSet {
	return &ItemSet{
		Items: []*IntegrationItem{},
		Total: 0,
	}
}
