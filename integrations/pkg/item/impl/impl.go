package impl

import (
	"context"
	"errors"

	"connector/integrations/config"
	"connector/integrations/pkg/item"
	"connector/tools/ioc"
	"connector/tools/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	ioc.ConController.RegisterContainer(item.AppName, &ItemImpl{})
}

type ItemImpl struct {
	db *gorm.DB
}

func NewItemImpl(db *gorm.DB) *ItemImpl {
	return &ItemImpl{db: db}
}

func (r *ItemImpl) Init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel)

	db, err := cfg.GetDB()
	if errors.Is(err, config.ErrPersistenceDisabled) {
		log.Warn("Item persistence disabled: %v", err)
		return nil
	}
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(&item.IntegrationItem{}); err != nil {
		return err
	}
	r.db = db
	log.Info("Item repository initialized")
	return nil
}

// SaveItems 按 (integration, id) upsert
func (r *ItemImpl) SaveItems(ctx context.Context, integration string, items []*item.IntegrationItem) error {
	if r.db == nil {
		return config.ErrPersistenceDisabled
	}
	if len(items) == 0 {
		return nil
	}
	for _, it := range items {
		it.Integration = integration
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&items).Error
}

// 分页查询
func (r *ItemImpl) QueryItems(ctx context.Context, req *item.QueryItemRequest) (*item.ItemSet, error) {
	if r.db == nil {
		return nil, config.ErrPersistenceDisabled
	}
	set := item.NewItemSet()
	query := r.db.Model(&item.IntegrationItem{}).WithContext(ctx)
	if req.Integration != "" {
		query = query.Where("integration = ?", req.Integration)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if err := query.Count(&set.Total).Error; err != nil {
		return nil, err
	}

	if err := query.Order("integration, id").Offset(req.Offset()).Limit(req.PageSize).Find(&set.Items).Error; err != nil {
		return nil, err
	}

	return set, nil
}

// 查询详情
func (r *ItemImpl) DescribeItem(ctx context.Context, req *item.DescribeItemRequest) (*item.IntegrationItem, error) {
	if r.db == nil {
		return nil, config.ErrPersistenceDisabled
	}
	if req.Integration == "" || req.ID == "" {
		return nil, gorm.ErrInvalidValue
	}

	it := &item.IntegrationItem{}
	err := r.db.WithContext(ctx).
		Where("integration = ? AND id = ?", req.Integration, req.ID).
		First(it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, item.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}
