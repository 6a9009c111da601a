package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mountain-map/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already taken")
)

// Store 基于 gorm 的数据访问
type Store struct {
	db *gorm.DB
}

// NewStore 使用已初始化的连接创建 Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadSiteData 读取全部 POI 和运营时间, 用于重建路径网络
func (s *Store) LoadSiteData(ctx context.Context) ([]model.POI, []model.OperatingSchedule, error) {
	var pois []model.POI
	if err := s.db.WithContext(ctx).Order("id").Find(&pois).Error; err != nil {
		return nil, nil, fmt.Errorf("load pois: %w", err)
	}
	var schedules []model.OperatingSchedule
	if err := s.db.WithContext(ctx).Order("poi_id").Find(&schedules).Error; err != nil {
		return nil, nil, fmt.Errorf("load schedules: %w", err)
	}
	return pois, schedules, nil
}

// FindUser 按用户名查找
func (s *Store) FindUser(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser 创建用户, 密码需要已经加密
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	return err
}
