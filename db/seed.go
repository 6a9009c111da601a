package db

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm"

	"mountain-map/model"
)

// importSeed 从 JSON 文件导入 POI 和运营时间
func importSeed(db *gorm.DB, path string) (int, int, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read seed file: %w", err)
	}
	pois, schedules, err := DecodeSeed(file)
	if err != nil {
		return 0, 0, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(pois) > 0 {
			if err := tx.CreateInBatches(pois, 100).Error; err != nil {
				return fmt.Errorf("insert pois: %w", err)
			}
		}
		if len(schedules) > 0 {
			if err := tx.CreateInBatches(schedules, 100).Error; err != nil {
				return fmt.Errorf("insert schedules: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return len(pois), len(schedules), nil
}

// DecodeSeed 解析种子文件
// operating_hours 可以是 JSON 对象, 也可以是已经序列化好的字符串, 统一保存为文本
func DecodeSeed(data []byte) ([]model.POI, []model.OperatingSchedule, error) {
	// 使用临时结构体解析 JSON (operating_hours 在文件里通常是对象)
	var seed struct {
		POIs      []model.POI `json:"pois"`
		Schedules []struct {
			ID             string          `json:"id"`
			OperatingHours json.RawMessage `json:"operating_hours"`
		} `json:"schedules"`
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, nil, fmt.Errorf("parse seed: %w", err)
	}

	schedules := make([]model.OperatingSchedule, 0, len(seed.Schedules))
	for _, s := range seed.Schedules {
		if s.ID == "" {
			continue
		}
		hours := string(bytes.TrimSpace(s.OperatingHours))
		if len(hours) > 0 && hours[0] == '"' {
			if err := json.Unmarshal(s.OperatingHours, &hours); err != nil {
				return nil, nil, fmt.Errorf("schedule %q: %w", s.ID, err)
			}
		}
		if hours == "null" {
			hours = ""
		}
		schedules = append(schedules, model.OperatingSchedule{POIID: s.ID, OperatingHours: hours})
	}
	return seed.POIs, schedules, nil
}
