package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mountain-map/algo"
)

// LoadSite 读取景区参数 YAML; 文件里没写的字段保持默认值
// path 为空时直接返回默认参数
func LoadSite(path string) (algo.Site, error) {
	site := algo.DefaultSite()
	if path == "" {
		return site, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return site, fmt.Errorf("read site config: %w", err)
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return site, fmt.Errorf("parse site config %s: %w", path, err)
	}
	if err := site.Validate(); err != nil {
		return site, fmt.Errorf("site config %s: %w", path, err)
	}
	return site, nil
}
