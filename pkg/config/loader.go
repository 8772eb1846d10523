package config

import (
	"fmt"

	"github.com/decker502/duel/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// loadYAML 读取 YAML 文件并解码到 out
// out 中已有的值作为默认值保留
func loadYAML(path string, out any) error {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("无法解析配置文件 %s: %w", path, err)
	}
	return nil
}
