//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在打开设置存储前确保 Android 数据目录可写
// gdata 使用 /data/data/{package}/ 但不会创建子目录
func EnsureStorageDir() error {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return fmt.Errorf("读取包名失败: %w", err)
	}
	// cmdline 以 NUL 分隔，第一段就是包名
	pkg, _, _ := bytes.Cut(cmdline, []byte{0})
	pkg = bytes.TrimSpace(pkg)
	if len(pkg) == 0 {
		return fmt.Errorf("无法识别 Android 包名")
	}

	dir := filepath.Join("/data/data", string(pkg), "settings")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建设置目录 %s 失败: %w", dir, err)
	}
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("设置目录 %s 不可写: %w", dir, err)
	}
	return os.Remove(probe)
}
