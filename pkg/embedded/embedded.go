// Package embedded 提供资源文件的统一访问接口
//
// 路径按前缀路由到两个文件系统：
//   - "data/"   配置、默认对战记录（由根目录 embed.go 嵌入二进制）
//   - "assets/" 精灵图、图集、音效、字体（体积大，默认从磁盘目录读取）
//
// 使用前必须调用 Init()。SetOverlay 可以让磁盘上的同名文件覆盖嵌入的默认值。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	assetsPrefix = "assets/"
	dataPrefix   = "data/"
)

var (
	assetsFS    fs.FS
	dataFS      fs.FS
	overlayFS   fs.FS
	initialized bool
)

// Init 注册两个文件系统
// 必须在 main() 开始时、任何资源加载之前调用；测试中可以传入 fstest.MapFS
func Init(assets, data fs.FS) {
	assetsFS = assets
	dataFS = data
	overlayFS = nil
	initialized = true
}

// InitFromDir 从磁盘目录初始化，root 下应包含 assets/ 与 data/
// 用于命令行工具与需要真实数据文件的测试
func InitFromDir(root string) {
	dir := os.DirFS(root)
	Init(dir, dir)
}

// SetOverlay 设置覆盖层：读取时优先查找 overlay 中的同路径文件
// 传 nil 取消覆盖
func SetOverlay(overlay fs.FS) {
	overlayFS = overlay
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 统一分隔符并去掉 "./" 前缀
func normalize(p string) string {
	p = filepath.ToSlash(p)
	return strings.TrimPrefix(p, "./")
}

// route 根据前缀选择文件系统
func route(p string) (fs.FS, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	switch {
	case strings.HasPrefix(p, assetsPrefix):
		if assetsFS == nil {
			return nil, fmt.Errorf("no assets filesystem registered for %s: %w", p, fs.ErrNotExist)
		}
		return assetsFS, nil
	case strings.HasPrefix(p, dataPrefix):
		if dataFS == nil {
			return nil, fmt.Errorf("no data filesystem registered for %s: %w", p, fs.ErrNotExist)
		}
		return dataFS, nil
	}
	return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/' or 'data/')", p)
}

// Open 打开文件，覆盖层优先
func Open(name string) (fs.File, error) {
	name = normalize(name)
	target, err := route(name)
	if err != nil {
		return nil, err
	}
	if overlayFS != nil {
		if f, err := overlayFS.Open(name); err == nil {
			return f, nil
		}
	}
	return target.Open(name)
}

// ReadFile 读取文件内容，覆盖层优先
func ReadFile(name string) ([]byte, error) {
	name = normalize(name)
	target, err := route(name)
	if err != nil {
		return nil, err
	}
	if overlayFS != nil {
		data, err := fs.ReadFile(overlayFS, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return fs.ReadFile(target, name)
}

// Exists 检查文件是否存在
func Exists(name string) bool {
	file, err := Open(name)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配文件（不含覆盖层，结果已排序）
func Glob(pattern string) ([]string, error) {
	pattern = normalize(pattern)
	target, err := route(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(target, pattern)
}

// ReadDir 读取目录内容
func ReadDir(dir string) ([]fs.DirEntry, error) {
	dir = normalize(dir)
	target, err := route(dir)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(target, path.Clean(dir))
}
