//go:build !android

package utils

// EnsureStorageDir 非 Android 平台由 gdata 自己创建目录
func EnsureStorageDir() error {
	return nil
}
