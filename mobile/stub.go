//go:build !mobile

// Package mobile 的桌面端占位：绑定入口只在 -tags mobile 时编译
package mobile

// Dummy 让包在普通构建下也有导出符号
func Dummy() {}
