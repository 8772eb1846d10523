//go:build !mobile

package utils

import "os"

// IsMobile 是否按移动端交互（轻触代替键盘）
// 桌面端设置 DUEL_MOBILE_EMULATE=1 可以模拟移动端提示
func IsMobile() bool {
	return os.Getenv("DUEL_MOBILE_EMULATE") == "1"
}
