//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 移动端没有可读的工作目录，assets/ 与 data/ 都需要嵌入，
// 构建前先把两个目录复制到这里（见 mobile.go）。
package mobile

import "embed"

//go:embed all:assets
var assetsFS embed.FS

//go:embed data
var dataFS embed.FS
