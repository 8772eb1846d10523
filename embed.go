// embed.go - 资源嵌入声明
// 必须放在项目根目录（与 data/ 同级）
// 因为 //go:embed 指令只能嵌入当前包目录及其子目录的文件
//
// 只嵌入 data/（配置与示例对战记录）；assets/ 体积大，运行时从磁盘读取
package main

import "embed"

//go:embed data
var dataFS embed.FS
