package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/duel/pkg/app"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	combatPath := flag.String("combat", "data/combat/sample.yaml", "对战记录文件（YAML 或 JSON）")
	root := flag.String("root", ".", "资源根目录，其下的 assets/ 存放精灵图、音效与字体")
	configDir := flag.String("config", "", "覆盖目录：其中的 data/... 文件优先于内置默认值")
	fontPath := flag.String("font", "", "字体文件（assets/ 下的路径），为空使用内置字体")
	autoStart := flag.Bool("autostart", false, "加载后立即开始回放")
	verbose := flag.Bool("verbose", false, "输出详细日志")
	flag.Parse()

	// data/ 使用嵌入的默认值，assets/ 从磁盘读取
	embedded.Init(os.DirFS(*root), dataFS)
	if *configDir != "" {
		embedded.SetOverlay(os.DirFS(*configDir))
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		CombatPath: *combatPath,
		FontPath:   *fontPath,
		AutoStart:  *autoStart,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Duel - 对战回放")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(gameApp)
	// log.Fatal 不执行 defer，所以在这里收尾
	gameApp.Shutdown()
	if err != nil {
		log.Fatal(err)
	}
}
