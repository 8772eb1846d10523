package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 根据对战记录路径创建战斗场景，避免 game 包依赖 scenes 包
type SceneFactory func(combatPath string) (Scene, error)

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于创建新场景
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
// The previous scene receives OnExit if it implements Exitable.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	sm.exitCurrent()
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadCombat 通过工厂创建战斗场景并切换过去
// 创建失败时保留当前场景并返回错误
func (sm *SceneManager) LoadCombat(combatPath string) error {
	log.Printf("[SceneManager] 加载对战记录: %s", combatPath)

	if sm.sceneFactory == nil {
		return fmt.Errorf("SceneFactory 未设置")
	}

	newScene, err := sm.sceneFactory(combatPath)
	if err != nil {
		return fmt.Errorf("无法创建战斗场景 %s: %w", combatPath, err)
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 成功切换到战斗场景: %s", combatPath)
	return nil
}

// NotifyFocus 把窗口焦点变化转发给当前场景
func (sm *SceneManager) NotifyFocus(focused bool) {
	fa, ok := sm.currentScene.(FocusAware)
	if !ok {
		return
	}
	if focused {
		fa.OnFocusGained()
	} else {
		fa.OnFocusLost()
	}
}

// Shutdown 程序退出前调用
func (sm *SceneManager) Shutdown() {
	sm.exitCurrent()
	sm.currentScene = nil
}

func (sm *SceneManager) exitCurrent() {
	if ex, ok := sm.currentScene.(Exitable); ok {
		ex.OnExit()
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
