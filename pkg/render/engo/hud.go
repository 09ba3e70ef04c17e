// pkg/render/engo/hud.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-snake/pkg/render"
)

// HUDSystem shows the score and state in the window title.
type HUDSystem struct {
	driver   *render.Driver
	title    string
	setTitle func(string)
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(driver *render.Driver) *HUDSystem {
	return &HUDSystem{
		driver:   driver,
		setTitle: engo.SetTitle,
	}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {
	// Not used for HUD system
}

// Update refreshes the title when the status line changes.
func (hud *HUDSystem) Update(dt float32) {
	title := "Snake | " + hud.driver.Status()
	if title == hud.title {
		return
	}
	hud.title = title
	hud.setTitle(title)
}
