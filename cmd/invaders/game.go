package main

import (
	"cmp"
	"fmt"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/invaders/ecs"
	"github.com/plus3/invaders/ecs/debugui"
	debugui_ebiten "github.com/plus3/invaders/ecs/debugui/ebiten"
	"github.com/plus3/invaders/invaders"
)

const (
	handlePlayer invaders.AssetHandle = iota + 1
	handleLaser
	handleEnemy
	handleExplosion
)

var materials = invaders.Materials{
	Player:    handlePlayer,
	Laser:     handleLaser,
	Enemy:     handleEnemy,
	Explosion: handleExplosion,
}

var (
	background = color.RGBA{10, 10, 24, 255}
	palette    = map[invaders.AssetHandle]color.RGBA{
		handlePlayer: {120, 200, 255, 255},
		handleLaser:  {255, 80, 80, 255},
		handleEnemy:  {150, 255, 150, 255},
	}
)

var keys = map[invaders.Action][]ebiten.Key{
	invaders.ActionLeft:  {ebiten.KeyLeft, ebiten.KeyA},
	invaders.ActionRight: {ebiten.KeyRight, ebiten.KeyD},
	invaders.ActionFire:  {ebiten.KeySpace},
}

type drawable struct {
	*invaders.Transform
	*invaders.Sprite
}

// Game implements ebiten.Game. Each Update is one simulation tick.
type Game struct {
	world   *invaders.World
	width   int
	height  int
	imgui   *debugui_ebiten.ImguiBackend
	capture *ecs.Singleton[debugui.ImguiInputState]

	sprites *ecs.View[drawable]
	order   []drawable
}

// Pressed implements invaders.InputSource from the keyboard. Keys are ignored
// while the overlay has keyboard focus.
func (g *Game) Pressed(a invaders.Action) bool {
	if g.capture != nil && g.capture.Get().WantCaptureKeyboard {
		return false
	}
	for _, key := range keys[a] {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.imgui != nil {
		g.imgui.BeginFrame()
	}
	g.world.Tick()
	if g.imgui != nil {
		g.imgui.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	if g.sprites == nil {
		g.sprites = ecs.NewView[drawable](g.world.Storage)
	}

	g.order = g.order[:0]
	for d := range g.sprites.Values() {
		g.order = append(g.order, d)
	}
	slices.SortStableFunc(g.order, func(a, b drawable) int {
		return cmp.Compare(a.Z, b.Z)
	})

	for _, d := range g.order {
		g.drawSprite(screen, d)
	}

	tally := g.world.Tally()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("kills %d  fired %d  tps %.0f",
		tally.Kills, tally.LasersFired, ebiten.ActualTPS()))

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

// drawSprite converts the centred y-up play-area box into screen pixels.
func (g *Game) drawSprite(screen *ebiten.Image, d drawable) {
	w, h := d.Sprite.Extent(d.Transform)
	x := float64(g.width)/2 + d.Transform.X - w/2
	y := float64(g.height)/2 - d.Transform.Y - h/2

	c, ok := palette[d.Sprite.Handle]
	if d.Sprite.Handle == handleExplosion {
		c, ok = explosionColor(d.Sprite.Frame), true
	}
	if !ok {
		return
	}

	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), c, false)
}

// explosionColor fades from pale yellow to dark red across the sheet frames.
func explosionColor(frame int) color.RGBA {
	fade := uint8(min(frame*12, 180))
	return color.RGBA{255 - fade/2, 230 - fade, 200 - fade, 255}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}
