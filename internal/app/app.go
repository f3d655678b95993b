// Package app hosts a radar in an ebiten window.
package app

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/Garsondee/RoboRadar/internal/radar"
	"github.com/Garsondee/RoboRadar/internal/render"
)

// statusFrames is how long a status message stays on the HUD.
const statusFrames = 120

// NewSurface builds a surface backed by ebiten images.
func NewSurface(engine render.Engine, opt render.Options, w, h int) (render.Surface, error) {
	return render.NewSurface(engine, render.Backend{
		NewCanvas: func(w, h int) render.Canvas { return render.NewEbitenCanvas(w, h) },
		Scene:     render.NewSceneGraph(w, h),
	}, opt)
}

// Game implements ebiten.Game for one radar.
type Game struct {
	Title string

	radar *radar.Radar
	// copy writes text to the system clipboard.
	copy func(string) error

	prevKeys    map[ebiten.Key]bool
	showHUD     bool
	status      string
	statusTicks int
	err         error
}

func New(r *radar.Radar) *Game {
	return &Game{
		radar:    r,
		copy:     clipboard.WriteAll,
		prevKeys: map[ebiten.Key]bool{},
		showHUD:  true,
	}
}

// Update renders the next radar frame. Presenting happens in Draw.
func (g *Game) Update() error {
	return g.step(ebiten.IsKeyPressed)
}

func (g *Game) step(pressed func(ebiten.Key) bool) error {
	g.handleInput(pressed)
	if g.err != nil {
		return g.err
	}
	if g.statusTicks > 0 {
		g.statusTicks--
	}
	if err := g.radar.RenderFrame(); err != nil {
		g.err = err
		return err
	}
	return nil
}

func (g *Game) handleInput(pressed func(ebiten.Key) bool) {
	currentKeys := map[ebiten.Key]bool{}

	// C: copy the pose report.
	currentKeys[ebiten.KeyC] = pressed(ebiten.KeyC)
	if currentKeys[ebiten.KeyC] && !g.prevKeys[ebiten.KeyC] {
		g.copyReport()
	}

	// H: toggle HUD.
	currentKeys[ebiten.KeyH] = pressed(ebiten.KeyH)
	if currentKeys[ebiten.KeyH] && !g.prevKeys[ebiten.KeyH] {
		g.showHUD = !g.showHUD
	}

	g.prevKeys = currentKeys
}

func (g *Game) copyReport() {
	if err := g.copy(g.radar.Report()); err != nil {
		glog.Warningf("app: clipboard: %v", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus("pose report copied")
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTicks = statusFrames
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch s := g.radar.Surface().(type) {
	case *render.ImmediateSurface:
		if c, ok := s.Visible().(*render.EbitenCanvas); ok {
			screen.DrawImage(c.Image(), nil)
		}
	case *render.RetainedCanvas:
		if sg, ok := s.Scene().(*render.SceneGraph); ok {
			sg.DrawTo(render.WrapEbiten(screen))
		}
	}
	if g.showHUD {
		ebitenutil.DebugPrint(screen, g.hud())
	}
}

func (g *Game) hud() string {
	name := "no field"
	if f := g.radar.Field(); f != nil {
		name = f.Name
	}
	text := fmt.Sprintf("%s | %s | %d robots | %.0f TPS\n[C] copy poses  [H] hide",
		name, g.radar.Surface().Engine(), g.radar.Len(), ebiten.ActualTPS())
	if g.statusTicks > 0 {
		text += "\n" + g.status
	}
	return text
}

// Layout follows the window size; the radar applies it on the next frame.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.radar.Resize(outsideWidth, outsideHeight)
	}
	vp := g.radar.Viewport()
	return max(vp.W, 1), max(vp.H, 1)
}
