package tide

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// defaultWheelScale converts Ebitengine wheel ticks into the pixel-like deltas
// the gesture thresholds are tuned for.
const defaultWheelScale = 100

// RunConfig configures the window and game loop created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS draws the frame rate in the top-left corner.
	ShowFPS bool
	// Resizable lets the user resize the window. The world's viewport follows.
	Resizable bool
	// WheelScale multiplies wheel ticks before they reach the gesture mapper.
	// Zero uses the default.
	WheelScale float64
	// Update, when set, runs every tick before the world is updated. A non-nil
	// error ends the loop.
	Update func() error
	// Draw renders the world. The core has no renderer of its own.
	Draw func(screen *ebiten.Image, w *World)
}

// Run creates a window and drives w from Ebitengine's loop at the engine TPS,
// translating mouse, wheel and touch input into World input. It blocks until
// the window closes or an update fails.
func Run(w *World, cfg RunConfig) error {
	if cfg.WheelScale == 0 {
		cfg.WheelScale = defaultWheelScale
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	w.SetViewport(float64(cfg.Width), float64(cfg.Height))

	g := &runner{world: w, cfg: cfg, cursorX: -1, cursorY: -1}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// runner adapts a World to ebiten.Game.
type runner struct {
	world *World
	cfg   RunConfig

	width, height    int
	cursorX, cursorY int
	cursorIn         bool

	touches  []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
}

func (g *runner) Update() error {
	if g.cfg.Update != nil {
		if err := g.cfg.Update(); err != nil {
			return err
		}
	}
	g.pollMouse()
	g.pollTouches()
	g.world.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *runner) Draw(screen *ebiten.Image) {
	if g.cfg.Draw != nil {
		g.cfg.Draw(screen, g.world)
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.0f", ebiten.ActualFPS()))
	}
}

func (g *runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.world.SetViewport(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (g *runner) pollMouse() {
	w := g.world

	if _, dy := ebiten.Wheel(); dy != 0 {
		// Ebitengine reports wheel-up as positive; gestures treat scrolling
		// down as forward.
		w.Wheel(-dy * g.cfg.WheelScale)
	}

	x, y := ebiten.CursorPosition()
	in := x >= 0 && y >= 0 && x < g.width && y < g.height
	if !in {
		if g.cursorIn {
			w.PointerOut()
			w.HoverOut()
			g.cursorIn = false
		}
		return
	}
	if g.cursorIn && x == g.cursorX && y == g.cursorY {
		return
	}
	g.cursorX, g.cursorY, g.cursorIn = x, y, true
	w.PointerScreen(float64(x), float64(y))
}

// pollTouches follows the first active touch.
func (g *runner) pollTouches() {
	w := g.world

	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	if !g.touching && len(g.touches) > 0 {
		g.touch = g.touches[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touch)
		w.TouchStart(float64(y))
		w.PointerScreen(float64(x), float64(y))
		return
	}
	if !g.touching {
		return
	}

	if inpututil.IsTouchJustReleased(g.touch) {
		g.touching = false
		w.TouchEnd()
		w.PointerOut()
		w.HoverOut()
		return
	}
	x, y := ebiten.TouchPosition(g.touch)
	px, py := inpututil.TouchPositionInPreviousTick(g.touch)
	if x != px || y != py {
		w.TouchMove(float64(y))
		w.PointerScreen(float64(x), float64(y))
	}
}
