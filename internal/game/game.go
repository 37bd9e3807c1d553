package game

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Versifine/fpcontroller/internal/config"
	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/input"
	"github.com/Versifine/fpcontroller/internal/logger"
	"github.com/Versifine/fpcontroller/internal/session"
)

// Game is the windowed front end. Each ebiten tick samples the devices into
// the session queue and then steps the session once.
type Game struct {
	session  *session.Session
	sampler  *input.Sampler
	window   config.WindowConfig
	capture  bool
	captured bool
	log      *slog.Logger
}

func New(s *session.Session) (*Game, error) {
	cfg := s.Config()
	actions, err := input.NewActionMap(cfg.Input.Bindings)
	if err != nil {
		return nil, fmt.Errorf("input bindings: %w", err)
	}
	return &Game{
		session: s,
		sampler: input.NewSampler(actions, input.EbitenSource{}, cfg.Input.MouseScale),
		window:  cfg.Window,
		capture: cfg.Input.CaptureCursor,
		log:     logger.Component("game"),
	}, nil
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.window.Width, g.window.Height)
	ebiten.SetWindowTitle(g.window.Title)
	ebiten.SetTPS(g.session.Config().Simulation.TickRate)
	g.setCaptured(g.capture)

	g.log.Info("Window opened", "width", g.window.Width, "height", g.window.Height, "tps", ebiten.TPS())
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

func (g *Game) Update() error {
	recapture := g.capture && !g.captured && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)

	frame := g.sampler.Sample()
	queue := g.session.Queue()
	for _, cmd := range frame.Commands {
		// the click that grabs the cursor does not fire
		if recapture && cmd.Action == controller.ActionShoot {
			continue
		}
		queue.Push(cmd)
	}

	switch {
	case frame.ReleaseCursor && g.captured:
		g.setCaptured(false)
	case recapture:
		g.setCaptured(true)
	}

	g.session.Step()
	return nil
}

func (g *Game) setCaptured(captured bool) {
	g.captured = captured
	// without capture the visible cursor drives look directly
	g.sampler.SetLookActive(captured || !g.capture)
	if captured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	g.log.Debug("Cursor mode changed", "captured", captured)
}

func (g *Game) Draw(screen *ebiten.Image) {
	view := g.session.View()
	vp := newViewport(view.Snapshot.Player.Position, g.window)
	g.drawBlocks(screen, vp, view)
	drawEntities(screen, vp, view)
	drawPlayer(screen, vp, view)
	drawHUD(screen, hudLines(view, g.captured))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.window.Width, g.window.Height
}
