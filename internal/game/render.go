package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Versifine/fpcontroller/internal/config"
	"github.com/Versifine/fpcontroller/internal/session"
	"github.com/Versifine/fpcontroller/internal/world"
)

var (
	colorBackground = color.RGBA{18, 18, 24, 255}
	colorGrid       = color.RGBA{40, 40, 52, 255}
	colorPlayer     = color.RGBA{50, 200, 255, 255}
	colorForward    = color.RGBA{255, 80, 80, 255}
	colorHoldPoint  = color.RGBA{255, 220, 0, 255}
	colorEntity     = color.RGBA{200, 140, 60, 255}
	colorProjectile = color.RGBA{255, 255, 255, 255}
	colorHeld       = color.RGBA{120, 255, 120, 255}
	colorHUDPanel   = color.RGBA{0, 0, 0, 150}
	colorHUDText    = color.RGBA{230, 230, 230, 255}
)

// Block colours by palette name. Floor shading is darker than body-level
// blocks so walls stand out from the ground.
var blockColors = map[string]color.RGBA{
	"stone": {110, 110, 110, 255},
	"wall":  {150, 90, 60, 255},
	"glass": {140, 200, 230, 255},
}

func blockColor(name string, floor bool) color.RGBA {
	c, ok := blockColors[name]
	if !ok {
		c = color.RGBA{180, 60, 180, 255}
	}
	if floor {
		c.R, c.G, c.B = c.R/2, c.G/2, c.B/2
	}
	return c
}

// viewport maps the XZ plane onto the screen, centred on the player, with +Z
// pointing up the screen.
type viewport struct {
	center        mgl64.Vec3
	scale         float64
	width, height int
}

func newViewport(center mgl64.Vec3, window config.WindowConfig) viewport {
	return viewport{center: center, scale: window.Scale, width: window.Width, height: window.Height}
}

func (v viewport) toScreen(p mgl64.Vec3) (float32, float32) {
	x := float64(v.width)/2 + (p.X()-v.center.X())*v.scale
	y := float64(v.height)/2 - (p.Z()-v.center.Z())*v.scale
	return float32(x), float32(y)
}

// cellRange returns the inclusive block columns visible on screen.
func (v viewport) cellRange() (minX, maxX, minZ, maxZ int) {
	halfW := float64(v.width) / 2 / v.scale
	halfH := float64(v.height) / 2 / v.scale
	minX = int(math.Floor(v.center.X() - halfW))
	maxX = int(math.Floor(v.center.X() + halfW))
	minZ = int(math.Floor(v.center.Z() - halfH))
	maxZ = int(math.Floor(v.center.Z() + halfH))
	return minX, maxX, minZ, maxZ
}

// drawBlocks shades each visible column by the first solid block in the
// agent's height band, falling back to the block under its feet.
func (g *Game) drawBlocks(screen *ebiten.Image, vp viewport, view session.View) {
	screen.Fill(colorBackground)

	feet := view.Snapshot.Player.Position.Y()
	bodyMin := int(math.Floor(feet))
	bodyMax := int(math.Floor(feet + view.Height - 1e-6))
	size := float32(vp.scale)
	blocks := g.session.World().Blocks()

	minX, maxX, minZ, maxZ := vp.cellRange()
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			sx, sy := vp.toScreen(mgl64.Vec3{float64(x), 0, float64(z + 1)})
			name, floor, ok := columnBlock(blocks, x, z, bodyMin, bodyMax)
			if !ok {
				vector.StrokeRect(screen, sx, sy, size, size, 1, colorGrid, false)
				continue
			}
			vector.DrawFilledRect(screen, sx, sy, size, size, blockColor(name, floor), false)
		}
	}
}

// blockQuery is the read side of the block store used for drawing.
type blockQuery interface {
	IsSolid(x, y, z int) bool
	GetBlock(x, y, z int) (world.BlockKind, bool)
	BlockName(kind world.BlockKind) (string, bool)
}

func columnBlock(blocks blockQuery, x, z, bodyMin, bodyMax int) (name string, floor bool, ok bool) {
	for y := bodyMax; y >= bodyMin; y-- {
		if name, ok := solidName(blocks, x, y, z); ok {
			return name, false, true
		}
	}
	if name, ok := solidName(blocks, x, bodyMin-1, z); ok {
		return name, true, true
	}
	return "", false, false
}

func solidName(blocks blockQuery, x, y, z int) (string, bool) {
	if !blocks.IsSolid(x, y, z) {
		return "", false
	}
	kind, _ := blocks.GetBlock(x, y, z)
	name, _ := blocks.BlockName(kind)
	return name, true
}

func drawEntities(screen *ebiten.Image, vp viewport, view session.View) {
	for _, e := range view.Snapshot.Entities {
		x, y := vp.toScreen(e.Position.Add(mgl64.Vec3{-e.HalfWidth, 0, e.HalfWidth}))
		size := float32(math.Max(2*e.HalfWidth*vp.scale, 3))
		clr := colorEntity
		switch {
		case e.Held:
			clr = colorHeld
		case e.ExpiresIn >= 0:
			clr = colorProjectile
		}
		vector.DrawFilledRect(screen, x, y, size, size, clr, false)
	}
}

func drawPlayer(screen *ebiten.Image, vp viewport, view session.View) {
	pos := view.Snapshot.Player.Position
	cx, cy := vp.toScreen(pos)
	radius := float32(view.HalfWidth * vp.scale)
	if view.Snapshot.Player.Stance == "crouching" {
		vector.StrokeCircle(screen, cx, cy, radius, 2, colorPlayer, true)
	} else {
		vector.DrawFilledCircle(screen, cx, cy, radius, colorPlayer, true)
	}

	forward := mgl64.Vec3{view.Forward.X(), 0, view.Forward.Z()}
	length := 2.0
	if flat := forward.Len(); flat > 1e-6 {
		// shorten the line as the camera pitches away from the horizon
		forward = forward.Mul(1 / flat)
		length *= flat
	}
	fx, fy := vp.toScreen(pos.Add(forward.Mul(length)))
	vector.StrokeLine(screen, cx, cy, fx, fy, 2, colorForward, true)

	if view.Snapshot.Player.Holding {
		hx, hy := vp.toScreen(view.HoldPoint)
		vector.DrawFilledCircle(screen, hx, hy, 3, colorHoldPoint, true)
	}
}

func hudLines(view session.View, captured bool) []string {
	p := view.Snapshot.Player
	cursor := "Esc releases the cursor"
	if !captured {
		cursor = "click to capture the cursor"
	}
	return []string{
		fmt.Sprintf("t=%.2fs tick=%d", view.Snapshot.Time, view.Ticks),
		fmt.Sprintf("pos (%.2f, %.2f, %.2f)", p.Position.X(), p.Position.Y(), p.Position.Z()),
		fmt.Sprintf("vel (%.2f, %.2f, %.2f)", p.Velocity.X(), p.Velocity.Y(), p.Velocity.Z()),
		fmt.Sprintf("yaw %.1f pitch %.1f", p.Yaw, p.Pitch),
		fmt.Sprintf("%s h=%.2f speed=%.1f grounded=%v", p.Stance, view.Height, view.MoveSpeed, p.Grounded),
		fmt.Sprintf("holding=%v entities=%d", p.Holding, len(view.Snapshot.Entities)),
		fmt.Sprintf("jumps=%d shots=%d pickups=%d throws=%d", view.Jumps, view.Shots, view.Pickups, view.Throws),
		cursor,
	}
}

func drawHUD(screen *ebiten.Image, lines []string) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	width := 0
	for _, line := range lines {
		width = max(width, len(line)*face.Advance)
	}
	vector.DrawFilledRect(screen, 4, 4, float32(width+12), float32(len(lines)*lineHeight+10), colorHUDPanel, false)
	for i, line := range lines {
		ebitext.Draw(screen, line, face, 10, 8+face.Ascent+i*lineHeight, colorHUDText)
	}
}
