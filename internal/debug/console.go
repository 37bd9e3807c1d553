package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"

	"github.com/Versifine/fpcontroller/internal/controller"
	"github.com/Versifine/fpcontroller/internal/session"
	"github.com/Versifine/fpcontroller/internal/world"
)

const (
	defaultMovePulse = 180 * time.Millisecond
	yawStep          = 5.0
	pitchStep        = 5.0
)

// Driver is the part of a session the console steers.
type Driver interface {
	Submit(cmd controller.Command)
	Step()
	State() controller.State
	Snapshot() world.Snapshot
	View() session.View
	Teleport(position mgl64.Vec3)
	Face(yaw, pitch float64)
	Respawn()
	BlockAt(x, y, z int) (world.BlockKind, string, bool)
	TickInterval() float64
}

// Console drives a session from a raw-mode terminal. Movement keys are pulses
// since a terminal reports no key releases.
type Console struct {
	driver       Driver
	out          io.Writer
	tickInterval time.Duration
	movePulse    time.Duration

	mu            sync.Mutex
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	lastMove      mgl64.Vec2
	crouched      bool
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

func NewConsole(driver Driver) *Console {
	return &Console{
		driver:       driver,
		out:          os.Stdout,
		tickInterval: time.Duration(driver.TickInterval() * float64(time.Second)),
		movePulse:    defaultMovePulse,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.driver == nil {
		return fmt.Errorf("console driver is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, C crouch, F shoot, E pick up, Q throw, arrows look, :help)\r\n")
	c.renderStatusLine()

	go c.tickLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl+C is not delivered as a signal in raw mode
			return nil
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.tick(now)
			c.renderStatusLine()
		}
	}
}

// tick expires movement pulses, sends the move axis when it changed and steps
// the session.
func (c *Console) tick(now time.Time) {
	c.mu.Lock()
	c.applyMovementPulseLocked(now)
	move := c.moveVectorLocked()
	changed := move != c.lastMove
	c.lastMove = move
	c.mu.Unlock()

	if changed {
		c.driver.Submit(controller.Command{Action: controller.ActionMove, Edge: controller.EdgePerformed, Value: move})
	}
	c.driver.Step()
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.forwardUntil, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.backwardUntil, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.leftUntil, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.rightUntil, &c.leftUntil)
	case ' ':
		c.tap(controller.ActionJump)
	case 'f', 'F':
		c.tap(controller.ActionShoot)
	case 'e', 'E':
		c.tap(controller.ActionPickUp)
	case 'q', 'Q':
		c.tap(controller.ActionThrow)
	case 'c', 'C':
		c.toggleCrouch()
	case 'r', 'R':
		c.driver.Respawn()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		if reader == nil {
			return
		}
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.turn(-yawStep, 0)
		case 'C': // right
			c.turn(yawStep, 0)
		case 'A': // up
			c.turn(0, -pitchStep)
		case 'B': // down
			c.turn(0, pitchStep)
		}
	}
	c.renderStatusLine()
}

// tap sends a complete press and release of a discrete control.
func (c *Console) tap(action controller.Action) {
	for _, edge := range []controller.Edge{controller.EdgeStarted, controller.EdgePerformed, controller.EdgeCanceled} {
		c.driver.Submit(controller.Command{Action: action, Edge: edge})
	}
}

func (c *Console) toggleCrouch() {
	c.mu.Lock()
	c.crouched = !c.crouched
	crouched := c.crouched
	c.mu.Unlock()

	if crouched {
		c.driver.Submit(controller.Command{Action: controller.ActionCrouch, Edge: controller.EdgeStarted})
		c.driver.Submit(controller.Command{Action: controller.ActionCrouch, Edge: controller.EdgePerformed})
	} else {
		c.driver.Submit(controller.Command{Action: controller.ActionCrouch, Edge: controller.EdgeCanceled})
	}
	slog.Debug("debug crouch toggled", "crouched", crouched)
}

func (c *Console) turn(dYaw, dPitch float64) {
	st := c.driver.State()
	c.driver.Face(st.Yaw+dYaw, st.Pitch+dPitch)
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		st := c.driver.State()
		fmt.Fprintf(c.out, "[debug] pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) yaw=%.1f pitch=%.1f stance=%s ground=%t holding=%t\r\n",
			st.Position.X(), st.Position.Y(), st.Position.Z(),
			st.Velocity.X(), st.Velocity.Y(), st.Velocity.Z(),
			st.Yaw, st.Pitch, st.Stance, st.Grounded, st.Holding,
		)
	case "snap":
		fmt.Fprintf(c.out, "[debug] %s\r\n", c.driver.Snapshot().String())
	case "tp":
		pos, err := parseVec3(parts[1:])
		if err != nil {
			fmt.Fprintf(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		c.driver.Teleport(pos)
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", pos.X(), pos.Y(), pos.Z())
	case "block":
		if len(parts) != 4 {
			fmt.Fprintf(c.out, "[debug] usage: :block <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.Atoi(parts[1])
		y, err2 := strconv.Atoi(parts[2])
		z, err3 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprintf(c.out, "[debug] invalid block args\r\n")
			return
		}
		kind, name, ok := c.driver.BlockAt(x, y, z)
		if !ok {
			fmt.Fprintf(c.out, "[debug] block (%d,%d,%d): unloaded\r\n", x, y, z)
			return
		}
		fmt.Fprintf(c.out, "[debug] block (%d,%d,%d): %s kind=%d\r\n", x, y, z, name, kind)
	case "face":
		if len(parts) != 3 {
			fmt.Fprintf(c.out, "[debug] usage: :face <yaw> <pitch>\r\n")
			return
		}
		yaw, err1 := strconv.ParseFloat(parts[1], 64)
		pitch, err2 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil {
			fmt.Fprintf(c.out, "[debug] invalid face args\r\n")
			return
		}
		c.driver.Face(yaw, pitch)
	case "look":
		c.handleLookCommand(parts)
	case "respawn":
		c.driver.Respawn()
		fmt.Fprintf(c.out, "[debug] respawned\r\n")
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) handleLookCommand(parts []string) {
	if len(parts) == 2 {
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			fmt.Fprintf(c.out, "[debug] invalid entity id\r\n")
			return
		}
		for _, e := range c.driver.Snapshot().Entities {
			if e.ID == world.EntityID(id) {
				center := e.Position.Add(mgl64.Vec3{0, e.Height / 2, 0})
				c.lookAt(center)
				fmt.Fprintf(c.out, "[debug] look at entity %d\r\n", id)
				return
			}
		}
		fmt.Fprintf(c.out, "[debug] entity %d not found\r\n", id)
		return
	}

	if len(parts) == 4 {
		target, err := parseVec3(parts[1:])
		if err != nil {
			fmt.Fprintf(c.out, "[debug] invalid look args\r\n")
			return
		}
		c.lookAt(target)
		fmt.Fprintf(c.out, "[debug] look at (%.3f, %.3f, %.3f)\r\n", target.X(), target.Y(), target.Z())
		return
	}

	fmt.Fprintf(c.out, "[debug] usage: :look <entity_id> or :look <x> <y> <z>\r\n")
}

func (c *Console) lookAt(target mgl64.Vec3) {
	yaw, pitch := lookAngles(c.driver.View().Eye, target)
	c.driver.Face(yaw, pitch)
}

// lookAngles returns the yaw and pitch that aim from eye at target. Positive
// pitch looks down.
func lookAngles(eye, target mgl64.Vec3) (yaw, pitch float64) {
	d := target.Sub(eye)
	yaw = mgl64.RadToDeg(math.Atan2(d.X(), d.Z()))
	horizontal := math.Hypot(d.X(), d.Z())
	pitch = -mgl64.RadToDeg(math.Atan2(d.Y(), horizontal))
	return yaw, pitch
}

func parseVec3(args []string) (mgl64.Vec3, error) {
	if len(args) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("want 3 numbers, got %d", len(args))
	}
	var v mgl64.Vec3
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  C: toggle crouch\r\n")
	fmt.Fprint(c.out, "  F: shoot  E: pick up / drop  Q: throw\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: yaw +/-5\r\n")
	fmt.Fprint(c.out, "  Arrow Up/Down: pitch +/-5\r\n")
	fmt.Fprint(c.out, "  R: respawn  X: stop moving\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :look <entity_id>\r\n")
	fmt.Fprint(c.out, "  :look <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :face <yaw> <pitch>\r\n")
	fmt.Fprint(c.out, "  :block <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :respawn\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :snap\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	move := c.lastMove
	width := c.statusWidth
	c.mu.Unlock()

	st := c.driver.State()
	line := fmt.Sprintf(
		"[MOVE:(%.0f,%.0f) %s HOLD:%s | YAW:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f ground:%t]",
		move.X(), move.Y(),
		st.Stance,
		boolLabel(st.Holding),
		st.Yaw,
		st.Pitch,
		st.Position.X(),
		st.Position.Y(),
		st.Position.Z(),
		st.Grounded,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// pulse holds one direction for movePulse and cancels its opposite.
func (c *Console) pulse(until, opposite *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*until = time.Now().Add(c.movePulse)
	*opposite = time.Time{}
}

func (c *Console) applyMovementPulseLocked(now time.Time) {
	for _, until := range []*time.Time{&c.forwardUntil, &c.backwardUntil, &c.leftUntil, &c.rightUntil} {
		if !until.IsZero() && !now.Before(*until) {
			*until = time.Time{}
		}
	}
}

func (c *Console) moveVectorLocked() mgl64.Vec2 {
	var v mgl64.Vec2
	if !c.rightUntil.IsZero() {
		v[0]++
	}
	if !c.leftUntil.IsZero() {
		v[0]--
	}
	if !c.forwardUntil.IsZero() {
		v[1]++
	}
	if !c.backwardUntil.IsZero() {
		v[1]--
	}
	if v.Len() > 1 {
		v = v.Normalize()
	}
	return v
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.mu.Unlock()
}

// CRLFWriter rewrites bare newlines so log lines stay aligned while the
// terminal is in raw mode.
type CRLFWriter struct {
	W io.Writer
}

func (w CRLFWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\r\n")
	if _, err := io.WriteString(w.W, "\r"+s); err != nil {
		return 0, err
	}
	return len(p), nil
}
