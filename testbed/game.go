package testbed

import (
	"errors"

	"github.com/spaghettifunk/flatland/engine"
	"github.com/spaghettifunk/flatland/engine/config"
	"github.com/spaghettifunk/flatland/engine/core"
	"github.com/spaghettifunk/flatland/engine/math"
)

type TestGame struct {
	*engine.Game
}

type player struct {
	position math.Vec3
	scale    math.Vec3
	speed    float32
}

type enemy struct {
	label    string
	position math.Vec3
	scale    math.Vec3
	color    math.Vec4
	angle    float32
	health   int
	texture  string
}

type gameState struct {
	width  uint32
	height uint32

	elapsed float32
	player  *player
	enemies []*enemy

	// requests the renderer turned away this frame
	dropped int
}

// textureSources maps the demo textures to the image assets backing them.
// A missing asset falls back to a solid colour.
var textureSources = []struct {
	name  string
	asset string
	solid [4]uint8
}{
	{name: "tree", asset: "happy-tree.png", solid: [4]uint8{40, 160, 60, 255}},
	{name: "pika", asset: "default.png", solid: [4]uint8{250, 220, 40, 255}},
}

func NewTestGame(cfg *config.Config) (*TestGame, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: engine.NewApplicationConfig(cfg),
			State:             newGameState(),
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func newGameState() *gameState {
	return &gameState{
		player: &player{
			position: math.NewVec3(500, 300, 0),
			scale:    math.NewVec3(130, 130, 1),
			speed:    5,
		},
		enemies: []*enemy{
			newEnemy("Cube 1", 200, 300, math.NewVec4Create(1, 1, 1, 1), "tree"),
			newEnemy("Cube 2", 300, 200, math.NewVec4Create(1, 0, 0, 0.3), "tree"),
			newEnemy("Pika", 500, 500, math.NewVec4Create(1, 1, 1, 1), "pika"),
		},
	}
}

func newEnemy(label string, x, y float32, color math.Vec4, texture string) *enemy {
	return &enemy{
		label:    label,
		position: math.NewVec3(x, y, 0),
		scale:    math.NewVec3(150, 150, 1),
		color:    color,
		health:   100,
		texture:  texture,
	}
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")

	ts := g.SystemManager.TextureSystem
	for _, src := range textureSources {
		err := ts.RegisterAsset(src.name, src.asset)
		if err == nil {
			continue
		}
		if !errors.Is(err, core.ErrAssetNotFound) {
			return err
		}
		core.LogWarn("%s not found, using a solid colour for '%s'", src.asset, src.name)
		if err := ts.RegisterSolid(src.name, src.solid); err != nil {
			return err
		}
	}

	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, g.gameOnKey)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.elapsed += float32(deltaTime)

	var dx, dy float32
	if core.InputIsKeyDown(core.KEY_A) || core.InputIsKeyDown(core.KEY_LEFT) {
		dx -= 1
	}
	if core.InputIsKeyDown(core.KEY_D) || core.InputIsKeyDown(core.KEY_RIGHT) {
		dx += 1
	}
	if core.InputIsKeyDown(core.KEY_W) || core.InputIsKeyDown(core.KEY_UP) {
		dy += 1
	}
	if core.InputIsKeyDown(core.KEY_S) || core.InputIsKeyDown(core.KEY_DOWN) {
		dy -= 1
	}
	p := state.player
	p.position = p.position.Add(math.NewVec3(dx, dy, 0).MulScalar(p.speed))

	for _, e := range state.enemies {
		e.angle += float32(deltaTime)
		if e.position.Distance(p.position) < e.scale.X/2 && e.health > 0 {
			e.health--
		}
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.State.(*gameState)
	rs := g.SystemManager.RendererSystem
	state.dropped = 0

	// a full buffer drops the primitive, the rest of the frame still draws
	keep := func(err error) error {
		if errors.Is(err, core.ErrCapacityExceeded) {
			state.dropped++
			return nil
		}
		return err
	}

	p := state.player
	angle := state.elapsed
	white := math.NewVec4Create(1, 1, 1, 1)
	if err := keep(rs.SubmitQuad(p.position, p.scale, angle, white, "")); err != nil {
		return err
	}

	// a horizontal line through the player and the same line rotated with it
	orig := math.NewVec3(p.position.X-p.scale.X/2, p.position.Y, 0)
	dest := math.NewVec3(p.position.X+p.scale.X/2, p.position.Y, 0)
	if err := keep(rs.SubmitLine(orig, dest, math.NewVec4Create(1, 0.3, 0.7, 1))); err != nil {
		return err
	}
	rotOrig := rotateAround(orig, p.position, angle)
	rotDest := rotateAround(dest, p.position, angle)
	if err := keep(rs.SubmitLine(rotOrig, rotDest, math.NewVec4Create(0, 1, 0, 1))); err != nil {
		return err
	}

	for _, e := range state.enemies {
		if e.health <= 0 {
			continue
		}
		if err := keep(rs.SubmitQuad(e.position, e.scale, e.angle, e.color, e.texture)); err != nil {
			return err
		}
		if err := keep(rs.SubmitLine(p.position, e.position, math.NewVec4Create(1, 1, 0, 1))); err != nil {
			return err
		}
	}

	// thickness 1 fills the circle, fade 0.009 keeps the edge smooth
	if err := keep(rs.SubmitCircle(
		math.NewVec3(100, 100, 0),
		math.NewVec3(700, 200, 0),
		1.0, 0.009,
		math.NewVec4Create(1, 0.5, 0.3, 1),
	)); err != nil {
		return err
	}

	red := math.NewVec4Create(1, 0, 0, 1)
	if err := keep(rs.SubmitRectOutline(math.NewVec3(500, 300, 0), math.NewVec3(130, 130, 0), 0, red)); err != nil {
		return err
	}
	if err := keep(rs.SubmitRectOutline(math.NewVec3(300, 300, 0), math.NewVec3(130, 130, 0), angle, red)); err != nil {
		return err
	}

	if state.dropped > 0 {
		core.LogWarn("renderer full, dropped %d primitives this frame", state.dropped)
	}
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	return nil
}

func (g *TestGame) gameOnKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return
	}
	if ke.KeyCode == core.KEY_SPACE {
		g.State.(*gameState).respawn()
	}
}

// respawn revives every enemy somewhere inside the window.
func (s *gameState) respawn() {
	for _, e := range s.enemies {
		e.health = 100
		e.position.X = math.RandomInRange(e.scale.X/2, max(float32(s.width)-e.scale.X/2, e.scale.X/2))
		e.position.Y = math.RandomInRange(e.scale.Y/2, max(float32(s.height)-e.scale.Y/2, e.scale.Y/2))
	}
}

// rotateAround rotates point by angle radians about pivot on the xy plane.
func rotateAround(point, pivot math.Vec3, angle float32) math.Vec3 {
	r := point.ToVec2().Sub(pivot.ToVec2()).Rotate(angle).Add(pivot.ToVec2())
	return math.NewVec3(r.X, r.Y, point.Z)
}
