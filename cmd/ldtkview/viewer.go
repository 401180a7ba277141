package main

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/ldtkscene/internal/config"
	"github.com/milk9111/ldtkscene/internal/view"
	"github.com/milk9111/ldtkscene/internal/watch"
	"github.com/milk9111/ldtkscene/ldtk"
	"github.com/milk9111/ldtkscene/physics"
	"github.com/milk9111/ldtkscene/scene"
)

const panSpeed = 6

// Viewer is the ebiten game that shows one spawned level at a time.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	src      *source
	spawner  *scene.Spawner
	tilesets map[int]*ebiten.Image

	level     int
	plan      *scene.Plan
	space     *cp.Space
	colliders []physics.Collider
	bg        color.Color
	lastErr   error

	cam     view.Camera
	fitNext bool

	ui    *ebitenui.UI
	panel *levelPanel
	face  text.Face

	watcher *watch.Watcher

	showColliders bool
	showEntities  bool

	dragging     bool
	lastX, lastY int
	width        int
	height       int
}

func NewViewer(cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	src, err := loadSource(cfg.Project)
	if err != nil {
		return nil, err
	}
	sel, err := ldtk.ParseLevelSelection(cfg.Project.Level)
	if err != nil {
		return nil, err
	}
	level, err := src.levelIndex(sel)
	if err != nil {
		return nil, err
	}

	face, err := newFontFace(14)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		cfg:           cfg,
		log:           log,
		level:         level,
		face:          face,
		cam:           view.Camera{Zoom: cfg.Window.Zoom, Left: panelWidth},
		fitNext:       true,
		showColliders: cfg.Viewer.ShowColliders,
		showEntities:  cfg.Viewer.ShowEntities,
		width:         cfg.Window.Width,
		height:        cfg.Window.Height,
	}
	v.ui, v.panel = buildViewerUI(&v.face, uiHandlers{
		onLevel:           v.selectLevel,
		onToggleColliders: func() { v.showColliders = !v.showColliders },
		onToggleEntities:  func() { v.showEntities = !v.showEntities },
		onReload:          v.reload,
		onFit:             func() { v.fitNext = true },
	})

	v.use(src)
	return v, nil
}

func (v *Viewer) Close() error {
	if v.watcher == nil {
		return nil
	}
	return v.watcher.Close()
}

// use swaps in a freshly loaded source and respawns the current level.
func (v *Viewer) use(src *source) {
	v.src = src
	v.tilesets = src.loadTilesets(v.log)
	v.spawner = scene.NewSpawner(ldtk.NewIndex(&src.project.Defs), src.registry, scene.WithLogger(v.log))
	if v.level >= len(src.project.Levels) {
		v.level = 0
	}
	v.panel.SetLevels(src.project.Levels, v.level)
	v.restartWatcher()
	v.spawn()
}

func (v *Viewer) restartWatcher() {
	if v.watcher != nil {
		_ = v.watcher.Close()
		v.watcher = nil
	}
	if !v.cfg.Viewer.Watch || len(v.src.watch) == 0 {
		return
	}
	w, err := watch.New(nil, v.src.watch...)
	if err != nil {
		v.log.Warn("hot reload disabled", zap.Error(err))
		return
	}
	v.watcher = w
}

func (v *Viewer) reload() {
	src, err := loadSource(v.cfg.Project)
	if err != nil {
		v.fail("reload", err)
		return
	}
	v.log.Info("reloaded project", zap.String("source", src.name))
	v.use(src)
}

func (v *Viewer) selectLevel(index int) {
	if index == v.level && v.plan != nil {
		return
	}
	v.level = index
	v.fitNext = true
	v.spawn()
}

func (v *Viewer) spawn() {
	if len(v.src.project.Levels) == 0 {
		v.fail("spawn", fmt.Errorf("project has no levels"))
		return
	}
	level := &v.src.project.Levels[v.level]
	plan, err := v.spawner.SpawnLevel(level)
	if err != nil {
		v.plan, v.space, v.colliders = nil, nil, nil
		v.fail("spawn", err)
		return
	}

	v.plan = plan
	v.space, v.colliders = physics.BuildSpace(plan)
	v.bg = parseHexColor(level.BgColor, parseHexColor(v.src.project.BgColor, colornames.Darkslategray))
	v.lastErr = nil
	v.panel.SetStatus(fmt.Sprintf("%s\n%d layers, %d tiles\n%d entities, %d colliders",
		plan.Level, len(plan.Layers), plan.TileCount(), len(plan.Entities), len(v.colliders)))
}

func (v *Viewer) fail(op string, err error) {
	v.lastErr = err
	v.log.Error(op+" failed", zap.Error(err))
	v.panel.SetError(op + " failed:\n" + err.Error())
}

func (v *Viewer) Update() error {
	v.ui.Update()
	v.pollWatcher()
	v.handleInput()
	if v.fitNext && v.plan != nil {
		v.cam.Fit(float64(v.plan.PxWid), float64(v.plan.PxHei), float64(v.width-panelWidth), float64(v.height))
		v.fitNext = false
	}
	return nil
}

// pollWatcher drains pending file events and reloads once for all of them.
func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	changed := ""
	for {
		select {
		case name, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			changed = name
			continue
		case err, ok := <-v.watcher.Errors:
			if !ok {
				v.watcher = nil
				return
			}
			v.log.Warn("watch error", zap.Error(err))
			continue
		default:
		}
		break
	}
	if changed != "" {
		v.log.Debug("file changed", zap.String("path", changed))
		v.reload()
	}
}

func (v *Viewer) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.showColliders = !v.showColliders
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		v.showEntities = !v.showEntities
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.reload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		v.fitNext = true
	}
	if n := len(v.src.project.Levels); n > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
			v.selectLevel((v.level + 1) % n)
			v.panel.Select(v.level)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
			v.selectLevel((v.level + n - 1) % n)
			v.panel.Select(v.level)
		}
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.cam.Pan(panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.cam.Pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.cam.Pan(0, panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.cam.Pan(0, -panSpeed)
	}

	cx, cy := ebiten.CursorPosition()
	if cx < panelWidth {
		v.dragging = false
		return
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		v.cam.ZoomAt(math.Pow(1.1, wy), float64(cx), float64(cy))
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		if v.dragging {
			v.cam.Pan(float64(cx-v.lastX), float64(cy-v.lastY))
		}
		v.dragging = true
		v.lastX, v.lastY = cx, cy
	} else {
		v.dragging = false
	}
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.bg != nil {
		screen.Fill(v.bg)
	} else {
		screen.Fill(colornames.Darkslategray)
	}

	if v.plan != nil {
		for _, item := range view.Order(v.plan) {
			switch {
			case item.Layer != nil:
				v.drawLayer(screen, item.Layer)
			case item.Entity != nil && v.showEntities:
				v.drawEntity(screen, item.Entity)
			}
		}
		v.drawLevelBounds(screen)
		if v.showColliders {
			drawColliders(screen, v.space, &v.cam)
		}
	}

	v.ui.Draw(screen)

	if v.lastErr != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(panelWidth+10, 10)
		op.ColorScale.ScaleWithColor(colornames.Tomato)
		text.Draw(screen, v.lastErr.Error(), v.face, op)
	}
}

func (v *Viewer) drawLayer(screen *ebiten.Image, l *scene.LayerPlacement) {
	if l.Hidden {
		return
	}
	alpha := float32(l.Opacity)
	if alpha <= 0 {
		alpha = 1
	}

	if img, ok := v.tilesets[tilesetUID(l)]; ok {
		for _, q := range view.LayerQuads(l) {
			v.drawQuad(screen, img, q, alpha)
		}
	} else if l.Bound() {
		for _, q := range view.LayerQuads(l) {
			x, y, w, h := v.cam.RectToScreen(q.Dst)
			vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, colornames.Lightgray, false)
		}
	}

	for i := range l.Cells {
		c := &l.Cells[i]
		x, y, w, h := v.cam.RectToScreen(view.CellRect(l, c))
		col := cellColor(c.Cell.Value)
		if l.Bound() {
			vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, col, false)
			continue
		}
		vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), withAlpha(col, 0x66), false)
	}
}

func (v *Viewer) drawQuad(screen, img *ebiten.Image, q view.Quad, alpha float32) {
	sub, ok := img.SubImage(q.Src).(*ebiten.Image)
	if !ok || q.Src.Empty() {
		return
	}
	sw, sh := float64(q.Src.Dx()), float64(q.Src.Dy())
	x, y, w, h := v.cam.RectToScreen(q.Dst)

	op := &ebiten.DrawImageOptions{}
	if q.FlipX {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(sw, 0)
	}
	if q.FlipY {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, sh)
	}
	op.GeoM.Scale(w/sw, h/sh)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(sub, op)
}

func (v *Viewer) drawEntity(screen *ebiten.Image, e *scene.EntityPlacement) {
	rect := view.EntityRect(e)
	x, y, w, h := v.cam.RectToScreen(rect)

	if src, ok := view.EntitySource(e); ok {
		if img, ok := v.tilesets[e.Tileset.UID]; ok {
			v.drawQuad(screen, img, view.Quad{Src: src, Dst: rect}, 1)
		}
	} else {
		vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), withAlpha(colornames.Cornflowerblue, 0x88), false)
	}
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, colornames.White, false)

	label := e.Entity.Identifier
	if e.Output.Kind != "" && e.Output.Kind != scene.KindEntityInstance {
		label += " [" + e.Output.Kind + "]"
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y-16)
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, label, v.face, op)
}

func (v *Viewer) drawLevelBounds(screen *ebiten.Image) {
	x, y, w, h := v.cam.RectToScreen(view.Rect{W: float64(v.plan.PxWid), H: float64(v.plan.PxHei)})
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, colornames.Black, false)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
	}
	return outsideWidth, outsideHeight
}

func tilesetUID(l *scene.LayerPlacement) int {
	if l.Tileset == nil {
		return -1
	}
	return l.Tileset.UID
}

var cellPalette = []color.RGBA{
	colornames.Crimson,
	colornames.Gold,
	colornames.Mediumseagreen,
	colornames.Dodgerblue,
	colornames.Orchid,
	colornames.Darkorange,
}

func cellColor(value int) color.RGBA {
	if value <= 0 {
		return colornames.Gray
	}
	return cellPalette[(value-1)%len(cellPalette)]
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// parseHexColor reads LDtk's "#RRGGBB" form.
func parseHexColor(s string, fallback color.Color) color.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return fallback
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}
