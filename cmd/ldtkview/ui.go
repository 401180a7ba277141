package main

import (
	"bytes"
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/ldtkscene/ldtk"
)

const panelWidth = 220

type levelEntry struct {
	Index      int
	Identifier string
	Width      int
	Height     int
}

// levelPanel is the level list on the left of the window.
type levelPanel struct {
	list    *widget.List
	entries []any
	status  *widget.Text
	// suppressEvents keeps programmatic selection from respawning.
	suppressEvents bool
}

func (p *levelPanel) SetLevels(levels []ldtk.Level, selected int) {
	p.suppressEvents = true
	defer func() { p.suppressEvents = false }()

	p.entries = make([]any, len(levels))
	for i, l := range levels {
		p.entries[i] = levelEntry{Index: i, Identifier: l.Identifier, Width: l.PxWid, Height: l.PxHei}
	}
	p.list.SetEntries(p.entries)
	p.selectEntry(selected)
}

// Select highlights a level without firing the selection handler.
func (p *levelPanel) Select(index int) {
	p.suppressEvents = true
	defer func() { p.suppressEvents = false }()
	p.selectEntry(index)
}

func (p *levelPanel) selectEntry(index int) {
	if index >= 0 && index < len(p.entries) {
		p.list.SetSelectedEntry(p.entries[index])
	}
}

func (p *levelPanel) SetStatus(s string) {
	p.status.SetColor(palette.text)
	p.status.Label = s
}

// SetError shows a failed load or spawn until the next status.
func (p *levelPanel) SetError(s string) {
	p.status.SetColor(palette.failure)
	p.status.Label = s
}

type uiHandlers struct {
	onLevel           func(index int)
	onToggleColliders func()
	onToggleEntities  func()
	onReload          func()
	onFit             func()
}

func newFontFace(size float64) (text.Face, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &text.GoTextFace{Source: s, Size: size}, nil
}

func buildViewerUI(fontFace *text.Face, h uiHandlers) (*ebitenui.UI, *levelPanel) {
	ui := &ebitenui.UI{}
	ui.PrimaryTheme = newViewerTheme(fontFace)
	theme := ui.PrimaryTheme

	panel := &levelPanel{}

	left := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 400),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
		widget.ContainerOpts.BackgroundImage(theme.PanelTheme.BackgroundImage),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 10, Right: 10}),
			),
		),
	)

	left.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Levels", fontFace, theme.LabelTheme.Color),
	))

	panel.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(levelEntry); ok {
				return fmt.Sprintf("%d. %s (%dx%d)", entry.Index, entry.Identifier, entry.Width, entry.Height)
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(levelEntry)
			if !ok || panel.suppressEvents {
				return
			}
			if h.onLevel != nil {
				h.onLevel(entry.Index)
			}
		}),
		widget.ListOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth-20, 260),
		)),
	)
	left.AddChild(panel.list)

	row := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
	for _, b := range []struct {
		label string
		fn    func()
	}{
		{"Colliders", h.onToggleColliders},
		{"Entities", h.onToggleEntities},
		{"Reload", h.onReload},
	} {
		fn := b.fn
		row.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(b.label, fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if fn != nil {
					fn()
				}
			}),
		))
	}
	left.AddChild(row)

	left.AddChild(widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Fit level", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if h.onFit != nil {
				h.onFit()
			}
		}),
	))

	panel.status = widget.NewText(
		widget.TextOpts.Text("", fontFace, palette.text),
		widget.TextOpts.MaxWidth(panelWidth-20),
	)
	left.AddChild(panel.status)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(left)
	ui.Container = root

	return ui, panel
}
