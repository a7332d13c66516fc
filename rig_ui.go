package main

import (
	"fmt"
	"image/color"

	"github.com/milk9111/camboom/common"
	"github.com/milk9111/camboom/springarm"
	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// armLengthStep is how far the length buttons move the arm.
const armLengthStep = 25.0

// NewRigUI builds the pause panel: a summary of the boom configuration and
// buttons that toggle its switches while the simulation is paused. Buttons
// use colored nine-slices and the built-in basic font, so no theme assets
// are needed.
func NewRigUI(g *Game) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)
	summary := widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(centered),
	)

	refresh := func() {
		boom := g.boom()
		if boom == nil || boom.Arm == nil {
			summary.Label = "no boom"
			return
		}
		title.Label = fmt.Sprintf("Rig: %s (%s)", boom.Name, boom.Spec)
		summary.Label = rigSummary(boom.Arm.Config())
	}

	button := func(label string, edit func(cfg *springarm.Config)) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				g.configure(edit)
				refresh()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(summary)
	panel.AddChild(button("Location lag", func(cfg *springarm.Config) { cfg.EnableLocationLag = !cfg.EnableLocationLag }))
	panel.AddChild(button("Rotation lag", func(cfg *springarm.Config) { cfg.EnableRotationLag = !cfg.EnableRotationLag }))
	panel.AddChild(button("Substepping", func(cfg *springarm.Config) { cfg.UseSubstepping = !cfg.UseSubstepping }))
	panel.AddChild(button("Collision", func(cfg *springarm.Config) { cfg.DoCollisionTest = !cfg.DoCollisionTest }))
	panel.AddChild(button("Control rotation", func(cfg *springarm.Config) { cfg.UseControlRotation = !cfg.UseControlRotation }))
	panel.AddChild(button("Lag markers", func(cfg *springarm.Config) { cfg.DrawDebugLagMarkers = !cfg.DrawDebugLagMarkers }))
	panel.AddChild(button("Arm longer", func(cfg *springarm.Config) { cfg.TargetArmLength += armLengthStep }))
	panel.AddChild(button("Arm shorter", func(cfg *springarm.Config) {
		cfg.TargetArmLength = max(0, cfg.TargetArmLength-armLengthStep)
	}))

	copyBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Copy YAML", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(centered),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			g.copyRig()
		}),
	)
	resumeBtn := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Resume", &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(centered),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			g.paused = false
		}),
	)
	panel.AddChild(copyBtn)
	panel.AddChild(resumeBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)
	refresh()

	return &ebitenui.UI{Container: root}
}

func rigSummary(cfg springarm.Config) string {
	return fmt.Sprintf("arm %.0f  probe %.0f (%s)\nlag loc=%t rot=%t substep=%t curve=%s\nspeed %.1f/%.1f  max step %.4f  max dist %.0f\ncollision=%t control=%t markers=%t",
		cfg.TargetArmLength, cfg.ProbeSize, cfg.ProbeChannel,
		cfg.EnableLocationLag, cfg.EnableRotationLag, cfg.UseSubstepping, cfg.LagCurve,
		cfg.LocationLagSpeed, cfg.RotationLagSpeed, cfg.LagMaxTimeStep, cfg.LagMaxDistance,
		cfg.DoCollisionTest, cfg.UseControlRotation, cfg.DrawDebugLagMarkers)
}
