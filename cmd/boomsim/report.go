package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/camboom/ecs/system"
	"github.com/milk9111/camboom/physics"
	"github.com/milk9111/camboom/springarm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// recorder keeps one rig's lag error per tick and forwards every tick to next.
type recorder struct {
	next system.Observer

	lagError []float64
	clamped  int
	blocked  int
	failed   int
	substeps int
}

func (r *recorder) ObserveTick(rig string, cfg springarm.Config, info springarm.TickInfo) {
	r.lagError = append(r.lagError, info.DesiredLocation.Sub(info.ArmOrigin).Len())
	if info.Clamped {
		r.clamped++
	}
	if info.Blocked {
		r.blocked++
	}
	if info.ProbeFailed {
		r.failed++
	}
	r.substeps += info.LocationSubsteps + info.RotationSubsteps
	if r.next != nil {
		r.next.ObserveTick(rig, cfg, info)
	}
}

type summary struct {
	Mean, StdDev, Max float64
}

func summarize(errs []float64) summary {
	if len(errs) == 0 {
		return summary{}
	}
	mean, std := stat.MeanStdDev(errs, nil)
	return summary{Mean: mean, StdDev: std, Max: floats.Max(errs)}
}

func report(out io.Writer, name string, results []*recorder) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tmean\tstddev\tmax\tclamped\tblocked\tprobe_failed\tsubsteps\t\n", name)
	var all []float64
	for i, r := range results {
		s := summarize(r.lagError)
		fmt.Fprintf(tw, "rig %d\t%.2f\t%.2f\t%.2f\t%d\t%d\t%d\t%d\t\n", i, s.Mean, s.StdDev, s.Max, r.clamped, r.blocked, r.failed, r.substeps)
		all = append(all, r.lagError...)
	}
	s := summarize(all)
	fmt.Fprintf(tw, "all\t%.2f\t%.2f\t%.2f\t\t\t\t\t\n", s.Mean, s.StdDev, s.Max)
	tw.Flush()
}

// maxPlotLines keeps the legend readable.
const maxPlotLines = 8

func writePlot(path, name string, results []*recorder) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s lag error", name)
	p.X.Label.Text = "tick"
	p.Y.Label.Text = "distance to arm origin"

	for i, r := range results {
		if i == maxPlotLines {
			break
		}
		pts := make(plotter.XYs, len(r.lagError))
		for t, e := range r.lagError {
			pts[t] = plotter.XY{X: float64(t), Y: e}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Width = vg.Points(1)
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("rig %d", i), line)
	}
	return p.Save(12*vg.Inch, 5*vg.Inch, path)
}

// buildScene places a ring of pillars around the orbit the default rig script
// follows, close enough that the trailing arm passes through them.
func buildScene() *physics.Scene {
	scene := physics.NewScene()
	center := mgl64.Vec3{1280, 0, 0}
	const (
		pillars    = 8
		ringRadius = 440.0
		halfWidth  = 40.0
		height     = 600.0
	)
	for i := 0; i < pillars; i++ {
		angle := 2 * math.Pi * float64(i) / pillars
		c := center.Add(mgl64.Vec3{ringRadius * math.Cos(angle), ringRadius * math.Sin(angle), 0})
		scene.AddBox(
			c.Sub(mgl64.Vec3{halfWidth, halfWidth, 0}),
			c.Add(mgl64.Vec3{halfWidth, halfWidth, height}),
			physics.BlockAll,
		)
	}
	// floor, below every camera the default rigs produce
	scene.AddBox(mgl64.Vec3{0, -1500, -100}, mgl64.Vec3{2600, 1500, 0}, physics.BlockAll)
	// a boulder only the visibility channel sees
	scene.AddSphere(center.Add(mgl64.Vec3{0, 0, 200}), 90, springarm.MaskOf(springarm.ChannelVisibility))
	return scene
}
