// Package demo runs the translucent demo window: an undecorated,
// floating ebiten window showing a rounded panel with the clock, drawn
// with the same canvas as the overlay panel.
package demo

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"

	"github.com/opd-ai/go-overlay/internal/logging"
	"github.com/opd-ai/go-overlay/internal/panel"
	"github.com/opd-ai/go-overlay/internal/render"
)

// Default window geometry and background.
const (
	DefaultWidth  = 360
	DefaultHeight = 160
	DefaultTitle  = "overlay demo"
)

// DefaultBackground is the translucent panel grey.
var DefaultBackground = color.NRGBA{R: 0x4d, G: 0x4d, B: 0x4d, A: 0xb3}

// Options configures the demo window. Zero values select the defaults.
type Options struct {
	Width, Height int
	Title         string
	Background    color.NRGBA
	Text          color.NRGBA
	Style         render.Style
	Format        panel.ClockFormat
	ClockInterval time.Duration
	Clock         panel.Clock
	Logger        logging.Logger
	// OnStart runs once, in its own goroutine, after the first frame is
	// drawn and the window exists.
	OnStart func()
}

// Game implements ebiten.Game. It repaints only on the clock cadence.
type Game struct {
	opts     Options
	fonts    *render.Fonts
	timeFace font.Face
	dateFace font.Face
	canvas   *render.Canvas
	logger   logging.Logger

	ctx       context.Context
	lastClock time.Time
	timeText  string
	dateText  string
	dirty     bool
	frames    int

	screen    *ebiten.Image
	startOnce sync.Once
}

// NewGame builds the demo and paints its first frame.
func NewGame(opts Options) (*Game, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Background == (color.NRGBA{}) {
		opts.Background = DefaultBackground
	}
	if opts.Text == (color.NRGBA{}) {
		opts.Text = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	if opts.Style == (render.Style{}) {
		opts.Style = render.DefaultStyle()
	}
	if opts.Format == (panel.ClockFormat{}) {
		opts.Format = panel.DefaultClockFormat()
	}
	if opts.ClockInterval <= 0 {
		opts.ClockInterval = panel.DefaultClockInterval
	}
	if opts.Clock == nil {
		opts.Clock = panel.SystemClock{}
	}

	fonts := render.NewFonts()
	timeFace, err := fonts.Face(opts.Style.Font, opts.Style.Weight, opts.Style.TimeSize)
	if err != nil {
		fonts.Close()
		return nil, fmt.Errorf("time font: %w", err)
	}
	dateFace, err := fonts.Face(opts.Style.Font, opts.Style.Weight, opts.Style.DateSize)
	if err != nil {
		fonts.Close()
		return nil, fmt.Errorf("date font: %w", err)
	}

	g := &Game{
		opts:     opts,
		fonts:    fonts,
		timeFace: timeFace,
		dateFace: dateFace,
		canvas:   render.NewCanvas(opts.Width, opts.Height),
		logger:   logging.OrNop(opts.Logger),
	}
	g.refresh(opts.Clock.Now())
	return g, nil
}

// SetContext makes Update end the game once ctx is done.
func (g *Game) SetContext(ctx context.Context) {
	g.ctx = ctx
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ebiten.Termination
		default:
		}
	}
	if now := g.opts.Clock.Now(); now.Sub(g.lastClock) >= g.opts.ClockInterval {
		g.refresh(now)
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(g.opts.Width, g.opts.Height)
		g.dirty = true
	}
	if g.dirty {
		g.screen.WritePixels(g.canvas.Image().Pix)
		g.dirty = false
	}
	screen.DrawImage(g.screen, nil)

	if g.opts.OnStart != nil {
		g.startOnce.Do(func() { go g.opts.OnStart() })
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.opts.Width, g.opts.Height
}

// Frame returns the most recently painted frame.
func (g *Game) Frame() *image.RGBA {
	return g.canvas.Image()
}

// Frames returns how many times the frame has been repainted.
func (g *Game) Frames() int {
	return g.frames
}

// refresh formats the clock at now and repaints when the text changed.
func (g *Game) refresh(now time.Time) {
	g.lastClock = now
	timeText, dateText := g.opts.Format.Format(now)
	if g.frames > 0 && timeText == g.timeText && dateText == g.dateText {
		return
	}
	g.timeText, g.dateText = timeText, dateText
	g.paint()
}

func (g *Game) paint() {
	c := g.canvas
	w, h := float64(g.opts.Width), float64(g.opts.Height)

	c.Clear()
	c.FillRoundedRect(panel.Rect{Width: w, Height: h}, g.opts.Style.CornerRadius*2, g.opts.Style.PanelPadding, g.opts.Background)
	c.DrawTextCentered(g.timeFace, w/2, h*0.4, g.timeText, g.opts.Text)
	c.DrawTextCentered(g.dateFace, w/2, h*0.75, g.dateText, g.opts.Text)

	g.frames++
	g.dirty = true
	g.logger.Debug("demo frame painted", "time", g.timeText, "date", g.dateText)
}

// Run opens the window and blocks until it is closed or the context set
// with SetContext is done.
func (g *Game) Run() error {
	defer g.fonts.Close()

	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(ebiten.DefaultTPS)

	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		SkipTaskbar:       true,
	})
	if err != nil {
		return fmt.Errorf("run demo window: %w", err)
	}
	return nil
}
