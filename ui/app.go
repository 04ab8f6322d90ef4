// Package ui is the interactive terminal front end: the rain field as a
// live background with the analyzer panels composited over it.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/attachment"
	"github.com/lixenwraith/audwanee/core"
	"github.com/lixenwraith/audwanee/engine"
	"github.com/lixenwraith/audwanee/parameter"
	"github.com/lixenwraith/audwanee/rain"
	"github.com/lixenwraith/audwanee/render"
	"github.com/lixenwraith/audwanee/report"
)

// Ambience is the sound surface the screen drives, satisfied by audio.SoundManager
type Ambience interface {
	StartRain()
	StopRain()
	SetDropCount(n int)
	PlayChime()
	PlayBuzz()
	ToggleMute() bool
	IsMuted() bool
}

// Recorder stores completed analyses, satisfied by history.Store
type Recorder interface {
	Save(ctx context.Context, prompt string, files []attachment.File, result *analysis.Result) (string, error)
}

// Options configures an App
type Options struct {
	Analyzer analysis.Analyzer
	Recorder Recorder
	Sound    Ambience
	Logger   *zap.Logger

	Prompt   string
	Files    []attachment.File
	Rejected []attachment.Rejected

	// Changes delivers the prompt path on edit, the file is re-read and analyzed
	Changes <-chan string

	AutoAnalyze bool
	// RainOnly shows the animation without panels, space pauses
	RainOnly bool

	Rain       bool
	FPS        int
	CellWidth  float64
	CellHeight float64
	Seed       uint64
	Background core.RGB

	// Source overrides the frame ticker
	Source engine.FrameSource
}

// App owns the screen while running
// Frame and resize callbacks run on the loop goroutine, key and analysis
// handlers on others, all state below mu is shared between them
type App struct {
	screen tcell.Screen
	opts   Options
	logger *zap.Logger
	loop   *engine.FrameLoop

	mu       sync.Mutex
	buf      *render.RenderBuffer
	canvas   *render.CellCanvas
	field    *rain.Field
	meter    *Meter
	state    State
	prompt   string
	files    []attachment.File
	rejected []attachment.Rejected
	result   *analysis.Result
	err      error
	scroll   int
	frames   int
	lastID   string

	lines      []Line
	linesWidth int
	dirty      bool

	seq    int
	cancel context.CancelFunc

	ctx   context.Context
	group *errgroup.Group
	quit  context.CancelFunc
}

// New prepares an App on an initialized screen
func New(screen tcell.Screen, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = parameter.RainDefaultFPS
	}
	if opts.Background == (core.RGB{}) {
		opts.Background = render.DefaultBgRGB
	}
	if opts.Sound == nil {
		opts.Sound = silence{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	buf := render.NewRenderBuffer(0, 0)
	buf.SetBackground(opts.Background)

	a := &App{
		screen:   screen,
		opts:     opts,
		logger:   logger.Named("ui"),
		buf:      buf,
		canvas:   render.NewCellCanvas(buf, opts.CellWidth, opts.CellHeight),
		field:    rain.NewField(opts.Seed),
		meter:    NewMeter(opts.FPS),
		prompt:   opts.Prompt,
		files:    opts.Files,
		rejected: opts.Rejected,
		dirty:    true,
	}

	source := opts.Source
	if source == nil {
		source = engine.NewTickerSource(parameter.RainFrameInterval(opts.FPS))
	}
	a.loop = engine.NewFrameLoop(source, a.frame, a.resize)
	return a
}

// Run shows the screen until quit or ctx ends
// The frame loop is stopped before Run returns, the caller finalizes the screen
func (a *App) Run(ctx context.Context) error {
	ctx, quit := context.WithCancel(ctx)
	defer quit()
	g, gctx := errgroup.WithContext(ctx)

	a.mu.Lock()
	a.ctx = gctx
	a.group = g
	a.quit = quit
	a.mu.Unlock()

	a.screen.SetStyle(tcell.StyleDefault.Background(render.ToTcell(a.opts.Background)))
	a.screen.HideCursor()
	w, h := a.screen.Size()
	a.resize(w, h)

	if a.opts.Rain {
		a.opts.Sound.StartRain()
	}
	a.loop.Start()

	events := make(chan tcell.Event, 16)
	stopEvents := make(chan struct{})
	go a.screen.ChannelEvents(events, stopEvents)

	g.Go(func() error {
		defer quit()
		return a.eventLoop(gctx, events)
	})
	if a.opts.Changes != nil {
		g.Go(func() error { return a.watchLoop(gctx) })
	}
	if a.opts.AutoAnalyze && !a.opts.RainOnly {
		a.mu.Lock()
		a.startAnalysis()
		a.mu.Unlock()
	}

	err := g.Wait()
	close(stopEvents)
	a.loop.Stop()
	a.opts.Sound.StopRain()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// State returns the current phase
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Result returns the last result, nil unless in StateResult
func (a *App) Result() *analysis.Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Err returns the last analysis error
func (a *App) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Prompt returns the prompt currently loaded
func (a *App) Prompt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prompt
}

// Loop exposes the frame loop for pacing statistics
func (a *App) Loop() *engine.FrameLoop {
	return a.loop
}

func (a *App) eventLoop(ctx context.Context, events <-chan tcell.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := ev.Size()
				a.loop.Resize(w, h)
				a.screen.Sync()
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return nil
				}
			}
		}
	}
}

func (a *App) watchLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-a.opts.Changes:
			if !ok {
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				a.logger.Warn("failed to reload prompt", zap.String("path", path), zap.Error(err))
				continue
			}
			a.logger.Debug("prompt reloaded", zap.String("path", path))
			a.mu.Lock()
			a.prompt = string(data)
			a.cancelInFlight()
			a.startAnalysis()
			a.mu.Unlock()
		}
	}
}

// resize runs on the loop goroutine and resets the field to the new viewport
func (a *App) resize(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buf.Resize(width, height)
	if a.opts.Rain {
		a.field.Reset(a.canvas.Viewport())
	} else {
		a.field.Reset(0, 0)
	}
	a.dirty = true
	a.opts.Sound.SetDropCount(a.field.Len())
}

func (a *App) frame(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.frames++
	if a.opts.Rain {
		a.field.Frame(a.canvas)
	} else {
		a.buf.Clear()
	}
	a.meter.Update()

	if !a.opts.RainOnly {
		a.draw()
	} else {
		a.drawRainHint()
	}

	render.Flush(a.buf, a.screen)
	a.screen.Show()
}

// startAnalysis requires mu held
func (a *App) startAnalysis() {
	if a.state == StateAnalyzing || a.group == nil {
		return
	}
	if a.opts.Analyzer == nil {
		a.setError(errors.New("no analyzer configured"))
		return
	}

	a.seq++
	seq := a.seq
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel
	a.state = StateAnalyzing
	a.result = nil
	a.err = nil
	a.scroll = 0
	a.meter.Reset()
	a.dirty = true

	prompt := a.prompt
	files := slices.Clone(a.files)

	a.group.Go(func() error {
		defer cancel()
		res, err := a.opts.Analyzer.Analyze(ctx, prompt, files)
		a.finish(ctx, seq, prompt, files, res, err)
		return nil
	})
}

func (a *App) finish(ctx context.Context, seq int, prompt string, files []attachment.File, res *analysis.Result, err error) {
	a.mu.Lock()
	if seq != a.seq || ctx.Err() != nil {
		a.mu.Unlock()
		return
	}
	a.cancel = nil
	if err != nil {
		a.setError(err)
		a.mu.Unlock()
		a.opts.Sound.PlayBuzz()
		return
	}

	a.state = StateResult
	a.result = res
	a.meter.SetTarget(res.RiskScore)
	a.dirty = true
	a.mu.Unlock()

	a.opts.Sound.PlayChime()
	if a.opts.Recorder != nil {
		id, err := a.opts.Recorder.Save(ctx, prompt, files, res)
		if err != nil {
			a.logger.Warn("failed to save analysis", zap.Error(err))
			return
		}
		a.mu.Lock()
		a.lastID = id
		a.mu.Unlock()
	}
}

// setError requires mu held
func (a *App) setError(err error) {
	a.state = StateError
	a.err = err
	a.result = nil
	a.dirty = true
}

// cancelInFlight requires mu held
func (a *App) cancelInFlight() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.state == StateAnalyzing {
		a.state = StateIdle
	}
	a.seq++
}

// reset returns to the launch input, requires mu held
func (a *App) reset() {
	a.cancelInFlight()
	a.state = StateIdle
	a.result = nil
	a.err = nil
	a.scroll = 0
	a.lastID = ""
	a.prompt = a.opts.Prompt
	a.files = a.opts.Files
	a.rejected = a.opts.Rejected
	a.meter.Reset()
	a.dirty = true
}

// loadSample fills the input with the bundled assignment, requires mu held
func (a *App) loadSample() {
	a.cancelInFlight()
	a.state = StateIdle
	a.result = nil
	a.err = nil
	a.scroll = 0
	a.prompt = analysis.SamplePrompt
	a.files = analysis.SampleFiles()
	a.rejected = nil
	a.meter.Reset()
	a.dirty = true
}

// contentLines returns the scrollable body, rebuilt when state or width changes
func (a *App) contentLines(width int) []Line {
	if !a.dirty && width == a.linesWidth && a.state != StateAnalyzing {
		return a.lines
	}
	switch a.state {
	case StateAnalyzing:
		a.lines = analyzingLines(a.prompt, a.files, width, a.frames/6)
	case StateResult:
		a.lines = resultLines(a.result, a.prompt, a.files, width)
	case StateError:
		a.lines = errorLines(a.err, width)
	default:
		a.lines = idleLines(a.prompt, a.files, a.rejected, width)
	}
	a.linesWidth = width
	a.dirty = false
	return a.lines
}

// panelRect returns the content panel bounds
func (a *App) panelRect() (x, y, w, h int) {
	sw, sh := a.buf.Size()
	w = min(sw-2, maxPanelW)
	x = (sw - w) / 2
	y = 2
	h = sh - 4
	return x, y, w, h
}

// draw composites header, panel and footer over the rain, requires mu held
func (a *App) draw() {
	sw, sh := a.buf.Size()
	if sw < 20 || sh < 8 {
		drawLine(a.buf, 0, 0, sw, Line{{Text: "Terminal too small", Style: Style{Fg: errorColor}}})
		return
	}

	a.drawHeader(sw)

	px, py, pw, ph := a.panelRect()
	a.seat(px, py, pw, ph, panelDim, panelAlpha)

	innerX := px + 2
	innerW := pw - 4
	row := py + 1

	if a.state == StateResult && a.result != nil {
		a.drawMeter(innerX, row, innerW)
		row += 3
	}

	viewH := py + ph - 1 - row
	lines := a.contentLines(innerW)
	maxScroll := max(0, len(lines)-viewH)
	a.scroll = max(0, min(a.scroll, maxScroll))

	for i := 0; i < viewH && a.scroll+i < len(lines); i++ {
		drawLine(a.buf, innerX, row+i, innerW, lines[a.scroll+i])
	}
	if maxScroll > 0 {
		a.drawScrollbar(px+pw-1, row, viewH, a.scroll, maxScroll)
	}

	a.drawFooter(sw, sh)
}

func (a *App) seat(x, y, w, h int, dim, alpha float64) {
	a.buf.Dim(x, y, w, h, dim)
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			a.buf.BlendBg(col, row, panelColor, alpha)
		}
	}
}

func (a *App) drawHeader(sw int) {
	a.seat(0, 0, sw, 1, headerDim, panelAlpha)
	drawLine(a.buf, 1, 0, sw-2, Line{
		{Text: "Audwanee", Style: Style{Fg: accentColor, Attrs: render.AttrBold}},
		{Text: "  AI resilience check for assignment prompts", Style: mutedStyle},
	})
}

func (a *App) drawMeter(x, y, width int) {
	r := a.result
	value := a.meter.Value()
	color := report.RiskColor(r.OverallRisk)

	label := fmt.Sprintf(" %s %d/100", report.RiskLabel(r.OverallRisk), int(value+0.5))
	barW := max(4, width-len(label))
	filled := report.Filled(value, barW)

	drawLine(a.buf, x, y, width, Line{
		{Text: strings.Repeat("█", filled), Style: Style{Fg: color}},
		{Text: strings.Repeat("░", barW-filled), Style: Style{Fg: trackColor}},
		{Text: label, Style: Style{Fg: color, Attrs: render.AttrBold}},
	})

	if a.lastID != "" {
		drawLine(a.buf, x, y+1, width, Line{{Text: "saved " + a.lastID[:min(8, len(a.lastID))], Style: mutedStyle}})
	}
}

func (a *App) drawScrollbar(x, y, h, pos, maxPos int) {
	if h < 2 {
		return
	}
	thumb := pos * (h - 1) / maxPos
	for i := 0; i < h; i++ {
		r, c := '│', trackColor
		if i == thumb {
			r, c = '┃', accentColor
		}
		a.buf.SetFg(x, y+i, r, c, render.AttrNone)
	}
}

func (a *App) footerHint() string {
	switch a.state {
	case StateAnalyzing:
		return "r cancel · m sound · q quit"
	case StateResult:
		return "j/k scroll · a re-analyze · r reset · s sample · m sound · q quit"
	case StateError:
		return "a retry · r reset · s sample · m sound · q quit"
	}
	return "a analyze · s sample · r reset · m sound · q quit"
}

func (a *App) drawFooter(sw, sh int) {
	y := sh - 1
	a.seat(0, y, sw, 1, headerDim, panelAlpha)
	hint := Line{{Text: a.footerHint(), Style: mutedStyle}}
	drawLine(a.buf, 1, y, sw-2, hint)

	sound := "♪ on"
	if a.opts.Sound.IsMuted() {
		sound = "♪ off"
	}
	line := Line{{Text: fmt.Sprintf("%s  %2.0f fps", sound, a.loop.FPS()), Style: mutedStyle}}
	if x := sw - 1 - line.Width(); x > hint.Width()+2 {
		drawLine(a.buf, x, y, sw-x, line)
	}
}

func (a *App) drawRainHint() {
	sw, sh := a.buf.Size()
	hint := Line{{Text: "space pause · q quit", Style: mutedStyle}}
	drawLine(a.buf, max(0, sw-hint.Width()-1), sh-1, hint.Width(), hint)
}

// silence is the Ambience used when audio is disabled
type silence struct{}

func (silence) StartRain()       {}
func (silence) StopRain()        {}
func (silence) SetDropCount(int) {}
func (silence) PlayChime()       {}
func (silence) PlayBuzz()        {}
func (silence) ToggleMute() bool { return true }
func (silence) IsMuted() bool    { return true }
