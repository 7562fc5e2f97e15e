package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/limetred/limetred/internal/config"
	"github.com/limetred/limetred/internal/content"
	"github.com/limetred/limetred/internal/market"
	"github.com/limetred/limetred/internal/scene"
	"github.com/limetred/limetred/internal/sound"
)

type phase int

const (
	phasePrompt phase = iota
	phaseGenerating
	phaseWorkspace
	phaseDashboard
)

func (p phase) String() string {
	switch p {
	case phasePrompt:
		return "prompt"
	case phaseGenerating:
		return "generating"
	case phaseWorkspace:
		return "workspace"
	case phaseDashboard:
		return "dashboard"
	}
	return "unknown"
}

const (
	dashboardRefresh = 250 * time.Millisecond
	walletProvider   = "phantom"
)

type (
	// frameMsg and refreshMsg carry the epoch that scheduled them; a phase change bumps
	// the epoch so stale loops stop rescheduling.
	frameMsg struct {
		epoch int
	}
	refreshMsg struct {
		epoch int
	}
	generatedMsg struct {
		seq    int
		record content.Record
	}
)

// Options wires the app's collaborators.
type Options struct {
	Config    *config.Config
	Generator content.Generator
	Logger    *zap.Logger
	Sound     *sound.Player
	// Image is attached to every generation request.
	Image     []byte
	ImageMIME string
	// EngineOptions are passed to every market engine the app creates.
	EngineOptions []market.Option
}

// Model is the bubbletea model for the whole session.
type Model struct {
	cfg    *config.Config
	gen    content.Generator
	logger *zap.Logger
	sound  *sound.Player
	image  []byte
	mime   string
	engOpt []market.Option

	phase  phase
	epoch  int
	seq    int
	prompt string

	input textinput.Model
	spin  spinner.Model

	canvas    *scene.Canvas
	renderer  *scene.Renderer
	cancelGen context.CancelFunc

	record content.Record
	engine *market.Engine
	snap   market.Snapshot

	theme     int
	styles    Styles
	status    string
	statusErr bool

	width, height int
}

func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gen := opts.Generator
	if gen == nil {
		gen = content.NewMock(cfg.Generator.MockDelay)
	}

	ti := textinput.New()
	ti.Placeholder = "Describe the app you want to launch..."
	ti.Prompt = "│ "
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := themeIndex(cfg.UI.Theme)
	styles := NewStyles(Themes[theme])
	ti.PromptStyle = styles.Title
	sp.Style = styles.Title

	return Model{
		cfg:    cfg,
		gen:    gen,
		logger: logger,
		sound:  opts.Sound,
		image:  opts.Image,
		mime:   opts.ImageMIME,
		engOpt: opts.EngineOptions,
		phase:  phasePrompt,
		input:  ti,
		spin:   sp,
		theme:  theme,
		styles: styles,
		width:  80,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func frameTick(fps, epoch int) tea.Cmd {
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(time.Time) tea.Msg { return frameMsg{epoch} })
}

func refreshTick(epoch int) tea.Cmd {
	return tea.Tick(dashboardRefresh, func(time.Time) tea.Msg { return refreshMsg{epoch} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.canvas != nil {
			w, h := m.sceneSize()
			m.canvas.Reshape(w, h)
			m.renderer.Resize(scene.TerminalViewport(w, h))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.shutdown()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case frameMsg:
		if m.phase != phaseGenerating || msg.epoch != m.epoch {
			return m, nil
		}
		m.renderer.RenderFrame()
		return m, frameTick(m.cfg.Scene.FPS, m.epoch)

	case refreshMsg:
		if m.phase != phaseDashboard || msg.epoch != m.epoch || m.engine == nil {
			return m, nil
		}
		m.snap = m.engine.Snapshot()
		return m, refreshTick(m.epoch)

	case generatedMsg:
		if m.phase != phaseGenerating || msg.seq != m.seq {
			return m, nil
		}
		m.leaveGenerating()
		m.record = msg.record
		m.phase = phaseWorkspace
		m.epoch++
		m.setStatus("", false)
		m.sound.Play(sound.Chime)
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.phase == phasePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.phase {
	case phasePrompt:
		return m.promptKey(msg)
	case phaseGenerating:
		return m.generatingKey(msg)
	case phaseWorkspace:
		return m.workspaceKey(msg)
	case phaseDashboard:
		return m.dashboardKey(msg)
	}
	return m, nil
}

func (m Model) promptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			m.setStatus("describe your app first", true)
			return m, nil
		}
		return m.startGenerating(prompt)
	case tea.KeyEsc:
		m.input.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) generatingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveGenerating()
		m.phase = phasePrompt
		m.epoch++
		m.setStatus("generation cancelled", false)
		m.input.Focus()
		return m, textinput.Blink
	case "q":
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) workspaceKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		return m.enterDashboard()
	case "t":
		m.cycleTheme()
	case "esc":
		m.phase = phasePrompt
		m.epoch++
		m.setStatus("", false)
		m.input.Focus()
		return m, textinput.Blink
	case "q":
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) dashboardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		m.result(m.engine.OnConnect(walletProvider), "wallet connected", "connection failed")
	case "s":
		native := m.cfg.UI.SwapNative
		quote := m.engine.Rates().SwapQuote(native)
		m.result(m.engine.OnSwap(native, quote), "swap confirmed", "insufficient balance for swap")
	case "b":
		n := m.cfg.UI.KeyBatch
		m.result(m.engine.OnTradeKeys(market.Buy, n, m.engine.QuoteKeys(n)), "keys bought", "insufficient balance for keys")
	case "x":
		n := m.cfg.UI.KeyBatch
		m.result(m.engine.OnTradeKeys(market.Sell, n, m.engine.QuoteKeys(n)), "keys sold", "not enough keys to sell")
	case "d":
		m.result(m.engine.OnDeploy(), "deployed", "insufficient balance for deploy fee")
	case "t":
		m.cycleTheme()
	case "esc":
		m.stopEngine()
		m.phase = phaseWorkspace
		m.epoch++
		m.setStatus("", false)
	case "q":
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) startGenerating(prompt string) (Model, tea.Cmd) {
	m.prompt = prompt
	m.phase = phaseGenerating
	m.epoch++
	m.seq++
	m.setStatus("", false)
	m.input.Blur()

	w, h := m.sceneSize()
	m.canvas = scene.NewCanvas(w, h)
	// A terminal canvas always exists, so Initialize cannot fail here.
	m.renderer, _ = scene.Initialize(m.canvas, scene.TerminalViewport(w, h))

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelGen = cancel
	req := content.Request{Prompt: prompt, Image: m.image, ImageMIME: m.mime}
	gen, seq := m.gen, m.seq
	m.logger.Info("generation started", zap.String("generator", gen.Name()), zap.Int("seq", seq))

	return m, tea.Batch(
		func() tea.Msg { return generatedMsg{seq: seq, record: gen.Generate(ctx, req)} },
		m.spin.Tick,
		frameTick(m.cfg.Scene.FPS, m.epoch),
	)
}

func (m *Model) leaveGenerating() {
	if m.cancelGen != nil {
		m.cancelGen()
		m.cancelGen = nil
	}
	m.renderer.Teardown()
	m.renderer = nil
	m.canvas = nil
}

func (m Model) enterDashboard() (Model, tea.Cmd) {
	p := m.cfg.Params()
	if mc := m.record.MarketCap; mc != nil && *mc > 0 {
		p.InitialMarketCap = *mc
	}
	opts := []market.Option{market.WithLogger(m.logger.Named("market"))}
	if m.cfg.Seed != 0 {
		opts = append(opts, market.WithRand(market.NewRand(m.cfg.Seed)))
	}
	opts = append(opts, m.engOpt...)

	eng, err := market.NewEngine(p, opts...)
	if err != nil {
		m.logger.Error("market engine", zap.Error(err))
		m.setStatus(err.Error(), true)
		m.sound.Play(sound.Buzz)
		return m, nil
	}
	m.engine = eng
	m.phase = phaseDashboard
	m.epoch++
	m.result(eng.OnDeploy(), "deployed "+m.record.Name, "insufficient balance for deploy fee")
	eng.Start(context.Background())
	m.snap = eng.Snapshot()
	return m, refreshTick(m.epoch)
}

func (m *Model) stopEngine() {
	if m.engine == nil {
		return
	}
	m.engine.Stop()
	m.engine = nil
}

// shutdown releases everything the current phase holds.
func (m *Model) shutdown() {
	if m.phase == phaseGenerating {
		m.leaveGenerating()
	}
	m.stopEngine()
}

// result reports an action outcome. Failed actions change nothing but the status line.
func (m *Model) result(ok bool, success, failure string) {
	if m.engine != nil {
		m.snap = m.engine.Snapshot()
	}
	if ok {
		m.setStatus(success, false)
		m.sound.Play(sound.Coin)
		return
	}
	m.setStatus(failure, true)
	m.sound.Play(sound.Buzz)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *Model) cycleTheme() {
	m.theme = (m.theme + 1) % len(Themes)
	m.styles = NewStyles(Themes[m.theme])
	m.input.PromptStyle = m.styles.Title
	m.spin.Style = m.styles.Title
}

// sceneSize leaves two rows for the spinner line.
func (m Model) sceneSize() (int, int) {
	return max(m.width, 1), max(m.height-2, 1)
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.shutdown()
	}
	return err
}
