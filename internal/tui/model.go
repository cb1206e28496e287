// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typerec/internal/audio"
	"github.com/verte-zerg/typerec/internal/clock"
	"github.com/verte-zerg/typerec/internal/generator"
	"github.com/verte-zerg/typerec/internal/input"
	"github.com/verte-zerg/typerec/internal/logging"
	"github.com/verte-zerg/typerec/internal/model"
	"github.com/verte-zerg/typerec/internal/review"
	"github.com/verte-zerg/typerec/internal/session"
	statsPkg "github.com/verte-zerg/typerec/internal/stats"
	"github.com/verte-zerg/typerec/internal/typing"
)

const timelineRows = 8

type view int

const (
	viewTyping view = iota
	viewPalette
	viewResult
)

// Deps are the collaborators of the typing UI. Audio, Player and Sink may be nil.
type Deps struct {
	Config model.Config
	Words  []string
	Gen    *generator.Generator
	Audio  *audio.Controller
	Player review.Player
	Sink   session.Sink
	Logger *zap.SugaredLogger
}

type armedMsg struct{ state audio.State }

type playbackDoneMsg struct{ err error }

type result struct {
	bundle    model.Bundle
	correct   int
	incorrect int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx      context.Context
	config   model.Config
	logger   *zap.SugaredLogger
	gen      *generator.Generator
	words    []string
	punctSet []rune

	width  int
	height int

	test       *typing.Test
	countdown  *clock.Countdown
	hub        *input.Hub
	capture    *input.Capture
	sync       *session.Synchronizer
	dispatcher *input.Dispatcher
	palette    *palette
	keys       keyMap
	help       help.Model

	audio       *audio.Controller
	recordAudio bool
	arming      bool
	micState    audio.State

	player       review.Player
	playing      bool
	stopPlayback context.CancelFunc

	last       *result
	showResult bool
	notice     string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	recordingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// NewModel constructs a typing TUI model.
func NewModel(ctx context.Context, deps Deps) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	gen := deps.Gen
	if gen == nil {
		gen = generator.New()
	}

	m := &Model{
		ctx:         ctx,
		config:      deps.Config,
		logger:      logger,
		gen:         gen,
		words:       deps.Words,
		punctSet:    []rune(deps.Config.PunctSet),
		audio:       deps.Audio,
		recordAudio: deps.Config.RecordAudio && deps.Audio != nil,
		micState:    audio.StateIdle,
		player:      deps.Player,
		help:        help.New(),
		palette:     newPalette(),
	}

	m.test = typing.New(m.generate())
	m.countdown = clock.NewCountdown(deps.Config.Duration, clock.DefaultInterval)
	m.hub = input.NewHub()
	m.capture = input.NewCapture(m.hub, deps.Config.RecordKeys, logger)

	format := model.AudioFormat{}
	if deps.Audio != nil {
		format = deps.Audio.Format()
	}
	m.sync = session.NewSynchronizer(m.countdown, m.capture, audioPath{m: m}, session.Options{
		Logger: logger,
		Sink:   deps.Sink,
		Format: format,
	})

	paletteKeys := input.NewKeyMap(deps.Config.PaletteKey)
	m.dispatcher = input.NewDispatcher(paletteKeys, m.test, m.palette, logger)
	m.keys = newKeyMap(paletteKeys)
	m.syncKeys()
	return m
}

// audioPath gates the controller behind the audio recording toggle.
type audioPath struct{ m *Model }

func (a audioPath) Start(ctx context.Context) bool {
	if a.m.audio == nil || !a.m.recordAudio {
		return false
	}
	return a.m.audio.Start(ctx)
}

func (a audioPath) Stop() (model.Artifact, bool) {
	if a.m.audio == nil {
		return model.Artifact{}, false
	}
	return a.m.audio.Stop()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.armCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.palette.setSize(msg.Width, msg.Height)
		return m, nil
	case armedMsg:
		m.arming = false
		m.micState = msg.state
		return m, nil
	case clock.TickMsg:
		cmd := m.countdown.Update(msg)
		m.observe()
		return m, cmd
	case playbackDoneMsg:
		m.playing = false
		m.stopPlayback = nil
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.notice = msg.err.Error()
			m.logger.Warnw("playback failed", "error", msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	if m.palette.visible {
		return m, m.palette.update(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Stamped on arrival; starting the microphone below can take a while.
	at := time.Now()
	if key.Matches(msg, m.keys.Quit) {
		return m.quit()
	}
	switch m.currentView() {
	case viewPalette:
		m.publish(msg, at)
		return m.handlePaletteKey(msg)
	case viewResult:
		m.publish(msg, at)
		return m.handleResultKey(msg)
	}

	if key.Matches(msg, m.keys.Record) {
		m.publish(msg, at)
		m.toggleKeyRecording()
		return nil
	}

	res := m.dispatcher.Dispatch(msg)
	out := m.test.Outcome()
	var cmd tea.Cmd
	if out.Started {
		_, cmd = m.countdown.Start()
		m.observe()
	}
	// The timeline sees the key after a session begins and before it ends.
	m.publish(msg, at)
	if out.Finished {
		m.countdown.Stop()
		m.observe()
	}
	if out.Restart {
		return m.restart()
	}

	if res == input.PaletteToggled {
		m.syncKeys()
	}
	return cmd
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Palette) {
		m.palette.TogglePalette()
		m.syncKeys()
		return nil
	}
	if !m.palette.filtering() {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.palette.TogglePalette()
			m.syncKeys()
			return nil
		case key.Matches(msg, m.keys.Select):
			item, ok := m.palette.selected()
			m.palette.TogglePalette()
			m.syncKeys()
			if !ok {
				return nil
			}
			return m.runAction(item)
		}
	}
	return m.palette.update(msg)
}

func (m *Model) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Palette):
		m.palette.TogglePalette()
		m.syncKeys()
	case key.Matches(msg, m.keys.Play):
		return m.play()
	case key.Matches(msg, m.keys.Restart):
		return m.restart()
	}
	return nil
}

func (m *Model) runAction(item paletteItem) tea.Cmd {
	m.logger.Debugw("palette action", "title", item.title)
	switch item.action {
	case actionRestart:
		return m.restart()
	case actionToggleKeys:
		m.toggleKeyRecording()
	case actionToggleAudio:
		m.recordAudio = !m.recordAudio && m.audio != nil
		if m.recordAudio {
			return m.armCmd()
		}
	case actionDuration:
		m.config.Duration = item.duration
		m.countdown.SetDuration(item.duration)
	case actionQuit:
		return m.quit()
	}
	return nil
}

func (m *Model) publish(msg tea.KeyMsg, at time.Time) {
	k := input.KeyFromMsg(msg)
	m.hub.Publish(input.Event{Direction: model.KeyDown, Key: k.Name, At: at})
}

// observe hands the clock state to the synchronizer and shows the result
// when a session ends.
func (m *Model) observe() {
	b, ok := m.sync.Observe(m.ctx, m.countdown.Signal())
	if !ok {
		return
	}
	correct, incorrect := m.test.Counts()
	m.last = &result{bundle: b, correct: correct, incorrect: incorrect}
	m.showResult = true
	m.notice = ""
	m.syncKeys()
}

func (m *Model) restart() tea.Cmd {
	m.stopPlaying()
	if m.countdown.Active() {
		m.countdown.Stop()
	}
	m.observe()
	m.showResult = false
	m.notice = ""
	m.test.Reset(m.generate())
	m.syncKeys()
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.stopPlaying()
	if m.countdown.Active() {
		m.countdown.Stop()
	}
	m.observe()
	return tea.Quit
}

func (m *Model) toggleKeyRecording() {
	enabled := !m.capture.Recording()
	m.capture.SetRecording(enabled)
	m.logger.Infow("keystroke recording toggled", "enabled", enabled)
}

func (m *Model) armCmd() tea.Cmd {
	if m.audio == nil || !m.recordAudio || m.arming || m.micState != audio.StateIdle {
		return nil
	}
	m.arming = true
	ctrl, ctx := m.audio, m.ctx
	return func() tea.Msg {
		return armedMsg{state: ctrl.Arm(ctx)}
	}
}

func (m *Model) play() tea.Cmd {
	if m.playing {
		m.stopPlaying()
		return nil
	}
	if m.last == nil || m.player == nil {
		return nil
	}
	if m.last.bundle.Audio.Empty() {
		m.notice = review.ErrNoAudio.Error()
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.stopPlayback = cancel
	m.playing = true
	player, artifact := m.player, m.last.bundle.Audio
	return func() tea.Msg {
		return playbackDoneMsg{err: player.Play(ctx, artifact)}
	}
}

func (m *Model) stopPlaying() {
	if m.stopPlayback != nil {
		m.stopPlayback()
		m.stopPlayback = nil
	}
	m.playing = false
}

func (m *Model) generate() []string {
	return m.gen.Generate(m.words, generator.Options{
		Count:    m.config.Words,
		CapsPct:  m.config.CapsPct,
		PunctPct: m.config.PunctPct,
		PunctSet: m.punctSet,
	})
}

func (m *Model) currentView() view {
	switch {
	case m.palette.visible:
		return viewPalette
	case m.showResult:
		return viewResult
	default:
		return viewTyping
	}
}

func (m *Model) syncKeys() {
	m.keys.forView(m.currentView())
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	var content string
	switch m.currentView() {
	case viewPalette:
		content = m.palette.view()
	case viewResult:
		content = m.renderResult()
	default:
		content = m.renderText()
	}
	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 2
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, header)
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return headerLine + "\n" + body + "\n" + footerLine
}

func (m *Model) renderText() string {
	styled := buildStyledRunes(textState{
		words:   m.test.Words(),
		history: m.test.History(),
		index:   m.test.Index(),
		current: m.test.Current(),
	})
	if m.width == 0 {
		return renderStyledRunes(styled)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	return lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
}

func (m *Model) renderHeader() string {
	remaining := m.countdown.Remaining()
	if !m.countdown.Active() {
		remaining = m.countdown.Duration()
	}
	segments := []string{headerStyle.Render(fmt.Sprintf("%ds", int(remaining.Round(time.Second).Seconds())))}

	mic := "off"
	switch {
	case m.audio == nil:
		mic = "unavailable"
	case !m.recordAudio:
	case m.arming:
		mic = "requesting"
	default:
		mic = string(m.audio.State())
	}
	micSegment := "mic " + mic
	if m.audio != nil && m.audio.State() == audio.StateRecording {
		micSegment = recordingStyle.Render("● " + micSegment)
	}
	segments = append(segments, micSegment)

	keys := "off"
	if m.capture.Recording() {
		keys = "on"
	}
	segments = append(segments, "keys "+keys)
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Progress %d%%", int(m.test.Progress()*100))}
	if m.last != nil {
		res := statsPkg.BundleMetrics(m.last.bundle, m.last.correct, m.last.incorrect)
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", res.WPM, res.Accuracy*100))
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	segments = append(segments, m.help.View(m.keys))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderResult() string {
	if m.last == nil {
		return ""
	}
	var b strings.Builder
	_ = statsPkg.RenderBundle(&b, m.last.bundle, m.last.correct, m.last.incorrect)
	if m.playing {
		b.WriteString("Playing audio...\n")
	}
	b.WriteString("\n")
	summary := statsPkg.SummarizeKeys(m.last.bundle.KeyEvents)
	if len(summary) > 5 {
		summary = summary[:5]
	}
	_ = statsPkg.RenderKeySummary(&b, summary)
	b.WriteString("\n")
	_ = statsPkg.RenderTimeline(&b, m.last.bundle.KeyEvents, timelineRows)
	return strings.TrimRight(b.String(), "\n")
}
