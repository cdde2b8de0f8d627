package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := openBlobStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	defer store.Close()

	board := NewBoard(store, WithStorageKey(cfg.Storage.Key), WithLogger(logger))
	board.Load(ctx)

	var p *tea.Program
	var trail *trailRunner
	if cfg.Trail.Enabled {
		trail = newTrailRunner(trailLength, cfg.Trail.FrameRate, func() {
			p.Send(trailFrameMsg{})
		})
	}

	p = tea.NewProgram(
		initialModel(board, cfg, logger, trail),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if trail != nil {
		trail.Start(ctx)
		defer trail.Stop()
	}

	logger.Info("starting", zap.String("driver", cfg.Storage.Driver), zap.String("key", cfg.Storage.Key))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// trailFrameMsg asks for a repaint after the trail advanced.
type trailFrameMsg struct{}

func initialModel(board *Board, cfg *Config, logger *zap.Logger, trail *trailRunner) model {
	return model{
		board:         board,
		trail:         trail,
		config:        cfg,
		logger:        logger,
		mode:          ModeNormal,
		now:           time.Now,
		readClipboard: readClipboardText,
	}
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("Null Void")
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case trailFrameMsg:
		return m, nil

	case clipboardMsg:
		cmd := m.handlePastedText(msg.text, msg.err)
		return m, cmd

	case imagesPastedMsg:
		m.placeImages(msg)
		return m, nil

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd
	}
	return m, nil
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
	modeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#050505")).Background(lipgloss.Color("#34d399")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0055"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	sc := scene{
		width:   max(m.width, 1),
		height:  m.canvasHeight(),
		layouts: m.layouts(),
		view:    m.board.View(),
		pointer: m.pointer,
	}
	if m.trail != nil {
		sc.trail = m.trail.Frame()
	}
	if m.mode == ModeEditContent || m.mode == ModeEditTitle {
		sc.editID = m.edit.id
		sc.editText = m.edit.text
		sc.editCursor = m.edit.cursorPos
		sc.titleEditing = m.mode == ModeEditTitle
		sc.showCursor = true
	}

	var result strings.Builder
	for _, line := range renderScene(sc).Lines() {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) layouts() []pinLayout {
	return layoutPins(m.board.Pins(), m.board.View(), m.drag.id)
}

func (m model) statusLine() string {
	v := m.board.View()
	past, future := m.board.HistoryDepth()
	status := fmt.Sprintf(" POS: %d,%d • ZOOM: %.1fx • PINS: %d • UNDO: %d REDO: %d",
		roundHalfUp(v.Offset.X), roundHalfUp(v.Offset.Y), v.Scale, len(m.board.Pins()), past, future)

	var message string
	switch {
	case m.mode == ModeConfirm:
		message = errorStyle.Render(" Quit? (y/n)")
	case m.errorMessage != "":
		message = errorStyle.Render(" " + m.errorMessage)
	case m.successMessage != "":
		message = statusStyle.Render(" " + m.successMessage)
	case m.mode == ModeNormal:
		message = statusStyle.Render(" ? for help")
	}
	line := modeStyle.Render(m.modeString()) + statusStyle.Render(status) + message
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(line)
}

// roundHalfUp rounds ties toward positive infinity, so -10.5 shows as -10.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModePan:
		return "PAN"
	case ModeDrag:
		return "DRAG"
	case ModeEditContent:
		return "EDIT"
	case ModeEditTitle:
		return "TITLE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"Null Void Help",
	"==============",
	"",
	"Mouse:",
	"------",
	"  Wheel                 Zoom toward the pointer",
	"  Drag background       Pan the board",
	"  Double-click          Create a text pin",
	"  Drag pin header       Move the pin",
	"  Click pin title       Rename the pin (Enter to save, Esc to cancel)",
	"  Click text body       Edit the text (Esc or click elsewhere to finish)",
	"  Click ✕               Delete the pin",
	"",
	"Keyboard:",
	"---------",
	"  h/←/j/↓/k/↑/l/→       Pan the board",
	"  Shift+h/j/k/l         Pan faster",
	"  +/-                   Zoom in/out at the screen centre",
	"  n                     New text pin at the screen centre",
	"  x                     Delete the pin under the pointer",
	"  Ctrl+V                Paste images (data URLs or image file paths) or text",
	"  Ctrl+Z / u            Undo",
	"  Ctrl+Y / U            Redo",
	"  S                     Export the board as PNG",
	"  T                     Export the visible board as text",
	"  ?                     Toggle this help screen",
	"  q/Ctrl+C              Quit",
	"",
	"The board is saved automatically after every change.",
}

func (m model) helpView() string {
	visible := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visible, 0))
	end := min(start+visible, len(helpLines))
	return strings.Join(helpLines[start:end], "\n") + "\n" + statusStyle.Render("j/k to scroll, any other key to close")
}
