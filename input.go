package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// clipboardMsg carries text read from the system clipboard.
type clipboardMsg struct {
	text string
	err  error
}

func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	px := cellToScreen(msg.X, msg.Y)
	m.pointer = px
	if m.trail != nil {
		m.trail.SetPointer(px)
	}
	if m.help || m.mode == ModeConfirm {
		return nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.board.ZoomAt(px, 1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.board.ZoomAt(px, -1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y < m.canvasHeight() {
			m.pointerDown(msg.X, msg.Y, px)
		}
	case msg.Action == tea.MouseActionMotion:
		m.pointerMove(px)
	case msg.Action == tea.MouseActionRelease:
		m.pointerUp()
	}
	return nil
}

func (m *model) pointerDown(cx, cy int, px point) {
	// Pressing anywhere first blurs the field being edited and finishes a
	// drag or pan whose release never arrived.
	switch m.mode {
	case ModeEditTitle:
		m.commitTitle()
	case ModeEditContent:
		m.finishContentEdit()
	case ModeDrag, ModePan:
		m.pointerUp()
	}
	m.errorMessage, m.successMessage = "", ""

	l, region := hitTest(m.layouts(), cx, cy)
	switch {
	case region == regionClose:
		m.board.DeletePin(l.pin.ID)
	case region == regionTitle:
		title := []rune(l.pin.DisplayTitle())
		m.edit = editState{id: l.pin.ID, text: string(title), cursorPos: len(title)}
		m.mode = ModeEditTitle
	case region == regionHeader:
		m.drag = dragState{
			id:      l.pin.ID,
			grab:    px,
			origin:  l.pin.Position(),
			scale:   m.board.View().Scale,
			gesture: m.board.BeginGesture(),
		}
		m.mode = ModeDrag
	case region == regionBody && l.pin.Kind == PinText:
		content := []rune(l.pin.Content)
		m.edit = editState{
			id:        l.pin.ID,
			text:      string(content),
			cursorPos: len(content),
			gesture:   m.board.BeginGesture(),
		}
		m.mode = ModeEditContent
	default:
		m.backgroundDown(cx, cy, px)
	}
}

// backgroundDown starts a pan, or creates a text pin when it completes a
// double click on the same cell.
func (m *model) backgroundDown(cx, cy int, px point) {
	now := m.now()
	last := m.lastClick
	m.lastClick = clickState{cellX: cx, cellY: cy, at: now}
	if !last.at.IsZero() && last.cellX == cx && last.cellY == cy && now.Sub(last.at) <= doubleClickWindow {
		m.lastClick = clickState{}
		id := m.board.CreatePin(newPin{Kind: PinText, Pos: toWorld(px, m.board.View())})
		m.logger.Debug("double click create", zap.String("pin_id", id))
		return
	}
	m.pan = panState{last: px}
	m.mode = ModePan
}

func (m *model) pointerMove(px point) {
	switch m.mode {
	case ModeDrag:
		// The offset is fixed by the viewport at press time; zooming and
		// dragging never overlap.
		pos := m.drag.origin.Add(px.Sub(m.drag.grab).Div(m.drag.scale))
		m.dragGesture().MovePin(m.drag.id, pos)
	case ModePan:
		m.board.Pan(px.Sub(m.pan.last))
		m.pan.last = px
	}
}

func (m *model) pointerUp() {
	switch m.mode {
	case ModeDrag:
		m.drag.gesture.End()
		m.drag = dragState{}
		m.mode = ModeNormal
	case ModePan:
		m.pan = panState{}
		m.mode = ModeNormal
	}
}

// dragGesture returns the drag's gesture, reopening it if another action
// closed it mid-drag. A drag whose pin is gone is released and yields nil.
func (m *model) dragGesture() *Gesture {
	if _, ok := m.board.Pin(m.drag.id); !ok {
		m.releaseGestures()
		return nil
	}
	if !m.drag.gesture.Active() {
		m.drag.gesture = m.board.BeginGesture()
	}
	return m.drag.gesture
}

func (m *model) editGesture() *Gesture {
	if !m.edit.gesture.Active() {
		m.edit.gesture = m.board.BeginGesture()
	}
	return m.edit.gesture
}

// releaseGestures drops any drag, pan or edit in progress without further
// mutation.
func (m *model) releaseGestures() {
	switch m.mode {
	case ModeDrag:
		m.drag.gesture.End()
	case ModeEditContent:
		m.edit.gesture.End()
	}
	m.drag = dragState{}
	m.pan = panState{}
	m.edit = editState{}
	m.mode = ModeNormal
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.help {
		switch msg.String() {
		case "j", "down":
			m.helpScroll++
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		default:
			m.help = false
			m.helpScroll = 0
		}
		return nil
	}

	if msg.Paste {
		return m.handlePastedText(string(msg.Runes), nil)
	}

	switch m.mode {
	case ModeConfirm:
		if msg.String() == "y" || msg.String() == "Y" {
			return tea.Quit
		}
		m.mode = ModeNormal
		return nil
	case ModeEditTitle:
		return m.handleTitleKey(msg)
	case ModeEditContent:
		return m.handleContentKey(msg)
	}

	key := msg.String()
	switch key {
	case "ctrl+z", "u":
		m.releaseGestures()
		m.board.Undo()
	case "ctrl+y", "U":
		m.releaseGestures()
		m.board.Redo()
	case "h", "left", "H", "shift+left",
		"l", "right", "L", "shift+right",
		"k", "up", "K", "shift+up",
		"j", "down", "J", "shift+down":
		m.handlePan(key, m.getMoveSpeed(key))
	case "+", "=":
		m.board.ZoomAt(m.screenCenter(), 1)
	case "-", "_":
		m.board.ZoomAt(m.screenCenter(), -1)
	case "n":
		m.createCenteredPin(newPin{Kind: PinText, Size: size{defaultPinWidth, defaultPinHeight}})
	case "x", "delete":
		cx, cy := screenToCell(m.pointer)
		if l, region := hitTest(m.layouts(), cx, cy); region != regionNone {
			m.releaseGestures()
			m.board.DeletePin(l.pin.ID)
		}
	case "ctrl+v":
		return m.readClipboardCmd()
	case "S":
		m.export(ExportPNG)
	case "T":
		m.export(ExportVisualTXT)
	case "?":
		m.help = true
	case "q", "ctrl+c":
		if m.config != nil && m.config.Confirmations {
			m.mode = ModeConfirm
			return nil
		}
		return tea.Quit
	case "esc":
		m.errorMessage, m.successMessage = "", ""
	}
	return nil
}

func (m *model) handleTitleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.edit = editState{}
		m.mode = ModeNormal
	case tea.KeyEnter:
		m.commitTitle()
	case tea.KeyCtrlC:
		m.commitTitle()
		return m.handleKey(msg)
	case tea.KeyCtrlV:
		return m.readClipboardCmd()
	default:
		m.editKey(msg, false)
	}
	return nil
}

func (m *model) handleContentKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.finishContentEdit()
	case tea.KeyCtrlC:
		m.finishContentEdit()
		return m.handleKey(msg)
	case tea.KeyCtrlZ:
		m.releaseGestures()
		m.board.Undo()
	case tea.KeyCtrlY:
		m.releaseGestures()
		m.board.Redo()
	case tea.KeyCtrlV:
		return m.readClipboardCmd()
	default:
		if m.editKey(msg, true) {
			m.editGesture().SetContent(m.edit.id, m.edit.text)
		}
	}
	return nil
}

// editKey applies a cursor or text key to the edit buffer and reports
// whether the text changed.
func (m *model) editKey(msg tea.KeyMsg, multiline bool) bool {
	text := []rune(m.edit.text)
	pos := min(max(m.edit.cursorPos, 0), len(text))
	switch msg.Type {
	case tea.KeyLeft:
		m.edit.cursorPos = max(pos-1, 0)
		return false
	case tea.KeyRight:
		m.edit.cursorPos = min(pos+1, len(text))
		return false
	case tea.KeyHome, tea.KeyCtrlA:
		m.edit.cursorPos = 0
		return false
	case tea.KeyEnd, tea.KeyCtrlE:
		m.edit.cursorPos = len(text)
		return false
	case tea.KeyBackspace:
		if pos == 0 {
			return false
		}
		m.edit.text = string(append(text[:pos-1:pos-1], text[pos:]...))
		m.edit.cursorPos = pos - 1
		return true
	case tea.KeyDelete:
		if pos >= len(text) {
			return false
		}
		m.edit.text = string(append(text[:pos:pos], text[pos+1:]...))
		return true
	case tea.KeyEnter:
		if !multiline {
			return false
		}
		m.insertText("\n")
		return true
	case tea.KeyTab:
		m.insertText("\t")
		return true
	case tea.KeySpace:
		m.insertText(" ")
		return true
	case tea.KeyRunes:
		m.insertText(string(msg.Runes))
		return true
	}
	return false
}

func (m *model) insertText(s string) {
	text := []rune(m.edit.text)
	pos := min(max(m.edit.cursorPos, 0), len(text))
	ins := []rune(s)
	out := make([]rune, 0, len(text)+len(ins))
	out = append(out, text[:pos]...)
	out = append(out, ins...)
	out = append(out, text[pos:]...)
	m.edit.text = string(out)
	m.edit.cursorPos = pos + len(ins)
}

func (m *model) commitTitle() {
	m.board.SetTitle(m.edit.id, m.edit.text)
	m.edit = editState{}
	m.mode = ModeNormal
}

func (m *model) finishContentEdit() {
	m.edit.gesture.End()
	m.edit = editState{}
	m.mode = ModeNormal
}

func (m *model) readClipboardCmd() tea.Cmd {
	read := m.readClipboard
	return func() tea.Msg {
		text, err := read()
		return clipboardMsg{text: text, err: err}
	}
}

// handlePastedText routes pasted text: into the field being edited, to the
// image decoder when it names images, or into a new text pin.
func (m *model) handlePastedText(text string, err error) tea.Cmd {
	if err != nil {
		m.logger.Warn("clipboard read failed", zap.Error(err))
		return nil
	}
	switch m.mode {
	case ModeEditContent:
		m.insertText(cleanClipboardText(text))
		m.editGesture().SetContent(m.edit.id, m.edit.text)
		return nil
	case ModeEditTitle:
		m.insertText(strings.Join(strings.Fields(cleanClipboardText(text)), " "))
		return nil
	case ModeConfirm:
		return nil
	}

	if payloads := imagePayloads(text); len(payloads) > 0 {
		return decodeImagesCmd(payloads)
	}
	if content := strings.TrimSpace(cleanClipboardText(text)); content != "" {
		m.createCenteredPin(newPin{Kind: PinText, Content: content, Size: size{defaultPinWidth, defaultPinHeight}})
	}
	return nil
}

// placeImages turns decoded payloads into pins. Placement uses the viewport
// as it is when the decode finishes, not when the paste happened.
func (m *model) placeImages(msg imagesPastedMsg) {
	for _, err := range msg.errs {
		m.logger.Warn("image paste failed", zap.Error(err))
	}
	for _, img := range msg.images {
		m.createCenteredPin(newPin{
			Kind:    PinImage,
			Content: img.DataURL,
			Size:    fitImage(img.Width, img.Height),
		})
	}
}

// createCenteredPin creates req centred on the visible middle of the board.
func (m *model) createCenteredPin(req newPin) string {
	center := visibleCenter(m.board.View(), m.screenSize())
	req.Pos = center.Sub(point{req.Size.W / 2, req.Size.H / 2})
	return m.board.CreatePin(req)
}

func (m *model) export(kind ExportType) {
	stamp := m.now().Format("20060102-150405")
	var (
		path string
		err  error
	)
	switch kind {
	case ExportPNG:
		path = m.exportPath("nullvoid-" + stamp + ".png")
		err = exportPNG(path, m.board.Pins())
	case ExportVisualTXT:
		path = m.exportPath("nullvoid-" + stamp + ".txt")
		err = exportVisualTXT(path, m.board.Pins(), m.board.View(), m.width, m.canvasHeight())
	}
	if err != nil {
		m.logger.Warn("export failed", zap.String("path", path), zap.Error(err))
		m.errorMessage = fmt.Sprintf("Export failed: %v", err)
		m.successMessage = ""
		return
	}
	m.logger.Info("exported", zap.String("path", path))
	m.successMessage = "Exported " + path
	m.errorMessage = ""
}

func (m *model) exportPath(name string) string {
	if m.config == nil {
		return name
	}
	return m.config.GetExportPath(name)
}
