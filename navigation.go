package main

// handlePan moves the camera from the keyboard. Moving the view left means
// shifting the world right, hence the sign flip.
func (m *model) handlePan(key string, speed int) {
	var delta point
	switch key {
	case "h", "left", "H", "shift+left":
		delta.X = float64(speed) * cellWidth
	case "l", "right", "L", "shift+right":
		delta.X = -float64(speed) * cellWidth
	case "k", "up", "K", "shift+up":
		delta.Y = float64(speed) * cellHeight
	case "j", "down", "J", "shift+down":
		delta.Y = -float64(speed) * cellHeight
	}
	m.board.Pan(delta)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 2
	}
}

func (m *model) screenSize() size {
	return size{
		W: float64(max(m.width, 1)) * cellWidth,
		H: float64(max(m.canvasHeight(), 1)) * cellHeight,
	}
}

func (m *model) screenCenter() point {
	s := m.screenSize()
	return point{s.W / 2, s.H / 2}
}

// canvasHeight leaves the last row for the status line.
func (m *model) canvasHeight() int {
	return max(m.height-1, 1)
}
