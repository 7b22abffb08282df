package ink

// Tool is the active drawing tool.
type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolEraser:
		return "eraser"
	default:
		return "pen"
	}
}

func ParseTool(s string) (Tool, bool) {
	switch s {
	case "pen":
		return ToolPen, true
	case "eraser":
		return ToolEraser, true
	}
	return ToolPen, false
}

// ToolState is the active tool plus the drawing-mode switch.
// It is independent of the slide position.
type ToolState struct {
	tool   Tool
	active bool
}

func (s *ToolState) Tool() Tool   { return s.tool }
func (s *ToolState) Active() bool { return s.active }

// SetTool selects t and enables drawing mode. Selecting the tool that is
// already active while drawing mode is on turns drawing mode off instead.
func (s *ToolState) SetTool(t Tool) {
	if s.active && s.tool == t {
		s.active = false
		return
	}
	s.tool = t
	s.active = true
}
