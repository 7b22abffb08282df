package web

// clientMsg is one browser event. Type selects which fields are meaningful:
//
//	hello    url, width, height (first message)
//	key      key, inTextField
//	pointer  phase (down|move|up|cancel), pointerId, pointerType, x, y, pressure, hasPressure
//	click    slide
//	tool     tool (pen|eraser)
//	resize   width, height
//	log      message
type clientMsg struct {
	Type string `json:"type"`

	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`

	Key         string `json:"key,omitempty"`
	InTextField bool   `json:"inTextField,omitempty"`

	Phase       string  `json:"phase,omitempty"`
	PointerID   int     `json:"pointerId,omitempty"`
	PointerType string  `json:"pointerType,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	Pressure    float64 `json:"pressure,omitempty"`
	HasPressure bool    `json:"hasPressure,omitempty"`

	Slide int    `json:"slide,omitempty"`
	Tool  string `json:"tool,omitempty"`

	Message string `json:"message,omitempty"`
}

// serverMsg is one view update for the page.
type serverMsg struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type readyData struct {
	Session string `json:"session"`
	Total   int    `json:"total"`
}

type showData struct {
	Active int `json:"active"`
	Prev   int `json:"prev"`
}

type overviewData struct {
	On bool `json:"on"`
}

type replaceData struct {
	URL string `json:"url"`
}

type themeData struct {
	Dark bool `json:"dark"`
}

type captureData struct {
	PointerID int `json:"pointerId"`
}

type toolData struct {
	Tool   string `json:"tool"`
	Active bool   `json:"active"`
}

type keysData struct {
	Pending string `json:"pending"`
}

// inkData replaces a rectangle of the page's ink canvas with a PNG patch.
type inkData struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"w"`
	Height int    `json:"h"`
	PNG    []byte `json:"png"`
}
