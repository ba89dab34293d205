package plotly

// Figure is the subset of the plotly.js figure schema the renderer emits. It
// marshals to the {"data": [...], "layout": {...}} document plotly.js accepts.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type          string    `json:"type"`
	Name          string    `json:"name,omitempty"`
	Mode          string    `json:"mode,omitempty"`
	X             []string  `json:"x"`
	Y             []float64 `json:"y"`
	Text          []string  `json:"text,omitempty"`
	TextPosition  string    `json:"textposition,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	Line          *Line     `json:"line,omitempty"`
	Marker        *Marker   `json:"marker,omitempty"`
	OffsetGroup   string    `json:"offsetgroup,omitempty"`
}

type Line struct {
	Color     string  `json:"color,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Shape     string  `json:"shape,omitempty"`
	Smoothing float64 `json:"smoothing,omitempty"`
}

type Marker struct {
	Color string  `json:"color,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

type Layout struct {
	Title        Title  `json:"title"`
	Height       int    `json:"height"`
	BarMode      string `json:"barmode,omitempty"`
	PaperBgColor string `json:"paper_bgcolor"`
	PlotBgColor  string `json:"plot_bgcolor"`
	Font         Font   `json:"font"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
	Margin       Margin `json:"margin"`
	HoverMode    string `json:"hovermode"`
	Legend       Legend `json:"legend"`
}

type Title struct {
	Text string `json:"text"`
}

type Font struct {
	Color  string `json:"color,omitempty"`
	Family string `json:"family,omitempty"`
}

type Axis struct {
	Title      Title     `json:"title"`
	FixedRange bool      `json:"fixedrange"`
	ShowGrid   bool      `json:"showgrid"`
	GridColor  string    `json:"gridcolor,omitempty"`
	Range      []float64 `json:"range,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	T int `json:"t"`
	R int `json:"r"`
	B int `json:"b"`
}

type Legend struct {
	Title Title `json:"title"`
}
