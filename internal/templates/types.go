package templates

const AppTitle = "Match Momentum | RCI Viewer"

// Option is one entry of a select widget.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

type LegendEntry struct {
	Icon    string
	Meaning string
}

// Legend explains the event markers drawn on the chart.
var Legend = []LegendEntry{
	{Icon: "⚽", Meaning: "Goal"},
	{Icon: "●", Meaning: "Shot on target"},
	{Icon: "×", Meaning: "Shot off target"},
}

type PageData struct {
	HasLeague bool
	Leagues   []Option
	Teams     []Option
	Matches   []Option

	Sigma    int
	SigmaMin int
	SigmaMax int

	// Notice is informational, Error stops the page before the match select.
	Notice string
	Error  string

	Show        bool
	ChartError  string
	Heading     string
	ChartURL    string
	DownloadURL string
}
