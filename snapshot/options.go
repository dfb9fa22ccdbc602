package snapshot

// Options configures rendering parameters.
type Options struct {
	Width        int      // canvas width (px)
	Height       int      // canvas height (px)
	MarkerRadius int      // player marker radius (px)
	FontSize     int      // font size for name labels (px)
	FontFamily   string   // font family for labels
	Title        string   // formation name for title
	PitchColor   string   // field fill color
	LineColor    string   // pitch line color
	MarkerColor  string   // default marker fill color
	NameColor    string   // name label color
}

// DefaultOptions returns the rendering parameters used when opts is nil.
// The canvas matches the pitch frame of the interactive view.
func DefaultOptions() *Options {
	return &Options{
		Width:        450,
		Height:       650,
		MarkerRadius: 25,
		FontSize:     14,
		FontFamily:   "sans-serif",
		PitchColor:   "#2e7d32",
		LineColor:    "#ffffff",
		MarkerColor:  "#ffffff",
		NameColor:    "#ffffff",
	}
}
