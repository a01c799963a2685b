package schema

// FigureDescription is the structured record produced by the figure
// interpretation workflow. FigureNumber is assigned by the orchestration
// layer from the current figure store size, never trusted from model output,
// so numbering stays monotonic and collision free.
type FigureDescription struct {
	FigureNumber int    `json:"figure_number"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}
