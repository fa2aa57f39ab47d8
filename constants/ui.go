package constants

// HUD layout
const (
	// HUDRows is the number of terminal rows reserved below the road
	HUDRows = 1

	// ProgressBarWidth is the cell width of the cycle progress bar
	ProgressBarWidth = 20

	// MinScreenWidth and MinScreenHeight are the smallest terminal that renders the car
	MinScreenWidth  = 20
	MinScreenHeight = 4
)
