package config

// Access level bounds. Levels are a closed range; channel configuration,
// validation and synchronization all iterate over it.
const (
	MinAccessLevel = 1
	MaxAccessLevel = 4
)
