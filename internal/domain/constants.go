package domain

// Default configuration values
const (
	DefaultTurnaroundWorkingDays  = 2
	DefaultTurnaroundLookbackDays = 62
)

// Business validation constants
const (
	MinTurnaroundWorkingDays = 0
	MaxTurnaroundWorkingDays = 30
	MaxCRNLength             = 16
	MaxNotesLength           = 1000
	MaxReasonLength          = 255
	MaxSearchRangeDays       = 366
	MaxSearchBedspaces       = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
