// Package model defines shared data structures.
package model

import "time"

// Defaults holds resolved values for freshly created configs, after the
// config file and command line flags have been applied.
type Defaults struct {
	Project   string
	CellLine  string
	Wellplate string
	Autofocus bool
}

// ListFilter selects stored configs.
type ListFilter struct {
	Project string
	Plate   string
	Since   *time.Time
	// Machine matches stored machine settings by handle and formatted value.
	Machine map[string]string
	Limit   int
}

// ConfigSummary describes a stored acquisition config without its document.
type ConfigSummary struct {
	ID          string
	ProjectName string
	PlateName   string
	CellLine    string
	Wellplate   string
	SpecVersion string
	Wells       int
	Channels    int
	Images      int
	Timestamp   *time.Time
	SavedAt     time.Time
}
