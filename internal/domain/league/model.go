package league

import (
	"fmt"
	"time"
)

// League is a competition mirrored from the federation service. The local
// ID never changes once created; ExternalID is the federation's league id.
type League struct {
	ID           string
	ExternalID   string
	Name         string
	Season       string
	AgeCategory  string
	LastSyncedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.ExternalID == "" {
		return fmt.Errorf("league external id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Season == "" {
		return fmt.Errorf("league season is required")
	}

	return nil
}
