package club

import "fmt"

// Club is a basketball club. Clubs discovered through league sync are
// opponents until the coach marks one as their own.
type Club struct {
	ID            string
	ExternalID    string
	Name          string
	ShortName     string
	FederationIDs []int
	IsOwn         bool
}

func (c Club) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("club id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("club name is required")
	}

	return nil
}
