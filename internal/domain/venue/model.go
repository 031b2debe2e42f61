package venue

import "fmt"

type Venue struct {
	ID         string
	Name       string
	Street     string
	PostalCode string
	City       string
}

func (v Venue) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("venue id is required")
	}
	if v.Name == "" {
		return fmt.Errorf("venue name is required")
	}

	return nil
}
