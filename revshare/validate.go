package revshare

import "fmt"

// ValidateConservation checks that the split moves exactly the total: no
// token is created or destroyed by a sale.
func ValidateConservation(s Split) error {
	sum := s.Distributor + s.Author
	if sum < s.Distributor || sum != s.Total {
		return fmt.Errorf("%w: distributor=%d author=%d total=%d",
			ErrShareConservationViolation, s.Distributor, s.Author, s.Total)
	}
	return nil
}
