package domain

// Status is the lifecycle code the feed assigns to a listing.
type Status string

// StatusActive marks a listing currently offered for sale. Listings move
// to other codes (under contract, pending, sold) without leaving the raw
// feed, which is why disappearance from the filtered view alone does not
// prove removal.
const StatusActive Status = "A"

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// SaleType classifies the offer kind.
type SaleType string

// SaleTypePreOwned is the resale classification the tracker follows.
const SaleTypePreOwned SaleType = "P"

// String returns the string representation of SaleType.
func (s SaleType) String() string {
	return string(s)
}
