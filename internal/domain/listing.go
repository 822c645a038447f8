package domain

// Listing is one property offer as reported by the feed, identified by a
// stable key. Numeric fields the feed may omit or garble are pointers so
// that "absent" is distinguishable from zero; they are validated once at
// the ingestion boundary.
type Listing struct {
	Key        string // stable feed identifier, unique within a snapshot
	Address    string
	Community  string
	County     string
	Model      string
	Price      string // digits and decimal point only, "" when missing
	Bedrooms   *int
	Baths      *float64
	SquareFeet *int
	Garage     string // amenity flag as reported
	Pool       string // amenity flag as reported
	Latitude   *float64
	Longitude  *float64
	Status     Status
	SaleType   SaleType
	MediaID    string // optional video reference
	FeedNumber string // human-facing listing number
}

// Snapshot is the immutable, dated set of listings that passed the
// sale-type and status filter on one calendar day. Keys are unique.
type Snapshot struct {
	Date     Date
	Listings []*Listing
}

// Index returns the snapshot's listings keyed by listing key.
func (s *Snapshot) Index() map[string]*Listing {
	idx := make(map[string]*Listing, len(s.Listings))
	for _, l := range s.Listings {
		idx[l.Key] = l
	}
	return idx
}

// Keys returns the set of listing keys in the snapshot.
func (s *Snapshot) Keys() map[string]struct{} {
	keys := make(map[string]struct{}, len(s.Listings))
	for _, l := range s.Listings {
		keys[l.Key] = struct{}{}
	}
	return keys
}
