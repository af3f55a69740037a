package types

type PlacePartType int

const (
	PlacePartAddress PlacePartType = iota + 1
)

type PlacePart struct {
	ID       int64
	PlaceID  int64
	Type     PlacePartType
	Val      string
	Sequence int
}

type Place struct {
	ID      int64
	Date1ID int64
	Parts   []PlacePart
}

// Address returns the first address part, or "".
func (p Place) Address() string {
	for _, part := range p.Parts {
		if part.Type == PlacePartAddress {
			return part.Val
		}
	}
	return ""
}
