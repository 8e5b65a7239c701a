package models

// Category classifies a split for spending reports.
type Category string

const (
	CategoryRestaurant    Category = "Restaurant"
	CategoryGrocery       Category = "Grocery"
	CategoryEntertainment Category = "Entertainment"
	CategoryUtilities     Category = "Utilities"
	CategoryOther         Category = "Other"
)

// Uncategorized is the reporting bucket for splits with no category set.
const Uncategorized = "Uncategorized"

// ParticipantSource records where a participant came from. It is
// presentation metadata only and never affects calculations.
type ParticipantSource string

const (
	SourceFriend ParticipantSource = "friend"
	SourceTemp   ParticipantSource = "temp"
)

const (
	// MeParticipantID is the reserved participant id for the current user.
	MeParticipantID = "me"

	// MeParticipantName is the display name used for the "me" participant.
	MeParticipantName = "Me"
)

// ItemAssignment records that a participant takes a weighted number of
// shares of one item. Shares are whole numbers in practice but the
// engine does not require that.
type ItemAssignment struct {
	ParticipantID string  `json:"participantId"`
	Shares        float64 `json:"shares"`
}

// Item is a single receipt line. Its total cost is PriceInCents * Quantity.
type Item struct {
	// ID is unique within a split.
	ID string `json:"id"`

	// Name is the display label. Empty names render as "Unnamed item".
	Name string `json:"name"`

	// PriceInCents is the unit price.
	PriceInCents int64 `json:"priceInCents"`

	Quantity int64 `json:"quantity"`

	// Assignments holds at most one entry per participant in practice,
	// though duplicates are tolerated (shares are summed).
	Assignments []ItemAssignment `json:"assignments"`
}

// Participant is one person on a split.
type Participant struct {
	// ID is unique within a split. The reserved id "me" denotes the
	// current user.
	ID string `json:"id"`

	Name string `json:"name"`

	Source ParticipantSource `json:"source,omitempty"`
}

// Split is the aggregate root: a receipt being divided among participants.
type Split struct {
	ID string `json:"id"`

	Name string `json:"name"`

	// CreatedAt and UpdatedAt are Unix timestamps in milliseconds.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`

	// Items is an ordered sequence; order is preserved by storage.
	Items []Item `json:"items"`

	Participants []Participant `json:"participants"`

	// TaxInCents and TipInCents apply to the whole receipt and are
	// allocated proportionally to each participant's item costs.
	TaxInCents int64 `json:"taxInCents"`
	TipInCents int64 `json:"tipInCents"`

	// Category is empty when the split is uncategorized.
	Category Category `json:"category,omitempty"`

	// ExcludeMe marks that the current user is not a financial
	// participant. When false, the split must contain the "me"
	// participant; Normalize enforces this.
	ExcludeMe bool `json:"excludeMe"`
}

// Normalize enforces the "me" participant rule: when ExcludeMe is false
// the split has exactly one participant with id "me" (prepended if
// missing), and when true it has none. The owning layer applies this on
// every load and save; the calculation engine tolerates either state.
func (s *Split) Normalize() {
	hasMe := false
	for _, p := range s.Participants {
		if p.ID == MeParticipantID {
			hasMe = true
			break
		}
	}

	switch {
	case !s.ExcludeMe && !hasMe:
		participants := make([]Participant, 0, len(s.Participants)+1)
		participants = append(participants, Participant{ID: MeParticipantID, Name: MeParticipantName})
		s.Participants = append(participants, s.Participants...)
	case s.ExcludeMe && hasMe:
		participants := make([]Participant, 0, len(s.Participants))
		for _, p := range s.Participants {
			if p.ID != MeParticipantID {
				participants = append(participants, p)
			}
		}
		s.Participants = participants
	}
}
