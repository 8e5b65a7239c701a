package models

// BreakdownItem is one display line in a participant's breakdown: this
// participant's share of a single item. Line amounts use the plain
// floor-division figure; leftover cents from remainder distribution show
// up only in the aggregate ItemsTotal, so a participant's lines may sum
// to slightly less than their ItemsTotal.
type BreakdownItem struct {
	ItemName string `json:"itemName"`
	Amount   int64  `json:"amount"`
}

// ParticipantBreakdown is the calculated result for one participant.
// All amounts are integer cents and GrandTotal is always
// ItemsTotal + TaxTotal + TipTotal.
type ParticipantBreakdown struct {
	ParticipantID   string          `json:"participantId"`
	ParticipantName string          `json:"participantName"`
	ItemsTotal      int64           `json:"itemsTotal"`
	TaxTotal        int64           `json:"taxTotal"`
	TipTotal        int64           `json:"tipTotal"`
	GrandTotal      int64           `json:"grandTotal"`
	Items           []BreakdownItem `json:"items"`
}
