package blackjack

import "github.com/louisbranch/antaria.games/internal/money"

// HandState is the serializable form of one hand.
type HandState struct {
	Cards     []Card
	Bet       money.Amount
	Status    HandStatus
	Doubled   bool
	FromSplit bool
}

// RoundState is the serializable form of an unfinished round. Settled
// rounds are never persisted.
type RoundState struct {
	ID        string
	Player    string
	Hands     []HandState
	Dealer    []Card
	Insurance money.Amount
	Active    int
	Acted     bool
}

// State snapshots the round for persistence.
func (r *Round) State() RoundState {
	st := RoundState{
		ID:        r.ID,
		Player:    r.Player,
		Dealer:    append([]Card(nil), r.Dealer...),
		Insurance: r.Insurance,
		Active:    r.active,
		Acted:     r.acted,
	}
	for _, h := range r.Hands {
		st.Hands = append(st.Hands, HandState{
			Cards:     append([]Card(nil), h.Cards...),
			Bet:       h.Bet,
			Status:    h.Status,
			Doubled:   h.Doubled,
			FromSplit: h.FromSplit,
		})
	}
	return st
}

// RestoreRound rebuilds a live round from a snapshot.
func RestoreRound(st RoundState, rules Rules) *Round {
	r := &Round{
		ID:        st.ID,
		Player:    st.Player,
		Dealer:    append([]Card(nil), st.Dealer...),
		Insurance: st.Insurance,
		rules:     rules,
		active:    st.Active,
		acted:     st.Acted,
	}
	for _, h := range st.Hands {
		r.Hands = append(r.Hands, &Hand{
			Cards:     append([]Card(nil), h.Cards...),
			Bet:       h.Bet,
			Status:    h.Status,
			Doubled:   h.Doubled,
			FromSplit: h.FromSplit,
		})
	}
	return r
}
