// Negotiation protocol — recursive bilateral bargaining between a buyer
// and a seller. Each round either concedes toward the parties' hard
// bounds or shrinks the order, so the recursion always terminates within
// about log2(amount)+2 rounds.
package engine

import "boxlands/internal/agents"

// Offer is the terms carried into one negotiation round. Final offers
// admit no further price concession: the round's outcome is decisive.
type Offer struct {
	Amount    int
	UnitPrice float64
	Final     bool
}

// Outcome is the immutable result of a negotiation. A rejected outcome
// is a normal bargaining result, not an error: the initiator goes idle
// and retries after its cooldown.
type Outcome struct {
	Accepted   bool
	Amount     int
	TotalPrice float64
	Rounds     int
}

// Negotiate runs the bargaining protocol for a proposed order of amount
// units at unitPrice each. It is a pure function of the two parties'
// pricing state: no mutation, no shared aliasing across rounds.
func Negotiate(buyer, seller *agents.Citizen, amount int, unitPrice float64) Outcome {
	return negotiateRound(buyer, seller, Offer{Amount: amount, UnitPrice: unitPrice}, 1)
}

func negotiateRound(buyer, seller *agents.Citizen, offer Offer, round int) Outcome {
	rejected := Outcome{Rounds: round}

	if offer.Amount <= 0 {
		return rejected
	}

	// Supply guard: shrink the order until the seller can fill it. With a
	// single box left the retry is a final round — take it or leave it.
	if offer.Amount > seller.Boxes {
		switch {
		case seller.Boxes > 1:
			return negotiateRound(buyer, seller,
				Offer{Amount: offer.Amount / 2, UnitPrice: offer.UnitPrice}, round+1)
		case seller.Boxes == 1:
			return negotiateRound(buyer, seller,
				Offer{Amount: 1, UnitPrice: offer.UnitPrice, Final: true}, round+1)
		default:
			return rejected
		}
	}

	floor := seller.MinSellingPrice()
	ceiling := buyer.MaxBuyingPrice()
	amount := float64(offer.Amount)

	// Price framing: a non-final round drafts the fair price halfway
	// between the seller's floor and the offer. A final round takes the
	// offered price verbatim.
	total := amount * offer.UnitPrice
	if !offer.Final {
		fair := floor + (offer.UnitPrice-floor)/2
		total = amount * fair
	}

	// Affordability: first shrink the order, then let the seller put its
	// true floor on the table as a last, zero-margin offer.
	if !buyer.CanPay(total) {
		if offer.Amount > 1 {
			return negotiateRound(buyer, seller,
				Offer{Amount: offer.Amount / 2, UnitPrice: offer.UnitPrice}, round+1)
		}
		total = floor * amount
		if !buyer.CanPay(total) {
			return rejected
		}
	}

	// Mutual worth: a fixed price outside either party's hard bound kills
	// a final round outright; otherwise the violated bound becomes the
	// unit price of one last, decisive round.
	if total > amount*ceiling {
		if offer.Final {
			return rejected
		}
		return negotiateRound(buyer, seller,
			Offer{Amount: offer.Amount, UnitPrice: ceiling, Final: true}, round+1)
	}
	if total < amount*floor {
		if offer.Final {
			return rejected
		}
		return negotiateRound(buyer, seller,
			Offer{Amount: offer.Amount, UnitPrice: floor, Final: true}, round+1)
	}

	return Outcome{Accepted: true, Amount: offer.Amount, TotalPrice: total, Rounds: round}
}
