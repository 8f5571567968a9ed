package services

// HintPrices is the passcode-point price of the hint at each reveal index.
var HintPrices = [MaxHints]int{0, 10, 10, 15, 15, 15, 20, 20, 25, 30}

// MaxHints is the number of hints a sophomore can have revealed.
const MaxHints = 10

// NextPrice returns the price of the next reveal after revealed hints. ok is
// false once every hint is revealed.
func NextPrice(revealed int) (price int, ok bool) {
	if revealed < 0 || revealed >= MaxHints {
		return 0, false
	}
	return HintPrices[revealed], true
}

// SpentPoints is the total price of the first revealed hints.
func SpentPoints(revealed int) int {
	if revealed > MaxHints {
		revealed = MaxHints
	}
	total := 0
	for i := 0; i < revealed; i++ {
		total += HintPrices[i]
	}
	return total
}
