package phh

import (
	"strings"

	"github.com/paulhankin/poker"
)

var cardNames = func() map[poker.Card]string {
	const ranks = "A23456789TJQK"
	suits := []struct {
		suit poker.Suit
		name byte
	}{{poker.Club, 'c'}, {poker.Diamond, 'd'}, {poker.Heart, 'h'}, {poker.Spade, 's'}}

	names := make(map[poker.Card]string, 52)
	for _, s := range suits {
		for r := 1; r <= 13; r++ {
			c, err := poker.MakeCard(s.suit, poker.Rank(r))
			if err != nil {
				panic(err)
			}
			names[c] = string([]byte{ranks[r-1], s.name})
		}
	}
	return names
}()

// CardString renders a card in PHH notation (e.g. Th, As).
func CardString(c poker.Card) string {
	if name, ok := cardNames[c]; ok {
		return name
	}
	return "??"
}

// CardsString concatenates cards the way PHH deal actions list them.
func CardsString(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(CardString(c))
	}
	return b.String()
}
