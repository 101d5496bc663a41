package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"

	"github.com/nihei9/lrgen/grammar/symbol"
)

// lrItem is an LR(1) item. Items are values and compare structurally.
//
// E → E + T
//
// Mark | Marked Symbol | Item
// -----+---------------+------------
// 0    | E             | E →・E + T
// 1    | +             | E → E・+ T
// 2    | T             | E → E +・T
// 3    | Nil           | E → E + T・
type lrItem struct {
	rule      int
	mark      int
	lookahead symbol.Symbol
}

func (i lrItem) less(j lrItem) bool {
	if i.rule != j.rule {
		return i.rule < j.rule
	}
	if i.mark != j.mark {
		return i.mark < j.mark
	}
	return i.lookahead < j.lookahead
}

// markedSymbol returns the symbol following the mark, or symbol.Nil when the item is reducible.
func (i lrItem) markedSymbol(rules *ruleSet) symbol.Symbol {
	rule, ok := rules.findByNum(i.rule)
	if !ok || i.mark >= len(rule.RHS) {
		return symbol.Nil
	}
	return rule.RHS[i.mark]
}

func (i lrItem) isKernel() bool {
	return i.mark > 0 || i.rule == ruleNumStart
}

func (i lrItem) String() string {
	return fmt.Sprintf("[%v, %v, %v]", i.rule, i.mark, i.lookahead)
}

type itemSetID [32]byte

func (id itemSetID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// itemSet is a sorted set of items. Two sets share an ID exactly when they hold the same items.
type itemSet struct {
	id    itemSetID
	items []lrItem
}

func newItemSet(items []lrItem) (*itemSet, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("an item set needs at least one item")
	}

	sorted := make([]lrItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].less(sorted[j])
	})
	uniq := sorted[:1]
	for _, item := range sorted[1:] {
		if item != uniq[len(uniq)-1] {
			uniq = append(uniq, item)
		}
	}

	b := make([]byte, 0, len(uniq)*(2*binary.MaxVarintLen64+2))
	for _, item := range uniq {
		b = binary.AppendUvarint(b, uint64(item.rule))
		b = binary.AppendUvarint(b, uint64(item.mark))
		b = append(b, item.lookahead.Byte()...)
	}

	return &itemSet{
		id:    sha256.Sum256(b),
		items: uniq,
	}, nil
}

func (s *itemSet) kernel() []lrItem {
	var k []lrItem
	for _, item := range s.items {
		if item.isKernel() {
			k = append(k, item)
		}
	}
	return k
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

// lrState is a closed item set and its transitions on terminals and non-terminals.
type lrState struct {
	*itemSet
	num  stateNum
	next map[symbol.Symbol]stateNum
}
