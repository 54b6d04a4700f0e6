package chat

import (
	"slices"
)

// Position is the place of a message inside a run of messages from the same sender.
type Position int

const (
	Single Position = iota
	First
	Between
	Last
)

func (p Position) String() string {
	switch p {
	case First:
		return "first"
	case Between:
		return "between"
	case Last:
		return "last"
	default:
		return "single"
	}
}

// Cell is a message with its grouping label, ready to render.
type Cell struct {
	Message  Message
	Position Position
}

// Sort orders messages by SentAt; equal timestamps keep their arrival order.
func Sort(messages []Message) []Message {
	sorted := slices.Clone(messages)
	slices.SortStableFunc(sorted, func(a, b Message) int {
		return a.SentAt.Compare(b.SentAt)
	})
	return sorted
}

// Group labels already ordered messages. A run of one is single, longer runs are
// first, between..., last.
//
// The label of message i is decided once message i+1 is known:
//
//	prev \ next       same sender   other sender / end
//	single, last      first         single
//	first, between    between       last
func Group(messages []Message) []Cell {
	cells := make([]Cell, len(messages))
	prev := Single
	for i, msg := range messages {
		sameAsNext := i+1 < len(messages) && messages[i+1].Sender.Equal(msg.Sender)
		cells[i] = Cell{Message: msg, Position: next(prev, sameAsNext)}
		prev = cells[i].Position
	}
	return cells
}

func next(prev Position, sameAsNext bool) Position {
	open := prev == First || prev == Between
	switch {
	case open && sameAsNext:
		return Between
	case open:
		return Last
	case sameAsNext:
		return First
	default:
		return Single
	}
}
