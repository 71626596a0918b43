package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/partyledger/internal/ledger/domain"
)

// ErrBoundOrder indicates a range whose start is not strictly below its end.
var ErrBoundOrder = errors.New("start ID must be lower than end ID")

// RangeError reports a selection term outside the viewer-visible queue. The
// literal is the 1-based id the viewer typed.
type RangeError struct {
	Literal string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%q is an invalid ID", e.Literal)
}

// ResolveSelection translates a selection expression into sorted global
// pending-queue indices scoped to what the viewer may see.
//
// The expression is a comma-separated list of terms: the literal `last`
// (highest-numbered visible item), the literal `all` (every visible item), a
// single 1-based id, or an inclusive range `start-end` with start strictly
// below end. Ids are positions within the viewer-visible sublist; resolved
// positions are deduplicated and mapped back to indices in the full queue.
func ResolveSelection(expression string, campaign *domain.Campaign, viewerID int64) ([]int, error) {
	visible := campaign.VisiblePending(viewerID)

	positions, err := resolvePositions(expression, len(visible))
	if err != nil {
		return nil, err
	}

	selected := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		selected[p] = struct{}{}
	}

	// Second pass: count visible items in queue order to recover the
	// global index of each selected visible position.
	var global []int
	position := 0
	for index, tx := range campaign.Pending {
		if !campaign.VisibleTo(tx, viewerID) {
			continue
		}
		if _, ok := selected[position]; ok {
			global = append(global, index)
		}
		position++
	}
	sort.Ints(global)
	return global, nil
}

// resolvePositions evaluates the expression against 0-based positions in a
// visible sublist of the given length.
func resolvePositions(expression string, visibleLen int) ([]int, error) {
	var positions []int
	seen := make(map[int]struct{})
	add := func(p int) {
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			positions = append(positions, p)
		}
	}

	for _, term := range strings.Split(expression, ",") {
		term = strings.TrimSpace(term)
		switch term {
		case "last":
			if visibleLen > 0 {
				add(visibleLen - 1)
			}
			continue
		case "all":
			for p := 0; p < visibleLen; p++ {
				add(p)
			}
			continue
		}

		bounds := strings.Split(term, "-")
		switch len(bounds) {
		case 1:
			id, literal, err := parseID(bounds[0])
			if err != nil {
				return nil, err
			}
			if id < 1 || id > visibleLen {
				return nil, &RangeError{Literal: literal}
			}
			add(id - 1)
		case 2:
			start, startLit, err := parseID(bounds[0])
			if err != nil {
				return nil, err
			}
			end, endLit, err := parseID(bounds[1])
			if err != nil {
				return nil, err
			}
			// Bound order is checked before bounds so "5-2" reports the
			// ordering problem, not an out-of-range id.
			if start >= end {
				return nil, fmt.Errorf("%w: %s", ErrBoundOrder, term)
			}
			if start < 1 {
				return nil, &RangeError{Literal: startLit}
			}
			if end > visibleLen {
				return nil, &RangeError{Literal: endLit}
			}
			for p := start - 1; p <= end-1; p++ {
				add(p)
			}
		default:
			return nil, fmt.Errorf("%w: malformed selection %q", ErrSyntax, term)
		}
	}
	return positions, nil
}

// parseID parses a 1-based id literal, returning the trimmed literal for
// error reporting.
func parseID(literal string) (int, string, error) {
	literal = strings.TrimSpace(literal)
	id, err := strconv.Atoi(literal)
	if err != nil {
		return 0, literal, fmt.Errorf("%w: %q is not an ID", ErrSyntax, literal)
	}
	return id, literal, nil
}
