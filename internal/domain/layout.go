package domain

import (
	"context"
	"regexp"
	"sort"
	"strconv"
)

var seatLabelRgx = regexp.MustCompile(`^([A-Z]{1,2})(\d{1,3})$`)

// CategoryLayout describes one seat tier of a screen: the rows that belong
// to it and how many seats each of those rows has. The JSON field names
// match the persisted layout document, one document per screen.
type CategoryLayout struct {
	Rows        []string `json:"rows"`
	SeatsPerRow int      `json:"seatsPerRow"`
}

// SeatLayout maps a category name (regular, premium, recliner, ...) to its
// layout. Rows are disjoint across categories within one screen.
type SeatLayout map[string]CategoryLayout

// SeatPosition is a parsed seat label.
type SeatPosition struct {
	Row    string
	Number int
}

// ParseSeatLabel splits a label such as "B12" into its row and seat number.
func ParseSeatLabel(label string) (SeatPosition, error) {
	match := seatLabelRgx.FindStringSubmatch(label)
	if match == nil {
		return SeatPosition{}, SeatFormatError{Label: label}
	}

	number, err := strconv.Atoi(match[2])
	if err != nil {
		return SeatPosition{}, SeatFormatError{Label: label}
	}

	return SeatPosition{Row: match[1], Number: number}, nil
}

// Classify partitions the requested labels by the category that contains
// them. A label belongs to a category when the category's row set contains
// the label's row and the seat number is within 1..seatsPerRow. Any label
// matching no category fails the whole batch.
func (l SeatLayout) Classify(labels []string) (map[string][]string, error) {
	classified := make(map[string][]string, len(l))

	for _, label := range labels {
		pos, err := ParseSeatLabel(label)
		if err != nil {
			return nil, err
		}

		found := false
		for name, category := range l {
			if !containsRow(category.Rows, pos.Row) {
				continue
			}
			if pos.Number >= 1 && pos.Number <= category.SeatsPerRow {
				classified[name] = append(classified[name], label)
				found = true
			}
			break
		}

		if !found {
			return nil, SeatOutOfLayoutError{Label: label}
		}
	}

	return classified, nil
}

// TotalCapacity is the number of seats the layout describes.
func (l SeatLayout) TotalCapacity() int {
	total := 0
	for _, category := range l {
		total += len(category.Rows) * category.SeatsPerRow
	}

	return total
}

// Categories returns the category names in a stable order.
func (l SeatLayout) Categories() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func containsRow(rows []string, row string) bool {
	for _, r := range rows {
		if r == row {
			return true
		}
	}

	return false
}

type LayoutRepository interface {
	GetByScreenID(ctx context.Context, screenID int) (SeatLayout, error)
	GetBlockedSeats(ctx context.Context, screenID int) ([]string, error)
	BlockSeats(ctx context.Context, screenID int, labels []string) error
}
