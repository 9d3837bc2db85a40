package types

// DisplayRow is one picker line. The line carries the entity identifier as
// a hidden leading field so a selection can be mapped back without any
// state held across the picker call. Rows are ephemeral and recomputed for
// every session.
type DisplayRow struct {
	ItemID int64
	Line   string
}
