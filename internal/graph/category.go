package graph

// Category is the visual class a node is drawn with.
type Category int

const (
	NotSynced Category = iota
	Synced
)

// Classify maps a task's sync flag onto exactly one category.
func Classify(inSync bool) Category {
	if inSync {
		return Synced
	}
	return NotSynced
}

// String returns the class name shared by nodes, legend swatches and the
// stylesheet.
func (c Category) String() string {
	if c == Synced {
		return "synced"
	}
	return "not_synced"
}

// Categories lists every category in legend order.
func Categories() []Category {
	return []Category{Synced, NotSynced}
}
