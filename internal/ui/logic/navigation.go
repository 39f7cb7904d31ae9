package logic

// Navigator moves a cursor over a fixed-length list and keeps it inside a
// scrolling viewport
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	total          int
}

// NewNavigator creates a navigator over total rows
func NewNavigator(total int) *Navigator {
	return &Navigator{total: total, viewportHeight: total}
}

// SelectedIndex returns the current row
func (n *Navigator) SelectedIndex() int {
	return n.selectedIndex
}

// ViewportOffset returns the first visible row
func (n *Navigator) ViewportOffset() int {
	return n.viewportOffset
}

// ViewportHeight returns the number of rows the viewport can show
func (n *Navigator) ViewportHeight() int {
	return n.viewportHeight
}

// Total returns the number of rows
func (n *Navigator) Total() int {
	return n.total
}

// SetViewportHeight resizes the viewport, keeping the selection visible
func (n *Navigator) SetViewportHeight(h int) {
	if h < 1 {
		h = 1
	}
	n.viewportHeight = h
	n.ensureSelectedVisible()
}

// SetSelectedIndex moves the cursor to index, clamped to the list
func (n *Navigator) SetSelectedIndex(index int) {
	if index < 0 {
		index = 0
	}
	if index > n.total-1 {
		index = n.total - 1
	}
	n.selectedIndex = index
	n.ensureSelectedVisible()
}

// MoveUp moves one row up
func (n *Navigator) MoveUp() {
	n.SetSelectedIndex(n.selectedIndex - 1)
}

// MoveDown moves one row down
func (n *Navigator) MoveDown() {
	n.SetSelectedIndex(n.selectedIndex + 1)
}

// PageUp moves a viewport up
func (n *Navigator) PageUp() {
	n.SetSelectedIndex(n.selectedIndex - n.effectiveHeight())
}

// PageDown moves a viewport down
func (n *Navigator) PageDown() {
	n.SetSelectedIndex(n.selectedIndex + n.effectiveHeight())
}

// Top jumps to the first row
func (n *Navigator) Top() {
	n.SetSelectedIndex(0)
}

// Bottom jumps to the last row
func (n *Navigator) Bottom() {
	n.SetSelectedIndex(n.total - 1)
}

// HasAbove reports whether rows are hidden above the viewport
func (n *Navigator) HasAbove() bool {
	return n.viewportOffset > 0
}

// HasBelow reports whether rows are hidden below the viewport
func (n *Navigator) HasBelow() bool {
	return n.viewportOffset+n.effectiveHeight() < n.total
}

// VisibleRange returns the half-open range of rows to render
func (n *Navigator) VisibleRange() (int, int) {
	end := n.viewportOffset + n.effectiveHeight()
	if end > n.total {
		end = n.total
	}
	return n.viewportOffset, end
}

// effectiveHeight is the viewport minus the rows taken by scroll indicators
func (n *Navigator) effectiveHeight() int {
	if n.total <= n.viewportHeight {
		return n.viewportHeight
	}
	h := n.viewportHeight
	if n.viewportOffset > 0 {
		h--
	}
	if n.viewportOffset+h < n.total {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (n *Navigator) ensureSelectedVisible() {
	if n.total <= n.viewportHeight {
		n.viewportOffset = 0
		return
	}

	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	if n.selectedIndex >= n.viewportOffset+n.effectiveHeight() {
		// Scroll down; the top indicator then takes a row of its own.
		h := n.viewportHeight - 1
		if n.selectedIndex < n.total-1 {
			h--
		}
		if h < 1 {
			h = 1
		}
		n.viewportOffset = n.selectedIndex - h + 1
	}

	maxOffset := n.total - (n.viewportHeight - 1)
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
