package page

import (
	"sync"

	"pharmacy-dashboard/internal/dashboard"
)

// ChartWidget keeps the data a chart was last drawn with. SetData stages
// new data; Redraw publishes it.
type ChartWidget struct {
	mu      sync.Mutex
	pending dashboard.ChartData
	drawn   dashboard.ChartData
	version int
}

func (c *ChartWidget) SetData(data dashboard.ChartData) {
	c.mu.Lock()
	c.pending = data
	c.mu.Unlock()
}

func (c *ChartWidget) Redraw() {
	c.mu.Lock()
	c.drawn = c.pending
	c.version++
	c.mu.Unlock()
}

// Drawn returns the data of the last redraw
func (c *ChartWidget) Drawn() dashboard.ChartData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drawn
}

// Version counts redraws
func (c *ChartWidget) Version() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// TableWidget keeps the rows a table was last drawn with
type TableWidget struct {
	mu      sync.Mutex
	pending dashboard.TableData
	drawn   dashboard.TableData
	version int
}

func (t *TableWidget) SetData(data dashboard.TableData) {
	t.mu.Lock()
	t.pending = data
	t.mu.Unlock()
}

func (t *TableWidget) Redraw() {
	t.mu.Lock()
	t.drawn = t.pending
	t.version++
	t.mu.Unlock()
}

// Drawn returns the data of the last redraw
func (t *TableWidget) Drawn() dashboard.TableData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.drawn
}

// Version counts redraws
func (t *TableWidget) Version() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}
