package chart

import "sync"

// Surface is the drawing target a Renderer owns. A surface that is not
// mounted cannot be drawn on yet.
type Surface interface {
	Mounted() bool
	Size() (width, height int)
}

// Canvas is an in-memory Surface with a fixed pixel size.
type Canvas struct {
	mu      sync.RWMutex
	mounted bool
	width   int
	height  int
}

// NewCanvas returns a mounted canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Mount(width, height)
	return c
}

// Mount makes the canvas available with the given size.
func (c *Canvas) Mount(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = width > 0 && height > 0
	c.width = width
	c.height = height
}

// Unmount makes the canvas unavailable.
func (c *Canvas) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
}

func (c *Canvas) Mounted() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mounted
}

func (c *Canvas) Size() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}
