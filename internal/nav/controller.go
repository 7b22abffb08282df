package nav

// Renderer is the presentation layer the controller drives. Hosts own it.
type Renderer interface {
	// SlideCount reports how many slides the host has laid out.
	SlideCount() int
	// ShowSlide marks active as the only active slide and prev (or -1) as the previous one.
	ShowSlide(active, prev int)
	SetOverview(on bool)
}

// Persister snapshots per-slide ink around a slide change.
type Persister interface {
	CaptureAndStore(index int)
	Restore(index int)
}

// Locator mirrors the current slide into the address state.
type Locator interface {
	WriteCurrent(index int)
}

// Controller moves the SlideIndex. Every successful move runs, in order:
// capture of the outgoing slide, index change, restore of the incoming slide,
// renderer notification, location write.
type Controller struct {
	index    *SlideIndex
	render   Renderer
	persist  Persister
	locate   Locator
	overview bool
}

func NewController(index *SlideIndex, render Renderer, persist Persister, locate Locator) *Controller {
	return &Controller{
		index:   index,
		render:  render,
		persist: persist,
		locate:  locate,
	}
}

func (c *Controller) Index() *SlideIndex { return c.index }
func (c *Controller) Current() int       { return c.index.Current() }
func (c *Controller) Total() int         { return c.index.Total() }
func (c *Controller) Overview() bool     { return c.overview }

// Start seeds the current slide without capturing anything first.
func (c *Controller) Start(initial int) {
	c.index.set(initial)
	cur := c.index.Current()
	if c.persist != nil {
		c.persist.Restore(cur)
	}
	c.notify(cur)
}

// Next advances, wrapping from the last slide to the first.
func (c *Controller) Next() {
	cur := c.index.Current()
	if cur < c.index.Last() {
		c.move(cur + 1)
		return
	}
	c.move(0)
}

// Prev steps back; it does nothing on the first slide.
func (c *Controller) Prev() {
	cur := c.index.Current()
	if cur <= 0 {
		return
	}
	c.move(cur - 1)
}

// Goto jumps to n clamped into range. It never fails.
func (c *Controller) Goto(n int) {
	c.move(c.index.Clamp(n))
}

func (c *Controller) GotoLast() {
	c.move(c.index.Last())
}

func (c *Controller) ToggleOverview() {
	c.overview = !c.overview
	if c.render != nil {
		c.render.SetOverview(c.overview)
	}
}

// SelectFromOverview handles a click on slide i while the overview is shown.
// It reports whether the click was consumed.
func (c *Controller) SelectFromOverview(i int) bool {
	if !c.overview {
		return false
	}
	c.overview = false
	if c.render != nil {
		c.render.SetOverview(false)
	}
	c.Goto(i)
	return true
}

func (c *Controller) move(target int) {
	if c.persist != nil {
		c.persist.CaptureAndStore(c.index.Current())
	}
	c.index.set(target)
	cur := c.index.Current()
	if c.persist != nil {
		c.persist.Restore(cur)
	}
	c.notify(cur)
}

func (c *Controller) notify(cur int) {
	if c.render != nil {
		c.render.ShowSlide(cur, cur-1)
	}
	if c.locate != nil {
		c.locate.WriteCurrent(cur)
	}
}
