package atlas

import (
	"fmt"
	"image"
	"math/bits"
	"sort"
	"time"

	"github.com/gogpu/batch/internal/logging"
	"github.com/gogpu/batch/internal/lru"
)

// Allocator packs textures into shared atlas pages, tracks free space,
// evicts least-recently-used entries under memory pressure, and
// defragments pages on demand.
//
// Allocator is not safe for concurrent use.
type Allocator struct {
	cfg    Config
	events Events

	pages   []*Page
	entries map[string]*Entry
	nodes   map[string]*lru.Node[string]
	recency lru.List[string]

	nextPageID int
	memoryUsed uint64
}

// NewAllocator creates an allocator with the given configuration.
// Zero-valued fields take their defaults; invalid values return a
// *ConfigError.
func NewAllocator(cfg Config) (*Allocator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Allocator{
		cfg:     cfg,
		entries: make(map[string]*Entry),
		nodes:   make(map[string]*lru.Node[string]),
	}, nil
}

// Config returns the allocator configuration.
func (a *Allocator) Config() Config { return a.cfg }

// Events returns the allocator's notification topics.
func (a *Allocator) Events() *Events { return &a.events }

// AddTexture packs a width x height texture under the given id and
// returns its entry. The call is idempotent: an already-known id is
// bumped in recency order and its existing entry returned.
//
// When the allocation would push entry pixel memory past the configured
// limit, a memory-pressure notification fires and the oldest ~10% of
// entries are evicted first. Placement searches every page and takes
// the tightest free region reported by the configured strategy. If no
// page has room the allocator opens a new page sized for the request
// (at least MinPageSize, power-of-two rounded if configured, capped at
// the maximum dimensions).
//
// Returns nil only when the request exceeds the maximum page
// dimensions. Zero-area textures are accepted as degenerate placements.
// Negative dimensions panic. pixels may be nil to reserve space without
// uploading.
func (a *Allocator) AddTexture(id string, width, height int, pixels *image.RGBA) *Entry {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("atlas: negative texture dimensions %dx%d for %q", width, height, id))
	}

	if e, ok := a.entries[id]; ok {
		a.touch(id)
		return e
	}

	if width > a.cfg.MaxWidth || height > a.cfg.MaxHeight {
		logging.Logger().Debug("atlas: rejecting oversized texture",
			"id", id, "width", width, "height", height,
			"maxWidth", a.cfg.MaxWidth, "maxHeight", a.cfg.MaxHeight)
		return nil
	}

	need := uint64(width) * uint64(height) * bytesPerPixel
	if a.memoryUsed+need > a.cfg.MemoryLimitBytes {
		a.evictPass()
	}

	e := &Entry{TextureID: id, Region: Region{Width: width, Height: height}, LastUsed: time.Now()}
	if !a.placeOnAny(e, width, height, pixels) {
		return nil
	}

	a.entries[id] = e
	a.nodes[id] = a.recency.PushFront(id)
	a.memoryUsed += need

	a.events.TextureAdded.Publish(TextureAddedEvent{TextureID: id, Entry: e})
	logging.Logger().Debug("atlas: texture added",
		"id", id, "atlas", e.AtlasID, "region", e.Region.String())
	return e
}

// GetTexture returns the entry for id, bumping its recency, or nil if
// the id is unknown. Packing state is never mutated.
func (a *Allocator) GetTexture(id string) *Entry {
	e, ok := a.entries[id]
	if !ok {
		return nil
	}
	a.touch(id)
	return e
}

// RemoveTexture frees the entry's rect as a new free region and drops
// the entry. Returns false if the id is unknown.
func (a *Allocator) RemoveTexture(id string) bool {
	return a.removeEntry(id, false)
}

// MemoryUsage returns the total pixel memory of live entries in bytes.
func (a *Allocator) MemoryUsage() uint64 { return a.memoryUsed }

// PageCount returns the number of atlas pages.
func (a *Allocator) PageCount() int { return len(a.pages) }

// EntryCount returns the number of live entries across all pages.
func (a *Allocator) EntryCount() int { return len(a.entries) }

// Page returns the page with the given id, or nil.
func (a *Allocator) Page(id int) *Page {
	for _, p := range a.pages {
		if p.id == id {
			return p
		}
	}
	return nil
}

// Pages returns a snapshot of the current pages.
func (a *Allocator) Pages() []*Page {
	out := make([]*Page, len(a.pages))
	copy(out, a.pages)
	return out
}

// Reset disposes all pages and entries, returning the allocator to its
// initial empty state. Page surfaces are released; ids become unknown.
func (a *Allocator) Reset() {
	a.pages = nil
	a.entries = make(map[string]*Entry)
	a.nodes = make(map[string]*lru.Node[string])
	a.recency.Clear()
	a.memoryUsed = 0
}

// OptimizeReport describes the effect of one page defragmentation.
type OptimizeReport struct {
	AtlasID int
	// Before and After are the page utilization ratios around the
	// repack.
	Before float64
	After  float64
	// Moved counts entries re-placed on the page; Spilled counts
	// entries that no longer fit and moved to another page.
	Moved   int
	Spilled int
}

// OptimizeAtlas defragments one page: entry pixels are extracted, the
// surface is cleared, and entries are reinserted in descending area
// order to raise utilization. Entries that no longer fit (possible when
// free space was fragmented across strategies) spill onto other pages.
// Returns false if the page id is unknown.
func (a *Allocator) OptimizeAtlas(atlasID int) (OptimizeReport, bool) {
	page := a.Page(atlasID)
	if page == nil {
		return OptimizeReport{}, false
	}

	report := OptimizeReport{AtlasID: atlasID, Before: page.Utilization()}

	type carried struct {
		entry  *Entry
		pixels *image.RGBA
	}
	items := make([]carried, 0, len(page.entries))
	for _, e := range page.entries {
		items = append(items, carried{entry: e, pixels: page.extract(e)})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].entry.Region.Area() > items[j].entry.Region.Area()
	})

	page.packer.reset()
	page.clearSurface()
	page.entries = make(map[string]*Entry)

	for _, it := range items {
		e := it.entry
		w, h := e.Region.Width, e.Region.Height
		if r, ok := page.packer.insert(w, h); ok {
			e.Region = r
			page.place(e, it.pixels)
			report.Moved++
			continue
		}
		// Should not happen when repacking a page the entries already
		// fit on, but a strategy is free to be less tight on the
		// second pass. Spill through the regular placement path.
		if a.placeOnAny(e, w, h, it.pixels) {
			report.Spilled++
			continue
		}
		// Nowhere to go: drop the entry entirely.
		a.dropBookkeeping(e.TextureID)
		a.memoryUsed -= uint64(w) * uint64(h) * bytesPerPixel
		a.events.TextureRemoved.Publish(TextureRemovedEvent{TextureID: e.TextureID, Evicted: true})
	}

	page.lastOptimized = time.Now()
	report.After = page.Utilization()

	logging.Logger().Info("atlas: page optimized",
		"atlas", atlasID,
		"before", report.Before, "after", report.After,
		"moved", report.Moved, "spilled", report.Spilled)
	return report, true
}

// OptimizeAll defragments every page and returns one report per page.
func (a *Allocator) OptimizeAll() []OptimizeReport {
	ids := make([]int, 0, len(a.pages))
	for _, p := range a.pages {
		ids = append(ids, p.id)
	}
	reports := make([]OptimizeReport, 0, len(ids))
	for _, id := range ids {
		if r, ok := a.OptimizeAtlas(id); ok {
			reports = append(reports, r)
		}
	}
	return reports
}

// touch marks an entry as most recently used.
func (a *Allocator) touch(id string) {
	if node, ok := a.nodes[id]; ok {
		a.recency.MoveToFront(node)
	}
	if e, ok := a.entries[id]; ok {
		e.LastUsed = time.Now()
	}
}

// placeOnAny places the entry on the existing page whose packer reports
// the tightest fit, opening a new page when none has room. Returns
// false when even a fresh maximal page could not hold the request.
func (a *Allocator) placeOnAny(e *Entry, w, h int, pixels *image.RGBA) bool {
	best := -1
	bestScore := 0
	for i, p := range a.pages {
		score, ok := p.packer.probe(w, h)
		if !ok {
			continue
		}
		if best < 0 || score < bestScore {
			best = i
			bestScore = score
		}
	}
	if best >= 0 {
		p := a.pages[best]
		if r, ok := p.packer.insert(w, h); ok {
			e.Region = r
			p.place(e, pixels)
			return true
		}
	}

	pw := a.pageDim(w, a.cfg.MaxWidth)
	ph := a.pageDim(h, a.cfg.MaxHeight)
	if w > pw || h > ph {
		return false
	}

	page := newPage(a.nextPageID, pw, ph, a.cfg.Format, a.cfg.Algorithm, a.cfg.Padding)
	a.nextPageID++
	a.pages = append(a.pages, page)

	a.events.AtlasCreated.Publish(AtlasCreatedEvent{AtlasID: page.id, Width: pw, Height: ph})
	logging.Logger().Info("atlas: page created",
		"atlas", page.id, "width", pw, "height", ph, "algorithm", string(a.cfg.Algorithm))

	r, ok := page.packer.insert(w, h)
	if !ok {
		return false
	}
	e.Region = r
	page.place(e, pixels)
	return true
}

// pageDim sizes one dimension of a new page for a request.
func (a *Allocator) pageDim(req, max int) int {
	d := req + a.cfg.Padding
	if d < MinPageSize {
		d = MinPageSize
	}
	if a.cfg.PowerOfTwo {
		d = nextPowerOfTwo(d)
	}
	if d > max {
		d = max
	}
	return d
}

// evictPass publishes memory pressure and evicts the oldest ~10% of
// entries (at least one).
func (a *Allocator) evictPass() {
	if len(a.entries) == 0 {
		return
	}
	a.events.MemoryPressure.Publish(MemoryPressureEvent{
		TotalMemory: a.memoryUsed,
		Threshold:   a.cfg.MemoryLimitBytes,
	})

	n := len(a.entries) / 10
	if n < 1 {
		n = 1
	}
	logging.Logger().Warn("atlas: memory pressure, evicting LRU entries",
		"used", a.memoryUsed, "limit", a.cfg.MemoryLimitBytes, "evicting", n)

	for i := 0; i < n; i++ {
		id, ok := a.recency.Oldest()
		if !ok {
			break
		}
		a.removeEntry(id, true)
	}
}

// removeEntry frees the entry's region back to its page and drops all
// bookkeeping. evicted distinguishes LRU eviction from explicit removal
// in the published notification.
func (a *Allocator) removeEntry(id string, evicted bool) bool {
	e, ok := a.entries[id]
	if !ok {
		return false
	}
	if page := a.Page(e.AtlasID); page != nil {
		page.packer.free(e.Region)
		delete(page.entries, id)
	}
	a.dropBookkeeping(id)
	a.memoryUsed -= uint64(e.Region.Width) * uint64(e.Region.Height) * bytesPerPixel

	a.events.TextureRemoved.Publish(TextureRemovedEvent{TextureID: id, Evicted: evicted})
	return true
}

// dropBookkeeping removes allocator-level records for id without
// touching page state.
func (a *Allocator) dropBookkeeping(id string) {
	if node, ok := a.nodes[id]; ok {
		a.recency.Remove(node)
		delete(a.nodes, id)
	}
	delete(a.entries, id)
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
