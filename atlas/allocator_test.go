package atlas

import (
	"image"
	"image/color"
	"strconv"
	"strings"
	"testing"
)

func newTestAllocator(t *testing.T, cfg Config) *Allocator {
	t.Helper()
	a, err := NewAllocator(cfg)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	return a
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(c *Config) {}, ""},
		{"max width too small", func(c *Config) { c.MaxWidth = 64 }, "MaxWidth"},
		{"max height too small", func(c *Config) { c.MaxHeight = 100 }, "MaxHeight"},
		{"negative padding", func(c *Config) { c.Padding = -1 }, "Padding"},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "skyline" }, "Algorithm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error mentioning %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

// TestAddTextureSharesPage tests that two small textures land on the
// same page under the default configuration.
func TestAddTextureSharesPage(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	e1 := a.AddTexture("t1", 64, 64, nil)
	e2 := a.AddTexture("t2", 64, 64, nil)
	if e1 == nil || e2 == nil {
		t.Fatalf("AddTexture = %v, %v, want non-nil entries", e1, e2)
	}
	if e1.AtlasID != e2.AtlasID {
		t.Errorf("atlas ids %d and %d, want shared page", e1.AtlasID, e2.AtlasID)
	}
	if a.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1", a.PageCount())
	}
	// The first texture of a fresh page sits at its origin.
	if e1.Region.X != 0 || e1.Region.Y != 0 {
		t.Errorf("first placement at (%d,%d), want origin", e1.Region.X, e1.Region.Y)
	}
}

// TestLargeTexturesForceSeparatePages tests that two 1500x1500 requests
// cannot share a page under the 2048 maximum dimension.
func TestLargeTexturesForceSeparatePages(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	e1 := a.AddTexture("big1", 1500, 1500, nil)
	e2 := a.AddTexture("big2", 1500, 1500, nil)
	if e1 == nil || e2 == nil {
		t.Fatalf("AddTexture = %v, %v, want non-nil entries", e1, e2)
	}
	if e1.AtlasID == e2.AtlasID {
		t.Error("both 1500x1500 textures on one page, want distinct pages")
	}
	if a.PageCount() < 2 {
		t.Errorf("PageCount() = %d, want at least 2", a.PageCount())
	}
}

// TestAddTextureIdempotent tests that re-adding an id returns the
// existing entry without repacking.
func TestAddTextureIdempotent(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	e1 := a.AddTexture("t1", 64, 64, nil)
	e2 := a.AddTexture("t1", 128, 128, nil) // Size is ignored for known ids.
	if e1 != e2 {
		t.Error("AddTexture with known id returned a different entry")
	}
	if a.EntryCount() != 1 {
		t.Errorf("EntryCount() = %d, want 1", a.EntryCount())
	}
}

// TestOversizedReturnsNil tests capacity rejection without panics.
func TestOversizedReturnsNil(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	if e := a.AddTexture("huge", 4096, 64, nil); e != nil {
		t.Errorf("AddTexture(4096,64) = %v, want nil", e)
	}
	if e := a.AddTexture("tall", 64, 4096, nil); e != nil {
		t.Errorf("AddTexture(64,4096) = %v, want nil", e)
	}
	if a.PageCount() != 0 {
		t.Errorf("PageCount() = %d after rejected adds, want 0", a.PageCount())
	}
}

// TestMaxDimensionTexture tests that a request of exactly the maximum
// page dimensions is accepted: padding stops at the page edge instead
// of pushing the request over the limit.
func TestMaxDimensionTexture(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	e := a.AddTexture("full", DefaultMaxPageSize, DefaultMaxPageSize, nil)
	if e == nil {
		t.Fatal("AddTexture at max dimensions returned nil")
	}
	if e.Region.X != 0 || e.Region.Y != 0 ||
		e.Region.Width != DefaultMaxPageSize || e.Region.Height != DefaultMaxPageSize {
		t.Errorf("Region = %v, want the full page", e.Region)
	}
	if a.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1", a.PageCount())
	}
}

// TestBestFitAcrossPages tests that placement picks the tightest free
// region over all pages, not the first page with any room.
func TestBestFitAcrossPages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWidth = 256
	cfg.MaxHeight = 256
	a := newTestAllocator(t, cfg)

	// Page 0 keeps a loose 154-wide strip; the 240x240 texture cannot
	// use it and opens page 1, which keeps a snug 14-wide strip.
	loose := a.AddTexture("loose", 100, 100, nil)
	snug := a.AddTexture("big", 240, 240, nil)
	if loose == nil || snug == nil {
		t.Fatal("setup AddTexture failed")
	}
	if loose.AtlasID == snug.AtlasID {
		t.Fatal("setup did not produce two pages")
	}

	// 12x200 fits both strips; the snug one on page 1 has zero
	// short-side leftover and must win.
	strip := a.AddTexture("strip", 12, 200, nil)
	if strip == nil {
		t.Fatal("AddTexture(12,200) returned nil")
	}
	if strip.AtlasID != snug.AtlasID {
		t.Errorf("strip placed on page %d, want tightest-fit page %d",
			strip.AtlasID, snug.AtlasID)
	}
	if strip.Region.X != 242 {
		t.Errorf("strip Region = %v, want X=242 beside the big texture", strip.Region)
	}
}

// TestZeroAreaTexture tests the degenerate but valid placement.
func TestZeroAreaTexture(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	e := a.AddTexture("empty", 0, 0, nil)
	if e == nil {
		t.Fatal("AddTexture(0,0) = nil, want degenerate entry")
	}
	if e.Region.Area() != 0 {
		t.Errorf("Region.Area() = %d, want 0", e.Region.Area())
	}
	if a.MemoryUsage() != 0 {
		t.Errorf("MemoryUsage() = %d, want 0", a.MemoryUsage())
	}
}

// TestNegativeDimensionsPanic tests the fail-fast contract for invalid
// caller input.
func TestNegativeDimensionsPanic(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	defer func() {
		if recover() == nil {
			t.Error("AddTexture(-1,10) did not panic")
		}
	}()
	a.AddTexture("bad", -1, 10, nil)
}

// TestGetTexture tests lookup and the missing-resource contract.
func TestGetTexture(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	added := a.AddTexture("t1", 32, 32, nil)
	if got := a.GetTexture("t1"); got != added {
		t.Errorf("GetTexture(t1) = %v, want %v", got, added)
	}
	if got := a.GetTexture("missing"); got != nil {
		t.Errorf("GetTexture(missing) = %v, want nil", got)
	}
}

// TestRemoveTexture tests removal and reuse of the freed region.
func TestRemoveTexture(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	e := a.AddTexture("t1", 64, 64, nil)
	page := e.AtlasID

	if !a.RemoveTexture("t1") {
		t.Fatal("RemoveTexture(t1) = false, want true")
	}
	if a.RemoveTexture("t1") {
		t.Error("RemoveTexture(t1) twice = true, want false")
	}
	if got := a.GetTexture("t1"); got != nil {
		t.Errorf("GetTexture after removal = %v, want nil", got)
	}

	// The freed region is available to an equal-size texture on the
	// same page.
	e2 := a.AddTexture("t2", 64, 64, nil)
	if e2 == nil {
		t.Fatal("AddTexture after removal failed")
	}
	if e2.AtlasID != page {
		t.Errorf("replacement on page %d, want original page %d", e2.AtlasID, page)
	}
}

// TestUVNormalization tests UV computation for a known placement.
func TestUVNormalization(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Padding = 0
	a := newTestAllocator(t, cfg)

	e := a.AddTexture("t1", 64, 64, nil)
	if e == nil {
		t.Fatal("AddTexture failed")
	}
	page := a.Page(e.AtlasID)
	wantU1 := float64(64) / float64(page.Width())
	wantV1 := float64(64) / float64(page.Height())

	if e.UV.U0 != 0 || e.UV.V0 != 0 {
		t.Errorf("UV origin = (%v,%v), want (0,0)", e.UV.U0, e.UV.V0)
	}
	if e.UV.U1 != wantU1 || e.UV.V1 != wantV1 {
		t.Errorf("UV extent = (%v,%v), want (%v,%v)", e.UV.U1, e.UV.V1, wantU1, wantV1)
	}
}

// TestPowerOfTwoPages tests page dimension rounding.
func TestPowerOfTwoPages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PowerOfTwo = true
	a := newTestAllocator(t, cfg)

	e := a.AddTexture("t1", 300, 300, nil)
	if e == nil {
		t.Fatal("AddTexture failed")
	}
	page := a.Page(e.AtlasID)
	if page.Width() != 512 || page.Height() != 512 {
		t.Errorf("page is %dx%d, want 512x512", page.Width(), page.Height())
	}
}

// TestMemoryPressureEviction tests the LRU eviction pass.
func TestMemoryPressureEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MemoryLimitBytes = 2 * 64 * 64 * bytesPerPixel // Room for two entries.
	a := newTestAllocator(t, cfg)

	var pressure []MemoryPressureEvent
	a.Events().MemoryPressure.Subscribe(func(e MemoryPressureEvent) {
		pressure = append(pressure, e)
	})
	var evicted []string
	a.Events().TextureRemoved.Subscribe(func(e TextureRemovedEvent) {
		if e.Evicted {
			evicted = append(evicted, e.TextureID)
		}
	})

	a.AddTexture("t1", 64, 64, nil)
	a.AddTexture("t2", 64, 64, nil)
	// Bump t1 so t2 is the LRU victim.
	a.GetTexture("t1")

	a.AddTexture("t3", 64, 64, nil)

	if len(pressure) != 1 {
		t.Fatalf("memory-pressure events = %d, want 1", len(pressure))
	}
	if pressure[0].Threshold != cfg.MemoryLimitBytes {
		t.Errorf("pressure threshold = %d, want %d", pressure[0].Threshold, cfg.MemoryLimitBytes)
	}
	if len(evicted) != 1 || evicted[0] != "t2" {
		t.Errorf("evicted = %v, want [t2]", evicted)
	}
	if a.GetTexture("t2") != nil {
		t.Error("t2 still present after eviction")
	}
	if a.GetTexture("t1") == nil || a.GetTexture("t3") == nil {
		t.Error("t1/t3 missing, eviction removed the wrong entries")
	}
}

// TestAtlasCreatedEvent tests the page lifecycle notification.
func TestAtlasCreatedEvent(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())

	var created []AtlasCreatedEvent
	a.Events().AtlasCreated.Subscribe(func(e AtlasCreatedEvent) {
		created = append(created, e)
	})

	a.AddTexture("t1", 64, 64, nil)
	a.AddTexture("t2", 64, 64, nil)     // Shares the page, no event.
	a.AddTexture("big", 1500, 1500, nil) // Needs a fresh page.

	if len(created) != 2 {
		t.Fatalf("atlas-created events = %d, want 2", len(created))
	}
	if created[0].Width < MinPageSize || created[0].Height < MinPageSize {
		t.Errorf("first page %dx%d, want at least %d", created[0].Width, created[0].Height, MinPageSize)
	}
}

// TestOptimizeAtlas tests defragmentation raises utilization and keeps
// pixels addressable.
func TestOptimizeAtlas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWidth = 256
	cfg.MaxHeight = 256
	a := newTestAllocator(t, cfg)

	// Fill a page with a checkerboard of textures, then remove every
	// other one to fragment the free space.
	px := image.NewRGBA(image.Rect(0, 0, 48, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			px.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	ids := make([]string, 0, 9)
	for i := 0; i < 9; i++ {
		id := "t" + strconv.Itoa(i)
		if a.AddTexture(id, 48, 48, px) == nil {
			break
		}
		ids = append(ids, id)
	}
	pageID := a.GetTexture(ids[0]).AtlasID
	for i, id := range ids {
		if i%2 == 1 {
			a.RemoveTexture(id)
		}
	}

	before := a.Page(pageID).Utilization()
	report, ok := a.OptimizeAtlas(pageID)
	if !ok {
		t.Fatal("OptimizeAtlas returned false for a known page")
	}
	if report.Before != before {
		t.Errorf("report.Before = %v, want %v", report.Before, before)
	}
	if report.After < report.Before {
		t.Errorf("utilization dropped: before %v, after %v", report.Before, report.After)
	}

	// Surviving entries keep valid, in-bounds regions and UVs.
	for i, id := range ids {
		if i%2 == 1 {
			continue
		}
		e := a.GetTexture(id)
		if e == nil {
			t.Fatalf("entry %s lost during optimization", id)
		}
		page := a.Page(e.AtlasID)
		r := e.Region
		if r.X < 0 || r.Y < 0 || r.X+r.Width > page.Width() || r.Y+r.Height > page.Height() {
			t.Errorf("entry %s region %v outside page", id, r)
		}
		if e.UV.U0 < 0 || e.UV.U1 > 1 || e.UV.V0 < 0 || e.UV.V1 > 1 {
			t.Errorf("entry %s UV %+v outside [0,1]", id, e.UV)
		}
	}

	// The repacked pixels survive: the first entry's top-left pixel is
	// still the red we uploaded.
	e := a.GetTexture(ids[0])
	page := a.Page(e.AtlasID)
	got := page.Surface().RGBAAt(e.Region.X, e.Region.Y)
	if got.R != 255 || got.A != 255 {
		t.Errorf("pixel at repacked origin = %+v, want red", got)
	}
}

// TestOptimizeAll tests the whole-allocator pass.
func TestOptimizeAll(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())
	a.AddTexture("t1", 64, 64, nil)
	a.AddTexture("big", 1500, 1500, nil)

	reports := a.OptimizeAll()
	if len(reports) != a.PageCount() {
		t.Errorf("reports = %d, want one per page (%d)", len(reports), a.PageCount())
	}
}

// TestUnknownPageOptimize tests the missing-resource contract.
func TestUnknownPageOptimize(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())
	if _, ok := a.OptimizeAtlas(42); ok {
		t.Error("OptimizeAtlas(42) = ok on empty allocator, want false")
	}
}

// TestReset tests explicit teardown.
func TestReset(t *testing.T) {
	a := newTestAllocator(t, DefaultConfig())
	a.AddTexture("t1", 64, 64, nil)
	a.Reset()

	if a.PageCount() != 0 || a.EntryCount() != 0 || a.MemoryUsage() != 0 {
		t.Errorf("after Reset: pages=%d entries=%d memory=%d, want all zero",
			a.PageCount(), a.EntryCount(), a.MemoryUsage())
	}
	if a.GetTexture("t1") != nil {
		t.Error("entry survived Reset")
	}
}
