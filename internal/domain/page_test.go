package domain

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		pageCount   int
		wantCurrent int
		wantPrev    bool
		wantNext    bool
	}{
		{name: "single page", current: 1, pageCount: 1, wantCurrent: 1},
		{name: "first of many", current: 1, pageCount: 10, wantCurrent: 1, wantNext: true},
		{name: "middle", current: 5, pageCount: 10, wantCurrent: 5, wantPrev: true, wantNext: true},
		{name: "last", current: 10, pageCount: 10, wantCurrent: 10, wantPrev: true},
		{name: "beyond last clamps", current: 99, pageCount: 10, wantCurrent: 10, wantPrev: true},
		{name: "zero clamps", current: 0, pageCount: 0, wantCurrent: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.current, tt.pageCount)
			if p.CurrentPage != tt.wantCurrent {
				t.Errorf("CurrentPage = %d, want %d", p.CurrentPage, tt.wantCurrent)
			}
			if p.Prev.Active != tt.wantPrev {
				t.Errorf("Prev.Active = %v, want %v", p.Prev.Active, tt.wantPrev)
			}
			if p.Next.Active != tt.wantNext {
				t.Errorf("Next.Active = %v, want %v", p.Next.Active, tt.wantNext)
			}

			foundCurrent := false
			for _, link := range p.Pages {
				if link.Page == p.CurrentPage && link.Active {
					foundCurrent = true
				}
			}
			if !foundCurrent {
				t.Error("current page missing from page window")
			}
		})
	}
}

func TestPaginationWindowIncludesEnds(t *testing.T) {
	p := NewPagination(50, 100)

	first, last := false, false
	for _, link := range p.Pages {
		if link.Page == 1 {
			first = true
		}
		if link.Page == 100 {
			last = true
		}
	}
	if !first || !last {
		t.Errorf("page window must include first and last page, got %v", p.Pages)
	}
	if len(p.Pages) > 10 {
		t.Errorf("page window too wide: %d entries", len(p.Pages))
	}
}
