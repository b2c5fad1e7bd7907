package domain

// PageLink is one entry in a pagination block.
type PageLink struct {
	Page   int  `json:"page"`
	Active bool `json:"active"`
}

// Pagination describes the page window for a result set.
type Pagination struct {
	CurrentPage int        `json:"currentPage"`
	PageCount   int        `json:"pageCount"`
	Prev        PageLink   `json:"prev"`
	Next        PageLink   `json:"next"`
	Pages       []PageLink `json:"pages"`
}

// NewPagination builds a pagination block with a window of pages around
// the current one, always including the first and last page.
func NewPagination(currentPage, pageCount int) Pagination {
	if pageCount < 1 {
		pageCount = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > pageCount {
		currentPage = pageCount
	}

	p := Pagination{
		CurrentPage: currentPage,
		PageCount:   pageCount,
		Prev:        PageLink{Page: max(currentPage-1, 1), Active: currentPage > 1},
		Next:        PageLink{Page: min(currentPage+1, pageCount), Active: currentPage < pageCount},
	}

	window := make(map[int]bool)
	window[1] = true
	window[pageCount] = true
	for i := currentPage - 2; i <= currentPage+2; i++ {
		if i >= 1 && i <= pageCount {
			window[i] = true
		}
	}
	for page := 1; page <= pageCount; page++ {
		if window[page] {
			p.Pages = append(p.Pages, PageLink{Page: page, Active: page == currentPage})
		}
	}

	return p
}

// Breadcrumb is one entry in the page breadcrumb trail.
type Breadcrumb struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// FilterChip describes one search filter as shown on the search page.
type FilterChip struct {
	Active bool   `json:"active"`
	Label  string `json:"label"`
}

// Privileges carries the caller's resolved search capability flags.
type Privileges struct {
	SearchUsers   bool `json:"search:users"`
	SearchContent bool `json:"search:content"`
	SearchTags    bool `json:"search:tags"`
}

// SearchPayload is the JSON-mode response body (searchOnly=1). Page-only
// fields are deliberately absent from this type.
type SearchPayload struct {
	*SearchResult
	Pagination    Pagination `json:"pagination"`
	MultiplePages bool       `json:"multiplePages"`
	SearchQuery   string     `json:"search_query"`
	Term          string     `json:"term"`
}

// SearchPageData is the full page view-model.
type SearchPageData struct {
	SearchPayload
	Breadcrumbs   []Breadcrumb          `json:"breadcrumbs"`
	ShowAsPosts   bool                  `json:"showAsPosts"`
	ShowAsTopics  bool                  `json:"showAsTopics"`
	Title         string                `json:"title"`
	SelectedCIDs  []string              `json:"selectedCids"`
	Filters       map[string]FilterChip `json:"filters"`
	SelectedUsers []UserResult          `json:"selectedUsers"`
	SelectedTags  []TagResult           `json:"selectedTags"`
	DefaultScope  Scope                 `json:"searchDefaultIn"`
	DefaultSortBy string                `json:"searchDefaultSortBy"`
	Privileges    Privileges            `json:"privileges"`
}
