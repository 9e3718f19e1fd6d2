package frontend_domain

// paginationWindow is how many pages are shown on each side of the current one.
const paginationWindow = 2

// PageLink is one entry of the pagination widget. A zero Number marks an
// ellipsis.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

func (l PageLink) Ellipsis() bool { return l.Number == 0 }

type Pagination struct {
	Current  int
	Pages    int
	Previous string
	Next     string
	Links    []PageLink
}

// Visible reports whether there is more than one page to navigate.
func (p Pagination) Visible() bool { return p.Pages > 1 }

// BuildPagination computes the widget for a list of total items shown limit
// at a time from offset. href renders the link for a 0-based offset.
func BuildPagination(total, limit, offset int, href func(offset int) string) Pagination {
	if limit <= 0 || total <= 0 {
		return Pagination{}
	}
	if offset < 0 {
		offset = 0
	}

	pages := (total + limit - 1) / limit
	current := offset/limit + 1
	if current > pages {
		current = pages
	}
	link := func(n int) PageLink {
		return PageLink{Number: n, Href: href((n - 1) * limit), Current: n == current}
	}

	p := Pagination{Current: current, Pages: pages}
	if current > 1 {
		p.Previous = href((current - 2) * limit)
	}
	if current < pages {
		p.Next = href(current * limit)
	}

	start := max(1, current-paginationWindow)
	end := min(pages, current+paginationWindow)

	if start > 1 {
		p.Links = append(p.Links, link(1))
		if start > 2 {
			p.Links = append(p.Links, PageLink{})
		}
	}
	for n := start; n <= end; n++ {
		p.Links = append(p.Links, link(n))
	}
	if end < pages {
		if end < pages-1 {
			p.Links = append(p.Links, PageLink{})
		}
		p.Links = append(p.Links, link(pages))
	}
	return p
}
