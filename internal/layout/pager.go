package layout

// pager flows weighted sections onto pages of fixed capacity. A section heavier than
// a whole page still gets a page of its own.
type pager struct {
	capacity int
	pages    [][]Section
	used     int
}

func newPager(capacity int) *pager {
	return &pager{capacity: capacity}
}

func (p *pager) add(s Section) {
	w := weight(s)
	last := len(p.pages) - 1
	if last < 0 || (p.used+w > p.capacity && len(p.pages[last]) > 0) {
		p.pages = append(p.pages, nil)
		p.used = 0
		last = len(p.pages) - 1
	}
	p.pages[last] = append(p.pages[last], s)
	p.used += w
}

func (p *pager) result() [][]Section {
	if len(p.pages) == 0 {
		return [][]Section{nil}
	}
	return p.pages
}

func weight(s Section) int {
	switch s.Kind {
	case SectionGrid:
		return 1 + (len(s.Grid)+1)/2
	case SectionTable:
		if s.Table == nil {
			return 2
		}
		return 2 + len(s.Table.Rows)
	case SectionSignatures:
		return 4
	case SectionInspections:
		return 3
	default:
		return 2 + len(s.Text)/300
	}
}
