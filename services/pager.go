package services

import (
	"context"
	"sort"

	"lorryledger/models"
	"lorryledger/repository"
)

// DefaultPageSize is the number of visible shipments per page.
const DefaultPageSize = 50

type PageMode int

const (
	// PageInitial forgets the cursor and loads the newest shipments.
	PageInitial PageMode = iota
	// PageNext loads the shipments older than the last loaded one.
	PageNext
)

type Page struct {
	Items   []*models.Shipment `json:"items"`
	Cursor  string             `json:"cursor"`
	HasMore bool               `json:"hasMore"`
}

// Pager walks the shipment list backwards by key, one page at a time. Invoiced
// shipments are skipped and do not count towards the page size. A Pager
// belongs to a single caller.
type Pager struct {
	Shipments repository.ShipmentRepository
	PageSize  int

	lastKey   string
	exhausted bool
}

func NewPager(shipments repository.ShipmentRepository, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{Shipments: shipments, PageSize: pageSize}
}

// Resume positions the pager after cursor, as returned in an earlier Page.
func (p *Pager) Resume(cursor string) {
	p.lastKey = cursor
	p.exhausted = false
}

// LoadPage returns the next page. In PageNext mode it returns
// ErrNoMoreRecords, leaving the cursor where it was, once nothing older is left.
func (p *Pager) LoadPage(ctx context.Context, mode PageMode) (*Page, error) {
	cursor := ""
	if mode == PageNext {
		if p.lastKey == "" || p.exhausted {
			return nil, ErrNoMoreRecords
		}
		cursor = p.lastKey
	}

	var (
		visible   []*models.Shipment
		examined  int
		exhausted bool
	)
	for len(visible) < p.PageSize && !exhausted {
		limit := p.PageSize
		anchored := cursor != ""
		if anchored {
			// endAt is inclusive, so one extra row makes up for the anchor.
			limit++
		}

		batch, err := p.Shipments.ListShipments(ctx, cursor, limit)
		if err != nil {
			return nil, storeErr("list shipments", err)
		}
		exhausted = len(batch) < limit
		if anchored && len(batch) > 0 && batch[0].ID == cursor {
			batch = batch[1:]
		}

		for i, s := range batch {
			examined++
			cursor = s.ID
			if s.Status != models.StatusInvoiced {
				visible = append(visible, s)
			}
			if len(visible) == p.PageSize {
				if i < len(batch)-1 {
					exhausted = false
				}
				break
			}
		}
		if len(batch) == 0 {
			break
		}
	}

	if mode == PageNext && examined == 0 {
		return nil, ErrNoMoreRecords
	}

	// Keys follow entry order; the list reads by business date.
	sort.SliceStable(visible, func(i, j int) bool {
		if !visible[i].Date.Equal(visible[j].Date) {
			return visible[i].Date.After(visible[j].Date)
		}
		return visible[i].ID > visible[j].ID
	})

	p.lastKey = cursor
	p.exhausted = exhausted
	if visible == nil {
		visible = []*models.Shipment{}
	}
	return &Page{Items: visible, Cursor: cursor, HasMore: !exhausted}, nil
}
