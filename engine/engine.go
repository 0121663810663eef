// Package engine derives live per-(article, system) availability from the
// inventory snapshot and the borrow ledger, and runs the borrow/return
// operations under a serialization guard so concurrent requests cannot
// over-lend the stock.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fixture_lend_tool/lock"
	"fixture_lend_tool/models"
	"fixture_lend_tool/store"
)

type Engine struct {
	fixtures store.FixtureSource
	ledger   store.LedgerStore
	guard    lock.Guard

	now   func() time.Time
	newID func() string
}

func New(fixtures store.FixtureSource, ledger store.LedgerStore, guard lock.Guard) *Engine {
	if guard == nil {
		guard = &lock.Mutex{}
	}
	return &Engine{
		fixtures: fixtures,
		ledger:   ledger,
		guard:    guard,
		now:      func() time.Time { return time.Now().Truncate(time.Second) },
		newID:    uuid.NewString,
	}
}

// Available recomputes free units for (article, system) from fresh loads of
// both stores. Never negative: ledger drift beyond stock clamps to 0.
func (e *Engine) Available(ctx context.Context, article, system string) (int, error) {
	fixtures, err := e.fixtures.LoadFixtures(ctx)
	if err != nil {
		return 0, err
	}
	loans, err := e.ledger.LoadLoans(ctx)
	if err != nil {
		return 0, err
	}
	return available(fixtures, loans, article, system), nil
}

func available(fixtures []models.FixtureRecord, loans []models.LoanRecord, article, system string) int {
	base := 0
	for _, f := range fixtures {
		if f.Article == article && strings.EqualFold(f.System, system) {
			base += f.TotalUnits
		}
	}
	used := 0
	for _, l := range loans {
		if l.Open() && l.Article == article && strings.EqualFold(l.System, system) {
			used += l.Quantity
		}
	}
	if free := base - used; free > 0 {
		return free
	}
	return 0
}

type BorrowRequest struct {
	Article     string `json:"article"`
	System      string `json:"system"`
	Quantity    int    `json:"quantity"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Location    string `json:"location"`
}

// Borrow validates the request, checks availability and appends one open loan
// to the ledger, all inside the guard. Nothing is written when any step fails.
func (e *Engine) Borrow(ctx context.Context, req BorrowRequest) (*models.LoanRecord, error) {
	req.Article = strings.TrimSpace(req.Article)
	req.System = strings.TrimSpace(req.System)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)
	req.Location = strings.TrimSpace(req.Location)

	switch {
	case req.Article == "":
		return nil, fmt.Errorf("%w: missing article", ErrValidation)
	case req.System == "":
		return nil, fmt.Errorf("%w: missing system", ErrValidation)
	case req.Quantity <= 0:
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	case req.ClientName == "":
		return nil, fmt.Errorf("%w: missing client name", ErrValidation)
	case req.ClientPhone == "":
		return nil, fmt.Errorf("%w: missing client phone", ErrValidation)
	}

	release, err := e.guard.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	fixtures, err := e.fixtures.LoadFixtures(ctx)
	if err != nil {
		return nil, err
	}
	partNumber, known := "", false
	for _, f := range fixtures {
		if f.Article == req.Article {
			partNumber, known = f.PartNumber, true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: article %q", ErrNotFound, req.Article)
	}

	loans, err := e.ledger.LoadLoans(ctx)
	if err != nil {
		return nil, err
	}
	if free := available(fixtures, loans, req.Article, req.System); req.Quantity > free {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientAvailability, req.Quantity, free)
	}

	location := req.Location
	if location == "" {
		for _, f := range fixtures {
			if f.Article == req.Article && strings.EqualFold(f.System, req.System) && f.Location != "" {
				location = f.Location
				break
			}
		}
	}

	rec := models.LoanRecord{
		ID:          e.newID(),
		Article:     req.Article,
		PartNumber:  partNumber,
		System:      strings.ToUpper(req.System),
		Quantity:    req.Quantity,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Location:    location,
		BorrowedAt:  e.now(),
	}
	if err := e.ledger.SaveLoans(ctx, append(loans, rec)); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Return closes every open loan whose id is in ids. Ids that match nothing
// open are ignored as long as at least one id did match; a fully unmatched
// set fails with ErrNotFound and leaves the ledger untouched.
func (e *Engine) Return(ctx context.Context, ids []string) (int, time.Time, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	if len(set) == 0 {
		return 0, time.Time{}, fmt.Errorf("%w: missing borrow id(s)", ErrValidation)
	}

	release, err := e.guard.Acquire(ctx)
	if err != nil {
		return 0, time.Time{}, err
	}
	defer release()

	loans, err := e.ledger.LoadLoans(ctx)
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(loans) == 0 {
		return 0, time.Time{}, fmt.Errorf("%w: no borrow records", ErrNotFound)
	}

	now := e.now()
	returned := 0
	for i := range loans {
		if loans[i].Open() && set[loans[i].ID] {
			t := now
			loans[i].ReturnedAt = &t
			returned++
		}
	}
	if returned == 0 {
		return 0, time.Time{}, fmt.Errorf("%w: no open borrows matched those ids", ErrNotFound)
	}
	if err := e.ledger.SaveLoans(ctx, loans); err != nil {
		return 0, time.Time{}, err
	}
	return returned, now, nil
}

type SystemAvailability struct {
	System         string `json:"system"`
	AvailableUnits int    `json:"availableUnits"`
}

type SearchChoice struct {
	Article    string `json:"article"`
	PartNumber string `json:"partNumber"`
	Name       string `json:"name"`
}

type SearchResult struct {
	Found      bool
	Multiple   bool
	Article    string
	PartNumber string
	Name       string
	Systems    []SystemAvailability
	Choices    []SearchChoice
}

const maxSearchChoices = 20

// SearchArticle finds an article by exact match first, substring second. A
// substring hit spanning several distinct articles comes back as a choice
// list instead; a single hit lists only systems with free units.
func (e *Engine) SearchArticle(ctx context.Context, article string) (*SearchResult, error) {
	article = strings.TrimSpace(article)
	if article == "" {
		return nil, fmt.Errorf("%w: missing article", ErrValidation)
	}

	fixtures, err := e.fixtures.LoadFixtures(ctx)
	if err != nil {
		return nil, err
	}

	var sub []models.FixtureRecord
	for _, f := range fixtures {
		if f.Article == article {
			sub = append(sub, f)
		}
	}
	if len(sub) == 0 {
		distinct := map[string]bool{}
		for _, f := range fixtures {
			if strings.Contains(f.Article, article) {
				sub = append(sub, f)
				distinct[f.Article] = true
			}
		}
		if len(distinct) > 1 {
			res := &SearchResult{Found: true, Multiple: true}
			seen := map[SearchChoice]bool{}
			for _, f := range sub {
				c := SearchChoice{Article: f.Article, PartNumber: f.PartNumber, Name: f.Name}
				if !seen[c] {
					seen[c] = true
					res.Choices = append(res.Choices, c)
					if len(res.Choices) == maxSearchChoices {
						break
					}
				}
			}
			return res, nil
		}
	}
	if len(sub) == 0 {
		return &SearchResult{}, nil
	}

	loans, err := e.ledger.LoadLoans(ctx)
	if err != nil {
		return nil, err
	}

	chosen := sub[0]
	systems := map[string]bool{}
	for _, f := range sub {
		systems[f.System] = true
	}
	res := &SearchResult{
		Found:      true,
		Article:    chosen.Article,
		PartNumber: chosen.PartNumber,
		Name:       chosen.Name,
	}
	labels := make([]string, 0, len(systems))
	for s := range systems {
		labels = append(labels, s)
	}
	sort.Strings(labels)
	for _, s := range labels {
		if free := available(fixtures, loans, chosen.Article, s); free > 0 {
			res.Systems = append(res.Systems, SystemAvailability{System: s, AvailableUnits: free})
		}
	}
	return res, nil
}

type Details struct {
	Article             string   `json:"article"`
	PartNumber          string   `json:"partNumber"`
	Name                string   `json:"name"`
	System              string   `json:"system"`
	AvailableUnitsTotal int      `json:"availableUnitsTotal"`
	Locations           []string `json:"locations"`
	PrimaryLocation     string   `json:"primaryLocation"`
	Description         string   `json:"description"`
}

// GetDetails consolidates the inventory rows for one (article, system) with
// live availability.
func (e *Engine) GetDetails(ctx context.Context, article, system string) (*Details, error) {
	article = strings.TrimSpace(article)
	system = strings.TrimSpace(system)
	if article == "" || system == "" {
		return nil, fmt.Errorf("%w: missing article or system", ErrValidation)
	}

	fixtures, err := e.fixtures.LoadFixtures(ctx)
	if err != nil {
		return nil, err
	}
	var sub []models.FixtureRecord
	for _, f := range fixtures {
		if f.Article == article && strings.EqualFold(f.System, system) {
			sub = append(sub, f)
		}
	}
	if len(sub) == 0 {
		return nil, fmt.Errorf("%w: article %q system %q", ErrNotFound, article, system)
	}

	loans, err := e.ledger.LoadLoans(ctx)
	if err != nil {
		return nil, err
	}

	locations := []string{}
	seen := map[string]bool{}
	for _, f := range sub {
		if f.Location != "" && !seen[f.Location] {
			seen[f.Location] = true
			locations = append(locations, f.Location)
		}
	}
	primary := ""
	if len(locations) > 0 {
		primary = locations[0]
	}
	return &Details{
		Article:             article,
		PartNumber:          sub[0].PartNumber,
		Name:                sub[0].Name,
		System:              strings.ToUpper(system),
		AvailableUnitsTotal: available(fixtures, loans, article, system),
		Locations:           locations,
		PrimaryLocation:     primary,
		Description:         sub[0].Description,
	}, nil
}
