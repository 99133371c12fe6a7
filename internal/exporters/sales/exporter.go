// Package sales exports a shop's sales history as analyst documents.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.DocumentExporter = (*Exporter)(nil)

const (
	dayLayout   = "Jan 02"
	monthLayout = "Jan 2006"

	// recentDays is the window of the analyst report.
	recentDays = 30
)

// Exporter renders shop tenants from a SalesStore.
type Exporter struct {
	store          driven.SalesStore
	lookbackMonths int
	now            func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLookbackMonths bounds how far back sales are read.
func WithLookbackMonths(months int) Option {
	return func(e *Exporter) {
		if months > 0 {
			e.lookbackMonths = months
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates a sales exporter.
func New(store driven.SalesStore, opts ...Option) *Exporter {
	e := &Exporter{
		store:          store,
		lookbackMonths: domain.DefaultLookbackMonths,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export returns the 30-day analyst report and the monthly overview of
// the shop, or a single placeholder when the shop has no sales in the
// lookback window. Unknown shops and read errors yield no documents.
func (e *Exporter) Export(ctx context.Context, tenant domain.TenantID) []domain.Document {
	shopID, ok := tenant.ShopID()
	if !ok {
		logger.Warn("sales export: %s is not a shop tenant", tenant)
		return []domain.Document{}
	}

	shop, err := e.store.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("sales export: shop %d not found", shopID)
		} else {
			logger.Error("sales export: get shop %d: %v", shopID, err)
		}
		return []domain.Document{}
	}

	today := truncateDay(e.now().UTC())
	since := today.AddDate(0, -e.lookbackMonths, 0)
	records, err := e.store.ListSales(ctx, shopID, since, today.AddDate(0, 0, 1))
	if err != nil {
		logger.Error("sales export: list sales for shop %d: %v", shopID, err)
		return []domain.Document{}
	}

	if len(records) == 0 {
		return []domain.Document{{
			Text:   fmt.Sprintf("No sales data available for shop '%s'.", shop.Name),
			Source: domain.SourceSalesData,
		}}
	}

	logger.Debug("sales export: shop %d, %d rows since %s", shopID, len(records), since.Format(time.DateOnly))
	return []domain.Document{
		{Text: e.recentReport(records, today), Source: domain.SourceMonthlyGraph},
		{Text: e.overview(records, since, today), Source: domain.SourceYearlyGraph},
	}
}

// recentReport renders the last 30 days as daily totals with statistics.
func (e *Exporter) recentReport(records []domain.SalesRecord, today time.Time) string {
	start := today.AddDate(0, 0, -recentDays)

	var points []dayPoint
	var total float64
	for _, r := range records {
		day := truncateDay(r.Date.UTC())
		if day.Before(start) || day.After(today) {
			continue
		}
		total += r.Revenue
		// records arrive sorted by date, so equal days are adjacent
		if n := len(points); n > 0 && points[n-1].day.Equal(day) {
			points[n-1].revenue += r.Revenue
			continue
		}
		points = append(points, dayPoint{day: day, revenue: r.Revenue})
	}

	graph := "No sales in last 30 days"
	if len(points) > 0 {
		labels := make([]string, len(points))
		for i, p := range points {
			labels[i] = fmt.Sprintf("%s: %s", p.day.Format(dayLayout), rupees(p.revenue))
		}
		graph = strings.Join(labels, " -> ")
	}

	return fmt.Sprintf("DASHBOARD ANALYST REPORT (Last %d Days): Total Revenue: %s. %s %s Daily Graph Data: %s.",
		recentDays, rupees(total), analyze(points), weekdayPattern(points), graph)
}

// overview renders revenue per calendar month from since to today.
// Months without sales are listed as ₹0.
func (e *Exporter) overview(records []domain.SalesRecord, since, today time.Time) string {
	first := firstOfMonth(since)
	last := firstOfMonth(today)

	var months []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	revenue := make(map[time.Time]float64, len(months))

	var total float64
	var units int
	for _, r := range records {
		total += r.Revenue
		units += r.QuantitySold
		revenue[firstOfMonth(r.Date.UTC())] += r.Revenue
	}

	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = fmt.Sprintf("%s: %s", m.Format(monthLayout), rupees(revenue[m]))
	}

	return fmt.Sprintf("YEARLY OVERVIEW (Past %d Months): Total Revenue: %s (%d units). "+
		"Monthly Performance Breakdown: %s. "+
		"Use this to identify best and worst performing months. "+
		"Note: Months with ₹0 had no recorded sales.",
		e.lookbackMonths, rupees(total), units, strings.Join(parts, "; "))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
