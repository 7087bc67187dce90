package attribution

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/geo"
	"github.com/radiusdt/roas-attribution/internal/metrics"
	"github.com/radiusdt/roas-attribution/internal/models"
)

// ReportRequest identifies one report run.
type ReportRequest struct {
	UserID        string `json:"user_id"`
	Date          string `json:"date"`
	FBAdAccountID string `json:"fb_ad_account_id"`
}

// CustomerAds pairs a normalized customer with its enriched ads.
type CustomerAds struct {
	Customer models.Customer
	Ads      []models.EnrichedAd
}

// Service runs the attribution pipeline end to end: ingest orders,
// normalize customers, correlate events by IP, resolve and enrich ads,
// assemble the report.
type Service struct {
	ingestor   *Ingestor
	correlator *Correlator
	resolver   *Resolver
	enricher   *Enricher
	geo        *geo.Resolver
	metrics    *metrics.Metrics
	logger     *zap.Logger
	timeout    time.Duration
}

// NewService wires the pipeline. geoResolver and m may be nil; timeout
// zero disables the per-report deadline.
func NewService(
	ingestor *Ingestor,
	correlator *Correlator,
	resolver *Resolver,
	enricher *Enricher,
	geoResolver *geo.Resolver,
	m *metrics.Metrics,
	logger *zap.Logger,
	timeout time.Duration,
) *Service {
	return &Service{
		ingestor:   ingestor,
		correlator: correlator,
		resolver:   resolver,
		enricher:   enricher,
		geo:        geoResolver,
		metrics:    m,
		logger:     logger,
		timeout:    timeout,
	}
}

// GetReport computes the revenue attribution report for one user and
// date. Callers never observe a hard failure: any pipeline error is
// logged and converted into an empty report.
func (s *Service) GetReport(ctx context.Context, req ReportRequest) models.Report {
	started := time.Now()

	report, err := s.getReport(ctx, req)
	if err != nil {
		s.logger.Error("report computation failed",
			zap.String("user_id", req.UserID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.ObserveReport("error", started)
		}
		return models.EmptyReport(req.Date, req.UserID)
	}

	if s.metrics != nil {
		s.metrics.ObserveReport("ok", started)
		s.metrics.CustomersReported.Add(float64(len(report.Customers)))
	}
	return report
}

func (s *Service) getReport(ctx context.Context, req ReportRequest) (models.Report, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	orders, err := s.ingestor.Orders(ctx, req.UserID, req.Date)
	if err != nil {
		return models.Report{}, err
	}
	if s.metrics != nil {
		s.metrics.OrdersIngested.Add(float64(len(orders)))
	}
	if len(orders) == 0 {
		return models.EmptyReport(req.Date, req.UserID), nil
	}

	customers := s.normalizeAll(orders)

	// External lookups stay serialized across customers; only the two
	// IP-family queries inside each correlation run concurrently.
	entries := make([]CustomerAds, 0, len(customers))
	for _, customer := range customers {
		if customer.IPAddress == "" {
			// No IP means no correlation; the customer can never
			// attribute and drops out at assembly.
			s.logger.Debug("customer has no ip address",
				zap.String("email", customer.LowerCaseEmail))
			entries = append(entries, CustomerAds{Customer: customer})
			continue
		}

		events, err := s.correlator.Events(ctx, customer)
		if err != nil {
			return models.Report{}, err
		}
		if s.metrics != nil {
			s.metrics.EventsCorrelated.Add(float64(len(events)))
		}

		candidates := s.resolver.CandidateAds(events, customer.IPAddress)

		enriched, err := s.enricher.Enrich(ctx, candidates, req.UserID, req.FBAdAccountID, req.Date)
		if err != nil {
			return models.Report{}, err
		}
		for i := range enriched {
			enriched[i].Email = customer.Email
		}

		entries = append(entries, CustomerAds{Customer: customer, Ads: enriched})
	}

	return AssembleReport(entries, req.Date, req.UserID), nil
}

// normalizeAll groups orders by raw email and collapses each group into
// a customer, in deterministic email order.
func (s *Service) normalizeAll(orders []models.Order) []models.Customer {
	groups := GroupOrdersByEmail(orders)

	emails := make([]string, 0, len(groups))
	for email := range groups {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	customers := make([]models.Customer, 0, len(emails))
	for _, email := range emails {
		customer := NormalizeCustomer(groups[email])
		if s.geo != nil && customer.IPAddress != "" {
			customer.GeoCountry = s.geo.Country(customer.IPAddress)
		}
		customers = append(customers, customer)
	}
	return customers
}

// AssembleReport builds the final report: customers with no surviving
// ads are excluded, the rest are grouped by lower-cased email. When
// case-variant duplicates collide on a key the merge is last-write-wins
// per entry (a plain object merge, not a union of carts or ads).
func AssembleReport(entries []CustomerAds, date, userID string) models.Report {
	customers := make(map[string]models.ReportCustomer, len(entries))
	for _, e := range entries {
		if len(e.Ads) == 0 {
			continue
		}
		customers[e.Customer.LowerCaseEmail] = models.ReportCustomer{
			Email:          e.Customer.Email,
			LowerCaseEmail: e.Customer.LowerCaseEmail,
			GeoCountry:     e.Customer.GeoCountry,
			Cart:           e.Customer.Cart,
			Ads:            e.Ads,
			Stats:          e.Customer.Stats,
		}
	}

	var totals models.Stats
	for _, rc := range customers {
		totals.SalesCount += rc.Stats.SalesCount
		totals.RevenueSum += rc.Stats.RevenueSum
	}

	return models.Report{
		Customers: customers,
		Date:      date,
		UserID:    userID,
		Totals:    totals,
	}
}
