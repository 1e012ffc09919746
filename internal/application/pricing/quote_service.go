package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/pricing"
	"github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/gdsgroupsas-jpg/spediresicuro-sub013/internal/application/pricing"

// QuoteMetrics records quote outcomes
type QuoteMetrics interface {
	RecordQuote(ctx context.Context, outcome, listKind string, elapsed time.Duration)
}

type noopQuoteMetrics struct{}

func (noopQuoteMetrics) RecordQuote(context.Context, string, string, time.Duration) {}

// QuoteServiceConfig configures a PriceQuoteService
type QuoteServiceConfig struct {
	Policy         pricing.MarginPolicy
	DefaultOutput  pricing.TaxConvention
	FallbackListID *uuid.UUID
	Publisher      shared.EventPublisher
	Metrics        QuoteMetrics
	Tracer         trace.Tracer
	Logger         *zap.Logger
	Clock          func() time.Time
}

// PriceQuoteService composes list resolution, entry selection and margin
// resolution into a single quote
type PriceQuoteService struct {
	lists      pricing.PriceListReader
	cascade    *pricing.AssignmentCascade
	guard      *pricing.VisibilityGuard
	zones      pricing.ZoneResolver
	margins    *pricing.MarginResolver
	normalizer pricing.TaxNormalizer

	defaultOutput  pricing.TaxConvention
	fallbackListID *uuid.UUID
	publisher      shared.EventPublisher
	metrics        QuoteMetrics
	tracer         trace.Tracer
	logger         *zap.Logger
	now            func() time.Time
}

// NewPriceQuoteService creates a new PriceQuoteService
func NewPriceQuoteService(lists pricing.PriceListReader, assignments pricing.AssignmentReader, cfg QuoteServiceConfig) *PriceQuoteService {
	cascade := pricing.NewAssignmentCascade(lists, assignments)
	s := &PriceQuoteService{
		lists:          lists,
		cascade:        cascade,
		guard:          pricing.NewVisibilityGuard(cascade),
		margins:        pricing.NewMarginResolver(cfg.Policy),
		defaultOutput:  cfg.DefaultOutput,
		fallbackListID: cfg.FallbackListID,
		publisher:      cfg.Publisher,
		metrics:        cfg.Metrics,
		tracer:         cfg.Tracer,
		logger:         cfg.Logger,
		now:            cfg.Clock,
	}
	if s.defaultOutput == "" {
		s.defaultOutput = pricing.TaxInclusive
	}
	if s.metrics == nil {
		s.metrics = noopQuoteMetrics{}
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// priced is one candidate list that produced a match
type priced struct {
	snapshot *pricing.PriceListSnapshot
	backing  *pricing.PriceListSnapshot
	outcome  pricing.MarginOutcome
}

// Quote prices a shipment for caller
func (s *PriceQuoteService) Quote(ctx context.Context, caller pricing.TenantIdentity, req QuoteRequest) (result *QuoteResult, err error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "pricing.Quote", trace.WithAttributes(
		attribute.String("tenant.id", caller.ID.String()),
		attribute.Float64("shipment.weight_kg", req.WeightKg),
	))
	listKind := ""
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = shared.CodeOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		s.metrics.RecordQuote(ctx, outcome, listKind, s.now().Sub(start))
		span.End()
	}()

	sel, err := req.selection()
	if err != nil {
		return nil, err
	}
	sel.Zone, sel.ZoneResolved = s.zones.Resolve(sel.Destination)
	output := s.defaultOutput
	if req.OutputConvention != "" {
		output = pricing.ParseTaxConvention(req.OutputConvention)
	}

	trail := DiagnosticTrail{CallerTenantID: caller.ID, MatchedZone: sel.Zone, ZoneResolved: sel.ZoneResolved}
	now := s.now()

	var (
		candidates []*pricing.PriceListSnapshot
		accessible pricing.AccessibleSet
	)
	if req.PriceListID != nil {
		snapshot, err := s.explicitList(ctx, caller, *req.PriceListID)
		if err != nil {
			return nil, err
		}
		if !snapshot.List.IsUsableAt(now) {
			return nil, shared.NewDomainError(shared.CodeNoApplicableRate, "price list is not active")
		}
		candidates = []*pricing.PriceListSnapshot{snapshot}
		trail.Steps = append(trail.Steps, "explicit list "+snapshot.List.ID.String())
		if accessible, err = s.cascade.ResolveAccessible(ctx, caller); err != nil {
			return nil, fmt.Errorf("resolve accessible price lists: %w", err)
		}
	} else {
		if accessible, err = s.cascade.ResolveAccessible(ctx, caller); err != nil {
			return nil, fmt.Errorf("resolve accessible price lists: %w", err)
		}
		candidates, err = s.implicitLists(ctx, caller, accessible, req.CarrierRef(), now)
		if err != nil {
			return nil, err
		}
		trail.Steps = append(trail.Steps, fmt.Sprintf("%d candidate lists", len(candidates)))
	}

	best, err := s.priceCandidates(ctx, candidates, sel)
	if err != nil {
		return nil, err
	}
	trail.Evaluated = len(candidates)

	if best == nil {
		best, err = s.tryFallback(ctx, caller, accessible, candidates, sel, now)
		if err != nil {
			return nil, err
		}
		if best == nil {
			return nil, shared.ErrNoApplicableRate
		}
		trail.FallbackUsed = true
		trail.Evaluated++
		trail.Steps = append(trail.Steps, "fallback list "+best.snapshot.List.ID.String())
	}

	listKind = string(best.snapshot.List.Kind)
	result, err = s.buildResult(caller, accessible, best, output, trail, now)
	if err != nil {
		s.logger.Error("Quote produced an invalid amount",
			zap.String("price_list_id", best.snapshot.List.ID.String()),
			zap.String("entry_id", best.outcome.Entry.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.audit(ctx, result)
	return result, nil
}

// explicitList checks visibility on the header of a caller-chosen list
// before its entries are read. Missing or undecodable headers are reported as
// denied so nothing is disclosed about lists the caller cannot see.
func (s *PriceQuoteService) explicitList(ctx context.Context, caller pricing.TenantIdentity, id uuid.UUID) (*pricing.PriceListSnapshot, error) {
	header, err := s.header(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrPermissionDenied
		}
		return nil, err
	}
	ok, err := s.guard.CanSee(ctx, caller, header)
	if err != nil {
		return nil, fmt.Errorf("check visibility: %w", err)
	}
	if !ok {
		return nil, shared.ErrPermissionDenied
	}

	snapshot, err := s.lists.GetPriceList(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrPermissionDenied
		}
		return nil, fmt.Errorf("get price list: %w", err)
	}
	return snapshot, nil
}

// header loads the validated header of id alone; the listing query drops
// rows that do not decode, so those read as not found.
func (s *PriceQuoteService) header(ctx context.Context, id uuid.UUID) (*pricing.PriceList, error) {
	headers, err := s.lists.ListPriceLists(ctx, pricing.PriceListFilter{IDs: []uuid.UUID{id}})
	if err != nil {
		return nil, fmt.Errorf("get price list header: %w", err)
	}
	if len(headers) == 0 {
		return nil, shared.ErrNotFound
	}
	return &headers[0], nil
}

// implicitLists returns the usable Custom/Master lists the caller sees for the carrier
func (s *PriceQuoteService) implicitLists(ctx context.Context, caller pricing.TenantIdentity, accessible pricing.AccessibleSet, ref pricing.CarrierContractRef, now time.Time) ([]*pricing.PriceListSnapshot, error) {
	headers, err := s.lists.ListPriceLists(ctx, pricing.PriceListFilter{
		Kinds:  []pricing.ListKind{pricing.KindCustom, pricing.KindMaster},
		Status: pricing.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("list price lists: %w", err)
	}

	var out []*pricing.PriceListSnapshot
	for i := range headers {
		h := &headers[i]
		if !h.IsQuotable() || !h.IsUsableAt(now) || !h.Carrier.Matches(ref) {
			continue
		}
		if !pricing.CanSeeWithin(caller, h, accessible) {
			continue
		}
		snapshot, err := s.lists.GetPriceList(ctx, h.ID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// replaced by a concurrent sync
				continue
			}
			return nil, fmt.Errorf("get price list %s: %w", h.ID, err)
		}
		out = append(out, snapshot)
	}
	return out, nil
}

// priceCandidates prices every candidate and keeps the preferred one:
// Custom before Master, then the cheapest exclusive sell price.
func (s *PriceQuoteService) priceCandidates(ctx context.Context, candidates []*pricing.PriceListSnapshot, sel pricing.SelectionRequest) (*priced, error) {
	var results []*priced
	for _, snapshot := range candidates {
		p, err := s.priceList(ctx, snapshot, sel)
		if err != nil {
			return nil, err
		}
		if p != nil {
			results = append(results, p)
		}
	}
	if len(results) == 0 {
		return nil, nil
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		ak, bk := a.snapshot.List.Kind == pricing.KindCustom, b.snapshot.List.Kind == pricing.KindCustom
		if ak != bk {
			return ak
		}
		if !a.outcome.SellExclTax.Equal(b.outcome.SellExclTax) {
			return a.outcome.SellExclTax.LessThan(b.outcome.SellExclTax)
		}
		return a.snapshot.List.Priority > b.snapshot.List.Priority
	})
	return results[0], nil
}

// priceList runs margin resolution on one list, loading its backing list.
// A referenced backing list that cannot be found is a data error.
func (s *PriceQuoteService) priceList(ctx context.Context, snapshot *pricing.PriceListSnapshot, sel pricing.SelectionRequest) (*priced, error) {
	var backing *pricing.PriceListSnapshot
	if id := snapshot.List.MasterListID; id != nil {
		b, err := s.lists.GetPriceList(ctx, *id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeInconsistentListData,
					fmt.Sprintf("price list %s references missing master list %s", snapshot.List.ID, *id))
			}
			return nil, fmt.Errorf("get master list %s: %w", *id, err)
		}
		backing = b
	}

	outcome, ok := s.margins.Resolve(pricing.MarginInput{
		List:    snapshot.List,
		Entries: snapshot.Entries,
		Backing: backing,
		Request: sel,
	})
	if !ok {
		return nil, nil
	}
	if outcome.MarginSource == pricing.MarginFromLegacyDefault {
		s.logger.Warn("Using legacy default margin, configure an explicit margin",
			zap.String("price_list_id", snapshot.List.ID.String()),
			zap.String("price_list_name", snapshot.List.Name),
		)
	}
	return &priced{snapshot: snapshot, backing: backing, outcome: outcome}, nil
}

// tryFallback prices the configured fallback list when it is visible and usable
func (s *PriceQuoteService) tryFallback(ctx context.Context, caller pricing.TenantIdentity, accessible pricing.AccessibleSet, tried []*pricing.PriceListSnapshot, sel pricing.SelectionRequest, now time.Time) (*priced, error) {
	if s.fallbackListID == nil {
		return nil, nil
	}
	for _, t := range tried {
		if t.List.ID == *s.fallbackListID {
			return nil, nil
		}
	}
	header, err := s.header(ctx, *s.fallbackListID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Configured fallback price list not found",
				zap.String("price_list_id", s.fallbackListID.String()))
			return nil, nil
		}
		return nil, err
	}
	if !header.IsUsableAt(now) || !pricing.CanSeeWithin(caller, header, accessible) {
		return nil, nil
	}
	snapshot, err := s.lists.GetPriceList(ctx, header.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fallback list: %w", err)
	}
	return s.priceList(ctx, snapshot, sel)
}

func (s *PriceQuoteService) buildResult(caller pricing.TenantIdentity, accessible pricing.AccessibleSet, p *priced, output pricing.TaxConvention, trail DiagnosticTrail, now time.Time) (*QuoteResult, error) {
	list := p.snapshot.List
	o := p.outcome
	rate := list.EffectiveTaxRate()
	toOutput := func(exclusive decimal.Decimal) decimal.Decimal {
		return s.normalizer.Normalize(exclusive, pricing.TaxExclusive, output, rate)
	}

	vat := s.normalizer.VATOn(o.SellExclTax, rate)
	result := &QuoteResult{
		PriceListID:   list.ID,
		PriceListName: list.Name,
		EntryID:       o.Entry.ID,
		ConfigID:      list.Carrier.ConfigID,
		Convention:    output,
		TaxRate:       rate,
		BasePrice:     toOutput(o.BaseExclTax),
		Surcharges:    toOutput(o.SurchargesExclTax),
		TotalPrice:    toOutput(o.SellExclTax),
		TotalExclTax:  o.SellExclTax,
		VATAmount:     vat,
		TotalWithVAT:  o.SellExclTax.Add(vat),
		Delivery:      o.Entry.Delivery,
		APISource:     APISourceResellerOwn,
		ComputedAt:    now,
	}

	reason, _ := accessible.Reason(list.ID)
	if list.MasterListID != nil || reason == pricing.AccessAssigned || reason == pricing.AccessLegacy {
		result.APISource = APISourcePlatform
	}

	// Margin source and the override flag are derived from the backing cost,
	// so they are withheld together with it.
	backingVisible := p.backing == nil || pricing.CanSeeWithin(caller, p.backing.List, accessible)
	if backingVisible {
		result.MarginSource = o.MarginSource
		result.IsManuallyModified = o.IsManuallyModified
		margin := o.Margin
		result.Margin = &margin
		if o.SupplierExclTax != nil {
			cost := toOutput(*o.SupplierExclTax)
			result.SupplierCost = &cost
			result.SupplierOriginal = o.SupplierOriginal
		}
	}

	trail.PriceListID = list.ID
	trail.EntryID = o.Entry.ID
	if p.backing != nil && backingVisible {
		id := p.backing.List.ID
		trail.BackingListID = &id
	}
	result.Diagnostics = trail

	for _, amount := range []decimal.Decimal{result.BasePrice, result.Surcharges, result.TotalPrice, result.VATAmount, result.TotalWithVAT} {
		if amount.IsNegative() {
			return nil, shared.NewDomainError(shared.CodeRoundingOverflow,
				fmt.Sprintf("computed amount %s is negative", amount.StringFixed(2)))
		}
	}
	return result, nil
}

// audit publishes the quote record; failures are logged and never fail the quote
func (s *PriceQuoteService) audit(ctx context.Context, r *QuoteResult) {
	if s.publisher == nil {
		return
	}
	event := pricing.NewQuoteComputedEvent(r.PriceListID, r.EntryID, r.Diagnostics.CallerTenantID,
		r.Diagnostics.MatchedZone, r.Diagnostics.FallbackUsed, r.ComputedAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish quote audit event",
			zap.String("price_list_id", r.PriceListID.String()),
			zap.Error(err),
		)
	}
}

// ListAccessiblePriceLists returns summaries of every list tenant may see
func (s *PriceQuoteService) ListAccessiblePriceLists(ctx context.Context, tenant pricing.TenantIdentity) ([]PriceListSummary, error) {
	accessible, err := s.cascade.ResolveAccessible(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("resolve accessible price lists: %w", err)
	}
	headers, err := s.lists.ListPriceLists(ctx, pricing.PriceListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list price lists: %w", err)
	}

	summaries := make([]PriceListSummary, 0, len(headers))
	for i := range headers {
		h := &headers[i]
		if !pricing.CanSeeWithin(tenant, h, accessible) {
			continue
		}
		reason, _ := accessible.Reason(h.ID)
		summaries = append(summaries, ToPriceListSummary(h, reason))
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].ID.String() < summaries[j].ID.String()
	})
	return summaries, nil
}
