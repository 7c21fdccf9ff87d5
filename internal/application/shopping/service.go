package shopping

import (
	"context"

	"github.com/alchemorsel/pantry/internal/domain/shopping"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/alchemorsel/pantry/internal/application/shopping"

// Metrics receives shopping-list business measurements
type Metrics interface {
	ShoppingListGenerated(lines int)
	ReferencesSkipped(n int)
}

type nopMetrics struct{}

func (nopMetrics) ShoppingListGenerated(int) {}
func (nopMetrics) ReferencesSkipped(int)     {}

// Service implements inbound.ShoppingListService
type Service struct {
	resolver *Resolver
	metrics  Metrics
	tracer   trace.Tracer
	logger   *zap.Logger
}

var _ inbound.ShoppingListService = (*Service)(nil)

// NewService creates the shopping-list service. metrics may be nil.
func NewService(resolver *Resolver, metrics Metrics, logger *zap.Logger) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		resolver: resolver,
		metrics:  metrics,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.Named("shopping-service"),
	}
}

// GenerateShoppingList resolves the selected recipes and consolidates their
// ingredients into one list
func (s *Service) GenerateShoppingList(ctx context.Context, cmd inbound.GenerateShoppingListCommand) (*inbound.ShoppingListDTO, error) {
	ctx, span := s.tracer.Start(ctx, "shopping.GenerateShoppingList")
	defer span.End()

	refs, skipped, err := ParseReferences(cmd.Recipes)
	if err != nil {
		span.SetStatus(codes.Error, "invalid selection")
		return nil, err
	}

	requested := len(refs) + skipped

	resolution, err := s.resolve(ctx, refs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		s.logger.Error("Failed to resolve recipes", zap.Error(err))
		return nil, errors.NewInternalError("Failed to resolve recipes").WithCause(err)
	}

	skipped += resolution.Missing
	if skipped > 0 {
		s.logger.Info("Skipped unusable recipe references",
			zap.Int("skipped", skipped),
			zap.Int("requested", requested),
		)
		s.metrics.ReferencesSkipped(skipped)
	}

	_, aggSpan := s.tracer.Start(ctx, "shopping.Aggregate")
	lines := shopping.Aggregate(resolution.Entries)
	aggSpan.SetAttributes(attribute.Int("shopping.lines", len(lines)))
	aggSpan.End()

	span.SetAttributes(
		attribute.Int("shopping.entries", len(resolution.Entries)),
		attribute.Int("shopping.skipped", skipped),
	)
	s.metrics.ShoppingListGenerated(len(lines))

	items := make([]inbound.ShoppingItemDTO, len(lines))
	for i, line := range lines {
		items[i] = inbound.ShoppingItemDTO{
			Name:     line.Name,
			Unit:     line.Unit,
			Quantity: inbound.Amount(line.Quantity),
		}
	}

	return &inbound.ShoppingListDTO{Items: items}, nil
}

func (s *Service) resolve(ctx context.Context, refs []Reference) (*Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "shopping.Resolve")
	defer span.End()

	span.SetAttributes(attribute.Int("shopping.references", len(refs)))
	return s.resolver.Resolve(ctx, refs)
}
