package shopping

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shopping"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrentLookups bounds store lookups per request when no
// limit is configured
const DefaultMaxConcurrentLookups = 8

// Resolution is the outcome of resolving a request's references
type Resolution struct {
	Entries []shopping.Entry
	// Missing counts referenced ids that are not in the store
	Missing int
}

// Resolver turns references into scaled entries, looking stored recipes up
// concurrently while preserving request order.
type Resolver struct {
	repo   outbound.RecipeRepository
	limit  int
	logger *zap.Logger
}

// NewResolver creates a resolver that runs at most limit lookups at once
func NewResolver(repo outbound.RecipeRepository, limit int, logger *zap.Logger) *Resolver {
	if limit <= 0 {
		limit = DefaultMaxConcurrentLookups
	}
	return &Resolver{
		repo:   repo,
		limit:  limit,
		logger: logger.Named("recipe-resolver"),
	}
}

// Resolve looks up every id reference. Unknown ids are skipped; any other
// store failure cancels the remaining lookups and is returned.
func (r *Resolver) Resolve(ctx context.Context, refs []Reference) (*Resolution, error) {
	slots := make([]*shopping.Entry, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, ref := range refs {
		if ref.Inline != nil {
			entry := *ref.Inline
			slots[i] = &entry
			continue
		}

		i, ref := i, ref
		g.Go(func() error {
			found, err := r.repo.FindByID(gctx, ref.ID)
			if stderrors.Is(err, recipe.ErrRecipeNotFound) {
				r.logger.Debug("Skipping unknown recipe reference", zap.String("recipe_id", ref.ID))
				return nil
			}
			if err != nil {
				return err
			}
			slots[i] = &shopping.Entry{
				Title:            found.Title(),
				Servings:         float64(found.Servings()),
				Ingredients:      found.Ingredients(),
				Scale:            ref.Scale,
				ServingsOverride: ref.ServingsOverride,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Resolution{Entries: make([]shopping.Entry, 0, len(slots))}
	for _, slot := range slots {
		if slot == nil {
			res.Missing++
			continue
		}
		res.Entries = append(res.Entries, *slot)
	}
	return res, nil
}
