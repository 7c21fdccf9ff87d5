package cached_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/cached"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/test/testutils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type lookupCounter struct {
	hits, misses int
}

func (c *lookupCounter) CacheLookup(hit bool) {
	if hit {
		c.hits++
		return
	}
	c.misses++
}

type CachedRecipeRepositorySuite struct {
	testutils.RecipeRepositoryContract
}

func TestCachedRecipeRepository(t *testing.T) {
	s := &CachedRecipeRepositorySuite{}
	s.NewRepository = func() outbound.RecipeRepository {
		cache := memory.NewCacheRepository(0)
		t.Cleanup(func() { _ = cache.Close() })
		return cached.NewRecipeRepository(memory.NewRecipeRepository(), cache, time.Minute, zap.NewNop())
	}
	suite.Run(t, s)
}

type ReadThroughSuite struct {
	suite.Suite
	store   *testutils.MockRecipeRepository
	cache   *memory.CacheRepository
	counter *lookupCounter
	repo    *cached.RecipeRepository
	recipe  *recipe.Recipe
	ctx     context.Context
}

func (s *ReadThroughSuite) SetupTest() {
	s.store = new(testutils.MockRecipeRepository)
	s.cache = memory.NewCacheRepository(0)
	s.counter = &lookupCounter{}
	s.repo = cached.NewRecipeRepository(s.store, s.cache, time.Minute, zap.NewNop(),
		cached.WithObserver(s.counter), cached.WithKeyPrefix("test:"))
	s.recipe = testutils.NewRecipeFactory(11).Recipe()
	s.ctx = context.Background()
}

func (s *ReadThroughSuite) TearDownTest() {
	_ = s.cache.Close()
}

func (s *ReadThroughSuite) TestFindByID() {
	s.Run("SecondLookup_ShouldBeServedFromCache", func() {
		// Arrange
		s.store.On("FindByID", s.ctx, s.recipe.ID()).Return(s.recipe, nil).Once()

		// Act
		first, err := s.repo.FindByID(s.ctx, s.recipe.ID())
		s.Require().NoError(err)
		second, err := s.repo.FindByID(s.ctx, s.recipe.ID())
		s.Require().NoError(err)

		// Assert
		s.Equal(first.Title(), second.Title())
		s.Equal(s.recipe.Ingredients(), second.Ingredients())
		s.Equal(1, s.counter.hits)
		s.Equal(1, s.counter.misses)
		exists, _ := s.cache.Exists(s.ctx, "test:"+s.recipe.ID())
		s.True(exists)
		s.store.AssertExpectations(s.T())
	})
}

func (s *ReadThroughSuite) TestFindByID_NotFound() {
	// Arrange
	s.store.On("FindByID", s.ctx, "missing").Return(nil, recipe.ErrRecipeNotFound)

	// Act
	_, err := s.repo.FindByID(s.ctx, "missing")

	// Assert
	s.ErrorIs(err, recipe.ErrRecipeNotFound)
	exists, _ := s.cache.Exists(s.ctx, "test:missing")
	s.False(exists)
}

func (s *ReadThroughSuite) TestUpdate_ShouldInvalidate() {
	// Arrange
	s.Require().NoError(s.cache.Set(s.ctx, "test:"+s.recipe.ID(), []byte("{}"), time.Minute))
	s.store.On("Update", s.ctx, s.recipe).Return(nil)

	// Act
	err := s.repo.Update(s.ctx, s.recipe)

	// Assert
	s.Require().NoError(err)
	exists, _ := s.cache.Exists(s.ctx, "test:"+s.recipe.ID())
	s.False(exists)
}

func (s *ReadThroughSuite) TestDelete_ShouldKeepEntryWhenStoreFails() {
	// Arrange
	storeErr := errors.New("store down")
	s.Require().NoError(s.cache.Set(s.ctx, "test:"+s.recipe.ID(), []byte("{}"), time.Minute))
	s.store.On("Delete", s.ctx, s.recipe.ID()).Return(storeErr)

	// Act
	err := s.repo.Delete(s.ctx, s.recipe.ID())

	// Assert
	s.ErrorIs(err, storeErr)
	exists, _ := s.cache.Exists(s.ctx, "test:"+s.recipe.ID())
	s.True(exists)
}

func TestReadThroughSuite(t *testing.T) {
	suite.Run(t, new(ReadThroughSuite))
}

func TestFindByID_CacheFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	rec := testutils.NewRecipeFactory(5).Recipe()

	cache := new(testutils.MockCacheRepository)
	cache.On("Get", ctx, "recipe:"+rec.ID()).Return(nil, errors.New("connection refused"))
	cache.On("Set", ctx, "recipe:"+rec.ID(), mock.Anything, time.Minute).Return(errors.New("connection refused"))

	store := new(testutils.MockRecipeRepository)
	store.On("FindByID", ctx, rec.ID()).Return(rec, nil)

	repo := cached.NewRecipeRepository(store, cache, time.Minute, zap.NewNop())

	found, err := repo.FindByID(ctx, rec.ID())
	if err != nil {
		t.Fatalf("expected store result, got %v", err)
	}
	if found.ID() != rec.ID() {
		t.Fatalf("expected %s, got %s", rec.ID(), found.ID())
	}
	cache.AssertExpectations(t)
	store.AssertExpectations(t)
}
