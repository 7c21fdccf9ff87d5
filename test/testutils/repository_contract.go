package testutils

import (
	"context"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/stretchr/testify/suite"
)

// RecipeRepositoryContract is the behaviour every RecipeRepository must share.
// Embed it in a store-specific suite and set NewRepository.
type RecipeRepositoryContract struct {
	suite.Suite

	// NewRepository returns an empty repository for each test
	NewRepository func() outbound.RecipeRepository

	repo    outbound.RecipeRepository
	factory *RecipeFactory
	ctx     context.Context
}

// SetupTest creates a fresh repository
func (c *RecipeRepositoryContract) SetupTest() {
	c.Require().NotNil(c.NewRepository, "NewRepository must be set")
	c.repo = c.NewRepository()
	c.factory = NewRecipeFactory(42)
	c.ctx = context.Background()
}

func (c *RecipeRepositoryContract) assertSameRecipe(expected, actual *recipe.Recipe) {
	want, got := expected.Snapshot(), actual.Snapshot()
	c.Equal(want.ID, got.ID)
	c.Equal(want.Title, got.Title)
	c.Equal(want.Description, got.Description)
	c.Equal(want.Servings, got.Servings)
	c.Equal(want.Ingredients, got.Ingredients)
	c.Equal(want.Steps, got.Steps)
	c.Equal(want.Tags, got.Tags)
	c.WithinDuration(want.CreatedAt, got.CreatedAt, time.Millisecond)
	c.WithinDuration(want.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

// TestCreateAndFind verifies round-tripping through the store
func (c *RecipeRepositoryContract) TestCreateAndFind() {
	c.Run("Create_ShouldPersistAllFields", func() {
		// Arrange
		rec := c.factory.Recipe()

		// Act
		err := c.repo.Create(c.ctx, rec)
		c.Require().NoError(err)
		found, err := c.repo.FindByID(c.ctx, rec.ID())

		// Assert
		c.Require().NoError(err)
		c.assertSameRecipe(rec, found)
	})

	c.Run("FindByID_ShouldReturnNotFound_ForUnknownID", func() {
		// Act
		found, err := c.repo.FindByID(c.ctx, "00000000-0000-0000-0000-000000000000")

		// Assert
		c.ErrorIs(err, recipe.ErrRecipeNotFound)
		c.Nil(found)
	})

	c.Run("Create_ShouldKeepEmptyCollections", func() {
		// Arrange
		rec, err := recipe.NewRecipe(recipe.Draft{Title: "Toast"})
		c.Require().NoError(err)

		// Act
		c.Require().NoError(c.repo.Create(c.ctx, rec))
		found, err := c.repo.FindByID(c.ctx, rec.ID())

		// Assert
		c.Require().NoError(err)
		c.Empty(found.Ingredients())
		c.Empty(found.Steps())
		c.Empty(found.Tags())
		c.Equal(recipe.DefaultServings, found.Servings())
	})
}

// TestUpdate verifies replacement semantics
func (c *RecipeRepositoryContract) TestUpdate() {
	c.Run("Update_ShouldPersistChanges", func() {
		// Arrange
		rec := c.factory.Recipe()
		c.Require().NoError(c.repo.Create(c.ctx, rec))
		title := "Updated title"
		servings := 12
		c.Require().NoError(rec.Apply(recipe.Patch{Title: &title, Servings: &servings}))

		// Act
		err := c.repo.Update(c.ctx, rec)

		// Assert
		c.Require().NoError(err)
		found, err := c.repo.FindByID(c.ctx, rec.ID())
		c.Require().NoError(err)
		c.Equal(title, found.Title())
		c.Equal(servings, found.Servings())
		c.WithinDuration(rec.CreatedAt(), found.CreatedAt(), time.Millisecond)
	})

	c.Run("Update_ShouldReturnNotFound_ForUnknownRecipe", func() {
		// Arrange
		rec := c.factory.Recipe()

		// Act
		err := c.repo.Update(c.ctx, rec)

		// Assert
		c.ErrorIs(err, recipe.ErrRecipeNotFound)
	})
}

// TestDelete verifies removal
func (c *RecipeRepositoryContract) TestDelete() {
	c.Run("Delete_ShouldRemoveRecipe", func() {
		// Arrange
		rec := c.factory.Recipe()
		c.Require().NoError(c.repo.Create(c.ctx, rec))

		// Act
		err := c.repo.Delete(c.ctx, rec.ID())

		// Assert
		c.Require().NoError(err)
		_, err = c.repo.FindByID(c.ctx, rec.ID())
		c.ErrorIs(err, recipe.ErrRecipeNotFound)
	})

	c.Run("Delete_ShouldReturnNotFound_ForUnknownID", func() {
		// Act
		err := c.repo.Delete(c.ctx, "00000000-0000-0000-0000-000000000000")

		// Assert
		c.ErrorIs(err, recipe.ErrRecipeNotFound)
	})
}

// TestList verifies ordering
func (c *RecipeRepositoryContract) TestList() {
	c.Run("List_ShouldReturnNewestFirst", func() {
		// Arrange
		base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		oldest := NewRecipeBuilder().WithTitle("oldest").CreatedAt(base).Build()
		newest := NewRecipeBuilder().WithTitle("newest").CreatedAt(base.Add(2 * time.Hour)).Build()
		middle := NewRecipeBuilder().WithTitle("middle").CreatedAt(base.Add(time.Hour)).Build()

		for _, rec := range []*recipe.Recipe{oldest, newest, middle} {
			c.Require().NoError(c.repo.Create(c.ctx, rec))
		}

		// Act
		recipes, err := c.repo.List(c.ctx)

		// Assert
		c.Require().NoError(err)
		c.Require().Len(recipes, 3)
		c.Equal("newest", recipes[0].Title())
		c.Equal("middle", recipes[1].Title())
		c.Equal("oldest", recipes[2].Title())
	})
}

// TestPing verifies a healthy store answers
func (c *RecipeRepositoryContract) TestPing() {
	c.NoError(c.repo.Ping(c.ctx))
}
