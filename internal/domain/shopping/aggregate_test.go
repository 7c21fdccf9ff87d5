package shopping

import (
	"math"
	"testing"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AggregateTestSuite struct {
	suite.Suite
}

func TestAggregateTestSuite(t *testing.T) {
	suite.Run(t, new(AggregateTestSuite))
}

func ing(name string, quantity float64, unit string) recipe.Ingredient {
	return recipe.Ingredient{Name: name, Quantity: quantity, Unit: unit}
}

func (s *AggregateTestSuite) TestEffectiveScale() {
	s.Run("ServingsOverride_ShouldWinOverScale", func() {
		entry := Entry{Servings: 4, ServingsOverride: 8, Scale: 3}

		s.Equal(2.0, entry.EffectiveScale())
	})

	s.Run("ZeroServings_ShouldFallBackToScale", func() {
		s.Equal(1.0, Entry{Servings: 0, ServingsOverride: 8}.EffectiveScale())
		s.Equal(3.0, Entry{Servings: 0, ServingsOverride: 8, Scale: 3}.EffectiveScale())
	})

	s.Run("ZeroOverride_ShouldUseScale", func() {
		s.Equal(0.5, Entry{Servings: 4, Scale: 0.5}.EffectiveScale())
	})

	s.Run("NegativeScale_ShouldBeKept", func() {
		s.Equal(-2.0, Entry{Scale: -2}.EffectiveScale())
	})
}

func (s *AggregateTestSuite) TestAggregate() {
	s.Run("SugarAcrossRecipes_ShouldSum", func() {
		// Arrange
		entries := []Entry{
			{Servings: 1, Scale: 1, Ingredients: []recipe.Ingredient{ing("Sugar", 100, "g")}},
			{Servings: 1, Scale: 2, Ingredients: []recipe.Ingredient{ing("sugar", 50, "g")}},
		}

		// Act
		lines := Aggregate(entries)

		// Assert
		s.Equal([]Line{{Name: "Sugar", Unit: "g", Quantity: 200}}, lines)
	})

	s.Run("CaseAndWhitespace_ShouldMergeKeepingFirstSpelling", func() {
		entries := []Entry{
			{Ingredients: []recipe.Ingredient{ing("Flour", 100, "G"), ing(" flour ", 50, "g ")}},
		}

		lines := Aggregate(entries)

		require.Len(s.T(), lines, 1)
		s.Equal("Flour", lines[0].Name)
		s.Equal("G", lines[0].Unit)
		s.Equal(150.0, lines[0].Quantity)
	})

	s.Run("DifferentUnits_ShouldStaySeparate", func() {
		entries := []Entry{
			{Ingredients: []recipe.Ingredient{ing("Milk", 1, "cup"), ing("Milk", 200, "ml"), ing("milk", 1, "Cup")}},
		}

		lines := Aggregate(entries)

		s.Equal([]Line{
			{Name: "Milk", Unit: "cup", Quantity: 2},
			{Name: "Milk", Unit: "ml", Quantity: 200},
		}, lines)
	})

	s.Run("NonCollidingIngredients_ShouldScaleExactly", func() {
		entries := []Entry{
			{Servings: 2, ServingsOverride: 6, Ingredients: []recipe.Ingredient{ing("Rice", 1.5, "cup"), ing("Water", 3, "cup")}},
			{Scale: 0.5, Ingredients: []recipe.Ingredient{ing("Salt", 2, "tsp")}},
		}

		lines := Aggregate(entries)

		s.Equal([]Line{
			{Name: "Rice", Unit: "cup", Quantity: 4.5},
			{Name: "Water", Unit: "cup", Quantity: 9},
			{Name: "Salt", Unit: "tsp", Quantity: 1},
		}, lines)
	})

	s.Run("Permutation_ShouldKeepSameLines", func() {
		a := Entry{Scale: 2, Ingredients: []recipe.Ingredient{ing("Egg", 2, ""), ing("Butter", 10, "g")}}
		b := Entry{Ingredients: []recipe.Ingredient{ing("egg", 1, ""), ing("Lemon", 1, "")}}

		forward := Aggregate([]Entry{a, b})
		backward := Aggregate([]Entry{b, a})

		s.Len(forward, 3)
		s.ElementsMatch(
			[]float64{forward[0].Quantity, forward[1].Quantity, forward[2].Quantity},
			[]float64{backward[0].Quantity, backward[1].Quantity, backward[2].Quantity},
		)
		s.Equal("Egg", forward[0].Name)
		s.Equal("egg", backward[0].Name)
	})

	s.Run("EmptyInput_ShouldReturnEmptyList", func() {
		s.Empty(Aggregate(nil))
		s.NotNil(Aggregate([]Entry{{Title: "No ingredients"}}))
	})

	s.Run("BlankNameAndNegativeQuantity_ShouldPassThrough", func() {
		entries := []Entry{
			{Ingredients: []recipe.Ingredient{ing("", 2, "g"), ing("  ", -5, "G")}},
		}

		lines := Aggregate(entries)

		s.Equal([]Line{{Name: "", Unit: "g", Quantity: -3}}, lines)
	})
}

func (s *AggregateTestSuite) TestRound() {
	s.Equal(0.33, Round(1.0/3.0))
	s.Equal(0.13, Round(0.125))
	s.Equal(-0.12, Round(-0.125))
	s.Equal(2.0, Round(2))
	s.True(math.IsInf(Round(math.Inf(1)), 1))
	s.True(math.IsNaN(Round(math.NaN())))

	s.Run("NearHalf_ShouldNotRoundUp", func() {
		s.Equal(0.0, Round(0.004999999999999999))
		s.Equal(45035996273704.97, Round(45035996273704.97))
	})
}

func (s *AggregateTestSuite) TestNonFiniteMultipliers() {
	s.Run("NaNScale_ShouldYieldNaNLine", func() {
		entries := []Entry{{Scale: math.NaN(), Ingredients: []recipe.Ingredient{ing("Flour", 10, "g")}}}

		lines := Aggregate(entries)

		s.Require().Len(lines, 1)
		s.True(math.IsNaN(lines[0].Quantity))
	})

	s.Run("NaNOverride_ShouldYieldNaNLine", func() {
		entries := []Entry{{Servings: 2, ServingsOverride: math.NaN(), Ingredients: []recipe.Ingredient{ing("Flour", 10, "g")}}}

		s.True(math.IsNaN(Aggregate(entries)[0].Quantity))
	})

	s.Run("InfiniteQuantity_ShouldPassThroughUnrounded", func() {
		entries := []Entry{{Ingredients: []recipe.Ingredient{ing("Salt", math.Inf(1), ""), ing("salt", 1, "")}}}

		s.True(math.IsInf(Aggregate(entries)[0].Quantity, 1))
	})
}

func TestAggregateRoundsSumNotTerms(t *testing.T) {
	entries := []Entry{
		{Ingredients: []recipe.Ingredient{ing("Oil", 0.004, "l"), ing("oil", 0.004, "l")}},
	}

	lines := Aggregate(entries)

	assert.Equal(t, 0.01, lines[0].Quantity)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "flour||g", Key(" Flour ", "G"))
	assert.Equal(t, "||", Key("", ""))
}
