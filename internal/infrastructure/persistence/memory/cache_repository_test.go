package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/stretchr/testify/suite"
)

type CacheRepositoryTestSuite struct {
	suite.Suite
	cache *CacheRepository
	ctx   context.Context
}

func (s *CacheRepositoryTestSuite) SetupTest() {
	s.cache = NewCacheRepository(0)
	s.ctx = context.Background()
}

func (s *CacheRepositoryTestSuite) TearDownTest() {
	s.NoError(s.cache.Close())
}

func (s *CacheRepositoryTestSuite) TestGetSet() {
	s.Run("Get_ShouldReturnStoredValue", func() {
		// Arrange
		s.Require().NoError(s.cache.Set(s.ctx, "k", []byte("v"), time.Minute))

		// Act
		value, err := s.cache.Get(s.ctx, "k")

		// Assert
		s.Require().NoError(err)
		s.Equal([]byte("v"), value)
	})

	s.Run("Get_ShouldMiss_ForUnknownKey", func() {
		// Act
		_, err := s.cache.Get(s.ctx, "missing")

		// Assert
		s.ErrorIs(err, outbound.ErrCacheMiss)
	})

	s.Run("Get_ShouldMiss_AfterExpiry", func() {
		// Arrange
		s.Require().NoError(s.cache.Set(s.ctx, "short", []byte("v"), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		// Act
		_, err := s.cache.Get(s.ctx, "short")
		exists, existsErr := s.cache.Exists(s.ctx, "short")

		// Assert
		s.ErrorIs(err, outbound.ErrCacheMiss)
		s.NoError(existsErr)
		s.False(exists)
	})

	s.Run("Set_ShouldCopyValue", func() {
		// Arrange
		value := []byte("abc")
		s.Require().NoError(s.cache.Set(s.ctx, "copy", value, time.Minute))
		value[0] = 'z'

		// Act
		stored, err := s.cache.Get(s.ctx, "copy")

		// Assert
		s.Require().NoError(err)
		s.Equal([]byte("abc"), stored)
	})
}

func (s *CacheRepositoryTestSuite) TestDelete() {
	// Arrange
	s.Require().NoError(s.cache.Set(s.ctx, "k", []byte("v"), 0))

	// Act
	s.Require().NoError(s.cache.Delete(s.ctx, "k"))

	// Assert
	exists, err := s.cache.Exists(s.ctx, "k")
	s.NoError(err)
	s.False(exists)
}

func (s *CacheRepositoryTestSuite) TestCleanup() {
	// Arrange
	cache := NewCacheRepository(time.Millisecond)
	defer cache.Close()
	s.Require().NoError(cache.Set(s.ctx, "k", []byte("v"), time.Millisecond))

	// Assert
	s.Eventually(func() bool {
		cache.mutex.RLock()
		defer cache.mutex.RUnlock()
		return len(cache.data) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCacheRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CacheRepositoryTestSuite))
}
