package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DecodeJSONTestSuite struct {
	suite.Suite
}

type payload struct {
	Title string `json:"title"`
}

func (s *DecodeJSONTestSuite) decode(body string, maxBytes int64) (payload, error) {
	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := decodeJSON(httptest.NewRecorder(), req, maxBytes, &p)
	return p, err
}

func (s *DecodeJSONTestSuite) TestDecodeJSON() {
	s.Run("ValidBody_ShouldDecode", func() {
		// Act
		p, err := s.decode(`{"title":"Soup","extra":true}`, 1024)

		// Assert
		s.Require().NoError(err)
		s.Equal("Soup", p.Title)
	})

	s.Run("EmptyBody_ShouldBeBadRequest", func() {
		// Act
		_, err := s.decode("", 1024)

		// Assert
		s.True(errors.Is(err, errors.CodeBadRequest))
	})

	s.Run("MalformedBody_ShouldBeBadRequest", func() {
		// Act
		_, err := s.decode(`{"title":`, 1024)

		// Assert
		s.True(errors.Is(err, errors.CodeBadRequest))
	})

	s.Run("WrongType_ShouldBeBadRequest", func() {
		// Act
		_, err := s.decode(`{"title":5}`, 1024)

		// Assert
		s.True(errors.Is(err, errors.CodeBadRequest))
	})

	s.Run("OversizedBody_ShouldBeBadRequest", func() {
		// Act
		_, err := s.decode(`{"title":"`+strings.Repeat("a", 64)+`"}`, 16)

		// Assert
		s.True(errors.Is(err, errors.CodeBadRequest))
	})
}

func TestDecodeJSONTestSuite(t *testing.T) {
	suite.Run(t, new(DecodeJSONTestSuite))
}
