package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: These are core error primitives used at every trust boundary.
// Unit tests ensure invariants like "wrapped domain errors preserve original code"
// and "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "indicator not found"}
		s.Equal("indicator not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("database connection failed")
		err := &Error{Code: CodeInternal, Message: "service error", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeForbidden, Message: "role gate failed"}
		err2 := &Error{Code: CodeForbidden, Message: "frozen instance"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeForbidden}
		err2 := &Error{Code: CodeValidation}
		s.False(err1.Is(err2))
	})

	s.Run("does not match non-domain errors", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := errors.New("not found")
		s.False(err1.Is(err2))
	})

	s.Run("works with errors.Is through chain", func() {
		inner := &Error{Code: CodeMissingConsent, Message: "original"}
		wrapped := &Error{Code: CodeInternal, Message: "wrapped", Err: inner}
		target := &Error{Code: CodeMissingConsent}
		s.True(errors.Is(wrapped, target))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesCode() {
	s.Run("keeps the original domain code", func() {
		inner := New(CodeValidation, "blank review note")
		wrapped := Wrap(inner, CodeInternal, "transition failed")
		s.True(HasCode(wrapped, CodeValidation))
	})

	s.Run("applies the given code to plain errors", func() {
		wrapped := Wrap(errors.New("io failure"), CodeInternal, "store write failed")
		s.True(HasCode(wrapped, CodeInternal))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("false for nil", func() {
		s.False(HasCode(nil, CodeNotFound))
	})

	s.Run("false for plain errors", func() {
		s.False(HasCode(errors.New("boom"), CodeInternal))
	})

	s.Run("true for matching code", func() {
		s.True(HasCode(New(CodeInstanceFrozen, "instance is frozen"), CodeInstanceFrozen))
	})
}
