package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvisorySet_DedupKeepsFirstOccurrenceOrder(t *testing.T) {
	s := NewAdvisorySet()

	s.Add("b", "a")
	s.Add("", "b", "c", "a")

	assert.Equal(t, []string{"b", "a", "c"}, s.Items())
	assert.Equal(t, 3, s.Len())
}

func TestAdvisorySet_ItemsIsACopy(t *testing.T) {
	s := NewAdvisorySet()
	s.Add("x")

	items := s.Items()
	items[0] = "y"

	assert.Equal(t, []string{"x"}, s.Items())
}
