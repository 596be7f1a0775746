package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lowercase", "STARBUCKS", "starbucks"},
		{"domain suffix", "Amazon.com", "amazon"},
		{"entity suffix", "Acme Widgets LLC", "acme widgets"},
		{"punctuation", "TRADER JOE'S #123", "trader joes 123"},
		{"collapses spaces", "HOME   DEPOT", "home depot"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMerchant(tt.raw))
		})
	}
}

func TestTextSimilarity_ExactAfterNormalization(t *testing.T) {
	assert.Equal(t, 1.0, textSimilarity("Amazon.com", "AMAZON"))
	assert.Equal(t, 1.0, textSimilarity("Starbucks", "STARBUCKS"))
}

func TestTextSimilarity_ContainmentFloor(t *testing.T) {
	// One side contained in the other scores at least 0.85.
	score := textSimilarity("STARBUCKS STORE 12345", "Starbucks")
	assert.GreaterOrEqual(t, score, 0.85)
}

func TestTextSimilarity_Unrelated(t *testing.T) {
	score := textSimilarity("NETFLIX", "Home Depot")
	assert.Less(t, score, 0.5)
}

func TestTextSimilarity_EmptySide(t *testing.T) {
	assert.Equal(t, 0.0, textSimilarity("", "Starbucks"))
	assert.Equal(t, 0.0, textSimilarity("Starbucks", ""))
}

func TestWordOverlap(t *testing.T) {
	// Both words of the shorter side appear in the longer side; score is
	// matches over the longer side's word count.
	assert.InDelta(t, 2.0/3.0, wordOverlap("uber trip chicago", "uber trip"), 0.001)
	assert.Equal(t, 0.0, wordOverlap("netflix", "spotify"))
}
