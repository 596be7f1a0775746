package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_DefaultMappings(t *testing.T) {
	resolver := NewResolver(nil)

	assert.Equal(t, "Amazon", resolver.Canonical("AMZN MKTP US*1A2B3C4D5"))
	assert.Equal(t, "Starbucks", resolver.Canonical("SBUX 00123 SEATTLE WA"))
	assert.Equal(t, "Netflix", resolver.Canonical("NETFLIX.COM 866-579-7172"))
	assert.Equal(t, "Walmart", resolver.Canonical("WM SUPERCENTER #2410"))
}

func TestResolver_UserMappingWins(t *testing.T) {
	// Arrange - user learned a different name for a default pattern
	resolver := NewResolver(map[string]string{
		"SBUX": "Coffee Budget",
	})

	// Act & Assert
	assert.Equal(t, "Coffee Budget", resolver.Canonical("SBUX 00123 SEATTLE WA"))
}

func TestResolver_CaseInsensitiveSubstring(t *testing.T) {
	resolver := NewResolver(map[string]string{
		"ACME WIDGETS": "Acme",
	})

	assert.Equal(t, "Acme", resolver.Canonical("pos debit acme widgets llc 0042"))
}

func TestResolver_UnmappedPassesThroughTrimmed(t *testing.T) {
	resolver := NewResolver(nil)

	assert.Equal(t, "SOME LOCAL SHOP", resolver.Canonical("  SOME LOCAL SHOP  "))
}

func TestResolver_EmptyPatternIgnored(t *testing.T) {
	resolver := NewResolver(map[string]string{"": "Everything"})

	assert.Equal(t, "SOME LOCAL SHOP", resolver.Canonical("SOME LOCAL SHOP"))
}

func TestResolver_Deterministic(t *testing.T) {
	// Two patterns both match; repeated runs must pick the same one.
	resolver := NewResolver(map[string]string{
		"ACME":    "Acme",
		"ACME CO": "Acme Company",
	})

	first := resolver.Canonical("ACME CO 123")
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, resolver.Canonical("ACME CO 123"))
	}
	assert.Equal(t, "Acme", first)
}
