package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"plain address", "a@b.com", "a_at_b_dot_com"},
		{"multiple dots", "first.last@mail.example.org", "first_dot_last_at_mail_dot_example_dot_org"},
		{"no special characters", "plainstring", "plainstring"},
		{"empty", "", ""},
		{"only separators", "@.", "_at__dot_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeEmail(tt.email))
		})
	}
}

func TestSanitizeEmailIsDeterministic(t *testing.T) {
	first := SanitizeEmail("owner@shop.ph")
	second := SanitizeEmail("owner@shop.ph")
	assert.Equal(t, first, second)
}

func TestSanitizeEmailOutputIsStable(t *testing.T) {
	// The output never contains '@' or '.', so sanitizing twice is a no-op.
	out := SanitizeEmail("a.b@c.d")
	assert.Equal(t, out, SanitizeEmail(out))
}

func TestSanitizeEmailCollision(t *testing.T) {
	// Known limitation carried over from the web app: the encoding is not
	// injective. These two distinct inputs share one group.
	assert.Equal(t, SanitizeEmail("a_at_b.com"), SanitizeEmail("a@b.com"))
}

func TestCustomerGroup(t *testing.T) {
	assert.Equal(t, "customer_a_at_b_dot_com", CustomerGroup("a@b.com"))
}
