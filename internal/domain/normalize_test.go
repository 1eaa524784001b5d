package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bolt", "bolt"},
		{"  Bolt  ", "bolt"},
		{"TORNILLOS", "tornillos"},
		{"Año", "año"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.NormalizeName(tc.in), "entrada: %q", tc.in)
	}
}

func TestSameName(t *testing.T) {
	assert.True(t, domain.SameName("Bolt", "bolt"))
	assert.True(t, domain.SameName(" Central ", "CENTRAL"))
	assert.False(t, domain.SameName("Bolt", "Nut"))
}
