package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "rk_live_****", MaskSecret("rk_live_abc"))
	assert.Equal(t, "rk_live_****wxyz", MaskSecret("rk_live_abcdefwxyz"))
	assert.Equal(t, "****6789", MaskSecret("123456789"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a****@example.com", MaskEmail("ana@example.com"))
	assert.Equal(t, "****", MaskEmail("@x"))
}

func TestMaskFieldsOnlyTouchesNamedKeys(t *testing.T) {
	out := MaskFields(map[string]any{
		"email": "ana@example.com",
		"phone": "+5511999998888",
		"name":  "Ana",
		"xp":    120,
		" ":     "dropped",
	}, "email", "phone")

	assert.Equal(t, map[string]any{
		"email": "a****@example.com",
		"phone": "****8888",
		"name":  "Ana",
		"xp":    120,
	}, out)
	assert.Nil(t, MaskFields(nil, "email"))
}
