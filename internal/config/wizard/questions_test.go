package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProjectName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  error
	}{
		{"shop", nil},
		{"my_shop-2", nil},
		{"", errProjectNameRequired},
		{"Shop", errProjectNameInvalid},
		{"2shop", errProjectNameInvalid},
		{"shop.example", errProjectNameInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validateProjectName(tt.input))
		})
	}
}

func TestValidatePort(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validatePort("8000"))
	assert.ErrorIs(t, validatePort("80"), errPortInvalid)
	assert.ErrorIs(t, validatePort("70000"), errPortInvalid)
	assert.ErrorIs(t, validatePort("http"), errPortInvalid)
}

func TestValidateModule(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateModule("shop.wsgi:application"))
	assert.NoError(t, validateModule("shop.settings"))
	assert.ErrorIs(t, validateModule("shop/wsgi.py"), errModuleInvalid)
	assert.ErrorIs(t, validateModule(""), errModuleInvalid)
}

func TestValidateAbsolutePathAndRequired(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateAbsolutePath("/srv/shop"))
	assert.ErrorIs(t, validateAbsolutePath("srv/shop"), errAbsolutePath)
	assert.ErrorIs(t, validateRequired("  "), errValueRequired)
	assert.NoError(t, validateRequired("x"))
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a.example", "b.example"}, splitList("a.example, b.example"))
	assert.Empty(t, splitList(""))
}
