package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Validate(t *testing.T) {
	t.Parallel()
	schema := Schema{Required: []string{"project_name", "pg_user", "pg_db_name"}}

	tests := []struct {
		name        string
		opts        Options
		wantMissing []string
	}{
		{
			name: "all present",
			opts: Options{"project_name": "shop", "pg_user": "shop", "pg_db_name": "shop"},
		},
		{
			name: "empty value counts as present",
			opts: Options{"project_name": "", "pg_user": "shop", "pg_db_name": "shop"},
		},
		{
			name:        "one missing",
			opts:        Options{"project_name": "shop", "pg_user": "shop"},
			wantMissing: []string{"pg_db_name"},
		},
		{
			name:        "all missing in declaration order",
			opts:        Options{},
			wantMissing: []string{"project_name", "pg_user", "pg_db_name"},
		},
		{
			name:        "nil options",
			opts:        nil,
			wantMissing: []string{"project_name", "pg_user", "pg_db_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := schema.Validate(tt.opts)
			if tt.wantMissing == nil {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			if diff := cmp.Diff(tt.wantMissing, ce.Missing); diff != "" {
				t.Errorf("missing keys mismatch (-want +got):\n%s", diff)
			}
			for _, k := range tt.wantMissing {
				assert.Contains(t, err.Error(), k)
			}
		})
	}
}

func TestSchema_EmptyAlwaysPasses(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Schema{}.Validate(nil))
	assert.NoError(t, Schema{}.Validate(Options{"anything": 1}))
}

func TestSchema_Warnings(t *testing.T) {
	t.Parallel()
	schema := Schema{Required: []string{"redis_db"}, Optional: []string{"redis_port"}}
	warnings := schema.Warnings(Options{"redis_db": 0, "redis_port": 6380, "redis_namspace": "x"})

	require.Len(t, warnings, 1)
	assert.Equal(t, "redis_namspace", warnings[0].Field)
	assert.False(t, warnings[0].IsError())
	assert.NoError(t, schema.Validate(Options{"redis_db": 0, "redis_namspace": "x"}))
}

func TestSchema_Extend(t *testing.T) {
	t.Parallel()
	base := Schema{Required: []string{"a", "b"}, Optional: []string{"x"}}
	ext := base.Extend(Schema{Required: []string{"b", "c"}, Optional: []string{"y"}})

	assert.Equal(t, []string{"a", "b", "c"}, ext.Required)
	assert.Equal(t, []string{"x", "y"}, ext.Optional)
	assert.Equal(t, []string{"a", "b"}, base.Required)
	assert.Equal(t, []string{"a", "b", "c", "x", "y"}, ext.Keys())
}

func TestConfigurationError_Message(t *testing.T) {
	t.Parallel()
	err := &ConfigurationError{Task: "deploy", Missing: []string{"pg_db_name", "SECRET_KEY"}}
	assert.Equal(t, "deploy: missing keys in options:\n - pg_db_name\n - SECRET_KEY", err.Error())
	assert.True(t, IsConfigurationError(err))
	assert.False(t, IsConfigurationError(errors.New("other")))
}
