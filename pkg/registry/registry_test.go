package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryFile = "../../configs/activity-registry.json"

func TestShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry(registryFile)
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{
		"compute-category-budget",
		"find-vendor-matches",
		"find-all-category-matches",
		"get-cached-recommendations",
		"optimize-package",
	} {
		activity, ok := reg.Find(taskType)
		require.True(t, ok, taskType)
		assert.Equal(t, "matching", activity.Category)
		assert.NotEmpty(t, activity.ErrorCodes, taskType)
	}
}

func TestShippedRegistry_InputSchemas(t *testing.T) {
	reg, err := LoadRegistry(registryFile)
	require.NoError(t, err)

	activity, ok := reg.Find("find-vendor-matches")
	require.True(t, ok)
	schema, err := activity.CompileInputSchema()
	require.NoError(t, err)

	assert.True(t, schema.ValidateJSON(`{"category": "venue", "weddingRequestId": "w-1"}`).Valid)
	assert.False(t, schema.ValidateJSON(`{"category": "venue"}`).Valid)
	assert.False(t, schema.ValidateJSON(`{"weddingRequestId": "w-1", "category": "venue", "minScore": 150}`).Valid)
}

func TestValidate(t *testing.T) {
	valid := func() Activity {
		return Activity{ID: "a", DisplayName: "A", TaskType: "a", Category: "matching"}
	}

	tests := []struct {
		name       string
		activities []Activity
		errMsg     string
	}{
		{"empty", nil, "no activities"},
		{"missing display name", []Activity{{ID: "a", TaskType: "a", Category: "matching"}}, "DisplayName"},
		{"duplicate id", []Activity{valid(), valid()}, "duplicate activity ID"},
		{
			name: "duplicate task type",
			activities: func() []Activity {
				b := valid()
				b.ID = "b"
				return []Activity{valid(), b}
			}(),
			errMsg: "duplicate task type",
		},
		{
			name: "bad timeout",
			activities: func() []Activity {
				a := valid()
				a.Timeout = "soon"
				return []Activity{a}
			}(),
			errMsg: "invalid timeout",
		},
		{
			name: "broken schema",
			activities: func() []Activity {
				a := valid()
				a.InputSchema = map[string]interface{}{"type": 42}
				return []Activity{a}
			}(),
			errMsg: "compile schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ActivityRegistry{Activities: tt.activities}).Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTimeoutDuration(t *testing.T) {
	d, err := (&Activity{Timeout: "45s"}).TimeoutDuration(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	d, err = (&Activity{}).TimeoutDuration(time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	_, err = (&Activity{ID: "x", Timeout: "-5s"}).TimeoutDuration(time.Second)
	assert.Error(t, err)
}

func TestLoadRegistry_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activities": [`), 0o600))

	_, err := LoadRegistry(path)

	assert.Error(t, err)
}
