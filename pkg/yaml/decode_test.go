package yaml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccoe-dev/pexp/pkg/yaml"
)

func TestDecoder(t *testing.T) {
	t.Parallel()

	var v map[string]any

	d := yaml.NewDecoder(strings.NewReader(`{"version": "1.0.0"}`))
	require.NoError(t, d.Decode(&v))
	assert.Equal(t, "1.0.0", v["version"])
}

func TestDecoder_AnnotatesParseErrors(t *testing.T) {
	t.Parallel()

	var v map[string]any

	d := yaml.NewDecoder(strings.NewReader("key: [unclosed"))

	err := d.Decode(&v)
	require.Error(t, err)

	var yamlErr *yaml.Error

	require.ErrorAs(t, err, &yamlErr)
	require.NotNil(t, yamlErr.Token)
	assert.Regexp(t, `^\[\d+:\d+\]`, err.Error())
}

func TestPathBuilder(t *testing.T) {
	t.Parallel()

	path := yaml.NewPathBuilder().Root().
		Child("exceptions").Index(0).Child("id").
		Build().String()

	assert.Equal(t, "$.exceptions[0].id", path)
}
