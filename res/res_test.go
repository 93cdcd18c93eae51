package res

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunks(m map[string]string) ChunkResolver {
	return func(name string) (string, error) {
		src, ok := m[name]
		if !ok {
			return "", fmt.Errorf("no chunk %q", name)
		}
		return src, nil
	}
}

func TestBuiltinShadersExpand(t *testing.T) {
	for _, name := range []string{"forward", "forward_rigged", "geom", "geom_rigged", "light", "fxaa", "text"} {
		src, err := Shader(name)
		require.NoError(t, err, name)
		assert.NotContains(t, src, annotationPrefix, name)
		assert.Contains(t, src, "fn fs_main", name)
	}

	src, err := Shader("geom_rigged")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(src, "fn blend("))
	assert.Equal(t, 1, strings.Count(src, "struct InstanceInput"))
	assert.Contains(t, src, "av3_bweights")
}

func TestShaderUnknown(t *testing.T) {
	_, err := Shader("nope")
	assert.Error(t, err)
	_, err = Chunk("nope")
	assert.Error(t, err)
}

func TestPreProcessorNestedIncludes(t *testing.T) {
	pp := NewPreProcessor(chunks(map[string]string{
		"a": "//@gdt:include b\nfn a() {}\n",
		"b": "fn b() {}\n",
	}))

	out, err := pp.Process("// top\n//@gdt:include a\n  //@gdt:include b\nfn main() {}")
	require.NoError(t, err)
	assert.Equal(t, "// top\nfn b() {}\nfn a() {}\nfn main() {}", out)
	assert.Equal(t, []string{"a", "b"}, pp.Includes())

	out, err = pp.Process("fn plain() {}")
	require.NoError(t, err)
	assert.Equal(t, "fn plain() {}", out)
	assert.Empty(t, pp.Includes())
}

func TestPreProcessorErrors(t *testing.T) {
	pp := NewPreProcessor(chunks(map[string]string{
		"loop": "//@gdt:include back\n",
		"back": "//@gdt:include loop\n",
	}))

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"empty directive", "//@gdt:", "empty directive"},
		{"unknown directive", "//@gdt:define X 1", "unknown directive"},
		{"missing argument", "//@gdt:include", "one chunk"},
		{"extra argument", "//@gdt:include a b", "one chunk"},
		{"missing chunk", "\n//@gdt:include gone", "line 2"},
		{"cycle", "//@gdt:include loop", "include cycle loop -> back -> loop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pp.Process(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewPreProcessorRequiresResolver(t *testing.T) {
	assert.Panics(t, func() { NewPreProcessor(nil) })
}
