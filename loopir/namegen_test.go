package loopir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tensorgraph/loopir"
)

func TestNameGeneratorIsDeterministicAndCollisionFree(t *testing.T) {
	gen := loopir.NewNameGenerator(nil)
	require.Equal(t, "i", gen.Generate("i"))
	require.Equal(t, "i_2", gen.Generate("i"))
	require.Equal(t, "i_3", gen.Generate("i"))
}

func TestNameGeneratorHonorsSeed(t *testing.T) {
	gen := loopir.NewNameGenerator(map[string]struct{}{"i": {}, "i_2": {}})
	require.Equal(t, "i_3", gen.Generate("i"))
}

func TestNameGeneratorReserve(t *testing.T) {
	gen := loopir.NewNameGenerator(nil)
	require.True(t, gen.Reserve("out"))
	require.False(t, gen.Reserve("out"))
	require.True(t, gen.IsUsed("out"))
}

func TestNameGeneratorIsRepeatable(t *testing.T) {
	a := loopir.NewNameGenerator(nil)
	b := loopir.NewNameGenerator(nil)
	require.Equal(t, a.Generate("tmp"), b.Generate("tmp"))
	require.Equal(t, a.Generate("tmp"), b.Generate("tmp"))
}
