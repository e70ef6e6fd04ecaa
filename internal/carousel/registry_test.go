package carousel

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewRegistry_Layout(t *testing.T) {
	r := NewRegistry(3)
	require.NotNil(t, r)
	require.Equal(t, 5, r.Len())
	require.Equal(t, 3, r.RealCount())
	require.Equal(t, 1, r.Initial())

	require.Equal(t, []Slide{
		{Index: 0, Real: 2, Clone: true},
		{Index: 1, Real: 0},
		{Index: 2, Real: 1},
		{Index: 3, Real: 2},
		{Index: 4, Real: 0, Clone: true},
	}, r.Slides())
}

func TestNewRegistry_Empty(t *testing.T) {
	require.Nil(t, NewRegistry(0))
	require.Nil(t, NewRegistry(-2))
}

func TestNewRegistry_SingleSlide(t *testing.T) {
	r := NewRegistry(1)
	require.Equal(t, 3, r.Len())
	for i := 0; i < r.Len(); i++ {
		require.Equal(t, 0, r.RealIndex(i))
	}
	require.Equal(t, 1, r.Mirror(0))
	require.Equal(t, 1, r.Mirror(2))
}

func TestRegistry_SlidesIsACopy(t *testing.T) {
	r := NewRegistry(2)
	s := r.Slides()
	s[0].Real = 99
	require.Equal(t, 1, r.Slides()[0].Real)
}

func TestRegistry_RealIndexOutOfRange(t *testing.T) {
	r := NewRegistry(4)
	require.Equal(t, -1, r.RealIndex(-1))
	require.Equal(t, -1, r.RealIndex(6))
}

func TestRegistry_Clamp(t *testing.T) {
	r := NewRegistry(4)
	require.Equal(t, 0, r.Clamp(-3))
	require.Equal(t, 3, r.Clamp(3))
	require.Equal(t, 5, r.Clamp(12))
}

func TestExtend(t *testing.T) {
	require.Equal(t, []string{"c", "a", "b", "c", "a"}, Extend([]string{"a", "b", "c"}))
	require.Equal(t, []int{7, 7, 7}, Extend([]int{7}))
	require.Nil(t, Extend[int](nil))
}

func TestProperty_RealIndexMapping(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(rt, "realCount")
		r := NewRegistry(n)
		require.Equal(rt, n+2, r.Len())

		require.Equal(rt, n-1, r.RealIndex(0), "leading clone shows the last slide")
		require.Equal(rt, 0, r.RealIndex(n+1), "trailing clone shows the first slide")
		for i := 1; i <= n; i++ {
			require.Equal(rt, i-1, r.RealIndex(i))
		}

		i := rapid.IntRange(0, n+1).Draw(rt, "index")
		require.Equal(rt, r.Slides()[i].Real, r.RealIndex(i))
		require.Equal(rt, i == 0 || i == n+1, r.IsBoundary(i))
		require.Equal(rt, r.RealIndex(i), r.RealIndex(r.Mirror(i)), "mirror shows the same slide")
		require.False(rt, r.IsBoundary(r.Mirror(i)), "mirror is never a clone")
	})
}

func TestProperty_ExtendMatchesRegistry(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		real := rapid.SliceOfN(rapid.Int(), 1, 50).Draw(rt, "real")
		ext := Extend(real)
		r := NewRegistry(len(real))
		require.Len(rt, ext, r.Len())
		for _, s := range r.Slides() {
			require.Equal(rt, real[s.Real], ext[s.Index])
		}
	})
}
