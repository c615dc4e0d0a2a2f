package speccache

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specview/pkg/geometry"
)

type stubArtifact struct {
	released int
}

func (a *stubArtifact) Release() { a.released++ }

func single() *Spectrum {
	return &Spectrum{
		Kind:        SinglePixel,
		Wavelengths: []float64{400, 500},
		Data:        []float64{0.1, 0.2},
		Coord:       geometry.PixelCoordinate{X: 3, Y: 4},
	}
}

func area() *Spectrum {
	return &Spectrum{
		Kind:        AreaMean,
		Wavelengths: []float64{400, 500},
		Data:        []float64{0.3, 0.4},
		Err:         []float64{0.01, 0.02},
		Coords:      []geometry.PixelCoordinate{{X: 1, Y: 1}, {X: 2, Y: 1}},
		N:           2,
	}
}

func TestAddAutoNames(t *testing.T) {
	c := New()

	name, err := c.Add(single())
	require.NoError(t, err)
	assert.Equal(t, "SPECTRUM_01", name)

	name, err = c.Add(area())
	require.NoError(t, err)
	assert.Equal(t, "AREA_01", name)

	name, err = c.Add(single())
	require.NoError(t, err)
	assert.Equal(t, "SPECTRUM_02", name)
}

func TestAutoNameSkipsRenamedEntry(t *testing.T) {
	c := New()
	first := single()
	firstArt := &stubArtifact{}
	first.Artifacts = firstArt
	name, err := c.Add(first)
	require.NoError(t, err)
	require.NoError(t, c.Rename(name, "SPECTRUM_02"))

	second := single()
	secondArt := &stubArtifact{}
	second.Artifacts = secondArt
	name, err = c.Add(second)
	require.NoError(t, err)
	assert.Equal(t, "SPECTRUM_03", name)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"SPECTRUM_02", "SPECTRUM_03"}, c.Names())

	removed := c.Clear()
	require.Len(t, removed, 2)
	for _, entry := range removed {
		entry.Artifacts.Release()
	}
	assert.Equal(t, 1, firstArt.released)
	assert.Equal(t, 1, secondArt.released)
}

func TestAutoCountersSurviveRemove(t *testing.T) {
	c := New()
	_, err := c.Add(single())
	require.NoError(t, err)
	_, err = c.Remove("SPECTRUM_01")
	require.NoError(t, err)

	name, err := c.Add(single())
	require.NoError(t, err)
	assert.Equal(t, "SPECTRUM_02", name)
}

func TestClearResetsCounters(t *testing.T) {
	c := New()
	art := &stubArtifact{}
	s := single()
	s.Artifacts = art
	_, err := c.Add(s)
	require.NoError(t, err)
	_, err = c.Add(area())
	require.NoError(t, err)

	removed := c.Clear()
	require.Len(t, removed, 2)
	assert.Same(t, art, removed[0].Artifacts)
	assert.Equal(t, 0, c.Len())

	name, err := c.Add(single())
	require.NoError(t, err)
	assert.Equal(t, "SPECTRUM_01", name)
	name, err = c.Add(area())
	require.NoError(t, err)
	assert.Equal(t, "AREA_01", name)
}

func TestAddDuplicateName(t *testing.T) {
	c := New()
	s := single()
	s.Name = "soil"
	_, err := c.Add(s)
	require.NoError(t, err)

	dup := single()
	dup.Name = "soil"
	_, err = c.Add(dup)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, c.Len())
}

func TestAddAssignsDistinctColors(t *testing.T) {
	c := New()
	a := single()
	b := single()
	_, err := c.Add(a)
	require.NoError(t, err)
	_, err = c.Add(b)
	require.NoError(t, err)

	assert.NotEqual(t, color.RGBA{}, a.Color)
	assert.NotEqual(t, a.Color, b.Color)
}

func TestAddKeepsCallerColor(t *testing.T) {
	c := New()
	s := single()
	s.Color = color.RGBA{R: 1, G: 2, B: 3, A: 255}
	_, err := c.Add(s)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, s.Color)
}

func TestRename(t *testing.T) {
	c := New()
	_, err := c.Add(single())
	require.NoError(t, err)

	require.NoError(t, c.Rename("SPECTRUM_01", "vegetation"))
	entry, err := c.Get("vegetation")
	require.NoError(t, err)
	assert.Equal(t, "vegetation", entry.Name)
	_, err = c.Get("SPECTRUM_01")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"vegetation"}, c.Names())
}

func TestRenameErrors(t *testing.T) {
	c := New()
	_, err := c.Add(single())
	require.NoError(t, err)
	_, err = c.Add(single())
	require.NoError(t, err)

	assert.ErrorIs(t, c.Rename("missing", "x"), ErrNotFound)
	assert.ErrorIs(t, c.Rename("SPECTRUM_01", "SPECTRUM_02"), ErrDuplicateName)
	assert.NoError(t, c.Rename("SPECTRUM_01", "SPECTRUM_01"))
}

func TestRemoveReturnsEntry(t *testing.T) {
	c := New()
	art := &stubArtifact{}
	s := area()
	s.Artifacts = art
	name, err := c.Add(s)
	require.NoError(t, err)

	entry, err := c.Remove(name)
	require.NoError(t, err)
	assert.Same(t, s, entry)
	assert.Same(t, art, entry.Artifacts)
	assert.Equal(t, 0, c.Len())

	_, err = c.Remove(name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNamesInsertionOrder(t *testing.T) {
	c := New()
	for _, name := range []string{"c", "a", "b"} {
		s := single()
		s.Name = name
		_, err := c.Add(s)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"c", "a", "b"}, c.Names())

	_, err := c.Remove("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, c.Names())
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New()
	_, err := c.Add(single())
	require.NoError(t, err)

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	snap[0].Name = "mutated"

	entry, err := c.Get("SPECTRUM_01")
	require.NoError(t, err)
	assert.Equal(t, "SPECTRUM_01", entry.Name)
}

func TestEvents(t *testing.T) {
	c := New()
	var got []string
	c.On(EventAdded, func(d EventData) { got = append(got, "add:"+d.Name) })
	c.On(EventRenamed, func(d EventData) { got = append(got, "rename:"+d.OldName+">"+d.Name) })
	c.On(EventRemoved, func(d EventData) { got = append(got, "remove:"+d.Name) })
	c.On(EventCleared, func(d EventData) { got = append(got, "clear") })

	_, err := c.Add(single())
	require.NoError(t, err)
	require.NoError(t, c.Rename("SPECTRUM_01", "x"))
	_, err = c.Remove("x")
	require.NoError(t, err)
	c.Clear()

	assert.Equal(t, []string{
		"add:SPECTRUM_01",
		"rename:SPECTRUM_01>x",
		"remove:x",
		"clear",
	}, got)
}
