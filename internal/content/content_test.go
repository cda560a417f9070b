package content

import (
	"testing"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedSite(t *testing.T) {
	site, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Quirk Lab", site.Name)
	assert.Equal(t, []string{"home", "crisis", "causes", "solutions", "microplastics", "about"}, site.Names())
	assert.Len(t, site.Slides, 5)
	assert.Equal(t, "Industrial Waste Pollution", site.Slides[0].Title)
	assert.Len(t, site.Chart.Facts, 4)

	home, ok := site.Section(HomeSection)
	require.True(t, ok)
	assert.Equal(t, "A Silent Crisis", home.Intro)

	about, ok := site.Section("about")
	require.True(t, ok)
	require.NotNil(t, about.Closing)
	assert.Len(t, about.Blocks[1].Items, 5)

	_, ok = site.Section("admin")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "sections: [\n"},
		{"missing home", "sections:\n  - name: about\n"},
		{"duplicate", "sections:\n  - name: home\n  - name: home\n"},
		{"unnamed", "sections:\n  - title: Nameless\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Home", Label("home"))
	assert.Equal(t, "Microplastics", Label("microplastics"))
}

func TestPollutionSeries(t *testing.T) {
	s := PollutionSeries()

	assert.Equal(t, 25, s.Len())
	assert.Equal(t, 2000, s.At(0).Year)
	assert.Equal(t, 2024, s.At(24).Year)
	assert.Equal(t, []float64{28.5, 12.0, 1100}, s.At(19).Values)

	fields := s.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, chart.AxisRight, fields[1].Axis)
	assert.Equal(t, FieldDiarrheaDeaths, fields[2].Key)
}
