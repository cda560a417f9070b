package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
)

func TestNewModules(t *testing.T) {
	modules := NewModules(Dependencies{
		Renderer: rendering.NewUniversalRenderer(),
		Site:     content.MustLoad(),
		Series:   content.PollutionSeries(),
	})

	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"pollution", "admin"}, names)
}
