package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/export"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, []string{"Name", "Count"}, [][]string{{"水", "7"}, {"water", "12"}}, 1)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Name   Count", lines[0])
	assert.Equal(t, "-----  -----", lines[1])
	assert.Equal(t, "水         7", lines[2], "double-width runes count twice")
	assert.Equal(t, "water     12", lines[3])
}

func TestSeriesCmd(t *testing.T) {
	out, err := run(t, "series", "--from", "0", "--to", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Year"))
	assert.True(t, strings.HasPrefix(lines[2], "2000"))
	assert.True(t, strings.HasPrefix(lines[3], "2001"))
	assert.Contains(t, lines[3], "38.5")
}

func TestSeriesCmd_InvalidRange(t *testing.T) {
	_, err := run(t, "series", "--from", "5", "--to", "2")
	assert.Error(t, err)

	_, err = run(t, "series", "--to", "99")
	assert.Error(t, err)
}

func TestWriteWorkbook(t *testing.T) {
	fs := afero.NewMemMapFs()
	series := content.PollutionSeries()
	d, err := seriesRange(series, 0, -1)
	require.NoError(t, err)

	require.NoError(t, writeWorkbook(fs, "out.xlsx", series, d))

	data, err := afero.ReadFile(fs, "out.xlsx")
	require.NoError(t, err)
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, series.Len()+1)
}

func TestZoomCmd(t *testing.T) {
	out, err := run(t, "zoom", "in", "in", "out", "reset")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"start", "0-24", "2000-2024", "1x", "true"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"in", "4-20", "2004-2020", "1.5x", "true"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"in", "7-17", "2007-2017", "2x", "true"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"out", "4-20", "2004-2020", "1.5x", "true"}, strings.Fields(lines[5]))
	assert.Equal(t, []string{"reset", "0-24", "2000-2024", "1x", "true"}, strings.Fields(lines[6]))
}

func TestZoomCmd_CustomLengthAndLimits(t *testing.T) {
	out, err := run(t, "zoom", "--len", "1", "out", "in")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"out", "0-0", "-", "1x", "false"}, strings.Fields(lines[3]))

	_, err = run(t, "zoom", "sideways")
	assert.Error(t, err)
}

func TestRunViews(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "views.json", []byte(`{"views": 41}`), 0o644))

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runViews(cmd, fs, "views.json", false))
	assert.Equal(t, "Total views: 41\n", out.String())

	out.Reset()
	require.NoError(t, runViews(cmd, fs, "views.json", true))
	assert.Equal(t, "Total views: 0\n", out.String())
}

func TestTopicsCmd(t *testing.T) {
	out, err := run(t, "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "chart.frame")
	assert.Contains(t, out, "analytics.view")
	assert.Contains(t, out, "ws.client.ready")
	assert.Regexp(t, `\d+ topics \(\d+ framework, \d+ module\)`, out)

	out, err = run(t, "topics", "--module", "chart", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"count": 1`)

	_, err = run(t, "topics", "--format", "xml")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "quirkctl v"+version+"\n", out)
}
