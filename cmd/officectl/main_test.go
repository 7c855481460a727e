package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officesim-backend/internal/layout"
	"officesim-backend/internal/office"
)

func TestSimulateDays(t *testing.T) {
	cfg := office.DefaultConfig()
	cfg.Seed = 5
	cfg.Managed = true
	l := office.GenerateLayout(800, 600, 8, 2)

	days, err := simulateDays(cfg, l, 6, 2, 0.05)
	require.NoError(t, err)
	require.Len(t, days, 2)

	for i, d := range days {
		assert.Equal(t, i, d.Day)
		assert.LessOrEqual(t, d.Events, cfg.EventsMax)
		assert.LessOrEqual(t, d.PeakDesksInUse, 6)
		assert.LessOrEqual(t, d.AtAssignedDesk, 6)
		assert.LessOrEqual(t, d.FrustratedAtEnd, 6)
	}
	// with a desk each, somebody sits down at some point
	assert.Positive(t, days[0].PeakDesksInUse)
}

func TestSimulateDays_Deterministic(t *testing.T) {
	cfg := office.DefaultConfig()
	cfg.Seed = 9
	l := office.GenerateLayout(600, 400, 3, 1)

	a, err := simulateDays(cfg, l, 5, 1, 0.1)
	require.NoError(t, err)
	b, err := simulateDays(cfg, l, 5, 1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulateDays_Errors(t *testing.T) {
	l := office.GenerateLayout(600, 400, 3, 1)
	_, err := simulateDays(office.DefaultConfig(), l, 5, 0, 0.1)
	assert.Error(t, err)
	_, err = simulateDays(office.DefaultConfig(), l, 5, 1, 0)
	assert.Error(t, err)
	_, err = simulateDays(office.DefaultConfig(), l, -1, 1, 0.1)
	assert.ErrorIs(t, err, office.ErrInvalidConfig)
}

func TestRenderDays(t *testing.T) {
	var buf bytes.Buffer
	renderDays(&buf, []DaySummary{{Day: 0, Events: 7, PeakDesksInUse: 4}}, true)
	out := buf.String()
	assert.Contains(t, strings.ToLower(out), "managed")
	assert.Contains(t, out, "PEAK DESKS")
}

func TestExportLayout(t *testing.T) {
	cfg := office.DefaultConfig()
	cfg.Seed = 1
	l, err := exportLayout(cfg, office.GenerateLayout(800, 600, 4, 2))
	require.NoError(t, err)
	for _, d := range l.Desks {
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Name)
	}
	for _, s := range l.Spaces {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Name)
	}
}

func TestValidateLayouts(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json.zst")
	require.NoError(t, layout.Save(good, office.GenerateLayout(800, 600, 5, 1)))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":1,"width":0}`), 0o644))

	var buf bytes.Buffer
	require.NoError(t, validateLayouts(&buf, []string{good}))
	assert.Contains(t, buf.String(), "ok")

	buf.Reset()
	err := validateLayouts(&buf, []string{good, bad})
	assert.ErrorIs(t, err, errInvalidLayouts)
	assert.Contains(t, buf.String(), "bad.json")
}
