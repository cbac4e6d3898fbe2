package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/segstat/internal/config"
	"github.com/verte-zerg/segstat/internal/model"
)

func TestValidateReportConfig(t *testing.T) {
	if err := validateReportConfig(model.DefaultReportConfig()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	bad := model.DefaultReportConfig()
	bad.DiffLimit = 1.5
	if err := validateReportConfig(bad); err == nil {
		t.Fatalf("expected diff-limit error")
	}
	bad = model.DefaultReportConfig()
	bad.Workers = 0
	if err := validateReportConfig(bad); err == nil {
		t.Fatalf("expected workers error")
	}
}

func TestApplyFileConfigFlagWins(t *testing.T) {
	reportCfg = model.DefaultReportConfig()
	featureCfg = model.DefaultFeatureConfig()
	t.Cleanup(func() {
		reportCfg = model.DefaultReportConfig()
		featureCfg = model.DefaultFeatureConfig()
	})

	cmd := newReportCmd()
	require.NoError(t, cmd.Flags().Set("top-n", "7"))

	topN, tables, cutoff := 3, 5, 9
	applyFileConfig(cmd, config.FileConfig{
		Report:   config.ReportConfig{TopN: &topN, MaxTables: &tables},
		Features: config.FeaturesConfig{Cutoff: &cutoff},
	})
	require.Equal(t, 7, reportCfg.TopN)
	require.Equal(t, 5, reportCfg.MaxTables)
	require.Equal(t, 9, featureCfg.Cutoff)
}

func TestProfilesJSONLines(t *testing.T) {
	profiles := []model.Profile{
		{UID: "u1", Events: map[string][]model.HourCount{"login": {{Hour: 1, Count: 2}}}},
		{UID: "u2", Properties: map[string][]string{"plan": {"pro"}}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeProfiles(&buf, profiles))
	got, err := readProfiles(&buf)
	require.NoError(t, err)
	require.Equal(t, profiles, got)
}

func TestReadProfilesRejectsGarbage(t *testing.T) {
	if _, err := readProfiles(bytes.NewBufferString("{\"uid\":\"u1\"}\nnot json\n")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestResolveSegmentsFromFile(t *testing.T) {
	info, err := resolveSegments(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	require.Nil(t, info)

	path := filepath.Join(t.TempDir(), "churned.txt")
	require.NoError(t, os.WriteFile(path, []byte("# ids\nu1\n\nu2\n"), 0o644))
	info, err = resolveSegments(context.Background(), nil, nil, []string{path})
	require.NoError(t, err)
	require.Len(t, info.Segments, 1)
	require.Equal(t, "churned", info.Segments[0].Name)
	require.Equal(t, model.NewUserSet("u1", "u2"), info.Segments[0].Users)
}
