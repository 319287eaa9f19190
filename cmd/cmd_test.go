package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/attn-tiles/tiles"
	"github.com/inference-sim/attn-tiles/tiles/sweep"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func mustProfile(t *testing.T, name string) tiles.HardwareProfile {
	t.Helper()
	p, err := loadProfile("", name)
	require.NoError(t, err)
	return p
}

func TestRunSelect_Sm120Table(t *testing.T) {
	var buf bytes.Buffer
	err := runSelect(&buf, mustProfile(t, ""), tiles.NewKernelShapeConfig(64, 64), tiles.Sm8xOptions{}, "table")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "sm120 (sm90)")
	assert.Contains(t, out, "d=64 dv=64 elem=2")
	assert.Contains(t, out, "98304 / 101376 bytes")
	assert.Contains(t, out, "intra_wg_overlap")
	assert.NotContains(t, out, "n_warps")
}

func TestRunSelect_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := tiles.KernelShapeConfig{HeadDim: 320, HeadDimV: 512, ElementSize: 2, PagedKVNonTMA: true}
	require.NoError(t, runSelect(&buf, mustProfile(t, "sm120"), cfg, tiles.Sm8xOptions{}, "json"))

	var got selection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, cfg, got.Config)
	assert.Equal(t, tiles.TileDims{BlockM: 32, BlockN: 16}, got.Tile)
	assert.LessOrEqual(t, got.SmemBytes, got.LimitBytes)
	require.NotNil(t, got.Sm90)
	assert.Nil(t, got.Sm8x)
}

func TestRunSelect_Sm8xProfile(t *testing.T) {
	var buf bytes.Buffer
	err := runSelect(&buf, mustProfile(t, "sm86"), tiles.NewKernelShapeConfig(128, 128), tiles.Sm8xOptions{}, "table")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "n_warps")
	assert.Contains(t, buf.String(), "q_in_regs")
	assert.NotContains(t, buf.String(), "bytes")
}

func TestRunSelect_InvalidConfig(t *testing.T) {
	cfg := tiles.NewKernelShapeConfig(64, 64)
	cfg.IsCausal, cfg.IsLocal = true, true
	err := runSelect(&bytes.Buffer{}, mustProfile(t, ""), cfg, tiles.Sm8xOptions{}, "table")
	assert.ErrorIs(t, err, tiles.ErrInvalidConfiguration)
}

func TestRunSweep_DefaultGridOK(t *testing.T) {
	var buf bytes.Buffer
	report, err := runSweep(context.Background(), &buf, mustProfile(t, ""), sweep.DefaultGrid(), 2, "table")
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Contains(t, buf.String(), "294 configurations, 0 over 101376 bytes, 0 errors")
}

func TestRunSweep_JSONRows(t *testing.T) {
	var buf bytes.Buffer
	_, err := runSweep(context.Background(), &buf, mustProfile(t, ""), sweep.DefaultGrid(), 0, "json")
	require.NoError(t, err)

	var rows []sweepRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 294)
	for _, r := range rows {
		assert.Equal(t, "ok", r.Status, r.Config.String())
	}
}

func TestRunSweep_RejectsSm8xProfile(t *testing.T) {
	_, err := runSweep(context.Background(), &bytes.Buffer{}, mustProfile(t, "sm80"), sweep.DefaultGrid(), 1, "table")
	assert.ErrorContains(t, err, "sweep needs an sm90 profile")
}

func TestSweepRows_MarksOverruns(t *testing.T) {
	cfg := tiles.NewKernelShapeConfig(64, 64)
	report := &sweep.Report{
		LimitBytes: 1000,
		Results: []sweep.Result{
			{Config: cfg, Tile: tiles.TileConfig{TileDims: tiles.TileDims{BlockM: 16, BlockN: 16}}, EstimateBytes: 999},
			{Config: cfg, Tile: tiles.TileConfig{TileDims: tiles.TileDims{BlockM: 64, BlockN: 64}}, EstimateBytes: 1001},
			{Config: cfg, Err: tiles.ErrBudgetUnsatisfiable},
		},
	}
	rows := sweepRows(report)
	require.Len(t, rows, 3)
	assert.Equal(t, "ok", rows[0].Status)
	assert.Equal(t, "OVER", rows[1].Status)
	assert.Equal(t, tiles.ErrBudgetUnsatisfiable.Error(), rows[2].Status)
}

func TestRunProfiles_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hw.yaml")
	content := `
default: rtx5090
profiles:
  rtx5090:
    arch: sm90
    smem_limit_bytes: 101376
    description: test part
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var buf bytes.Buffer
	require.NoError(t, runProfiles(&buf, path, "table"))
	assert.Contains(t, buf.String(), "rtx5090 *")
	assert.Contains(t, buf.String(), "test part")

	_, err := loadProfile(path, "sm120")
	assert.ErrorContains(t, err, "sm120")
}

func TestRunProfiles_BuiltinJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runProfiles(&buf, "", "json"))

	var got tiles.HardwareCatalog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, tiles.DefaultHardwareCatalog(), &got)
}
