package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
	"intraop_document_landmark_model_parameters": {
		"model_path": "models/intraop_landmark.onnx",
		"class_names_path": "models/intraop_landmark.classes.txt",
		"input_width": 1280,
		"input_height": 1280,
		"tile_size": 640,
		"overlap_numerator": 1,
		"overlap_denominator": 2,
		"confidence_threshold": 0.5,
		"nms_iou_threshold": 0.4
	},
	"landmark_cpd_parameters": {
		"lambda": 0.01,
		"beta": 20,
		"weight_of_uniform_dist": 0.1,
		"tolerance": 0.001,
		"max_iterations": 100,
		"debug": false
	},
	"use_adaptive_padding": true
}`

func TestLoadParsesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "models/intraop_landmark.onnx", cfg.IntraopDocumentLandmarkParameters.ModelPath)
	assert.Equal(t, 640, cfg.IntraopDocumentLandmarkParameters.TileSize)
	assert.Equal(t, 1, cfg.IntraopDocumentLandmarkParameters.OverlapNum)
	assert.Equal(t, 0.01, cfg.LandmarkCPDParameters.Lambda)
	assert.True(t, cfg.UseAdaptivePadding)
}
