// Package config defines the parameter bundle the digitize driver is
// constructed from: model/class/centroid paths, tiling and NMS
// thresholds, and CPD hyperparameters for each detector stage, per
// spec.md §6.
package config

import (
	"context"
	"encoding/json"

	"github.com/grailbio/base/errors"
	"github.com/periopdigitize/chartextract/modelio"
)

// DetectorParameters bundles everything needed to run one detector
// stage's tile-and-predict orchestrator.
type DetectorParameters struct {
	ModelPath      string  `json:"model_path"`
	ClassNamesPath string  `json:"class_names_path"`
	InputWidth     int     `json:"input_width"`
	InputHeight    int     `json:"input_height"`
	TileSize       int     `json:"tile_size"`
	OverlapNum     int     `json:"overlap_numerator"`
	OverlapDen     int     `json:"overlap_denominator"`
	Confidence     float64 `json:"confidence_threshold"`
	NMSThreshold   float64 `json:"nms_iou_threshold"`
}

// CPDParameters bundles one CPD registration's hyperparameters.
type CPDParameters struct {
	Lambda             float64 `json:"lambda"`
	Beta               float64 `json:"beta"`
	WeightOfUniform    float64 `json:"weight_of_uniform_dist"`
	Tolerance          float64 `json:"tolerance"`
	MaxIterations      int     `json:"max_iterations"`
	Debug              bool    `json:"debug"`
}

// Config is the digitize driver's full parameter bundle.
type Config struct {
	IntraopDocumentLandmarkParameters     DetectorParameters `json:"intraop_document_landmark_model_parameters"`
	PreopPostopDocumentLandmarkParameters DetectorParameters `json:"preop_postop_document_landmark_model_parameters"`
	HandwrittenNumbersParameters          DetectorParameters `json:"handwritten_numbers_model_parameters"`
	CheckboxParameters                    DetectorParameters `json:"checkbox_model_parameters"`

	IntraopLandmarkCentroidsPath     string `json:"intraop_landmark_centroids_path"`
	PreopPostopLandmarkCentroidsPath string `json:"preop_postop_landmark_centroids_path"`
	IntraopCheckboxCentroidsPath     string `json:"intraop_checkbox_centroids_path"`
	PreopPostopCheckboxCentroidsPath string `json:"preop_postop_checkbox_centroids_path"`
	IntraopNumberBoxCentroidsPath    string `json:"intraop_number_box_centroids_path"`
	PreopPostopNumberBoxCentroidsPath string `json:"preop_postop_number_box_centroids_path"`

	LandmarkCPDParameters  CPDParameters `json:"landmark_cpd_parameters"`
	CheckboxCPDParameters  CPDParameters `json:"checkbox_cpd_parameters"`

	UseAdaptivePadding bool `json:"use_adaptive_padding"`
}

// Load reads and parses a Config from path (local or s3://).
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := modelio.ReadAll(ctx, path)
	if err != nil {
		return nil, errors.E(err, "config: loading", path)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.E(err, "config: parsing", path)
	}
	return &cfg, nil
}
