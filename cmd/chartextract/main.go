/*
chartextract digitizes a scanned perioperative anesthesia chart's
checkbox fields: it rebases and merges a stage's already-inferred
per-tile checkbox detections (optionally fanning the merge step's
owning stage out across -parallelism workers), registers the survivors
against the stage's template centroids with CPD, routes each to its
nearest centroid, and writes the checked/unchecked result as a
chart.Chart JSON document.

Tile-level model inference is out of this binary's scope (spec.md's
Detector capability is intentionally abstract, see detect.Detector);
chartextract consumes already-inferred per-tile detections from a JSON
sidecar file produced by whatever inference runtime the deployment
uses, and owns everything downstream of that: rebasing, NMS,
registration, and chart assembly. The checkbox stage applies no TPS
warp.
*/
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/periopdigitize/chartextract/centroid"
	"github.com/periopdigitize/chartextract/chart"
	"github.com/periopdigitize/chartextract/checkbox"
	"github.com/periopdigitize/chartextract/config"
	"github.com/periopdigitize/chartextract/detect"
	"github.com/periopdigitize/chartextract/digitize"
	"github.com/periopdigitize/chartextract/geom"
	"github.com/periopdigitize/chartextract/match"
	"github.com/periopdigitize/chartextract/modelio"
	"github.com/periopdigitize/chartextract/nms"
	"github.com/periopdigitize/chartextract/registration"
	"github.com/periopdigitize/chartextract/tiling"
)

var (
	configPath      = flag.String("config", "", "Path to the pipeline config JSON (required)")
	imageWidth      = flag.Int("image-width", 0, "Width in pixels of the page the sidecar detections were inferred over (required)")
	imageHeight     = flag.Int("image-height", 0, "Height in pixels of the page the sidecar detections were inferred over (required)")
	checkboxDetPath = flag.String("checkbox-detections", "", "Path to a JSON sidecar of raw per-tile checkbox detections (required)")
	outPath         = flag.String("out", "chart.json", "Output path for the digitized chart JSON")
	parallelism     = flag.Int("parallelism", 1, "Maximum number of simultaneous tile-rebase jobs to launch; 1 runs sequentially")
	uploadS3        = flag.String("upload-s3", "", "If set, an s3:// URI to additionally upload the output chart JSON to")
)

func chartextractUsage() {
	fmt.Printf("Usage: %s -config config.json -checkbox-detections dets.json -image-width W -image-height H [OPTIONS]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = chartextractUsage
	shutdown := grail.Init()
	defer shutdown()

	if *configPath == "" || *checkboxDetPath == "" || *imageWidth == 0 || *imageHeight == 0 {
		log.Fatalf("-config, -checkbox-detections, -image-width, and -image-height are all required")
	}

	ctx := vcontext.Background()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		log.Panicf("loading config: %v", err)
	}

	result := chart.New()
	if err := runCheckboxStage(ctx, cfg, *imageWidth, *imageHeight, result); err != nil {
		log.Panicf("checkbox stage: %v", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Panicf("marshaling digitized chart: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		log.Panicf("writing %s: %v", *outPath, err)
	}

	if *uploadS3 != "" {
		if err := uploadToS3(*uploadS3, data); err != nil {
			log.Panicf("uploading to %s: %v", *uploadS3, err)
		}
	}
	log.Debug.Printf("exiting")
}

// rawDetection is the wire shape of one pre-inferred tile detection in
// the -checkbox-detections sidecar: the tile it came from, its
// bounding box in that tile's local pixel frame, and the model's
// category label and confidence.
type rawDetection struct {
	Row, Col                 int
	Left, Top, Right, Bottom float64
	Category                 string
	Confidence               float64
}

// loadCheckboxDetector reads the sidecar file and builds a
// detect.StaticDetector keyed by tile coordinate, so the existing
// rebase-and-merge path (detect.RunTile, detect.Merge) applies
// unchanged regardless of where the raw detections came from.
func loadCheckboxDetector(ctx context.Context, path string) (*detect.StaticDetector[*geom.Rectangle], error) {
	data, err := modelio.ReadAll(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading checkbox detections sidecar %s: %w", path, err)
	}
	var raw []rawDetection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing checkbox detections sidecar %s: %w", path, err)
	}

	byTile := make(map[[2]int][]rawDetection)
	for _, d := range raw {
		key := [2]int{d.Row, d.Col}
		byTile[key] = append(byTile[key], d)
	}

	detector := detect.NewStaticDetector[*geom.Rectangle]()
	for key, dets := range byTile {
		boxes := make([]geom.Detection[*geom.Rectangle], 0, len(dets))
		for _, d := range dets {
			r, err := geom.NewRectangle(d.Left, d.Top, d.Right, d.Bottom, d.Category)
			if err != nil {
				return nil, fmt.Errorf("checkbox detection at tile (%d,%d): %w", key[0], key[1], err)
			}
			boxes = append(boxes, geom.NewDetection[*geom.Rectangle](r, d.Confidence))
		}
		detector.Register(key[0], key[1], boxes)
	}
	return detector, nil
}

// runCheckboxStage runs the checkbox detector's tile grid over an
// image of the given dimensions (the StaticDetector ignores pixel
// content, so a zero-valued single-channel image stands in for the
// page), merges
// with NMS, registers against the checkbox template centroids with
// CPD, routes each surviving detection to its nearest centroid, and
// writes the checked/unchecked outcome into result.
func runCheckboxStage(ctx context.Context, cfg *config.Config, width, height int, result chart.Chart) error {
	params := cfg.CheckboxParameters
	overlap, err := tiling.NewOverlapRatio(params.OverlapNum, params.OverlapDen)
	if err != nil {
		return fmt.Errorf("checkbox overlap ratio: %w", err)
	}

	detector, err := loadCheckboxDetector(ctx, *checkboxDetPath)
	if err != nil {
		return err
	}

	img := tiling.NewImage(1, height, width)
	detections, err := digitize.RunTileStage[*geom.Rectangle](detector, img, digitize.TileStageOptions{
		TileSize:     params.TileSize,
		Overlap:      overlap,
		Confidence:   params.Confidence,
		NMSThreshold: nms.Threshold(params.NMSThreshold),
		Concurrency:  *parallelism,
	})
	if err != nil {
		return fmt.Errorf("running checkbox tile stage: %w", err)
	}

	points, err := centroid.Load(ctx, cfg.IntraopCheckboxCentroidsPath)
	if err != nil {
		return fmt.Errorf("loading checkbox centroids: %w", err)
	}
	centroids := centroid.AsSlice(points)

	cpd := cfg.CheckboxCPDParameters
	kept, _, err := match.FilterAndAssign(detections, centroids, cpd.Lambda, cpd.Beta,
		registration.WithOutlierWeight(cpd.WeightOfUniform),
		registration.WithTolerance(cpd.Tolerance),
		registration.WithMaxIterations(cpd.MaxIterations),
	)
	if err != nil {
		return fmt.Errorf("registering checkbox detections: %w", err)
	}

	statuses, err := checkbox.Assign[*geom.Rectangle](kept, centroids, sidecarConfidenceClassifier{})
	if err != nil {
		return fmt.Errorf("assigning checkbox status: %w", err)
	}
	digitize.PopulateCheckboxes(result, statuses)
	return nil
}

// sidecarConfidenceClassifier treats a checked-box model category
// ("checked" vs "unchecked") carried on the sidecar detection itself
// as the checked/unchecked verdict, rather than running a second
// classifier pass; the tile-inference stage that produced the sidecar
// is assumed to have already distinguished the two categories.
type sidecarConfidenceClassifier struct{}

func (sidecarConfidenceClassifier) IsChecked(d geom.Detection[*geom.Rectangle]) (bool, error) {
	return d.Category() == "checked", nil
}

func uploadToS3(uri string, data []byte) error {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return err
	}
	sess, err := session.NewSession()
	if err != nil {
		return fmt.Errorf("creating AWS session: %w", err)
	}
	uploader := s3manager.NewUploader(sess)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

func parseS3URI(uri string) (bucket, key string, err error) {
	const prefix = "s3://"
	if len(uri) <= len(prefix) || uri[:len(prefix)] != prefix {
		return "", "", fmt.Errorf("not an s3:// URI: %s", uri)
	}
	rest := uri[len(prefix):]
	for i, c := range rest {
		if c == '/' {
			return rest[:i], rest[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("s3:// URI missing key: %s", uri)
}
