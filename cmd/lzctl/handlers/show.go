package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/imamik/lzctl/internal/landingzone"
)

// landingZoneView is the printable form of a landing zone.
type landingZoneView struct {
	ARN                    string         `json:"arn"`
	Version                string         `json:"version"`
	LatestAvailableVersion string         `json:"latestAvailableVersion,omitempty"`
	Status                 string         `json:"status,omitempty"`
	DriftStatus            string         `json:"driftStatus,omitempty"`
	GovernedRegions        []string       `json:"governedRegions"`
	Manifest               map[string]any `json:"manifest"`
}

// Show prints the current landing zone in the given format (yaml or json).
func Show(ctx context.Context, opts *Options, format string) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	lz, err := s.reconciler.Discover(ctx)
	if err != nil {
		return err
	}

	out, err := marshal(newLandingZoneView(lz), format)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

func newLandingZoneView(lz *landingzone.LandingZone) landingZoneView {
	return landingZoneView{
		ARN:                    lz.ARN,
		Version:                lz.Version,
		LatestAvailableVersion: lz.LatestAvailableVersion,
		Status:                 lz.Status,
		DriftStatus:            lz.DriftStatus,
		GovernedRegions:        lz.GovernedRegions(),
		Manifest:               lz.Manifest.Plain(),
	}
}

// marshal encodes v as YAML or indented JSON.
func marshal(v any, format string) ([]byte, error) {
	switch format {
	case "", "yaml":
		return yaml.Marshal(v)
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}
