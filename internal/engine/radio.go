// Disc radio model: channel width and environment determine a single
// transmission range shared by all nodes.
package engine

import (
	"fmt"
	"math"

	"manetsim/internal/config"
)

// forestAttenuationCoeff scales how strongly foliage shortens the radio
// range. Tuned so the default forest (100 trees on 50x50 m) keeps roughly
// three quarters of the open-field range.
const forestAttenuationCoeff = 0.5

// baseRangeM maps channel width to an open-field transmission range in
// metres. Wider channels raise the noise floor and reach less far.
func baseRangeM(widthMHz int) (float64, error) {
	switch widthMHz {
	case 20:
		return 30, nil
	case 40:
		return 25, nil
	case 80:
		return 18, nil
	case 160:
		return 12, nil
	}
	return 0, fmt.Errorf("unrecognized channel width %d MHz", widthMHz)
}

// bitrateBps maps channel width to an application-visible bitrate used for
// the transmission delay of delivered packets.
func bitrateBps(widthMHz int) float64 {
	switch widthMHz {
	case 40:
		return 54e6
	case 80:
		return 150e6
	case 160:
		return 300e6
	default:
		return 11e6
	}
}

// transmissionRangeM returns the effective range for a configuration,
// applying the forest attenuation factor when the environment asks for it.
// The factor follows a Weissberger-style exponential decay in the foliage
// volume per square metre of area.
func transmissionRangeM(cfg *config.Config) (float64, error) {
	r, err := baseRangeM(cfg.ChannelWidthMHz)
	if err != nil {
		return 0, err
	}
	if cfg.Environment == config.EnvironmentForest {
		density := float64(cfg.Forest.TreeCount) / (cfg.AreaWidth * cfg.AreaHeight)
		foliage := density * cfg.Forest.TreeSize * cfg.Forest.TreeHeight
		r *= math.Exp(-forestAttenuationCoeff * foliage)
	}
	return r, nil
}
