package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/sharelink"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
)

// legFlags collects repeated -leg values
type legFlags []models.LegInput

func (l *legFlags) String() string {
	return fmt.Sprintf("%d legs", len(*l))
}

// Set parses "a=-110;b=-110;your=+100;fair=+105;label=Lakers ML".
// Fields are separated by ';' so prices may carry thousands separators.
func (l *legFlags) Set(value string) error {
	leg, err := parseLeg(value)
	if err != nil {
		return err
	}
	*l = append(*l, leg)
	return nil
}

func parseLeg(value string) (models.LegInput, error) {
	var leg models.LegInput

	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return leg, fmt.Errorf("invalid leg field %q (want key=value)", part)
		}
		val = strings.TrimSpace(val)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "a", "sharpa":
			leg.SharpA = models.RawText(val)
		case "b", "sharpb":
			leg.SharpB = models.RawText(val)
		case "your", "yourodds":
			leg.YourOdds = models.RawText(val)
		case "fair":
			leg.Fair = models.RawText(val)
		case "label":
			leg.Label = val
		default:
			return leg, fmt.Errorf("unknown leg field %q", key)
		}
	}

	return leg, nil
}

// readRequest decodes a JSON request on top of base
func readRequest(r io.Reader, base models.EvaluateRequest) (models.EvaluateRequest, error) {
	req := base
	req.Legs = nil
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return base, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// restoreShare accepts either a bare token or a full share URL.
// Fields the token omits keep base's values.
func restoreShare(value string, base models.EvaluateRequest) (models.EvaluateRequest, bool) {
	if strings.Contains(value, "://") {
		return sharelink.DecodeURL(value, base)
	}
	return sharelink.Decode(value, base)
}
