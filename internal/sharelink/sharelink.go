// Package sharelink encodes a form snapshot into a URL-safe token and
// restores it again. Restoring never fails loudly: a token that cannot be
// read yields the caller's default form.
package sharelink

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
)

const (
	// QueryParam carries the token in share URLs
	QueryParam = "s"

	// Version is the current payload version
	Version = 1
)

// payload is the version 1 wire format: the request fields plus "v"
type payload struct {
	V int `json:"v"`
	models.EvaluateRequest
}

// Encode serializes the request into a base64url token without padding.
// Leg ids are session-local and are not written.
func Encode(req models.EvaluateRequest) (string, error) {
	legs := make([]models.LegInput, len(req.Legs))
	for i, leg := range req.Legs {
		leg.ID = ""
		legs[i] = leg
	}
	req.Legs = legs

	data, err := json.Marshal(payload{V: Version, EvaluateRequest: req})
	if err != nil {
		return "", fmt.Errorf("failed to encode share state: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// URL returns base with the encoded request set as the "s" query parameter.
// Other query parameters on base are kept.
func URL(base string, req models.EvaluateRequest) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid share base url: %w", err)
	}

	token, err := Encode(req)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set(QueryParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DecodeURL restores the request carried in a share URL
func DecodeURL(raw string, defaults models.EvaluateRequest) (models.EvaluateRequest, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return defaults, false
	}
	return Decode(u.Query().Get(QueryParam), defaults)
}

// Decode restores a request from a token on top of defaults, normally the
// configured default form. Fields that are missing or of the wrong type keep
// their default. Both the versioned payload and the older unversioned one are
// accepted. Anything unreadable returns defaults and false.
func Decode(token string, defaults models.EvaluateRequest) (models.EvaluateRequest, bool) {
	data, ok := decodeToken(token)
	if !ok || !json.Valid(data) {
		return defaults, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return defaults, false
	}

	req := defaults
	if rawVersion, versioned := fields["v"]; versioned {
		var v int
		if err := json.Unmarshal(rawVersion, &v); err != nil || v != Version {
			return defaults, false
		}
		decodeV1(data, &req)
	} else {
		decodeLegacy(fields, &req)
	}

	req.OddsMode = req.OddsMode.Normalize()
	req.FairSource = req.FairSource.Normalize()
	if len(req.Legs) == 0 {
		req.Legs = defaults.Legs
	}
	if len(req.Legs) == 0 {
		req.Legs = []models.LegInput{{}}
	}

	return req, true
}

func decodeToken(token string) ([]byte, bool) {
	token = strings.TrimRight(strings.TrimSpace(token), "=")
	if token == "" {
		return nil, false
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, false
	}
	return data, true
}

// decodeV1 is best-effort: json.Unmarshal skips values of the wrong type
// and keeps going, so the error only reports what was skipped.
func decodeV1(data []byte, req *models.EvaluateRequest) {
	req.Legs = nil
	_ = json.Unmarshal(data, req)
}

// legacyLeg is a leg as the unversioned payload wrote it
type legacyLeg struct {
	Label  string         `json:"label"`
	SharpA models.RawText `json:"sharpA"`
	SharpB models.RawText `json:"sharpB"`
	Your   models.RawText `json:"your"`
}

// decodeLegacy reads the unversioned payload:
// {mode: "perleg"|"total", vigPct, stake, boostPct, totalOdds, legs: [{label, sharpA, sharpB, your}]}
func decodeLegacy(fields map[string]json.RawMessage, req *models.EvaluateRequest) {
	var mode string
	if raw, ok := fields["mode"]; ok && json.Unmarshal(raw, &mode) == nil {
		if mode == "total" {
			req.OddsMode = models.OddsModeTotal
		} else {
			req.OddsMode = models.OddsModePerLeg
		}
	}

	if v, ok := finiteField(fields, "vigPct"); ok {
		req.AssumedVigPct = models.Number(v)
	}
	if v, ok := finiteField(fields, "stake"); ok {
		req.Stake = models.Number(v)
	}
	if raw, ok := fields["boostPct"]; ok {
		_ = json.Unmarshal(raw, &req.BoostPct)
	}
	if raw, ok := fields["totalOdds"]; ok {
		_ = json.Unmarshal(raw, &req.TotalOffered)
	}

	var legs []legacyLeg
	if raw, ok := fields["legs"]; ok {
		_ = json.Unmarshal(raw, &legs)
	}
	if len(legs) > 0 {
		req.Legs = make([]models.LegInput, len(legs))
		for i, l := range legs {
			req.Legs[i] = models.LegInput{
				Label:    l.Label,
				SharpA:   l.SharpA,
				SharpB:   l.SharpB,
				YourOdds: l.Your,
			}
		}
	}
}

// finiteField reads a field that must be a JSON number
func finiteField(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}

	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return 0, false
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}
