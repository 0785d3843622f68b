package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that reads either a Go duration string
// ("1m30s") or a bare integer. Bare integers mean seconds.
type Duration struct {
	time.Duration
	Set bool
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		d.Duration, d.Set = time.Duration(v)*time.Second, true
		return nil
	case string:
		parsed, err := parseDuration(v)
		if err != nil {
			return err
		}
		d.Duration, d.Set = parsed, true
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		return nil
	}
	parsed, err := parseDuration(node.Value)
	if err != nil {
		return err
	}
	d.Duration, d.Set = parsed, true
	return nil
}
