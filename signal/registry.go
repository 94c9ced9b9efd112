package signal

import "fmt"

var registry = make(map[string]Detector)

// Register makes a detector available under a strategy name. The name is
// the key used by the per-instrument parameter table.
func Register(name string, d Detector) {
	registry[name] = d
}

// ByName looks up a registered detector.
func ByName(name string) (Detector, error) {
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return d, nil
}
