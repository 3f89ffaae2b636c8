package session

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// getJSON decodes the value under key into out. A missing key and a value
// that fails to decode both report absent: this namespace has held data
// across many client versions, and callers treat stale-format or corrupt
// values the same as no data. Decode failures are logged at debug level and
// never propagated.
func (s *Store) getJSON(key string, out any) (bool, error) {
	raw, ok, err := s.backing.Get(key)
	if err != nil {
		return false, errors.Wrapf(err, "get %q", key)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Debug("discarding undecodable stored value",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// setJSON stores v under key as JSON.
func (s *Store) setJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %q", key)
	}
	return s.backing.Set(key, string(raw))
}
