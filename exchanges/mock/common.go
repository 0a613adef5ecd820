package mock

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/thrasher-corp/bfxprivate/encoding/json"
)

var errUnhandledConversion = errors.New("unhandled conversion type")

// deltaKeys vary per request and are only checked for presence
var deltaKeys = map[string]bool{
	"nonce":     true,
	"signature": true,
	"timestamp": true,
}

// MatchURLVals matches url.Value query strings
func MatchURLVals(v1, v2 url.Values) bool {
	if len(v1) != len(v2) {
		return false
	}
	for key, val := range v1 {
		val2, ok := v2[key]
		if !ok {
			return false
		}
		if deltaKeys[key] {
			continue
		}
		if strings.Join(val2, "") != strings.Join(val, "") {
			return false
		}
	}
	return true
}

// DeriveURLValsFromJSONMap gets url vals from a JSON object body. Nested
// values are compared by their JSON encoding.
func DeriveURLValsFromJSONMap(payload []byte) (url.Values, error) {
	vals := url.Values{}
	if len(payload) == 0 {
		return vals, nil
	}
	intermediary := make(map[string]any)
	if err := json.Unmarshal(payload, &intermediary); err != nil {
		return vals, err
	}
	for k, v := range intermediary {
		switch val := v.(type) {
		case string:
			vals.Add(k, val)
		case bool:
			vals.Add(k, strconv.FormatBool(val))
		case float64:
			vals.Add(k, strconv.FormatFloat(val, 'f', -1, 64))
		case map[string]any, []any, nil:
			b, err := json.Marshal(val)
			if err != nil {
				return vals, err
			}
			vals.Add(k, string(b))
		default:
			return vals, fmt.Errorf("%w: %T", errUnhandledConversion, val)
		}
	}
	return vals, nil
}
