package codec

import "encoding/json"

// Default is the codec of newly written manifests.
var Default Codec = GoJSON{}

// JSON writes manifests with encoding/json. The bytes decode with GoJSON
// and the other way round.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns "json".
func (JSON) Name() string { return "json" }
