//go:build !sonic

package json

import "github.com/goccy/go-json"

func Marshal(v any) ([]byte, error) {
	return json.MarshalWithOption(v, json.UnorderedMap())
}

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
