//go:build sonic

package json

import "github.com/bytedance/sonic"

var api = sonic.Config{
	CopyString:       true,
	CompactMarshaler: true,
	SortMapKeys:      false,
}.Froze()

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}
