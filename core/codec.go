package core

import "github.com/vmihailenco/msgpack/v5"

// encodeNamed serializes v with field names preserved, so a future
// version can add optional fields without breaking old readers
// (spec §4.4/§6).
func encodeNamed(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, wrapErr(KindEncode, "encoding value", err)
	}
	return data, nil
}

// decodeNamed deserializes data produced by encodeNamed. Unknown fields
// are ignored; missing optional fields take their zero value, which is
// the documented default for every optional field in the format.
func decodeNamed(data []byte, v interface{}) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return wrapErr(KindDecode, "decoding value", err)
	}
	return nil
}
