package models

import "github.com/vmihailenco/msgpack/v5"

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// EncodeMsgpack writes an available value as a float64 and an unavailable
// one as nil.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if !v.valid {
		return enc.EncodeNil()
	}
	return enc.EncodeFloat64(v.num)
}

// DecodeMsgpack accepts any msgpack number or nil.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	switch n := raw.(type) {
	case nil:
		*v = Value{}
	case float64:
		*v = Of(n)
	case float32:
		*v = Of(float64(n))
	case int64:
		*v = Of(float64(n))
	case uint64:
		*v = Of(float64(n))
	case int8:
		*v = Of(float64(n))
	case int16:
		*v = Of(float64(n))
	case int32:
		*v = Of(float64(n))
	case uint8:
		*v = Of(float64(n))
	case uint16:
		*v = Of(float64(n))
	case uint32:
		*v = Of(float64(n))
	default:
		*v = Value{}
	}
	return nil
}
