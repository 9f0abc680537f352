package builtin

import (
	"strconv"

	"github.com/kestrel-lang/kestrel/obj"
)

// init wires the registered coercion table (obj.RegisterConversion) for
// the three leaf types, so Cast — and therefore every capability here
// that goes through coerceInt/coerceFloat/coerceStr — accepts the
// obvious cross-type conversions instead of only ever matching identity.
func init() {
	obj.RegisterConversion(Float, Int, func(ref obj.Ref) (obj.Ref, error) {
		buf := make([]byte, int(obj.HeaderSize)+int(obj.Size(Int)))
		out := obj.HeaderInit(buf, Int, obj.Heap)
		SetInt(out, int64(FloatValue(ref)))
		return out, nil
	})
	obj.RegisterConversion(Int, Float, func(ref obj.Ref) (obj.Ref, error) {
		buf := make([]byte, int(obj.HeaderSize)+int(obj.Size(Float)))
		out := obj.HeaderInit(buf, Float, obj.Heap)
		SetFloat(out, float64(IntValue(ref)))
		return out, nil
	})
	obj.RegisterConversion(Int, Str, func(ref obj.Ref) (obj.Ref, error) {
		buf := make([]byte, int(obj.HeaderSize))
		out := obj.HeaderInit(buf, Str, obj.Heap)
		SetStr(out, strconv.FormatInt(IntValue(ref), 10))
		return out, nil
	})
	obj.RegisterConversion(Float, Str, func(ref obj.Ref) (obj.Ref, error) {
		buf := make([]byte, int(obj.HeaderSize))
		out := obj.HeaderInit(buf, Str, obj.Heap)
		SetStr(out, strconv.FormatFloat(FloatValue(ref), 'g', -1, 64))
		return out, nil
	})
	obj.RegisterConversion(Str, Int, func(ref obj.Ref) (obj.Ref, error) {
		v, err := strconv.ParseInt(StrValue(ref), 10, 64)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, int(obj.HeaderSize)+int(obj.Size(Int)))
		out := obj.HeaderInit(buf, Int, obj.Heap)
		SetInt(out, v)
		return out, nil
	})
	obj.RegisterConversion(Str, Float, func(ref obj.Ref) (obj.Ref, error) {
		v, err := strconv.ParseFloat(StrValue(ref), 64)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, int(obj.HeaderSize)+int(obj.Size(Float)))
		out := obj.HeaderInit(buf, Float, obj.Heap)
		SetFloat(out, v)
		return out, nil
	})
}
