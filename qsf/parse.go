package qsf

import (
	"github.com/buger/jsonparser"

	"github.com/teranos/qsfdecode/errors"
)

// Parse decodes JSON bytes into a generic tree. Object keys keep document order.
func Parse(data []byte) (*Value, error) {
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrMalformed), "failed to parse survey document")
	}
	v, err := parseValue(raw, typ)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse survey document")
	}
	return v, nil
}

func parseValue(raw []byte, typ jsonparser.ValueType) (*Value, error) {
	switch typ {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, errors.Mark(err, errors.ErrMalformed)
		}
		return Bool(b), nil
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return nil, errors.Mark(err, errors.ErrMalformed)
		}
		return Number(f), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, errors.Mark(err, errors.ErrMalformed)
		}
		return String(s), nil
	case jsonparser.Array:
		return parseArray(raw)
	case jsonparser.Object:
		return parseObject(raw)
	default:
		return nil, errors.NewMalformedError("unexpected JSON token %q", truncate(raw, 32))
	}
}

func parseObject(raw []byte) (*Value, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, typ jsonparser.ValueType, _ int) error {
		k := string(key)
		v, err := parseValue(value, typ)
		if err != nil {
			return errors.Wrapf(err, "key %q", k)
		}
		obj.Set(k, v)
		return nil
	})
	if err != nil {
		return nil, errors.Mark(err, errors.ErrMalformed)
	}
	return ObjectValue(obj), nil
}

func parseArray(raw []byte) (*Value, error) {
	items := make([]*Value, 0)
	var itemErr error
	_, err := jsonparser.ArrayEach(raw, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if itemErr != nil {
			return
		}
		if err != nil {
			itemErr = errors.Mark(err, errors.ErrMalformed)
			return
		}
		v, perr := parseValue(value, typ)
		if perr != nil {
			itemErr = errors.Wrapf(perr, "index %d", len(items))
			return
		}
		items = append(items, v)
	})
	if itemErr != nil {
		return nil, itemErr
	}
	if err != nil {
		return nil, errors.Mark(err, errors.ErrMalformed)
	}
	return Array(items...), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
