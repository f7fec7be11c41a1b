/*
Package codec provides the deterministic binary encoding used for every
persisted model and every transaction message.

Values are written using the protobuf wire format: each field is a varint
key (field number and wire type) followed by either a varint or a length
prefixed byte string. Zero values are omitted, so an encoded message is
compatible with any protobuf decoder that knows the field numbers.

Encoding is deterministic: fields are written in the order the caller
writes them, and callers always write them in ascending field order.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/sharepool/errors"
)

// Wire types used by this package.
const (
	WireVarint = 0
	WireBytes  = 2
)

// Marshaler is implemented by anything that can be embedded as a nested
// message.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// Unmarshaler is implemented by anything that can be decoded from a nested
// message.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Encoder writes fields into a protobuf wire encoded buffer.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field int, wire int) {
	if e.err != nil {
		return
	}
	e.err = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// Uint64 writes a varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.key(field, WireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
	return e
}

// Int64 writes a signed varint field (two's complement, as protobuf int64).
func (e *Encoder) Int64(field int, v int64) *Encoder {
	return e.Uint64(field, uint64(v))
}

// Bool writes a boolean field. False is omitted.
func (e *Encoder) Bool(field int, v bool) *Encoder {
	if !v {
		return e
	}
	return e.Uint64(field, 1)
}

// Bytes writes a length prefixed field. An empty value is omitted.
func (e *Encoder) Bytes(field int, b []byte) *Encoder {
	if len(b) == 0 {
		return e
	}
	e.key(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(b)
	}
	return e
}

// RepeatedBytes writes every element as a separate occurrence of the
// field. Unlike Bytes, empty elements are kept so that the element count
// survives a round trip.
func (e *Encoder) RepeatedBytes(field int, list [][]byte) *Encoder {
	for _, b := range list {
		e.key(field, WireBytes)
		if e.err == nil {
			e.err = e.buf.EncodeRawBytes(b)
		}
	}
	return e
}

// String writes a length prefixed string field. An empty value is omitted.
func (e *Encoder) String(field int, s string) *Encoder {
	if s == "" {
		return e
	}
	e.key(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeStringBytes(s)
	}
	return e
}

// Message writes a nested message. A nil message is omitted.
func (e *Encoder) Message(field int, m Marshaler) *Encoder {
	if e.err != nil || isNil(m) {
		return e
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = errors.Wrapf(err, "field %d", field)
		return e
	}
	e.key(field, WireBytes)
	if e.err == nil {
		// Always write the field, an empty nested message still carries
		// its presence.
		e.err = e.buf.EncodeRawBytes(raw)
	}
	return e
}

// Result returns the encoded bytes or the first error encountered.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(e.err, "encode")
	}
	return e.buf.Bytes(), nil
}

// Decoder reads fields from a protobuf wire encoded buffer.
//
//	d := codec.NewDecoder(raw)
//	for d.Next() {
//		switch d.Field() {
//		case 1:
//			m.Name, err = d.String()
//		default:
//			err = d.Skip()
//		}
//		if err != nil {
//			return err
//		}
//	}
//	return d.Err()
type Decoder struct {
	data  []byte
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading from given data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Next reads the next field key. It returns false when all data was
// consumed or an error occurred.
func (d *Decoder) Next() bool {
	if d.err != nil || len(d.data) == 0 {
		return false
	}
	k, n := proto.DecodeVarint(d.data)
	if n == 0 {
		d.err = errors.Wrap(errors.ErrInput, "malformed field key")
		return false
	}
	d.data = d.data[n:]
	d.field = int(k >> 3)
	d.wire = int(k & 0x7)
	if d.field <= 0 {
		d.err = errors.Wrapf(errors.ErrInput, "illegal field number %d", d.field)
		return false
	}
	return true
}

// Field returns the number of the field read by the last Next call.
func (d *Decoder) Field() int {
	return d.field
}

// Err returns the first error encountered while reading field keys.
func (d *Decoder) Err() error {
	return d.err
}

// Uint64 reads a varint value.
func (d *Decoder) Uint64() (uint64, error) {
	if d.wire != WireVarint {
		return 0, errors.Wrapf(errors.ErrInput, "field %d: want varint, got wire type %d", d.field, d.wire)
	}
	v, n := proto.DecodeVarint(d.data)
	if n == 0 {
		return 0, errors.Wrapf(errors.ErrInput, "field %d: malformed varint", d.field)
	}
	d.data = d.data[n:]
	return v, nil
}

// Int64 reads a signed varint value.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

// Bool reads a boolean value.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint64()
	return v != 0, err
}

// Bytes reads a length prefixed value. The result is a copy.
func (d *Decoder) Bytes() ([]byte, error) {
	if d.wire != WireBytes {
		return nil, errors.Wrapf(errors.ErrInput, "field %d: want bytes, got wire type %d", d.field, d.wire)
	}
	size, n := proto.DecodeVarint(d.data)
	if n == 0 {
		return nil, errors.Wrapf(errors.ErrInput, "field %d: malformed length", d.field)
	}
	d.data = d.data[n:]
	if uint64(len(d.data)) < size {
		return nil, errors.Wrapf(errors.ErrInput, "field %d: want %d bytes, got %d", d.field, size, len(d.data))
	}
	b := make([]byte, size)
	copy(b, d.data[:size])
	d.data = d.data[size:]
	return b, nil
}

// String reads a length prefixed string.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	return string(b), err
}

// Message reads a nested message into given destination.
func (d *Decoder) Message(dst Unmarshaler) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}
	return errors.Wrapf(dst.Unmarshal(b), "field %d", d.field)
}

// Skip consumes the value of an unknown field.
func (d *Decoder) Skip() error {
	switch d.wire {
	case WireVarint:
		_, err := d.Uint64()
		return err
	case WireBytes:
		_, err := d.Bytes()
		return err
	case 1:
		return d.skipFixed(8)
	case 5:
		return d.skipFixed(4)
	default:
		return errors.Wrapf(errors.ErrInput, "field %d: unsupported wire type %d", d.field, d.wire)
	}
}

func (d *Decoder) skipFixed(size int) error {
	if len(d.data) < size {
		return errors.Wrapf(errors.ErrInput, "field %d: truncated", d.field)
	}
	d.data = d.data[size:]
	return nil
}
