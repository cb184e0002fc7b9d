package replication

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrShortPayload is returned when a payload ends before a required field.
var ErrShortPayload = errors.New("replication: payload ended before required field")

// ErrNonFinite is returned when a base field decodes to NaN or infinity.
var ErrNonFinite = errors.New("replication: non-finite base field")

// Writer appends fields to an outgoing snapshot payload. Fields are a flat
// msgpack value stream, so readers must consume them in the order written.
type Writer struct {
	buf bytes.Buffer
	enc *msgpack.Encoder
}

func NewWriter() *Writer {
	w := &Writer{}
	w.enc = msgpack.NewEncoder(&w.buf)
	return w
}

func (w *Writer) WriteFloat64(v float64) error {
	return w.enc.EncodeFloat64(v)
}

func (w *Writer) WriteVec3(v mgl64.Vec3) error {
	for _, c := range v {
		if err := w.enc.EncodeFloat64(c); err != nil {
			return err
		}
	}
	return nil
}

// WriteQuat writes W first, then the vector part.
func (w *Writer) WriteQuat(q mgl64.Quat) error {
	if err := w.enc.EncodeFloat64(q.W); err != nil {
		return err
	}
	return w.WriteVec3(q.V)
}

// Bytes returns the encoded payload.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader consumes fields from an incoming snapshot payload.
type Reader struct {
	r   *bytes.Reader
	dec *msgpack.Decoder
}

func NewReader(payload []byte) *Reader {
	r := bytes.NewReader(payload)
	return &Reader{r: r, dec: msgpack.NewDecoder(r)}
}

// Remaining reports how many payload bytes have not been consumed yet.
func (r *Reader) Remaining() int {
	return r.r.Len()
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.dec.DecodeFloat64()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrShortPayload
		}
		return 0, fmt.Errorf("decode float: %w", err)
	}
	return v, nil
}

func (r *Reader) ReadVec3() (mgl64.Vec3, error) {
	var v mgl64.Vec3
	for i := range v {
		c, err := r.ReadFloat64()
		if err != nil {
			return mgl64.Vec3{}, err
		}
		v[i] = c
	}
	return v, nil
}

func (r *Reader) ReadQuat() (mgl64.Quat, error) {
	w, err := r.ReadFloat64()
	if err != nil {
		return mgl64.Quat{}, err
	}
	v, err := r.ReadVec3()
	if err != nil {
		return mgl64.Quat{}, err
	}
	return mgl64.Quat{W: w, V: v}, nil
}
