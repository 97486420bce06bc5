// Package archive stores retired container snapshots as a stream of msgpack
// packets. A packet carries string headers in H and encoded bodies in B.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"fattybrewing"
	brewmsgpack "fattybrewing/msgpack"
)

const (
	headerID         = "id"
	headerKind       = "kind"
	headerArchivedAt = "archived_at"
	bodyContainer    = "container"
)

type Packet struct {
	H map[string][]byte `msgpack:"h,omitempty"`
	B map[string][]byte `msgpack:"b,omitempty"`
}

// PacketBuffer reassembles packets from arbitrarily split chunks.
type PacketBuffer struct {
	buf bytes.Buffer
}

// Feed appends data and returns every packet completed by it. A trailing
// partial packet stays buffered for the next call.
func (pb *PacketBuffer) Feed(data []byte) ([]*Packet, error) {
	pb.buf.Write(data)

	var results []*Packet
	for pb.buf.Len() > 0 {
		r := bytes.NewReader(pb.buf.Bytes())
		dec := msgpack.NewDecoder(r)
		v := new(Packet)
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// not enough data yet
				break
			}
			return results, err
		}
		pb.buf.Next(pb.buf.Len() - r.Len())
		results = append(results, v)
	}
	return results, nil
}

// Buffered reports how many bytes are waiting for the rest of a packet.
func (pb *PacketBuffer) Buffered() int { return pb.buf.Len() }

// Record is one archived container.
type Record struct {
	ID         string
	Kind       fattybrewing.Kind
	ArchivedAt time.Time
	State      fattybrewing.State
}

func NewPacket(s fattybrewing.State, at time.Time) (*Packet, error) {
	body, err := brewmsgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode container %s: %w", s.ID, err)
	}
	return &Packet{
		H: map[string][]byte{
			headerID:         []byte(s.ID),
			headerKind:       []byte(s.Kind),
			headerArchivedAt: []byte(at.UTC().Format(time.RFC3339Nano)),
		},
		B: map[string][]byte{bodyContainer: body},
	}, nil
}

func (p *Packet) Record() (Record, error) {
	body, ok := p.B[bodyContainer]
	if !ok {
		return Record{}, errors.New("archive packet has no container body")
	}
	st, err := brewmsgpack.Unmarshal(body)
	if err != nil {
		return Record{}, fmt.Errorf("decode archived container: %w", err)
	}
	rec := Record{
		ID:    string(p.H[headerID]),
		Kind:  fattybrewing.Kind(p.H[headerKind]),
		State: st,
	}
	if raw := p.H[headerArchivedAt]; len(raw) > 0 {
		at, err := time.Parse(time.RFC3339Nano, string(raw))
		if err != nil {
			return Record{}, fmt.Errorf("archive packet %s: %w", rec.ID, err)
		}
		rec.ArchivedAt = at
	}
	return rec, nil
}

// Writer appends packets to an archive stream, typically a file opened with
// O_APPEND.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Append(s fattybrewing.State, at time.Time) error {
	p, err := NewPacket(s, at)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(p)
	if err != nil {
		return err
	}
	_, err = w.w.Write(data)
	return err
}

// ReadAll decodes every record in r. A truncated final packet is an error.
func ReadAll(r io.Reader) ([]Record, error) {
	var (
		pb      PacketBuffer
		records []Record
		chunk   = make([]byte, 32*1024)
	)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			packets, ferr := pb.Feed(chunk[:n])
			for _, p := range packets {
				rec, rerr := p.Record()
				if rerr != nil {
					return records, rerr
				}
				records = append(records, rec)
			}
			if ferr != nil {
				return records, ferr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, err
		}
	}
	if pb.Buffered() > 0 {
		return records, fmt.Errorf("archive ends with %d bytes of a partial packet: %w", pb.Buffered(), io.ErrUnexpectedEOF)
	}
	return records, nil
}
