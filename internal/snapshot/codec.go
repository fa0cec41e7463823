package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"relativistic_pic/internal/fields"
	"relativistic_pic/internal/grid"
	"relativistic_pic/internal/particlekit"
	"relativistic_pic/internal/spatial"
)

// encoder writes the primitive fields a snapshot is built from, switching
// between raw binary and whitespace-separated text framing.
type encoder struct {
	w      io.Writer
	binary bool
}

func (e encoder) writeFloat64(v float64) error {
	if e.binary {
		return binary.Write(e.w, binary.LittleEndian, v)
	}
	_, err := fmt.Fprintf(e.w, "%.17g\n", v)
	return err
}

func (e encoder) writeInt64(v int64) error {
	if e.binary {
		return binary.Write(e.w, binary.LittleEndian, v)
	}
	_, err := fmt.Fprintf(e.w, "%d\n", v)
	return err
}

func (e encoder) writeBool(v bool) error {
	var iv int64
	if v {
		iv = 1
	}
	return e.writeInt64(iv)
}

func (e encoder) writeRunID(id uuid.UUID) error {
	if e.binary {
		b := id[:]
		_, err := e.w.Write(b)
		return err
	}
	_, err := fmt.Fprintf(e.w, "%s\n", id.String())
	return err
}

func (e encoder) writeVec3(v spatial.Vec3) error {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if err := e.writeFloat64(c); err != nil {
			return err
		}
	}
	return nil
}

func (e encoder) writeParticle(p particlekit.Particle) error {
	for _, c := range p.Cell {
		if err := e.writeInt64(int64(c)); err != nil {
			return err
		}
	}
	if err := e.writeVec3(p.Pos); err != nil {
		return err
	}
	return e.writeVec3(p.U)
}

func (e encoder) writeField(name string, set *fields.Set) error {
	if err := e.writeInt64(int64(len(set.Values))); err != nil {
		return fmt.Errorf("snapshot: write %s field count: %w", name, err)
	}
	for i, v := range set.Values {
		if err := e.writeVec3(v); err != nil {
			return fmt.Errorf("snapshot: write %s field cell %d: %w", name, i, err)
		}
	}
	return nil
}

// decoder is the mirror image of encoder: it reads back exactly what
// encoder wrote, field for field, in the same order.
type decoder struct {
	r      io.Reader
	binary bool
}

func (d decoder) readFloat64() (float64, error) {
	if d.binary {
		var v float64
		err := binary.Read(d.r, binary.LittleEndian, &v)
		return v, err
	}
	var v float64
	_, err := fmt.Fscanln(d.r, &v)
	return v, err
}

func (d decoder) readInt64() (int64, error) {
	if d.binary {
		var v int64
		err := binary.Read(d.r, binary.LittleEndian, &v)
		return v, err
	}
	var v int64
	_, err := fmt.Fscanln(d.r, &v)
	return v, err
}

func (d decoder) readBool() (bool, error) {
	v, err := d.readInt64()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (d decoder) readRunID() (uuid.UUID, error) {
	if d.binary {
		var b [16]byte
		if _, err := io.ReadFull(d.r, b[:]); err != nil {
			return uuid.UUID{}, err
		}
		return uuid.UUID(b), nil
	}
	var s string
	if _, err := fmt.Fscanln(d.r, &s); err != nil {
		return uuid.UUID{}, err
	}
	return uuid.Parse(s)
}

func (d decoder) readVec3() (spatial.Vec3, error) {
	x, err := d.readFloat64()
	if err != nil {
		return spatial.Vec3{}, err
	}
	y, err := d.readFloat64()
	if err != nil {
		return spatial.Vec3{}, err
	}
	z, err := d.readFloat64()
	if err != nil {
		return spatial.Vec3{}, err
	}
	return spatial.New(x, y, z), nil
}

func (d decoder) readParticle() (particlekit.Particle, error) {
	var cell grid.Cell
	for i := range cell {
		v, err := d.readInt64()
		if err != nil {
			return particlekit.Particle{}, err
		}
		cell[i] = int(v)
	}
	pos, err := d.readVec3()
	if err != nil {
		return particlekit.Particle{}, err
	}
	u, err := d.readVec3()
	if err != nil {
		return particlekit.Particle{}, err
	}
	return particlekit.Particle{Cell: cell, Pos: pos, U: u}, nil
}

func (d decoder) readField(name string, set *fields.Set) error {
	n, err := d.readInt64()
	if err != nil {
		return fmt.Errorf("snapshot: read %s field count: %w", name, err)
	}
	if int(n) != len(set.Values) {
		return fmt.Errorf("snapshot: %s field count mismatch: stream has %d, grid expects %d", name, n, len(set.Values))
	}
	for i := range set.Values {
		v, err := d.readVec3()
		if err != nil {
			return fmt.Errorf("snapshot: read %s field cell %d: %w", name, i, err)
		}
		set.Values[i] = v
	}
	return nil
}
