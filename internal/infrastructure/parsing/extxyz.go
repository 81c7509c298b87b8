// Package parsing implements the extended-XYZ text format and its one-time
// conversion into the structured atoms database.  Extended-XYZ frames look
// like:
//
//	3
//	Lattice="10 0 0 0 10 0 0 0 10" Properties=species:S:1:pos:R:3:forces:R:3 energy=-76.4 pbc="F F F"
//	O  0.000  0.000  0.119  0.0 0.0  0.1
//	H  0.000  0.763 -0.477  0.0 0.2  0.0
//	H  0.000 -0.763 -0.477  0.0 0.0 -0.3
//
// Scalar and vector key=value pairs on the comment line become per-frame
// properties; per-atom columns beyond species and pos become per-atom
// properties flattened in row-major order.
package parsing

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/molforge/atomkit/internal/domain/atoms"
	"github.com/molforge/atomkit/pkg/errors"
)

// defaultColumns is assumed when a frame has no Properties descriptor.
const defaultColumns = "species:S:1:pos:R:3"

// column describes one per-atom column group from a Properties descriptor.
type column struct {
	name  string
	kind  byte // 'S' string, 'R' real, 'I' integer, 'L' logical
	width int
}

// Reader reads extended-XYZ frames one at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader wraps r for frame-by-frame reading.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{scanner: sc}
}

// Read returns the next frame, or io.EOF once the input is exhausted.
func (r *Reader) Read() (*atoms.Atoms, error) {
	header, err := r.nextLine(true)
	if err != nil {
		return nil, err
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || natoms <= 0 {
		return nil, r.errorf("frame header %q is not a positive atom count", strings.TrimSpace(header))
	}

	comment, err := r.nextLine(false)
	if err != nil {
		if err == io.EOF {
			return nil, r.errorf("unexpected end of input after atom count")
		}
		return nil, err
	}
	keyvals, err := parseComment(comment)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseError,
			fmt.Sprintf("invalid comment line at line %d", r.line))
	}

	frame := &atoms.Atoms{
		Numbers:    make([]int, 0, natoms),
		Positions:  make([]atoms.Vec3, 0, natoms),
		Properties: map[string][]float64{},
	}

	columns, err := parseColumns(keyvalOrDefault(keyvals, "Properties", defaultColumns))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseError,
			fmt.Sprintf("invalid Properties descriptor at line %d", r.line))
	}

	if err := applyFrameKeyvals(frame, keyvals); err != nil {
		return nil, err
	}

	for i := 0; i < natoms; i++ {
		line, err := r.nextLine(false)
		if err != nil {
			return nil, r.errorf("frame truncated: expected %d atoms, got %d", natoms, i)
		}
		if err := parseAtomLine(frame, columns, strings.Fields(line)); err != nil {
			return nil, errors.Wrap(err, errors.CodeParseError,
				fmt.Sprintf("invalid atom line %d", r.line))
		}
	}
	return frame, nil
}

// ReadAll reads every remaining frame.
func (r *Reader) ReadAll() ([]*atoms.Atoms, error) {
	var frames []*atoms.Atoms
	for {
		frame, err := r.Read()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
}

// nextLine advances to the next line.  When skipBlank is set, empty lines
// between frames are tolerated.
func (r *Reader) nextLine(skipBlank bool) (string, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()
		if skipBlank && strings.TrimSpace(line) == "" {
			continue
		}
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", errors.Wrap(err, errors.CodeParseError, "failed to read input")
	}
	return "", io.EOF
}

func (r *Reader) errorf(format string, args ...interface{}) error {
	return errors.New(errors.CodeParseError,
		fmt.Sprintf(format, args...)+fmt.Sprintf(" (line %d)", r.line))
}

// parseComment splits the comment line into key=value pairs, honouring
// double-quoted values.  A bare comment with no '=' yields an empty map, so
// plain-XYZ files parse with the default column layout.
func parseComment(line string) (map[string]string, error) {
	kv := map[string]string{}
	if !strings.Contains(line, "=") {
		return kv, nil
	}
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			break
		}
		key := strings.TrimSpace(rest[:eq])
		rest = rest[eq+1:]
		if key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("malformed key before %q", rest)
		}
		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote in value of %q", key)
			}
			value = rest[1 : end+1]
			rest = strings.TrimSpace(rest[end+2:])
		} else {
			fields := strings.SplitN(rest, " ", 2)
			value = strings.TrimSpace(fields[0])
			if len(fields) == 2 {
				rest = strings.TrimSpace(fields[1])
			} else {
				rest = ""
			}
		}
		kv[key] = value
	}
	return kv, nil
}

func keyvalOrDefault(kv map[string]string, key, fallback string) string {
	if v, ok := kv[key]; ok && v != "" {
		return v
	}
	return fallback
}

// parseColumns parses a Properties descriptor such as
// "species:S:1:pos:R:3:forces:R:3" into column groups.
func parseColumns(descriptor string) ([]column, error) {
	fields := strings.Split(descriptor, ":")
	if len(fields)%3 != 0 {
		return nil, fmt.Errorf("descriptor %q is not name:type:width triples", descriptor)
	}
	cols := make([]column, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		width, err := strconv.Atoi(fields[i+2])
		if err != nil || width <= 0 {
			return nil, fmt.Errorf("column %q has invalid width %q", fields[i], fields[i+2])
		}
		kind := fields[i+1]
		if len(kind) != 1 || !strings.ContainsAny(kind, "SRIL") {
			return nil, fmt.Errorf("column %q has unknown type %q", fields[i], kind)
		}
		cols = append(cols, column{name: fields[i], kind: kind[0], width: width})
	}
	return cols, nil
}

// applyFrameKeyvals maps comment-line entries onto the frame: Lattice and
// pbc populate the cell, numeric values (scalar or space-separated vector)
// become per-frame properties, and everything else is ignored.
func applyFrameKeyvals(frame *atoms.Atoms, kv map[string]string) error {
	for key, value := range kv {
		switch key {
		case "Properties":
			// handled by the caller
		case "Lattice":
			nums, err := parseFloats(value)
			if err != nil || len(nums) != 9 {
				return errors.New(errors.CodeParseError,
					fmt.Sprintf("Lattice %q is not nine numbers", value))
			}
			for i := 0; i < 3; i++ {
				frame.Cell[i] = atoms.Vec3{nums[3*i], nums[3*i+1], nums[3*i+2]}
			}
		case "pbc":
			flags := strings.Fields(value)
			if len(flags) != 3 {
				return errors.New(errors.CodeParseError,
					fmt.Sprintf("pbc %q is not three flags", value))
			}
			for i, f := range flags {
				frame.PBC[i] = f == "T" || f == "true" || f == "True"
			}
		default:
			if nums, err := parseFloats(value); err == nil && len(nums) > 0 {
				frame.Properties[key] = nums
			}
		}
	}
	return nil
}

// parseAtomLine consumes one atom row according to the column layout.
func parseAtomLine(frame *atoms.Atoms, cols []column, fields []string) error {
	want := 0
	for _, c := range cols {
		want += c.width
	}
	if len(fields) != want {
		return fmt.Errorf("expected %d fields, got %d", want, len(fields))
	}

	off := 0
	for _, c := range cols {
		raw := fields[off : off+c.width]
		off += c.width

		switch {
		case c.name == "species" && c.kind == 'S':
			z := atoms.AtomicNumber(raw[0])
			if z == 0 {
				return fmt.Errorf("unknown element symbol %q", raw[0])
			}
			frame.Numbers = append(frame.Numbers, z)
		case (c.name == "Z" || c.name == "numbers") && c.kind == 'I':
			z, err := strconv.Atoi(raw[0])
			if err != nil || z <= 0 {
				return fmt.Errorf("invalid atomic number %q", raw[0])
			}
			frame.Numbers = append(frame.Numbers, z)
		case c.name == "pos" && c.kind == 'R':
			if c.width != 3 {
				return fmt.Errorf("pos column must have width 3, got %d", c.width)
			}
			var p atoms.Vec3
			for i, f := range raw {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q", f)
				}
				p[i] = v
			}
			frame.Positions = append(frame.Positions, p)
		case c.kind == 'R' || c.kind == 'I':
			for _, f := range raw {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return fmt.Errorf("invalid value %q in column %q", f, c.name)
				}
				frame.Properties[c.name] = append(frame.Properties[c.name], v)
			}
		default:
			// String and logical extras carry no numeric payload; skip.
		}
	}
	return nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
