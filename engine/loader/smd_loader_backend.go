package loader

import (
	"bufio"
	"log"
	"strconv"
	"strings"
	"unicode"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/Carmen-Shannon/gdt-go/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// smdRootBone is the name of the only bone of an unrigged SMD export.
const smdRootBone = "root"

// smdLoaderBackend reads Valve SMD files: "version", "nodes", "skeleton" and "triangles"
// sections, each closed by "end".
type smdLoaderBackend struct{}

var _ loaderBackend = &smdLoaderBackend{}

// smdFile is the decoded content of one SMD file.
type smdFile struct {
	bones  []animation.Bone
	frames []*animation.Frame
	mesh   *model.Mesh
}

// smdReader walks the non-empty lines of an SMD stream.
type smdReader struct {
	sc   *bufio.Scanner
	line int
}

func newSMDLoaderBackend() loaderBackend {
	return &smdLoaderBackend{}
}

func (b *smdLoaderBackend) Model(src source) (*model.Model, error) {
	f, err := readSMD(src)
	if err != nil {
		return nil, err
	}
	if f.mesh == nil || len(f.mesh.Triangles) == 0 {
		return nil, errors.Errorf("smd %s: no triangles", src.name)
	}
	m := &model.Model{Name: src.name, Meshes: []*model.Mesh{f.mesh}}
	m.GenerateTangents()
	return m, nil
}

func (b *smdLoaderBackend) Skeleton(src source) (*animation.Skeleton, error) {
	f, err := readSMD(src)
	if err != nil {
		return nil, err
	}
	if len(f.frames) == 0 {
		return nil, errors.Errorf("smd %s: no skeleton frames", src.name)
	}
	return animation.NewSkeleton(f.bones, f.frames[0]), nil
}

func (b *smdLoaderBackend) Frames(src source, clip string) ([]*animation.Frame, error) {
	f, err := readSMD(src)
	if err != nil {
		return nil, err
	}
	if len(f.frames) == 0 {
		return nil, errors.Errorf("smd %s: no skeleton frames", src.name)
	}
	return f.frames, nil
}

func readSMD(src source) (*smdFile, error) {
	r := &smdReader{sc: bufio.NewScanner(src.r)}
	f := &smdFile{}
	for {
		fields, ok := r.next()
		if !ok {
			break
		}
		var err error
		switch fields[0] {
		case "version":
		case "nodes":
			err = f.readNodes(r)
		case "skeleton":
			err = f.readSkeleton(r)
		case "triangles":
			err = f.readTriangles(r, src.name)
		default:
			err = errors.Errorf("unknown section %q", fields[0])
		}
		if err != nil {
			return nil, errors.Wrapf(err, "smd %s line %d", src.name, r.line)
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "smd %s", src.name)
	}
	return f, nil
}

func (r *smdReader) next() ([]string, bool) {
	for r.sc.Scan() {
		r.line++
		fields := smdFields(r.sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "//") {
			continue
		}
		return fields, true
	}
	return nil, false
}

// section returns the lines of the current section up to its "end".
func (r *smdReader) section(fn func(fields []string) error) error {
	for {
		fields, ok := r.next()
		if !ok {
			return errors.New("section is not closed by end")
		}
		if fields[0] == "end" {
			return nil
		}
		if err := fn(fields); err != nil {
			return err
		}
	}
}

// smdFields splits a line on whitespace, keeping quoted names whole.
func smdFields(s string) []string {
	quoted := false
	return strings.FieldsFunc(s, func(r rune) bool {
		if r == '"' {
			quoted = !quoted
			return true
		}
		return !quoted && unicode.IsSpace(r)
	})
}

func (f *smdFile) readNodes(r *smdReader) error {
	return r.section(func(fields []string) error {
		if len(fields) < 3 {
			return errors.Errorf("node needs id, name and parent, got %q", fields)
		}
		ids, err := ints(fields[0], fields[2])
		if err != nil {
			return err
		}
		id, parent := ids[0], ids[1]
		if id < 0 {
			return errors.Errorf("negative bone id %d", id)
		}
		for len(f.bones) <= id {
			f.bones = append(f.bones, animation.Bone{Parent: -1})
		}
		f.bones[id] = animation.Bone{Name: fields[1], Parent: parent}
		return nil
	})
}

func (f *smdFile) parents() []int {
	out := make([]int, len(f.bones))
	for i, b := range f.bones {
		out[i] = b.Parent
	}
	return out
}

// readSkeleton reads one frame per "time" block. Bones a block omits keep their pose of
// the previous frame.
func (f *smdFile) readSkeleton(r *smdReader) error {
	var cur *animation.Frame
	err := r.section(func(fields []string) error {
		if fields[0] == "time" {
			cur = f.nextFrame(cur)
			return nil
		}
		if cur == nil {
			return errors.New("bone pose before the first time")
		}
		if len(fields) < 7 {
			return errors.Errorf("bone pose needs id and 6 values, got %q", fields)
		}
		ids, err := ints(fields[0])
		if err != nil {
			return err
		}
		id := ids[0]
		if id < 0 || id >= len(cur.Parents) {
			return errors.Errorf("bone %d is not a node", id)
		}
		v, err := floats(fields[1:7]...)
		if err != nil {
			return err
		}
		cur.Positions[id] = mgl32.Vec3{v[0], v[1], v[2]}
		cur.Rotations[id] = common.EulerQuat(mgl32.Vec3{v[3], v[4], v[5]})
		return nil
	})
	for _, fr := range f.frames {
		fr.Bake()
	}
	return err
}

func (f *smdFile) nextFrame(prev *animation.Frame) *animation.Frame {
	n := len(f.bones)
	fr := animation.NewFrame(f.parents(), make([]mgl32.Vec3, n), make([]mgl32.Quat, n))
	for i := range fr.Rotations {
		fr.Rotations[i] = mgl32.QuatIdent()
	}
	if prev != nil {
		copy(fr.Positions, prev.Positions)
		copy(fr.Rotations, prev.Rotations)
	}
	f.frames = append(f.frames, fr)
	return fr
}

func (f *smdFile) rigged() bool {
	return !(len(f.bones) == 1 && f.bones[0].Name == smdRootBone)
}

// readTriangles reads a material line followed by three vertex lines per triangle.
// Identical vertices are shared.
func (f *smdFile) readTriangles(r *smdReader, name string) error {
	mesh := &model.Mesh{Name: name, Rigged: f.rigged()}
	seen := map[model.Vertex]uint32{}
	var unbound, unnormalized int

	var tri model.Triangle
	corner := -1
	err := r.section(func(fields []string) error {
		if corner < 0 {
			if mesh.Texture == "" {
				mesh.Texture = strings.Join(fields, " ")
			}
			corner = 0
			return nil
		}
		if len(fields) < 9 {
			return errors.Errorf("vertex needs bone, position, normal and uv, got %q", fields)
		}
		v, err := floats(fields[1:9]...)
		if err != nil {
			return err
		}
		vx := model.Vertex{
			Position: mgl32.Vec3{v[0], v[1], v[2]},
			Normal:   mgl32.Vec3{v[3], v[4], v[5]},
			UV:       mgl32.Vec2{v[6], v[7]},
			Color:    model.DefaultColor,
		}
		links, err := smdLinks(fields)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			unbound++
		}
		w, ok := fitWeights(links)
		if !ok && len(links) > 0 {
			unnormalized++
		}

		idx, ok := seen[vx]
		if !ok {
			idx = uint32(len(mesh.Vertices))
			seen[vx] = idx
			mesh.Vertices = append(mesh.Vertices, vx)
			mesh.Weights = append(mesh.Weights, w)
		}
		tri[corner] = idx
		corner++
		if corner == 3 {
			mesh.Triangles = append(mesh.Triangles, tri)
			corner = -1
		}
		return nil
	})
	if err != nil {
		return err
	}
	if corner >= 0 {
		return errors.New("triangles section ends inside a triangle")
	}
	if unbound > 0 && mesh.Rigged {
		log.Printf("smd: %s has %d vertices with no bones", name, unbound)
	}
	if unnormalized > 0 {
		log.Printf("smd: %s has %d vertices whose weights do not sum to 1", name, unnormalized)
	}
	if !mesh.Rigged {
		mesh.Weights = nil
	}
	f.mesh = mesh
	return nil
}

// smdLinks reads the bone influences of a vertex line. Files without a link count bind
// the vertex fully to its parent bone.
func smdLinks(fields []string) ([]link, error) {
	if len(fields) == 9 {
		parent, err := ints(fields[0])
		if err != nil {
			return nil, err
		}
		return []link{{bone: parent[0], weight: 1}}, nil
	}
	n, err := ints(fields[9])
	if err != nil {
		return nil, err
	}
	count := n[0]
	if len(fields) < 10+count*2 {
		return nil, errors.Errorf("vertex declares %d links, got %q", count, fields[10:])
	}
	links := make([]link, count)
	for i := range links {
		id, err := ints(fields[10+i*2])
		if err != nil {
			return nil, err
		}
		w, err := floats(fields[11+i*2])
		if err != nil {
			return nil, err
		}
		links[i] = link{bone: id[0], weight: w[0]}
	}
	return links, nil
}

func ints(s ...string) ([]int, error) {
	out := make([]int, len(s))
	for i, v := range s {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrapf(err, "bad integer %q", v)
		}
		out[i] = n
	}
	return out, nil
}

func floats(s ...string) ([]float32, error) {
	out := make([]float32, len(s))
	for i, v := range s {
		n, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "bad number %q", v)
		}
		out[i] = float32(n)
	}
	return out, nil
}
