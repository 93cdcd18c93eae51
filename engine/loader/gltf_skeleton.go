package loader

import (
	"fmt"
	"log"
	"sort"

	"github.com/Carmen-Shannon/gdt-go/common"
	"github.com/Carmen-Shannon/gdt-go/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfSkin is a glTF skin reordered so that every bone follows its parent.
type gltfSkin struct {
	bones []animation.Bone
	rest  *animation.Frame

	// nodes maps a bone index to its document node.
	nodes []int

	// remap maps a skin joint index to its bone index.
	remap map[int]int
}

// gltfSkinOfMesh finds the skin of the first node instancing mesh.
func gltfSkinOfMesh(doc *gltf.Document, mesh int) (int, bool) {
	for _, n := range doc.Nodes {
		if mi, ok := gltfIndex(n.Mesh); ok && mi == mesh {
			if si, ok := gltfIndex(n.Skin); ok && si < len(doc.Skins) {
				return si, true
			}
		}
	}
	return 0, false
}

// readGLTFSkin builds the bone hierarchy of a skin. A bone's parent is its nearest ancestor
// node that is also a joint; the rest pose is the local transform of every joint node.
func readGLTFSkin(doc *gltf.Document, index int) (*gltfSkin, error) {
	skin := doc.Skins[index]
	parentOf := make(map[int]int, len(doc.Nodes))
	for ni, n := range doc.Nodes {
		for _, c := range n.Children {
			if ci, ok := gltfIndex(c); ok {
				parentOf[ci] = ni
			}
		}
	}

	joints := make([]int, len(skin.Joints))
	jointOf := make(map[int]int, len(skin.Joints))
	for j, node := range skin.Joints {
		ni, ok := gltfIndex(node)
		if !ok || ni >= len(doc.Nodes) {
			return nil, errors.Errorf("skin %d joint %d: invalid node", index, j)
		}
		joints[j] = ni
		jointOf[ni] = j
	}

	// The parent joint of every joint, and its depth below the skin roots.
	parentJoint := make([]int, len(joints))
	depth := make([]int, len(joints))
	for j, ni := range joints {
		parentJoint[j] = -1
		for p, ok := parentOf[ni]; ok; p, ok = parentOf[p] {
			if pj, isJoint := jointOf[p]; isJoint {
				if parentJoint[j] < 0 {
					parentJoint[j] = pj
				}
				depth[j]++
			}
		}
	}

	order := make([]int, len(joints))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return depth[order[a]] < depth[order[b]]
	})

	s := &gltfSkin{
		bones: make([]animation.Bone, len(joints)),
		nodes: make([]int, len(joints)),
		remap: make(map[int]int, len(joints)),
	}
	for bone, j := range order {
		s.remap[j] = bone
	}
	parents := make([]int, len(joints))
	positions := make([]mgl32.Vec3, len(joints))
	rotations := make([]mgl32.Quat, len(joints))
	for bone, j := range order {
		n := doc.Nodes[joints[j]]
		parent := -1
		if parentJoint[j] >= 0 {
			parent = s.remap[parentJoint[j]]
		}
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("bone_%d", bone)
		}
		s.bones[bone] = animation.Bone{Name: name, Parent: parent}
		s.nodes[bone] = joints[j]
		parents[bone] = parent
		positions[bone], rotations[bone] = gltfNodeTransform(n)
	}
	s.rest = animation.NewFrame(parents, positions, rotations)
	s.rest.Bake()
	return s, nil
}

// gltfNodeTransform returns the local translation and rotation of a node. Scale is dropped;
// frames carry rigid transforms only.
func gltfNodeTransform(n *gltf.Node) (mgl32.Vec3, mgl32.Quat) {
	m := mgl32.Mat4(n.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		for c := 0; c < 3; c++ {
			col := m.Col(c).Vec3()
			if l := col.Len(); l > 0 {
				m.SetCol(c, col.Mul(1/l).Vec4(0))
			}
		}
		return common.Position(m), mgl32.Mat4ToQuat(m).Normalize()
	}
	r := n.Rotation
	q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	if q.Len() == 0 {
		q = mgl32.QuatIdent()
	}
	return mgl32.Vec3(n.Translation), q.Normalize()
}

func gltfFindAnimation(doc *gltf.Document, clip string) (*gltf.Animation, error) {
	if len(doc.Animations) == 0 {
		return nil, errors.New("no animations")
	}
	if clip == "" {
		return doc.Animations[0], nil
	}
	for _, a := range doc.Animations {
		if a.Name == clip {
			return a, nil
		}
	}
	return nil, errors.Errorf("no animation %q", clip)
}

// gltfTrack is one sampled channel of an animation targeting a bone.
type gltfTrack struct {
	bone   int
	path   gltf.TRSProperty
	interp gltf.Interpolation
	times  []float32
	vec3s  [][3]float32
	vec4s  [][4]float32
}

// sampleGLTFAnimation resamples an animation at animation.FrameRate. Bones without a
// channel hold their rest pose.
func sampleGLTFAnimation(doc *gltf.Document, anim *gltf.Animation, skin *gltfSkin) ([]*animation.Frame, error) {
	boneOf := make(map[int]int, len(skin.nodes))
	for bone, ni := range skin.nodes {
		boneOf[ni] = bone
	}

	var tracks []gltfTrack
	var duration float32
	scaled := false
	for ci, ch := range anim.Channels {
		ni, ok := gltfIndex(ch.Target.Node)
		if !ok {
			continue
		}
		bone, ok := boneOf[ni]
		if !ok {
			continue
		}
		if ch.Target.Path != gltf.TRSTranslation && ch.Target.Path != gltf.TRSRotation {
			scaled = scaled || ch.Target.Path == gltf.TRSScale
			continue
		}
		si, ok := gltfIndex(ch.Sampler)
		if !ok || si >= len(anim.Samplers) {
			return nil, errors.Errorf("channel %d: invalid sampler", ci)
		}
		tr, err := readGLTFTrack(doc, anim.Samplers[si], bone, ch.Target.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "channel %d", ci)
		}
		if n := len(tr.times); n > 0 && tr.times[n-1] > duration {
			duration = tr.times[n-1]
		}
		tracks = append(tracks, tr)
	}
	if scaled {
		log.Printf("loader: animation %q has scale channels, ignored", anim.Name)
	}

	count := int(duration*animation.FrameRate) + 1
	frames := make([]*animation.Frame, count)
	for k := range frames {
		t := float32(k) / animation.FrameRate
		fr := animation.NewFrame(skin.rest.Parents,
			append([]mgl32.Vec3(nil), skin.rest.Positions...),
			append([]mgl32.Quat(nil), skin.rest.Rotations...))
		for _, tr := range tracks {
			tr.apply(fr, t)
		}
		fr.Bake()
		frames[k] = fr
	}
	return frames, nil
}

func readGLTFTrack(doc *gltf.Document, s *gltf.AnimationSampler, bone int, path gltf.TRSProperty) (gltfTrack, error) {
	tr := gltfTrack{bone: bone, path: path, interp: s.Interpolation}
	in, ok := gltfIndex(s.Input)
	if !ok || in >= len(doc.Accessors) {
		return tr, errors.New("invalid input accessor")
	}
	out, ok := gltfIndex(s.Output)
	if !ok || out >= len(doc.Accessors) {
		return tr, errors.New("invalid output accessor")
	}

	times, err := modeler.ReadAccessor(doc, doc.Accessors[in], nil)
	if err != nil {
		return tr, errors.Wrap(err, "read key times")
	}
	var okTimes bool
	if tr.times, okTimes = times.([]float32); !okTimes {
		return tr, errors.Errorf("key times are %T, want []float32", times)
	}

	values, err := modeler.ReadAccessor(doc, doc.Accessors[out], nil)
	if err != nil {
		return tr, errors.Wrap(err, "read key values")
	}
	switch v := values.(type) {
	case [][3]float32:
		tr.vec3s = v
	case [][4]float32:
		tr.vec4s = v
	default:
		return tr, errors.Errorf("key values are %T, want float vectors", values)
	}
	if (path == gltf.TRSTranslation && tr.vec3s == nil) || (path == gltf.TRSRotation && tr.vec4s == nil) {
		return tr, errors.Errorf("key values %T do not match path %v", values, path)
	}
	return tr, nil
}

// keys returns the key frames around t and the blend factor between them.
func (tr *gltfTrack) keys(t float32) (int, int, float32) {
	n := len(tr.times)
	if n == 0 || t <= tr.times[0] {
		return 0, 0, 0
	}
	if t >= tr.times[n-1] {
		return n - 1, n - 1, 0
	}
	i := sort.Search(n, func(i int) bool { return tr.times[i] > t }) - 1
	span := tr.times[i+1] - tr.times[i]
	if span <= 0 || tr.interp == gltf.InterpolationStep {
		return i, i, 0
	}
	return i, i + 1, (t - tr.times[i]) / span
}

// value maps a key index to its value slot; cubic spline keys store in-tangent, value,
// out-tangent triples and are blended linearly between values.
func (tr *gltfTrack) value(i int) int {
	if tr.interp == gltf.InterpolationCubicSpline {
		return i*3 + 1
	}
	return i
}

func (tr *gltfTrack) apply(fr *animation.Frame, t float32) {
	if len(tr.times) == 0 {
		return
	}
	a, b, f := tr.keys(t)
	a, b = tr.value(a), tr.value(b)
	switch tr.path {
	case gltf.TRSTranslation:
		if b >= len(tr.vec3s) {
			return
		}
		fr.Positions[tr.bone] = common.Lerp(mgl32.Vec3(tr.vec3s[a]), mgl32.Vec3(tr.vec3s[b]), f)
	case gltf.TRSRotation:
		if b >= len(tr.vec4s) {
			return
		}
		qa := mgl32.Quat{W: tr.vec4s[a][3], V: mgl32.Vec3{tr.vec4s[a][0], tr.vec4s[a][1], tr.vec4s[a][2]}}
		qb := mgl32.Quat{W: tr.vec4s[b][3], V: mgl32.Vec3{tr.vec4s[b][0], tr.vec4s[b][1], tr.vec4s[b][2]}}
		fr.Rotations[tr.bone] = common.Slerp(qa, qb, f).Normalize()
	}
}
