package loader

import (
	"bufio"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// objLoaderBackend reads Wavefront .obj files and their .mtl libraries.
// Faces with more than three corners are fan-triangulated. Corners sharing
// the same position/texcoord/normal triple share one output vertex.
type objLoaderBackend struct{}

var _ loaderBackend = &objLoaderBackend{}

// objCorner indexes into the position, texcoord and normal tables. -1 means absent.
type objCorner [3]int

type objDecoder struct {
	name string
	dir  string
	open opener
	line int

	positions []mgl32.Vec3
	texCoords []mgl32.Vec2
	normals   []mgl32.Vec3

	objectName string
	library    map[string]*mtlMaterial
	useMtl     string
	warnedMtl  bool

	vertexOf map[objCorner]uint32
	corners  []objCorner
	indices  []uint32
}

func (b *objLoaderBackend) Decode(name string, r io.Reader, dir string, open opener) (*Mesh, error) {
	dec := &objDecoder{
		name:     name,
		dir:      dir,
		open:     open,
		library:  make(map[string]*mtlMaterial),
		vertexOf: make(map[objCorner]uint32),
	}
	if err := scanLines(r, &dec.line, dec.parseLine); err != nil {
		return nil, err
	}
	if len(dec.indices) == 0 {
		return nil, malformed(name, dec.line, "no faces")
	}
	return dec.mesh()
}

// scanLines feeds each trimmed, non-empty, non-comment line to parse and keeps
// *line at the current 1-based line number.
func scanLines(r io.Reader, line *int, parse func(keyword string, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	*line = 0
	for sc.Scan() {
		*line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := parse(fields[0], fields[1:]); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (d *objDecoder) parseLine(keyword string, fields []string) error {
	switch keyword {
	case "v":
		v, err := d.floats(keyword, fields, 3)
		if err != nil {
			return err
		}
		d.positions = append(d.positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vn":
		v, err := d.floats(keyword, fields, 3)
		if err != nil {
			return err
		}
		d.normals = append(d.normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := d.floats(keyword, fields, 2)
		if err != nil {
			return err
		}
		d.texCoords = append(d.texCoords, mgl32.Vec2{v[0], v[1]})
	case "f":
		return d.parseFace(fields)
	case "mtllib":
		if len(fields) < 1 {
			return d.errorf("mtllib with no file")
		}
		for _, lib := range fields {
			if err := d.loadLibrary(lib); err != nil {
				return err
			}
		}
	case "usemtl":
		if len(fields) < 1 {
			return d.errorf("usemtl with no name")
		}
		if d.useMtl != "" && d.useMtl != fields[0] && !d.warnedMtl {
			common.LogWarn("loader: %s:%d: only the first material %q is used", d.name, d.line, d.useMtl)
			d.warnedMtl = true
		}
		if d.useMtl == "" {
			d.useMtl = fields[0]
		}
	case "o", "g":
		if len(fields) > 0 && d.objectName == "" {
			d.objectName = fields[0]
		}
	case "s":
		if len(fields) < 1 {
			return d.errorf("'s' with no value")
		}
		switch fields[0] {
		case "0", "1", "on", "off":
		default:
			if _, err := strconv.Atoi(fields[0]); err != nil {
				return d.errorf("'s' with invalid value %q", fields[0])
			}
		}
	default:
		common.LogDebug("loader: %s:%d: ignoring %q", d.name, d.line, keyword)
	}
	return nil
}

// parseFace parses f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (d *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return d.errorf("face with %d corners", len(fields))
	}
	idx := make([]uint32, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) > 3 {
			return d.errorf("face corner %q has too many parts", f)
		}
		c := objCorner{-1, -1, -1}
		var err error
		if c[0], err = d.resolve(parts[0], len(d.positions), "vertex"); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if c[1], err = d.resolve(parts[1], len(d.texCoords), "texture"); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if c[2], err = d.resolve(parts[2], len(d.normals), "normal"); err != nil {
				return err
			}
		}
		v, ok := d.vertexOf[c]
		if !ok {
			v = uint32(len(d.corners))
			d.corners = append(d.corners, c)
			d.vertexOf[c] = v
		}
		idx[i] = v
	}
	for i := 1; i+1 < len(idx); i++ {
		d.indices = append(d.indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}

// resolve turns a 1-based or negative relative index into a 0-based one.
func (d *objDecoder) resolve(s string, count int, what string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, d.errorf("bad %s index %q", what, s)
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v += count
	default:
		return 0, d.errorf("%s index 0", what)
	}
	if v < 0 || v >= count {
		return 0, d.errorf("%s index %s out of range (%d defined)", what, s, count)
	}
	return v, nil
}

func (d *objDecoder) floats(keyword string, fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, d.errorf("'%s' with %d of %d values", keyword, len(fields), n)
	}
	out := make([]float32, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, d.errorf("'%s' value %q is not a number", keyword, fields[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (d *objDecoder) loadLibrary(lib string) error {
	path := lib
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.dir, lib)
	}
	rc, err := d.open(path)
	if err != nil {
		return d.errorf("mtllib %s: %v", lib, err)
	}
	defer rc.Close()
	mats, err := parseMTL(path, rc)
	if err != nil {
		return err
	}
	for k, m := range mats {
		d.library[k] = m
	}
	return nil
}

func (d *objDecoder) errorf(format string, args ...any) error {
	return malformed(d.name, d.line, format, args...)
}

func (d *objDecoder) mesh() (*Mesh, error) {
	g := object.Geometry{
		Points:  make([]mgl32.Vec3, len(d.corners)),
		Indices: d.indices,
	}
	hasTex, hasNormals := false, true
	for _, c := range d.corners {
		hasTex = hasTex || c[1] >= 0
		hasNormals = hasNormals && c[2] >= 0
	}
	if hasTex {
		g.TexCoords = make([]mgl32.Vec2, len(d.corners))
	}
	for i, c := range d.corners {
		g.Points[i] = d.positions[c[0]]
		if hasTex && c[1] >= 0 {
			g.TexCoords[i] = d.texCoords[c[1]]
		}
	}
	if hasNormals {
		g.Normals = make([]mgl32.Vec3, len(d.corners))
	} else {
		g.Normals = smoothNormals(g.Points, g.Indices)
	}
	for i, c := range d.corners {
		if c[2] >= 0 {
			g.Normals[i] = d.normals[c[2]]
		}
	}

	name := d.objectName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(d.name), filepath.Ext(d.name))
	}

	var mat material.Material
	if d.useMtl != "" {
		m, ok := d.library[d.useMtl]
		if !ok {
			common.LogWarn("loader: %s: material %q not found, using default", d.name, d.useMtl)
		} else {
			mat = m.material(d.dir)
		}
	}
	if mat == nil {
		mat = material.NewMaterial(material.WithName(name))
	}
	return &Mesh{Name: name, Geometry: g, Material: mat}, nil
}

// mtlMaterial holds one newmtl block.
type mtlMaterial struct {
	name      string
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3
	shininess float32
	opacity   float32
	mapKd     string
	set       map[string]bool
}

func (m *mtlMaterial) material(dir string) material.Material {
	opts := []material.MaterialBuilderOption{material.WithName(m.name)}
	if m.set["Ka"] {
		opts = append(opts, material.WithAmbient(m.ambient.Vec4(m.opacity)))
	}
	if m.set["Kd"] {
		opts = append(opts, material.WithDiffuse(m.diffuse.Vec4(m.opacity)))
	}
	if m.set["Ks"] {
		opts = append(opts, material.WithSpecular(m.specular.Vec4(m.opacity)))
	}
	if m.set["Ns"] {
		opts = append(opts, material.WithShininess(m.shininess))
	}
	if m.mapKd != "" {
		tex := m.mapKd
		if !filepath.IsAbs(tex) {
			tex = filepath.Join(dir, tex)
		}
		opts = append(opts, material.WithTextureFile(tex))
	}
	return material.NewMaterial(opts...)
}

// parseMTL reads newmtl, Ka, Kd, Ks, Ns, d and map_Kd. Other statements are ignored.
func parseMTL(name string, r io.Reader) (map[string]*mtlMaterial, error) {
	mats := make(map[string]*mtlMaterial)
	var cur *mtlMaterial
	var line int
	color := func(keyword string, fields []string) (mgl32.Vec3, error) {
		var c mgl32.Vec3
		if len(fields) < 3 {
			return c, malformed(name, line, "'%s' with fewer than 3 values", keyword)
		}
		for i := range 3 {
			v, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return c, malformed(name, line, "'%s' value %q is not a number", keyword, fields[i])
			}
			c[i] = float32(v)
		}
		return c, nil
	}
	scalar := func(keyword string, fields []string) (float32, error) {
		if len(fields) < 1 {
			return 0, malformed(name, line, "'%s' with no value", keyword)
		}
		v, err := strconv.ParseFloat(fields[0], 32)
		if err != nil {
			return 0, malformed(name, line, "'%s' value %q is not a number", keyword, fields[0])
		}
		return float32(v), nil
	}

	err := scanLines(r, &line, func(keyword string, fields []string) error {
		if keyword == "newmtl" {
			if len(fields) < 1 {
				return malformed(name, line, "newmtl with no name")
			}
			cur = &mtlMaterial{name: fields[0], opacity: 1, set: make(map[string]bool)}
			mats[cur.name] = cur
			return nil
		}
		if cur == nil {
			return malformed(name, line, "'%s' before newmtl", keyword)
		}
		var err error
		switch keyword {
		case "Ka":
			cur.ambient, err = color(keyword, fields)
		case "Kd":
			cur.diffuse, err = color(keyword, fields)
		case "Ks":
			cur.specular, err = color(keyword, fields)
		case "Ns":
			cur.shininess, err = scalar(keyword, fields)
		case "d":
			cur.opacity, err = scalar(keyword, fields)
		case "map_Kd":
			// options such as -s u v come first; the file name is last
			if len(fields) < 1 {
				return malformed(name, line, "map_Kd with no file")
			}
			cur.mapKd = fields[len(fields)-1]
		default:
			return nil
		}
		cur.set[keyword] = true
		return err
	})
	if err != nil {
		return nil, err
	}
	return mats, nil
}
