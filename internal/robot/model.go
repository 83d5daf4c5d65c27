// Package robot loads articulated-body models from URDF descriptions and
// computes link positions for a configuration vector.
package robot

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/pose"
)

// ErrInvalidModel indicates a model description that cannot form a tree.
var ErrInvalidModel = errors.New("robot: invalid model description")

type JointType string

const (
	Revolute   JointType = "revolute"
	Continuous JointType = "continuous"
	Prismatic  JointType = "prismatic"
	Fixed      JointType = "fixed"
)

// Movable reports whether the joint contributes a configuration value.
// Continuous joints are treated as unbounded revolute joints with one value.
func (t JointType) Movable() bool {
	return t == Revolute || t == Continuous || t == Prismatic
}

type Joint struct {
	Name   string
	Type   JointType
	Parent string
	Child  string
	Origin mgl64.Mat4
	Axis   mgl64.Vec3
	Lower  float64
	Upper  float64
	// Index is the joint's slot in the configuration vector, or -1 for fixed joints.
	Index int
}

type Options struct {
	// FloatingBase attaches the root link to the world through a free
	// 6-DOF joint stored as position + quaternion.
	FloatingBase bool
}

type Model struct {
	Name         string
	Root         string
	FloatingBase bool
	// Joints in depth-first order from the root, children in document order.
	Joints []Joint
	Links  []string

	movable int
}

// Load reads a URDF file.
func Load(path string, opts Options) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, mocap.NotFound("model", path)
		}
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	m, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a URDF document.
func Parse(r io.Reader, opts Options) (*Model, error) {
	var doc urdfRobot
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if len(doc.Links) == 0 {
		return nil, fmt.Errorf("%w: no links", ErrInvalidModel)
	}

	links := make(map[string]bool, len(doc.Links))
	for _, l := range doc.Links {
		if links[l.Name] {
			return nil, fmt.Errorf("%w: duplicate link %q", ErrInvalidModel, l.Name)
		}
		links[l.Name] = true
	}

	children := make(map[string][]Joint)
	hasParent := make(map[string]bool)
	for _, uj := range doc.Joints {
		j, err := convertJoint(uj)
		if err != nil {
			return nil, err
		}
		if !links[j.Parent] || !links[j.Child] {
			return nil, fmt.Errorf("%w: joint %q references unknown link", ErrInvalidModel, j.Name)
		}
		if hasParent[j.Child] {
			return nil, fmt.Errorf("%w: link %q has more than one parent", ErrInvalidModel, j.Child)
		}
		hasParent[j.Child] = true
		children[j.Parent] = append(children[j.Parent], j)
	}

	root := ""
	for _, l := range doc.Links {
		if hasParent[l.Name] {
			continue
		}
		if root != "" {
			return nil, fmt.Errorf("%w: multiple root links %q and %q", ErrInvalidModel, root, l.Name)
		}
		root = l.Name
	}
	if root == "" {
		return nil, fmt.Errorf("%w: kinematic loop, no root link", ErrInvalidModel)
	}

	m := &Model{Name: doc.Name, Root: root, FloatingBase: opts.FloatingBase}
	m.walk(root, children)

	if len(m.Links) != len(doc.Links) {
		return nil, fmt.Errorf("%w: %d links unreachable from %q", ErrInvalidModel, len(doc.Links)-len(m.Links), root)
	}
	return m, nil
}

func (m *Model) walk(link string, children map[string][]Joint) {
	m.Links = append(m.Links, link)
	for _, j := range children[link] {
		j.Index = -1
		if j.Type.Movable() {
			j.Index = m.baseDim() + m.movable
			m.movable++
		}
		m.Joints = append(m.Joints, j)
		m.walk(j.Child, children)
	}
}

func convertJoint(uj urdfJoint) (Joint, error) {
	j := Joint{
		Name:   uj.Name,
		Type:   JointType(uj.Type),
		Parent: uj.Parent.Link,
		Child:  uj.Child.Link,
		Origin: mgl64.Ident4(),
		Axis:   mgl64.Vec3{1, 0, 0},
	}

	switch j.Type {
	case Revolute, Continuous, Prismatic, Fixed:
	default:
		return j, fmt.Errorf("%w: joint %q has unsupported type %q", ErrInvalidModel, j.Name, uj.Type)
	}

	if uj.Origin != nil {
		xyz, err := parseVec3(uj.Origin.XYZ, mgl64.Vec3{})
		if err != nil {
			return j, fmt.Errorf("%w: joint %q origin xyz: %v", ErrInvalidModel, j.Name, err)
		}
		rpy, err := parseVec3(uj.Origin.RPY, mgl64.Vec3{})
		if err != nil {
			return j, fmt.Errorf("%w: joint %q origin rpy: %v", ErrInvalidModel, j.Name, err)
		}
		rot := pose.EulerToQuat(rpy[0], rpy[1], rpy[2], pose.Extrinsic).Mat4()
		j.Origin = mgl64.Translate3D(xyz[0], xyz[1], xyz[2]).Mul4(rot)
	}

	if uj.Axis != nil {
		axis, err := parseVec3(uj.Axis.XYZ, j.Axis)
		if err != nil {
			return j, fmt.Errorf("%w: joint %q axis: %v", ErrInvalidModel, j.Name, err)
		}
		if axis.Len() == 0 {
			return j, fmt.Errorf("%w: joint %q has a zero axis", ErrInvalidModel, j.Name)
		}
		j.Axis = axis.Normalize()
	}

	if uj.Limit != nil {
		j.Lower = parseFloat(uj.Limit.Lower)
		j.Upper = parseFloat(uj.Limit.Upper)
	}
	return j, nil
}

func (m *Model) baseDim() int {
	if m.FloatingBase {
		return mocap.BaseConfigDim
	}
	return 0
}

// DOF returns the configuration vector length.
func (m *Model) DOF() int { return m.baseDim() + m.movable }

// JointNames lists movable joints in configuration order.
func (m *Model) JointNames() []string {
	names := make([]string, 0, m.movable)
	for _, j := range m.Joints {
		if j.Index >= 0 {
			names = append(names, j.Name)
		}
	}
	return names
}
