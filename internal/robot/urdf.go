package robot

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// XML shapes of the URDF elements the loader needs. Visual, collision and
// inertial data are ignored.
type urdfRobot struct {
	Name   string      `xml:"name,attr"`
	Links  []urdfLink  `xml:"link"`
	Joints []urdfJoint `xml:"joint"`
}

type urdfLink struct {
	Name string `xml:"name,attr"`
}

type urdfJoint struct {
	Name   string      `xml:"name,attr"`
	Type   string      `xml:"type,attr"`
	Origin *urdfOrigin `xml:"origin"`
	Parent urdfRef     `xml:"parent"`
	Child  urdfRef     `xml:"child"`
	Axis   *urdfAxis   `xml:"axis"`
	Limit  *urdfLimit  `xml:"limit"`
}

type urdfRef struct {
	Link string `xml:"link,attr"`
}

type urdfOrigin struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

type urdfAxis struct {
	XYZ string `xml:"xyz,attr"`
}

type urdfLimit struct {
	Lower string `xml:"lower,attr"`
	Upper string `xml:"upper,attr"`
}

func parseVec3(s string, def mgl64.Vec3) (mgl64.Vec3, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return def, nil
	}
	if len(fields) != 3 {
		return def, strconv.ErrSyntax
	}
	var v mgl64.Vec3
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return def, err
		}
		v[i] = x
	}
	return v, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
