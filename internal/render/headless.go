package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/posereplay/internal/logging"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/robot"
)

var (
	ErrNoScene = errors.New("render: no scene loaded")
	ErrClosed  = errors.New("render: renderer closed")
)

// Headless records configurations without drawing them.
type Headless struct {
	log    logging.Logger
	model  *robot.Model
	frames int
}

func NewHeadless(log logging.Logger) *Headless {
	if log == nil {
		log = logging.Discard()
	}
	return &Headless{log: log}
}

func (h *Headless) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.log.Debugf("headless renderer ready")
	return nil
}

func (h *Headless) LoadScene(model *robot.Model) error {
	if model == nil {
		return fmt.Errorf("load scene: %w", robot.ErrInvalidModel)
	}
	h.model = model
	h.log.Infof("scene %s: %d links, %d joints, dof %d", model.Name, len(model.Links), len(model.Joints), model.DOF())
	h.log.Debugf("joints: %s", strings.Join(model.JointNames(), ", "))
	return nil
}

func (h *Headless) Display(q mocap.Configuration) error {
	if h.model == nil {
		return ErrNoScene
	}
	if len(q) != h.model.DOF() {
		return &mocap.DimensionError{Expected: h.model.DOF(), Actual: len(q), Row: -1, Msg: "configuration length"}
	}
	for i, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("display: component %d is %v", i, v)
		}
	}

	h.frames++
	if len(q) >= mocap.BaseConfigDim {
		p, quat := q.Position(), q.Quaternion()
		h.log.Debugf("frame %d base=[%.4f %.4f %.4f] quat=[%.4f %.4f %.4f %.4f] joints=%d",
			h.frames, p[0], p[1], p[2], quat[0], quat[1], quat[2], quat[3], len(q.Joints()))
	}
	return nil
}

// Frames returns the number of configurations displayed so far.
func (h *Headless) Frames() int { return h.frames }

func (h *Headless) Close() error {
	h.log.Debugf("headless renderer closed after %d frames", h.frames)
	return nil
}
