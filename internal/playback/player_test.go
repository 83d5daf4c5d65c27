package playback

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/posereplay/internal/logging"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/motion"
	"github.com/san-kum/posereplay/internal/pose"
	"github.com/san-kum/posereplay/internal/robot"
)

const armURDF = `<robot name="arm">
  <link name="base"/>
  <link name="upper"/>
  <link name="lower"/>
  <joint name="shoulder" type="revolute">
    <origin xyz="0 0 0.3"/>
    <parent link="base"/>
    <child link="upper"/>
    <axis xyz="0 1 0"/>
    <limit lower="-1.5" upper="1.5" effort="10" velocity="2"/>
  </joint>
  <joint name="elbow" type="revolute">
    <origin xyz="0 0 0.25"/>
    <parent link="upper"/>
    <child link="lower"/>
    <axis xyz="0 1 0"/>
  </joint>
</robot>`

func armModel() *robot.Model {
	m, err := robot.Parse(strings.NewReader(armURDF), robot.Options{FloatingBase: true})
	Expect(err).NotTo(HaveOccurred())
	Expect(m.DOF()).To(Equal(9))
	return m
}

// armTable builds n frames whose first joint value is the frame index.
func armTable(n int) *mocap.Table {
	tbl := &mocap.Table{}
	for i := 0; i < n; i++ {
		tbl.Frames = append(tbl.Frames, mocap.Frame{0.01 * float64(i), 0, 0.8, 0, 0, 0.1, float64(i), -0.5})
	}
	return tbl
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.FPS = 500
	opts.Warmup = 0
	return opts
}

var _ = Describe("Player", func() {
	var (
		ctx      context.Context
		renderer *recordingRenderer
	)

	BeforeEach(func() {
		ctx = context.Background()
		renderer = &recordingRenderer{}
	})

	Describe("validation", func() {
		It("rejects a table whose width does not match the model", func() {
			tbl := &mocap.Table{Frames: []mocap.Frame{{0, 0, 0, 0, 0, 0, 1}}}
			p := New(armModel(), tbl, renderer, fastOptions())

			err := p.Run(ctx)

			Expect(err).To(MatchError(mocap.ErrDimension))
			var dimErr *mocap.DimensionError
			Expect(errors.As(err, &dimErr)).To(BeTrue())
			Expect(dimErr.Expected).To(Equal(8))
			Expect(dimErr.Actual).To(Equal(7))
			Expect(renderer.initialized).To(BeZero())
			Expect(renderer.shown).To(BeEmpty())
		})

		It("rejects a model without a floating base before rendering", func() {
			fixed, err := robot.Parse(strings.NewReader(armURDF), robot.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(fixed.DOF()).To(Equal(2))
			// One column short of DOF, so only the base check can catch it.
			tbl := &mocap.Table{Frames: []mocap.Frame{{1}}}
			p := New(fixed, tbl, renderer, fastOptions())

			Expect(p.Run(ctx)).To(MatchError(mocap.ErrConfig))
			Expect(renderer.initialized).To(BeZero())
			Expect(renderer.shown).To(BeEmpty())
		})

		It("rejects an empty table", func() {
			p := New(armModel(), &mocap.Table{}, renderer, fastOptions())

			Expect(p.Run(ctx)).To(MatchError(mocap.ErrEmptyTable))
			Expect(renderer.shown).To(BeEmpty())
		})

		It("rejects a non-positive frame rate", func() {
			opts := fastOptions()
			opts.FPS = 0
			p := New(armModel(), armTable(3), renderer, opts)

			Expect(p.Run(ctx)).To(MatchError(mocap.ErrConfig))
			Expect(renderer.shown).To(BeEmpty())
		})

		It("requires an input for interactive modes", func() {
			opts := fastOptions()
			opts.Mode = ModeStep
			p := New(armModel(), armTable(3), renderer, opts)

			Expect(p.Run(ctx)).To(MatchError(mocap.ErrConfig))
			Expect(renderer.shown).To(BeEmpty())
		})
	})

	Describe("auto play", func() {
		It("displays every frame once, in order, at the requested rate", func() {
			opts := DefaultOptions()
			opts.FPS = 10
			opts.Warmup = 0
			p := New(armModel(), armTable(5), renderer, opts)

			start := time.Now()
			Expect(p.Run(ctx)).To(Succeed())

			Expect(time.Since(start)).To(BeNumerically(">=", 400*time.Millisecond))
			Expect(renderer.indices()).To(Equal([]int{0, 1, 2, 3, 4}))
			Expect(renderer.initialized).To(Equal(1))
			Expect(renderer.scenes).To(HaveLen(1))
			Expect(p.State().Frame()).To(Equal(4))
			Expect(p.State().Interval()).To(Equal(100 * time.Millisecond))
		})

		It("hands the renderer decoded configurations", func() {
			tbl := armTable(2)
			p := New(armModel(), tbl, renderer, fastOptions())

			Expect(p.Run(ctx)).To(Succeed())

			want, err := pose.NewDecoder().Decode(tbl.Frames[1], 9)
			Expect(err).NotTo(HaveOccurred())
			Expect(renderer.shown[1]).To(Equal(want))
			Expect(renderer.shown[1]).To(HaveLen(9))
		})

		It("stops cleanly when quit is requested mid-playback", func() {
			p := New(armModel(), armTable(10), renderer, fastOptions())
			renderer.onDisplay = func(n int) {
				if n == 3 {
					p.State().RequestQuit()
				}
			}

			Expect(p.Run(ctx)).To(Succeed())
			Expect(renderer.indices()).To(Equal([]int{0, 1, 2}))
		})

		It("treats cancellation during warm-up as a clean stop", func() {
			opts := fastOptions()
			opts.Warmup = time.Hour
			p := New(armModel(), armTable(3), renderer, opts)

			cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			Expect(p.Run(cctx)).To(Succeed())
			Expect(renderer.shown).To(BeEmpty())
			Expect(p.State().QuitRequested()).To(BeTrue())
		})

		It("warns once per joint that leaves its limits", func() {
			var buf bytes.Buffer
			opts := fastOptions()
			opts.Logger = logging.New("warn", &buf)
			p := New(armModel(), armTable(4), renderer, opts)

			Expect(p.Run(ctx)).To(Succeed())
			Expect(renderer.shown).To(HaveLen(4))
			Expect(strings.Count(buf.String(), "leaves its limits")).To(Equal(1))
			Expect(buf.String()).To(ContainSubstring("joint shoulder leaves its limits [-1.500, 1.500] in 2 frames, first at frame 3"))
		})

		It("reports renderer failures with the frame index", func() {
			renderer.failAt = 2
			p := New(armModel(), armTable(4), renderer, fastOptions())

			err := p.Run(ctx)
			Expect(err).To(MatchError(ContainSubstring("display frame 1")))
			Expect(renderer.shown).To(HaveLen(1))
		})

		It("reports renderer initialization failures before displaying", func() {
			renderer.initErr = errors.New("no display")
			p := New(armModel(), armTable(4), renderer, fastOptions())

			Expect(p.Run(ctx)).To(MatchError(ContainSubstring("initialize renderer")))
			Expect(renderer.shown).To(BeEmpty())
		})
	})

	Describe("keyboard control", func() {
		It("quits on q and restores the input", func() {
			src := &scriptedSource{idle: true}
			opts := fastOptions()
			opts.Mode = ModeInteractive
			opts.Input = func() (KeySource, error) { return src, nil }
			p := New(armModel(), armTable(10), renderer, opts)
			renderer.onDisplay = func(n int) {
				if n == 3 {
					p.Controller().HandleKey('q')
				}
			}

			Expect(p.Run(ctx)).To(Succeed())
			Expect(renderer.indices()).To(Equal([]int{0, 1, 2}))
			Expect(src.Closed()).To(Equal(1))
		})

		It("restores the input when the renderer fails", func() {
			src := &scriptedSource{idle: true}
			opts := fastOptions()
			opts.Mode = ModeInteractive
			opts.Input = func() (KeySource, error) { return src, nil }
			renderer.failAt = 1
			p := New(armModel(), armTable(3), renderer, opts)

			Expect(p.Run(ctx)).NotTo(Succeed())
			Expect(src.Closed()).To(Equal(1))
		})

		It("waits for space between frames in step mode", func() {
			opts := fastOptions()
			opts.Mode = ModeStep
			p := New(armModel(), armTable(4), renderer, opts)
			p.ctrl.poll = time.Millisecond
			src := &stepSource{state: p.State()}
			opts.Input = func() (KeySource, error) { return src, nil }
			p.opts = opts

			Expect(p.Run(ctx)).To(Succeed())
			Expect(renderer.indices()).To(Equal([]int{0, 1, 2, 3}))
			Expect(src.presses).To(Equal(3))
			Expect(src.closed).To(Equal(1))
			Expect(p.State().Paused()).To(BeFalse())
		})

		It("fails without rendering when the input cannot be opened", func() {
			opts := fastOptions()
			opts.Mode = ModeInteractive
			opts.Input = func() (KeySource, error) { return nil, errors.New("not a tty") }
			p := New(armModel(), armTable(3), renderer, opts)

			Expect(p.Run(ctx)).To(MatchError(ContainSubstring("open input")))
			Expect(renderer.shown).To(BeEmpty())
		})
	})

	Describe("Open", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "posereplay")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, dir)
			Expect(os.WriteFile(filepath.Join(dir, "arm.urdf"), []byte(armURDF), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dir, "wave.csv"), []byte("x,y,z,r,p,yaw,s,e\n0,0,1,0,0,0,0.1,0.2\n"), 0o644)).To(Succeed())
		})

		It("loads a model and a matching table", func() {
			model, tbl, err := Open(filepath.Join(dir, "arm.urdf"), filepath.Join(dir, "wave.csv"), robot.Options{FloatingBase: true}, motion.Options{})

			Expect(err).NotTo(HaveOccurred())
			Expect(New(model, tbl, renderer, fastOptions()).Validate()).To(Succeed())
		})

		It("fails with file-not-found for a missing motion file", func() {
			_, _, err := Open(filepath.Join(dir, "arm.urdf"), filepath.Join(dir, "missing.csv"), robot.Options{FloatingBase: true}, motion.Options{})

			Expect(err).To(MatchError(mocap.ErrFileNotFound))
			Expect(err.Error()).To(ContainSubstring("missing.csv"))
			Expect(renderer.initialized).To(BeZero())
			Expect(renderer.shown).To(BeEmpty())
		})

		It("fails with file-not-found for a missing model", func() {
			_, _, err := Open(filepath.Join(dir, "g1.urdf"), filepath.Join(dir, "wave.csv"), robot.Options{FloatingBase: true}, motion.Options{})

			Expect(err).To(MatchError(mocap.ErrFileNotFound))
		})
	})
})
