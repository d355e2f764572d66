package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/spf13/cobra"

	"github.com/gogpu/scenecap"
	"github.com/gogpu/scenecap/editor"
	"github.com/gogpu/scenecap/editor/memedit"
	"github.com/gogpu/scenecap/internal/config"
)

// errFailed makes the command exit non-zero after the error line has
// already been printed.
var errFailed = errors.New("capture failed")

type app struct {
	cfgFile string
	cfg     *config.Config
}

type captureFlags struct {
	camera   string
	width    int
	height   int
	position string
	rotation string
	extra    float32
	ui       string
	front    bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "scenecap",
		Short:         "Capture editor scenes, game views and templates to PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New(a.cfgFile)
			if err != nil {
				return err
			}
			for _, key := range []string{"scene", "project_root"} {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-"))); err != nil {
					return err
				}
			}
			cfg, err := config.Decode(v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			scenecap.SetLogger(cfg.Logger(cmd.ErrOrStderr()))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./.scenecap.yaml or $HOME/.scenecap.yaml)")
	pf.String("scene", "scene.yaml", "editor session fixture")
	pf.String("project-root", ".", "directory the SceneCapture folder is created in")

	root.AddCommand(
		a.captureCmd("scene", "Capture a camera's view of the scene", "scene", false),
		a.captureCmd("gameview", "Capture the next game view frame", "gameview", false),
		a.captureCmd("template <asset-path>", "Capture an object template from the front", "template", true),
		&cobra.Command{
			Use:   "list",
			Short: "List written captures",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.run(cmd, "list", scenecap.Request{})
			},
		},
	)
	return root
}

func (a *app) captureCmd(use, short, action string, template bool) *cobra.Command {
	var f captureFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			if template {
				req.Template = args[0]
			}
			return a.run(cmd, action, req)
		},
	}
	if template {
		cmd.Args = cobra.ExactArgs(1)
	}

	fl := cmd.Flags()
	fl.StringVar(&f.camera, "camera", "", "source camera name (default: main camera)")
	fl.IntVar(&f.width, "width", 0, "output width in pixels (default from config)")
	fl.IntVar(&f.height, "height", 0, "output height in pixels (default from config)")
	fl.StringVar(&f.position, "position", "", "camera position override x,y,z")
	fl.StringVar(&f.rotation, "rotation", "", "camera rotation override x,y,z in degrees")
	if template {
		fl.Float32Var(&f.extra, "extra-distance", 0, "added to the framed view size")
		fl.StringVar(&f.ui, "ui", "", "treat the template as UI: true, false or empty to detect")
		fl.BoolVar(&f.front, "front", false, "force automatic front-view framing")
	}
	return cmd
}

func (f captureFlags) request() (scenecap.Request, error) {
	req := scenecap.Request{
		Camera:        f.camera,
		Width:         f.width,
		Height:        f.height,
		ExtraDistance: f.extra,
		FrontView:     f.front,
	}
	var err error
	if req.Position, err = parseVec3("position", f.position); err != nil {
		return req, err
	}
	if req.Rotation, err = parseVec3("rotation", f.rotation); err != nil {
		return req, err
	}
	if req.UI, err = editor.ParseTristate(f.ui); err != nil {
		return req, err
	}
	return req, nil
}

func (a *app) run(cmd *cobra.Command, action string, req scenecap.Request) error {
	ed, err := memedit.LoadFile(a.cfg.Scene)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	s, err := scenecap.New(ed.Host(), a.cfg.Options()...)
	if err != nil {
		return err
	}

	out := s.Execute(context.Background(), action, req)
	// Let an in-flight game view write finish before the process exits.
	_, _ = ed.WaitGameView()

	fmt.Fprintln(cmd.OutOrStdout(), out)
	if strings.HasPrefix(out, "Error:") {
		return errFailed
	}
	return nil
}

// parseVec3 reads "x,y,z". Empty means not set.
func parseVec3(name, s string) (*math32.Vector3, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, &editor.ArgumentError{Name: name, Value: s, Reason: "want x,y,z"}
	}
	var xyz [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, &editor.ArgumentError{Name: name, Value: s, Reason: err.Error()}
		}
		xyz[i] = float32(f)
	}
	v := math32.Vec3(xyz[0], xyz[1], xyz[2])
	return &v, nil
}
