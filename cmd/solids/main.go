// solids - procedural solids rendered through a z-buffered perspective rasterizer.
//
// Commands:
//
//	render   Rasterize the scene at every configured resolution (default)
//	export   Write the placed scene geometry as GLB, STL or OBJ
//	preview  Orbit the scene in the terminal
//	info     Summarize the scene, or a GLB/STL/OBJ file
//	config   Print the effective configuration as YAML
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/solids/pkg/export"
	"github.com/taigrr/solids/pkg/models"
	"github.com/taigrr/solids/pkg/preview"
	"github.com/taigrr/solids/pkg/render"
	"github.com/taigrr/solids/pkg/scene"
)

type options struct {
	configPath  string
	outDir      string
	format      string
	resolutions []string
	density     int
	tolerance   float64
	verbose     bool
	fps         float64
	ascii       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "solids",
		Short: "Render procedural solids with a z-buffered rasterizer",
		Long: `solids - procedural solids rendered through a z-buffered perspective rasterizer.

Builds a cube, a torus and a Hermite-swept hollow tube, places them in a world
scene, and rasterizes the scene from a pinhole camera with hidden-surface
removal and a depth-tolerant wireframe overlay.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.verbose {
				log.SetLogLevel(log.Debug)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML scene config (overlays the defaults)")
	pf.StringVarP(&opts.outDir, "out", "o", "", "Output directory for rendered images")
	pf.StringVarP(&opts.format, "format", "f", "", "Image format: "+strings.Join(export.Formats, ", "))
	pf.StringSliceVarP(&opts.resolutions, "res", "r", nil, "Resolutions as N or WxH (repeatable)")
	pf.IntVar(&opts.density, "density", 0, "Subdivision passes for the tube")
	pf.Float64Var(&opts.tolerance, "tolerance", 0, "Depth tolerance of the wireframe overlay")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "render",
			Short: "Rasterize the scene at every configured resolution",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runRender(cmd, opts)
			},
		},
		newExportCmd(opts),
		newPreviewCmd(opts),
		&cobra.Command{
			Use:   "info [model.glb|model.stl|model.obj]",
			Short: "Summarize the scene, or a GLB/STL/OBJ file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					return runFileInfo(cmd.OutOrStdout(), args[0])
				}
				return runSceneInfo(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "config",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig(cmd, opts)
				if err != nil {
					return err
				}
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)
	return root
}

func newExportCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <scene.glb|scene.stl|scene.obj>",
		Short: "Write the placed scene geometry as GLB, STL or OBJ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			s, err := scene.Build(cfg)
			if err != nil {
				return err
			}
			var p scene.Presenter
			switch ext := strings.ToLower(filepath.Ext(args[0])); ext {
			case ".glb":
				p = &export.GLTFPresenter{Path: args[0]}
			case ".stl":
				p = &export.STLPresenter{Path: args[0], ASCII: opts.ascii}
			case ".obj":
				p = &export.OBJPresenter{Path: args[0]}
			default:
				return fmt.Errorf("unsupported export format: %s (use .glb, .stl or .obj)", ext)
			}
			return p.Present(cmd.Context(), s.Objects)
		},
	}
	cmd.Flags().BoolVar(&opts.ascii, "ascii", false, "Write ASCII instead of binary STL")
	return cmd
}

func newPreviewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Orbit the scene in the terminal",
		Long: `Orbit the scene in the terminal.

Controls:
  A/D, arrows  - Orbit left/right
  W/S          - Orbit up/down
  +/-          - Zoom
  X            - Toggle wireframe
  Space        - Toggle auto spin
  R            - Reset view
  ?            - Toggle HUD
  Q, Esc       - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			s, err := scene.Build(cfg)
			if err != nil {
				return err
			}
			r, err := s.Renderer()
			if err != nil {
				return err
			}
			t := &preview.Terminal{Renderer: r, FPS: opts.fps}
			return t.Present(cmd.Context(), s.Objects)
		},
	}
	cmd.Flags().Float64Var(&opts.fps, "fps", 30, "Target FPS")
	return cmd
}

// loadConfig layers the config file over the defaults and the flags that
// were set on the command line over both.
func loadConfig(cmd *cobra.Command, opts *options) (scene.Config, error) {
	cfg := scene.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = scene.LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
		log.LogVf("Loaded config %s", opts.configPath)
	}
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output.Dir = opts.outDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("density") {
		cfg.Tube.Density = opts.density
	}
	if flags.Changed("tolerance") {
		cfg.EdgeTolerance = opts.tolerance
	}
	if flags.Changed("res") {
		cfg.Resolutions = cfg.Resolutions[:0:0]
		for _, s := range opts.resolutions {
			res, err := parseResolution(s)
			if err != nil {
				return cfg, err
			}
			cfg.Resolutions = append(cfg.Resolutions, res)
		}
	}
	return cfg, cfg.Validate()
}

// parseResolution accepts "N" for an NxN square or "WxH".
func parseResolution(s string) (render.Resolution, error) {
	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !found {
		h = w
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return render.Resolution{}, fmt.Errorf("resolution %q: %w", s, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return render.Resolution{}, fmt.Errorf("resolution %q: %w", s, err)
	}
	if width <= 0 || height <= 0 {
		return render.Resolution{}, fmt.Errorf("resolution %q must be positive: %w", s, scene.ErrInvalidConfig)
	}
	return render.Resolution{Width: width, Height: height}, nil
}

func runRender(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	s, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	r, err := s.Renderer()
	if err != nil {
		return err
	}
	enc, err := export.NewFileEncoder(cfg.Output.Dir, cfg.Output.Format)
	if err != nil {
		return err
	}
	st := s.Stats()
	log.Infof("Rendering %d objects (%d triangles) at %d resolutions into %s",
		st.Objects, st.Triangles, len(cfg.Resolutions), cfg.Output.Dir)
	start := time.Now()
	if err := r.RenderResolutions(cmd.Context(), s.RenderObjects(), cfg.Resolutions, enc); err != nil {
		return err
	}
	log.Infof("Done in %v", time.Since(start))
	return nil
}

func runSceneInfo(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	s, err := scene.Build(cfg)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, o := range s.Objects {
		lo, hi := o.Mesh.Bounds()
		fmt.Fprintf(w, "%-16s %-15s %s  %6d vertices %6d triangles %3d edges  (%.3f, %.3f, %.3f)..(%.3f, %.3f, %.3f)\n",
			o.Name, o.Kind, o.Color.Hex(), o.Mesh.VertexCount(), o.Mesh.TriangleCount(), o.Mesh.EdgeCount(),
			lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
	}
	st := s.Stats()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Objects:    %d\n", st.Objects)
	fmt.Fprintf(w, "Vertices:   %d\n", st.Vertices)
	fmt.Fprintf(w, "Triangles:  %d\n", st.Triangles)
	cam := cfg.Camera
	fmt.Fprintf(w, "Camera:     eye %v look_at %v up %v\n", cam.Eye, cam.LookAt, cam.Up)
	return nil
}

func runFileInfo(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	var meshes []*models.Mesh
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".glb", ".gltf":
		if meshes, err = export.ReadGLTF(path); err != nil {
			return fmt.Errorf("load model: %w", err)
		}
	case ".stl":
		m, err := export.ReadSTL(path)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		meshes = []*models.Mesh{m}
	case ".obj":
		if meshes, err = export.ReadOBJ(path); err != nil {
			return fmt.Errorf("load model: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s (use .glb, .stl or .obj)", ext)
	}

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(w, "Format:     %s\n", strings.ToUpper(strings.TrimPrefix(ext, ".")))
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(w)
	for _, m := range meshes {
		lo, hi := m.Bounds()
		size := hi.Sub(lo)
		fmt.Fprintf(w, "Mesh:       %s\n", m.Name)
		fmt.Fprintf(w, "Vertices:   %d\n", m.VertexCount())
		fmt.Fprintf(w, "Triangles:  %d\n", m.TriangleCount())
		fmt.Fprintf(w, "Edges:      %d\n", m.EdgeCount())
		fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
		fmt.Fprintln(w)
	}
	return nil
}
