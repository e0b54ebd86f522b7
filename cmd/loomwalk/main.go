// Command loomwalk runs the character controller in a small level, either
// headless from a scripted timeline or from a window's keyboard and mouse.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"

	"LoomWalker/internal/behaviour"
	"LoomWalker/internal/character"
	"LoomWalker/internal/engine"
	"LoomWalker/internal/input"
	"LoomWalker/internal/loader"
	"LoomWalker/internal/logger"
	"LoomWalker/internal/physics"
	"LoomWalker/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const spawnHeight = 3

type options struct {
	config string
	model  string
	level  string
	frames int
	window bool
	watch  bool
	debug  bool
	seed   int64
	width  int
	height int
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.config, "config", "", "tuning YAML file")
	flag.StringVar(&o.model, "model", loader.BuiltinCapsule, "character model OBJ file")
	flag.StringVar(&o.level, "level", "", "optional level OBJ file added as static geometry")
	flag.IntVar(&o.frames, "frames", 600, "frames to simulate in headless mode")
	flag.BoolVar(&o.window, "window", false, "drive the character from a window instead of the script")
	flag.BoolVar(&o.watch, "watch", false, "reload -config when it changes")
	flag.BoolVar(&o.debug, "debug", false, "debug logging")
	flag.Int64Var(&o.seed, "seed", 7, "terrain noise seed")
	flag.IntVar(&o.width, "width", 1280, "window width")
	flag.IntVar(&o.height, "height", 720, "window height")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()
	if o.debug {
		logger.InitWithLevel(zapcore.DebugLevel)
	} else {
		logger.Init()
	}
	defer logger.Sync()

	if err := run(o); err != nil {
		logger.Log.Error("loomwalk failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(o options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tuning := character.DefaultTuning()
	if o.config != "" {
		t, err := character.LoadTuning(o.config)
		if err != nil {
			return err
		}
		tuning = t
	}

	provider, err := loader.NewAsyncProvider(runtime.NumCPU())
	if err != nil {
		return err
	}
	defer provider.Release()
	provider.RecalculateNormals = true
	provider.Capsule = loader.CapsuleSize{Radius: tuning.CapsuleRadius, Height: tuning.CapsuleHeight}

	world := physics.NewSimpleWorld(physics.DefaultGravity)
	if err := buildLevel(ctx, world, provider, o.level, o.seed); err != nil {
		return err
	}

	camera := renderer.NewDefaultCamera(int32(o.height), int32(o.width))

	var (
		win      *engine.Window
		src      input.Source
		scripted *input.ScriptedSource
	)
	if o.window {
		win, err = engine.OpenWindow(int32(o.width), int32(o.height), "LoomWalker")
		if err != nil {
			return err
		}
		defer win.Close()
		win.OnResize(func(w, h int32) {
			camera.SetAspectRatio(float32(w) / float32(h))
		})
		src = win.Input()
	} else {
		scripted = input.NewScriptedSource()
		scripted.Play(demoScript())
		src = scripted
	}

	scene := character.Scene{World: world, Camera: camera, Provider: provider, Input: src}
	res := <-character.CreateAsync(ctx, scene, character.Options{
		Name:      "Player",
		ModelPath: o.model,
		Position:  mgl32.Vec3{0, spawnHeight, 0},
		Tuning:    tuning,
	})
	if res.Err != nil {
		return res.Err
	}
	player := res.Controller
	defer player.Close()

	if o.watch && o.config != "" {
		watcher, err := character.WatchTuning(o.config)
		if err != nil {
			return err
		}
		defer watcher.Close()
		player.WatchTuning(watcher.Updates())
	}

	manager := behaviour.NewComponentManager()
	manager.RegisterGameObject(player.GameObject())
	loop := engine.NewLoop(manager, world)
	loop.OnFrame(func(float32) {
		if loop.Frame()%60 == 0 {
			logger.Log.Debug("Frame",
				zap.Uint64("frame", loop.Frame()),
				zap.Stringer("state", player.State()),
				zap.String("camera", player.Camera().Pose()),
				zap.Bool("camera_crowded", player.Rig().Crowded()))
		}
	})

	if o.window {
		runWindow(ctx, win, loop, player, src)
	} else {
		err = loop.RunFixed(ctx, o.frames, 1.0/60.0, func(int) bool {
			scripted.Advance()
			return true
		})
		if err != nil && ctx.Err() == nil {
			return err
		}
	}

	pos := player.Transform().Position
	logger.Log.Info("Session finished",
		zap.Uint64("frames", loop.Frame()),
		zap.Stringer("state", player.State()),
		zap.Float32("x", pos.X()),
		zap.Float32("y", pos.Y()),
		zap.Float32("z", pos.Z()),
		zap.Float32("camera_distance", player.Rig().Distance()),
		zap.Bool("disabled", player.Disabled()))
	return nil
}

// windowKeys turns held keys into one-shot session actions.
type windowKeys struct {
	poseWasDown bool
}

func (k *windowKeys) poll(src input.Source) (quit, logPose bool) {
	poseDown := src.KeyDown(input.KeyP)
	logPose = poseDown && !k.poseWasDown
	k.poseWasDown = poseDown
	return src.KeyDown(input.KeyEscape), logPose
}

func runWindow(ctx context.Context, win *engine.Window, loop *engine.Loop, player *character.Controller, src input.Source) {
	win.CaptureCursor(true)
	defer win.CaptureCursor(false)

	var keys windowKeys
	win.Run(loop, func(float32) bool {
		quit, logPose := keys.poll(src)
		if quit || ctx.Err() != nil {
			win.SetShouldClose()
			return true
		}
		if logPose {
			cam := player.Camera()
			logger.Log.Info("Camera pose",
				zap.String("pose", cam.Pose()),
				zap.Any("view", cam.GetViewMatrix()),
				zap.Any("view_projection", cam.ViewProjectionLinmath()))
		}
		return true
	})
}
