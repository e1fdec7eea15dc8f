package main

import (
	"context"
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/annel0/voxel-engine/internal/app"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/game"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/render/glrender"
)

func init() {
	// GLFW и OpenGL должны работать в главном потоке
	runtime.LockOSThread()
}

// keyBindings сопоставляет клавиши GLFW клавишам движения
var keyBindings = map[glfw.Key]input.Key{
	glfw.KeyW:         input.KeyForward,
	glfw.KeyUp:        input.KeyForward,
	glfw.KeyS:         input.KeyBackward,
	glfw.KeyDown:      input.KeyBackward,
	glfw.KeyA:         input.KeyLeft,
	glfw.KeyLeft:      input.KeyLeft,
	glfw.KeyD:         input.KeyRight,
	glfw.KeyRight:     input.KeyRight,
	glfw.KeySpace:     input.KeyJump,
	glfw.KeyLeftShift: input.KeyDown,
}

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию VOXEL_CONFIG)")
	flag.Parse()

	if err := logging.InitDefaultLogger("voxel"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	ctx := context.Background()
	services, err := app.Start(ctx, cfg, "voxel-engine")
	if err != nil {
		log.Fatalf("❌ Ошибка запуска сервисов: %v", err)
	}
	defer func() {
		if err := services.Close(ctx); err != nil {
			logging.Error("❌ Ошибка остановки сервисов: %v", err)
		}
	}()

	if err := glfw.Init(); err != nil {
		log.Fatalf("❌ Ошибка инициализации GLFW: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		log.Fatalf("❌ Ошибка создания окна: %v", err)
	}
	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := glrender.Init(); err != nil {
		log.Fatalf("❌ Ошибка инициализации OpenGL: %v", err)
	}
	renderer, err := glrender.NewRenderer(cfg.World.GetSeed())
	if err != nil {
		log.Fatalf("❌ Ошибка создания рендерера: %v", err)
	}
	defer renderer.Close()

	session, err := game.NewSession(cfg, glrender.NewUploader(), services.SessionOptions()...)
	if err != nil {
		log.Fatalf("❌ Ошибка создания сессии: %v", err)
	}
	defer session.Cache.Clear()

	if err := services.ServeDebug(cfg.Debug.GetAPIAddr(), session); err != nil {
		logging.Error("❌ %v", err)
	}

	bindInput(window, session, renderer)

	fbWidth, fbHeight := window.GetFramebufferSize()
	renderer.Resize(fbWidth, fbHeight)
	session.Camera.SetAspect(fbWidth, fbHeight)

	logging.Info("🎮 Движок запущен: окно %dx%d, сессия %s", cfg.Window.Width, cfg.Window.Height, session.ID)

	last := time.Now()
	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if err := session.Update(ctx, dt); err != nil {
			logging.Warn("⚠️ Шаг выполнен с ошибками: %v", err)
		}
		renderer.Draw(session.Cache, session.Camera, session.Selected)

		window.SwapBuffers()
		glfw.PollEvents()
	}

	logging.Info("👋 Движок остановлен")
}

// bindInput подключает обработчики клавиатуры, мыши и окна к сессии
func bindInput(window *glfw.Window, session *game.Session, renderer *glrender.Renderer) {
	captured := true
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	lastX, lastY := window.GetCursorPos()
	firstMove := true

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		pressed := action == glfw.Press

		if k, ok := keyBindings[key]; ok {
			session.Controller.HandleKey(k, pressed)
			return
		}
		if !pressed {
			return
		}

		switch key {
		case glfw.KeyEscape:
			if captured {
				captured = false
				w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
			} else {
				w.SetShouldClose(true)
			}
		case glfw.KeyF:
			fly := session.ToggleFly()
			logging.Info("✈️ Режим полёта: %v", fly)
		case glfw.KeyTab:
			logging.Info("🧱 В руке: %s", session.CycleHeld())
		}
	})

	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if firstMove {
			lastX, lastY = x, y
			firstMove = false
		}
		dx, dy := x-lastX, y-lastY
		lastX, lastY = x, y
		if captured {
			session.Controller.HandleMouse(dx, dy, session.Camera)
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		if !captured {
			captured = true
			firstMove = true
			w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			return
		}
		switch button {
		case glfw.MouseButtonLeft:
			session.BreakBlock()
		case glfw.MouseButtonRight:
			session.PlaceBlock()
		}
	})

	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if yoff != 0 {
			session.CycleHeld()
		}
	})

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if width == 0 || height == 0 {
			return
		}
		renderer.Resize(width, height)
		session.Camera.SetAspect(width, height)
	})

	window.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			session.Controller.Reset()
		}
	})
}
