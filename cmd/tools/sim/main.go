package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-engine/internal/app"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/game"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config path (defaults to VOXEL_CONFIG)")
		steps      = flag.Int("steps", 600, "Number of simulation steps")
		dt         = flag.Duration("dt", 16*time.Millisecond, "Step duration")
		script     = flag.String("script", "walk", "Input script: idle, walk, dig, fly")
		every      = flag.Int("every", 30, "Break/place interval in steps for the dig script")
		serve      = flag.String("serve", "", "Debug API address; keeps the process alive after the run")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()
	services, err := app.Start(ctx, cfg, "voxel-sim")
	if err != nil {
		log.Fatalf("❌ Failed to start services: %v", err)
	}
	defer func() {
		if err := services.Close(ctx); err != nil {
			logging.Error("❌ Failed to stop services: %v", err)
		}
	}()

	uploader := render.NewMemoryUploader()
	session, err := game.NewSession(cfg, uploader, services.SessionOptions()...)
	if err != nil {
		log.Fatalf("❌ Failed to create session: %v", err)
	}

	addr := *serve
	if addr == "" {
		addr = cfg.Debug.GetAPIAddr()
	}
	if err := services.ServeDebug(addr, session); err != nil {
		log.Fatalf("❌ %v", err)
	}

	if *script == "fly" {
		session.ToggleFly()
	}

	start := time.Now()
	var broken, placed, failedSteps int
	for i := 0; i < *steps; i++ {
		apply(session, *script, i)

		if err := session.Update(ctx, float32(dt.Seconds())); err != nil {
			failedSteps++
			logging.Warn("⚠️ Step %d: %v", i, err)
		}

		if *script == "dig" && *every > 0 && i%*every == 0 {
			if i%(2*(*every)) == 0 {
				if session.BreakBlock() {
					broken++
				}
			} else if session.PlaceBlock() {
				placed++
			}
		}
	}
	elapsed := time.Since(start)

	snap := session.Snapshot()
	fmt.Printf("session      %s\n", snap.SessionID)
	fmt.Printf("steps        %d in %v (%v/step)\n", snap.Step, elapsed, elapsed/time.Duration(max(*steps, 1)))
	fmt.Printf("position     %.3f %.3f %.3f (on ground: %v)\n", snap.Position.X(), snap.Position.Y(), snap.Position.Z(), snap.OnGround)
	fmt.Printf("chunks       %d loaded, %d meshes, %d vertices\n", snap.ChunksLoaded, snap.MeshesCached, snap.VerticesCached)
	fmt.Printf("uploads      %d (%d released, %d live)\n", uploader.Uploads(), uploader.Releases(), uploader.Live())
	fmt.Printf("voxel writes %d (broken %d, placed %d)\n", snap.VoxelWrites, broken, placed)
	if snap.Selected != nil {
		fmt.Printf("selected     %v normal %v at %.2f\n", snap.Selected.Position, snap.Selected.Normal, snap.Selected.Distance)
	}
	if failedSteps > 0 {
		fmt.Printf("failed steps %d\n", failedSteps)
	}

	if addr != "" {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		logging.Info("📡 Waiting for signal, debug API at %s", addr)
		<-sigCh
	}
}

// apply задаёт состояние клавиш для шага i сценария
func apply(session *game.Session, script string, i int) {
	c := session.Controller
	c.Reset()

	switch script {
	case "walk", "fly":
		c.HandleKey(input.KeyForward, true)
		// Каждые две секунды поворот на четверть оборота
		if i%120 == 119 {
			session.Camera.Rotate(1.5708, 0)
		}
		if script == "walk" && i%90 == 0 {
			c.HandleKey(input.KeyJump, true)
		}
	case "dig":
		// Смотреть под ноги, чтобы рейкаст попадал в землю
		session.Camera.SetPitch(-1.2)
	}
}
