package logging

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Component - подсистема движка со своим логгером и префиксом в сообщениях
type Component string

const (
	ComponentWorld  Component = "world"  // загрузка чанков, генерация, события мира
	ComponentRender Component = "render" // кэш мешей, загрузка геометрии, OpenGL
	ComponentGame   Component = "game"   // шаг сессии, действия игрока
	ComponentAPI    Component = "api"    // отладочный HTTP API
)

// componentLoggers хранит логгеры подсистем. Уровень консоли общий для всех:
// SetLevel меняет и логгер по умолчанию, и уже созданные логгеры подсистем.
var componentLoggers = struct {
	mu      sync.Mutex
	loggers map[Component]*Logger
	level   LogLevel
}{
	loggers: make(map[Component]*Logger),
	level:   INFO,
}

// For возвращает логгер подсистемы, создавая его при первом обращении.
// Если файл логов открыть не удалось, подсистема пишет только в консоль.
func For(c Component) *Logger {
	componentLoggers.mu.Lock()
	defer componentLoggers.mu.Unlock()

	if logger, ok := componentLoggers.loggers[c]; ok {
		return logger
	}

	logger, err := NewLogger(string(c))
	if err != nil {
		current().Warn("Файл логов для %s недоступен, только консоль: %v", c, err)
		logger = &Logger{
			component:     string(c),
			consoleLogger: current().consoleLogger,
			minFileLevel:  ERROR,
		}
	}
	logger.minConsoleLevel = componentLoggers.level
	componentLoggers.loggers[c] = logger
	return logger
}

// Components возвращает подсистемы, для которых уже создан логгер, в алфавитном порядке
func Components() []Component {
	componentLoggers.mu.Lock()
	defer componentLoggers.mu.Unlock()

	out := make([]Component, 0, len(componentLoggers.loggers))
	for c := range componentLoggers.loggers {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// setComponentsLevel применяет уровень консоли ко всем подсистемам, включая будущие
func setComponentsLevel(level LogLevel) {
	componentLoggers.mu.Lock()
	defer componentLoggers.mu.Unlock()

	componentLoggers.level = level
	for _, logger := range componentLoggers.loggers {
		logger.SetLevel(level)
	}
}

// closeComponents закрывает файлы подсистем и забывает их логгеры
func closeComponents() error {
	componentLoggers.mu.Lock()
	defer componentLoggers.mu.Unlock()

	var errs []error
	for c, logger := range componentLoggers.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s log: %w", c, err))
		}
	}
	clear(componentLoggers.loggers)
	return errors.Join(errs...)
}

func GetWorldLogger() *Logger  { return For(ComponentWorld) }
func GetRenderLogger() *Logger { return For(ComponentRender) }
func GetGameLogger() *Logger   { return For(ComponentGame) }
func GetAPILogger() *Logger    { return For(ComponentAPI) }
