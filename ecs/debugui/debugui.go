// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/invaders/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Hosts consult it before forwarding keyboard input to the simulation.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay toggles the whole debug overlay.
type Overlay struct {
	Visible bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions
// so they run after the tick's structural changes have been flushed.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
	Overlay    ecs.Singleton[Overlay]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	if overlay := i.Overlay.Get(); overlay != nil && !overlay.Visible {
		return
	}

	for _, item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
}

// Install registers the overlay components, spawns the standard panels and adds
// the ImguiSystem to the scheduler. It must be called before the first tick.
func Install(registry *ecs.ComponentRegistry, storage *ecs.Storage, scheduler *ecs.Scheduler) {
	ecs.RegisterComponent[ImguiItem](registry)

	ecs.NewSingleton[ImguiInputState](storage)
	ecs.NewSingleton[Overlay](storage, Overlay{Visible: true})

	stats := NewPerformanceStats(120)
	browser := NewEntityBrowser(100)
	timer := NewFrameTimer()

	storage.Spawn(ImguiItem{Render: func() {
		stats.Render(storage, scheduler, timer.GetDeltaTime())
	}})
	storage.Spawn(ImguiItem{Render: func() {
		browser.Render(storage)
	}})

	scheduler.Register(&ImguiSystem{})
}
