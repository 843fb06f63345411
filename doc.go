// Package showroom is an interactive 3D model viewer for [Ebitengine].
//
// A [Scene] owns a perspective camera with orbit controls, a ground plane,
// hemisphere and directional lights, and a node tree into which glTF models
// are loaded. An [Interaction] tracks the pointer against one model: it casts
// a ray every frame, reports hover enter and leave, shows a tooltip [Panel]
// next to the pointer, and dispatches clicks to a [ClickHandler].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := showroom.NewScene()
//	scene.LoadModelAsync("coupe.glb", func(car *showroom.Node) {
//		scene.Add(car)
//		scene.NewInteraction(car, showroom.InteractionOptions{
//			PanelText: "Click to interact",
//			Hover:     showroom.NewHighlighter(car, showroom.HighlightColor),
//			Click:     showroom.NewFlash(scene, car, showroom.FlashColor),
//		})
//	}, nil)
//	showroom.Run(scene, showroom.RunConfig{Title: "Showroom", Width: 1024, Height: 640})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update], [Scene.Draw] and [Scene.Resize] directly. In that case
// the scene reads no physical input; feed it with [Scene.InjectHover] and
// friends.
//
// # Configuration
//
// [NewScene] merges any number of [ConfigPatch] values over [DefaultConfig].
// A patch only names what it changes, so
//
//	scene.UpdateConfig(showroom.ConfigPatch{
//		Ground: &showroom.GroundPatch{Visible: showroom.Ptr(false)},
//	})
//
// hides the ground and leaves everything else alone. [ParsePatch] and
// [LoadConfig] read the same structure from YAML or JSON.
//
// # Hover and click
//
// Each frame the scene processes input, updates the orbit controls, runs
// tweens and timers, then ticks every interaction. A tick recomputes the
// nearest intersection under the pointer even if the pointer did not move,
// because a moving camera changes what is under it. Moving from one object
// to another fires leave for the old object before enter for the new one.
//
// [Highlighter], [Flash] and [DoorToggle] are ready-made behaviors; anything
// with an OnClick method can be a click handler and can be swapped at run
// time with [Interaction.SetClickHandler].
//
// # Teardown
//
// [Scene.Dispose] removes every handler, cancels scheduled tasks, tweens and
// model loads, and releases all nodes. No callback fires afterwards.
//
// # Automated testing
//
// [LoadTestScript] reads a list of steps (hover, click, drag, wait,
// trigger_click, click_handler, config, screenshot) that a [TestRunner]
// feeds to the scene frame by frame.
//
// [Ebitengine]: https://ebitengine.org
package showroom
