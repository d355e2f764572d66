// Package scenecap captures pixel-accurate snapshots of a 3D editing
// environment for automation agents.
//
// # Overview
//
// A [Session] drives three captures against an editor host:
//
//   - [Session.Scene] renders a camera's view of the scene through a
//     duplicate of that camera.
//   - [Session.GameView] asks the live game view to write its next frame and
//     waits, boundedly, for the file.
//   - [Session.Template] opens an object template in its own edit context,
//     frames it from the front (3D meshes or flat UI layouts) and renders it
//     over a solid backdrop.
//
// Every capture runs inside a guarded scope. The interactive view pose, the
// main camera designation and the open template are put back exactly as they
// were, and every temporary node is destroyed, whether the capture succeeds,
// fails or panics. Only the written PNG outlives the call.
//
// # Quick Start
//
//	ed, _ := memedit.LoadFile("scene.yaml")
//	s, err := scenecap.New(ed.Host(), scenecap.WithProjectRoot("."))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(s.Execute(ctx, "scene", scenecap.Request{Camera: "Main Camera", Width: 800, Height: 600}))
//	// Scene captured to: /abs/path/SceneCapture/capture_20260102_150405.png
//
// # Text Boundary
//
// [Session.Execute] is the agent-facing entry point. It resolves an action
// keyword through an explicit table and always returns a single string:
// either a success line carrying the absolute output path or a one-line
// "Error: ..." message. Errors never propagate past it.
//
// # Hosts
//
// The capture core consumes the services in [editor.Host]. The editor/memedit
// package is a complete in-memory host used by the tests and the scenecap
// command.
//
// # Logging
//
// scenecap is silent by default. See [SetLogger] and [WithLogger].
package scenecap
