// Package hotreload runs a game whose logic lives in a module file that can
// be rebuilt while the game is running.
//
// The engine polls input, a loader watches the module file, and a fixed-tick
// loop swaps the running game for a freshly loaded one whenever the file
// changes. Game modules are WebAssembly core modules executed by wazero, so
// a replaced module is fully unloaded.
//
// # Architecture Overview
//
//	hotreload/
//	├── event/           Closed set of abstract input events
//	├── engine/          Input backends, key bindings, engine lifecycle
//	├── game/            Contract between the loop and a game
//	├── abi/             Export and import names of game modules
//	├── runtime/         Module loading, ABI validation, game instances
//	├── gamemod/         Assembler for game module binaries
//	├── reload/          File watcher and transactional module swap
//	├── driver/          The tick loop
//	├── config/          Defaults, YAML file and environment layering
//	├── errors/          Structured error types
//	└── cmd/hotreload/   Command line
//
// # Quick Start
//
//	hotreload build-game --out libgame.wasm
//	hotreload run --source libgame.wasm --backend tui
//
// and in another shell, while run is active:
//
//	hotreload build-game --glyphs '.oOo' --out libgame.wasm
//
// # Tick
//
// Every tick the loop asks the loader for a new game, initializes it if one
// arrived, drains all pending input into OnEvent, then calls Update and
// Render. TurnOff ends the loop before Update.
//
// # Reload
//
// The loader waits for the module's modification time to settle, copies it
// to a staging path and loads the copy. The previous game stays live until
// the new one has been created; only then is the old game destroyed and its
// module closed. A failed reload is logged and retried on the next tick.
package hotreload
