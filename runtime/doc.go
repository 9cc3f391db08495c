// Package runtime loads game modules and drives the games they create.
//
// A game module is a WebAssembly core module implementing the ABI described
// in package abi. The runtime compiles it with wazero, checks every required
// export against its signature before anything runs, instantiates it under a
// unique name, and rejects it unless the version export reports abi.Version.
//
// # Quick Start
//
//	rt, err := runtime.New(ctx, runtime.WithScreen(os.Stdout))
//	if err != nil {
//	    return err
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadModule(ctx, wasmBytes)
//	if err != nil {
//	    return err
//	}
//	defer mod.Close(ctx)
//
//	g, err := mod.NewGame(ctx, uint32(caps))
//	if err != nil {
//	    return err
//	}
//	defer g.Destroy(ctx)
//
//	g.Initialize(ctx)
//	g.Update(ctx)
//	g.Render(ctx)
//
// # Host Functions
//
// Modules may import the "engine" namespace:
//
//	write(ptr i32, len i32)    copy guest memory to the screen
//
// # Lifetimes
//
// A Game must be destroyed before its Module is closed. Closing a Module
// invalidates every Game it created; closing the Runtime closes every
// Module. Errors raised inside guest code surface as Trap errors and leave
// the module usable.
//
// # Thread Safety
//
// Runtime is safe for concurrent use. Module and Game are not; drive them
// from one goroutine.
package runtime
